package pages

import (
	"slices"
	"sync"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// TabUnread scopes notifications to unread ones. Any notification type is
// also a valid tab.
const TabUnread = "unread"

// NotificationsView is the notifications page.
type NotificationsView struct {
	Tab           string               `json:"tab"`
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
	Counts        map[string]int       `json:"counts"`
	Empty         string               `json:"empty,omitempty"`
}

// NotificationsPage keeps the notification list.
type NotificationsPage struct {
	base

	mu    sync.Mutex
	tab   string
	items []model.Notification
}

func NewNotificationsPage(d Deps) *NotificationsPage {
	d = d.withDefaults()
	return &NotificationsPage{
		base:  newBase(d, "notifications"),
		tab:   view.TabAll,
		items: seed.Notifications(),
	}
}

// SetTab selects all, unread or one notification type.
func (p *NotificationsPage) SetTab(tab string) {
	if tab == "" {
		tab = view.TabAll
	}
	p.mu.Lock()
	p.tab = tab
	p.mu.Unlock()
}

// update applies fn to notification id.
func (p *NotificationsPage) update(id string, fn func(*model.Notification)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(p.items, func(n model.Notification) bool { return n.ID == id })
	if i < 0 {
		return errors.NotFound("notification "+id, nil)
	}
	items := slices.Clone(p.items)
	fn(&items[i])
	p.items = items
	return nil
}

// MarkRead marks one notification read.
func (p *NotificationsPage) MarkRead(id string) error {
	return p.update(id, func(n *model.Notification) { n.Read = true })
}

// ToggleFavorite flips the favorite flag.
func (p *NotificationsPage) ToggleFavorite(id string) error {
	return p.update(id, func(n *model.Notification) { n.Favorite = !n.Favorite })
}

// MarkAllRead marks every notification read.
func (p *NotificationsPage) MarkAllRead() {
	p.mu.Lock()
	items := make([]model.Notification, len(p.items))
	for i, n := range p.items {
		n.Read = true
		items[i] = n
	}
	p.items = items
	p.mu.Unlock()
	p.toasts.Success("All notifications marked as read")
}

// Delete removes one notification. An unknown id is a no-op.
func (p *NotificationsPage) Delete(id string) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.items, func(n model.Notification) bool { return n.ID == id })
	if i < 0 {
		p.mu.Unlock()
		return nil
	}
	p.items = slices.Delete(slices.Clone(p.items), i, i+1)
	p.mu.Unlock()
	p.toasts.Success("Notification deleted")
	return nil
}

// ClearAll removes every notification.
func (p *NotificationsPage) ClearAll() {
	p.mu.Lock()
	p.items = []model.Notification{}
	p.mu.Unlock()
	p.toasts.Success("All notifications cleared")
}

// UnreadCount is the badge shown in the header.
func (p *NotificationsPage) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return view.Unread(p.items, func(n model.Notification) bool { return n.Read })
}

// View projects the page.
func (p *NotificationsPage) View() NotificationsView {
	p.mu.Lock()
	defer p.mu.Unlock()

	var list []model.Notification
	if p.tab == TabUnread {
		list = slices.DeleteFunc(slices.Clone(p.items), func(n model.Notification) bool { return n.Read })
	} else {
		list = view.Tab(p.items, p.tab, func(n model.Notification) string { return string(n.Type) })
	}
	unread := view.Unread(p.items, func(n model.Notification) bool { return n.Read })
	counts := view.CountBy(p.items, func(n model.Notification) string { return string(n.Type) })
	counts[view.TabAll] = len(p.items)
	counts[TabUnread] = unread

	v := NotificationsView{Tab: p.tab, Notifications: list, Unread: unread, Counts: counts}
	if len(list) == 0 {
		v.Empty = "You're all caught up!"
		if p.tab != view.TabAll {
			v.Empty = "No notifications in this category"
		}
	}
	return v
}
