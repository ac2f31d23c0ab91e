package pages

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// ReplyLines are the canned answers of simulated recruiters.
var ReplyLines = []string{
	"Thanks for your message!",
	"We will get back to you shortly.",
	"Can you provide more details?",
	"Looking forward to it!",
	"Got it, thanks!",
}

// Suggestions are the quick replies offered under the composer.
var Suggestions = []string{
	"Sounds good!",
	"Thank you!",
	"Can you clarify?",
	"Looking forward!",
}

// MessagesView is the messages page.
type MessagesView struct {
	Search        string               `json:"search"`
	Conversations []model.Conversation `json:"conversations"`
	Selected      *model.Conversation  `json:"selected,omitempty"`
	Typing        bool                 `json:"typing"`
	TotalUnread   int                  `json:"totalUnread"`
	Suggestions   []string             `json:"suggestions"`
}

// MessagesPage holds the conversations and simulates recruiter replies.
type MessagesPage struct {
	base
	random   simulate.Random
	minReply time.Duration
	maxReply time.Duration

	mu            sync.Mutex
	conversations []model.Conversation
	selectedID    string
	search        string
	typing        map[string]bool
	pending       map[string]simulate.Token
}

// NewMessagesPage seeds the conversations and opens the first one.
func NewMessagesPage(d Deps) *MessagesPage {
	d = d.withDefaults()
	p := &MessagesPage{
		base:          newBase(d, "messages"),
		random:        d.Random,
		minReply:      d.Timing.ReplyMin,
		maxReply:      d.Timing.ReplyMax,
		conversations: seed.Conversations(d.Clock.Now()),
		typing:        make(map[string]bool),
		pending:       make(map[string]simulate.Token),
	}
	if len(p.conversations) > 0 {
		p.selectLocked(p.conversations[0].ID)
	}
	return p
}

func (p *MessagesPage) index(id string) int {
	return slices.IndexFunc(p.conversations, func(c model.Conversation) bool { return c.ID == id })
}

// Select opens a conversation and marks it read. The conversation is
// replaced in one step, so no reader sees it half read.
func (p *MessagesPage) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.selectLocked(id) {
		return errors.NotFound("conversation "+id, nil)
	}
	return nil
}

func (p *MessagesPage) selectLocked(id string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.selectedID = id
	p.replace(i, markRead(p.conversations[i]))
	return true
}

func markRead(c model.Conversation) model.Conversation {
	msgs := make([]model.Message, len(c.Messages))
	for i, m := range c.Messages {
		m.Read = true
		msgs[i] = m
	}
	c.Messages = msgs
	c.LastMessage = lastOf(msgs)
	c.UnreadCount = 0
	return c
}

func lastOf(msgs []model.Message) *model.Message {
	if len(msgs) == 0 {
		return nil
	}
	m := msgs[len(msgs)-1]
	return &m
}

// replace swaps conversation i for c in a fresh slice.
func (p *MessagesPage) replace(i int, c model.Conversation) {
	convs := slices.Clone(p.conversations)
	convs[i] = c
	p.conversations = convs
}

func appendMessage(c model.Conversation, m model.Message) model.Conversation {
	msgs := make([]model.Message, len(c.Messages), len(c.Messages)+1)
	copy(msgs, c.Messages)
	c.Messages = append(msgs, m)
	c.LastMessage = lastOf(c.Messages)
	return c
}

// SetSearch filters the conversation list by participant name or company.
func (p *MessagesPage) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

// Send appends text to the open conversation as the user. A reply is
// scheduled unless one is already pending for the conversation.
func (p *MessagesPage) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.Validation("message is empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(p.selectedID)
	if i < 0 {
		return errors.Validation("no conversation selected")
	}
	convID := p.selectedID
	p.replace(i, appendMessage(p.conversations[i], model.Message{
		ID:        uuid.NewString(),
		SenderID:  model.UserSenderID,
		Content:   text,
		Timestamp: p.clock.Now(),
		Read:      true,
	}))
	p.toasts.Success("Message sent!")

	if _, busy := p.pending[convID]; busy {
		return nil
	}
	if p.scope.Closed() {
		return nil
	}
	p.typing[convID] = true
	delay := simulate.Between(p.random, p.minReply, p.maxReply)
	p.pending[convID] = p.scope.After(delay, func() { p.reply(convID) })
	return nil
}

// Close tears the page down. A reply still pending is dropped and its
// conversation stops showing the typing indicator.
func (p *MessagesPage) Close() {
	p.scope.Close()
	p.mu.Lock()
	clear(p.typing)
	clear(p.pending)
	p.mu.Unlock()
}

// reply delivers a simulated answer. It lands read in the open conversation
// and unread anywhere else.
func (p *MessagesPage) reply(convID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, convID)
	delete(p.typing, convID)

	i := p.index(convID)
	if i < 0 {
		return
	}
	active := convID == p.selectedID
	c := appendMessage(p.conversations[i], model.Message{
		ID:        uuid.NewString(),
		SenderID:  p.conversations[i].Participant.ID,
		Content:   ReplyLines[p.random.IntN(len(ReplyLines))],
		Timestamp: p.clock.Now(),
		Read:      active,
	})
	if !active {
		c.UnreadCount++
	}
	p.replace(i, c)
	if active {
		p.toasts.Info(c.Participant.Name + " replied!")
	}
	p.logger.Debug("simulated reply", zap.String("conversation", convID), zap.Bool("active", active))
}

// ToggleStar flips the starred flag of a conversation.
func (p *MessagesPage) ToggleStar(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return errors.NotFound("conversation "+id, nil)
	}
	c := p.conversations[i]
	c.Starred = !c.Starred
	p.replace(i, c)
	return nil
}

// Typing reports whether the counterpart of a conversation is typing.
func (p *MessagesPage) Typing(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typing[id]
}

// View projects the page.
func (p *MessagesPage) View() MessagesView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := MessagesView{
		Search:        p.search,
		Conversations: view.Search(p.conversations, p.search, view.ConversationFields),
		Typing:        p.typing[p.selectedID],
		Suggestions:   slices.Clone(Suggestions),
	}
	for _, c := range p.conversations {
		v.TotalUnread += view.Unread(c.Messages, func(m model.Message) bool { return m.Read })
		if c.ID == p.selectedID {
			sel := c
			v.Selected = &sel
		}
	}
	return v
}
