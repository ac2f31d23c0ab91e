package simulate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a transient notice shown after an action.
type Toast struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Toaster keeps the visible toasts and dismisses each after its TTL.
type Toaster struct {
	scope *Scope
	ttl   time.Duration

	mu     sync.Mutex
	toasts []Toast
}

// NewToaster arms dismissals on scope.
func NewToaster(scope *Scope, ttl time.Duration) *Toaster {
	return &Toaster{scope: scope, ttl: ttl}
}

// Success shows a success toast.
func (t *Toaster) Success(text string) Toast { return t.push(ToastSuccess, text, t.ttl) }

// Error shows a failure toast.
func (t *Toaster) Error(text string) Toast { return t.push(ToastError, text, t.ttl) }

// Info shows an informational toast.
func (t *Toaster) Info(text string) Toast { return t.push(ToastInfo, text, t.ttl) }

// InfoFor shows an informational toast for a custom duration.
func (t *Toaster) InfoFor(text string, ttl time.Duration) Toast {
	return t.push(ToastInfo, text, ttl)
}

func (t *Toaster) push(kind, text string, ttl time.Duration) Toast {
	toast := Toast{
		ID:   uuid.NewString(),
		Kind: kind,
		Text: text,
		At:   t.scope.Clock().Now(),
	}
	t.mu.Lock()
	t.toasts = append(t.toasts, toast)
	t.mu.Unlock()
	t.scope.After(ttl, func() { t.Dismiss(toast.ID) })
	return toast
}

// Dismiss removes a toast. Unknown ids are ignored.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, toast := range t.toasts {
		if toast.ID == id {
			t.toasts = append(t.toasts[:i:i], t.toasts[i+1:]...)
			return
		}
	}
}

// List returns the visible toasts, oldest first.
func (t *Toaster) List() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.toasts...)
}
