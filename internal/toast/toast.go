package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

// Severity classifies a toast for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast is one ephemeral notification in the queue.
type Toast struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"severity"`
	Title     string        `json:"title"`
	Body      string        `json:"body,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Notifier holds the process-wide toast queue. Toasts self-expire after
// their duration and can be dismissed early; display order is FIFO append
// order and duplicates are allowed.
type Notifier struct {
	mu              sync.Mutex
	queue           []Toast
	timers          map[string]*time.Timer
	defaultDuration time.Duration
	seq             int
	metrics         *metrics.StorefrontMetrics
}

// NewNotifier builds an empty queue with the given default display duration.
func NewNotifier(defaultDuration time.Duration, m *metrics.StorefrontMetrics) *Notifier {
	if defaultDuration <= 0 {
		defaultDuration = 4 * time.Second
	}
	return &Notifier{
		timers:          map[string]*time.Timer{},
		defaultDuration: defaultDuration,
		metrics:         m,
	}
}

// Show appends the toast, assigns it an id when missing, and schedules its
// expiry. Returns the toast id.
func (n *Notifier) Show(t Toast) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t.Severity == "" {
		t.Severity = SeverityInfo
	}
	if t.Duration <= 0 {
		t.Duration = n.defaultDuration
	}
	if t.ID == "" {
		n.seq++
		t.ID = fmt.Sprintf("%d-%d", time.Now().UnixMilli(), n.seq)
	}
	t.CreatedAt = time.Now()

	n.queue = append(n.queue, t)
	n.metrics.IncToast(string(t.Severity))

	id := t.ID
	n.timers[id] = time.AfterFunc(t.Duration, func() {
		n.Dismiss(id)
	})
	return id
}

// Success pushes a success toast with the default duration.
func (n *Notifier) Success(title, body string) string {
	return n.Show(Toast{Severity: SeveritySuccess, Title: title, Body: body})
}

// Error pushes an error toast with the default duration.
func (n *Notifier) Error(title, body string) string {
	return n.Show(Toast{Severity: SeverityError, Title: title, Body: body})
}

// Info pushes an info toast with the default duration.
func (n *Notifier) Info(title, body string) string {
	return n.Show(Toast{Severity: SeverityInfo, Title: title, Body: body})
}

// Dismiss removes the toast early; unknown ids are a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	for i, t := range n.queue {
		if t.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return
		}
	}
}

// List returns the queue in FIFO append order.
func (n *Notifier) List() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.queue...)
}

// Shutdown stops all pending expiry timers and clears the queue.
func (n *Notifier) Shutdown() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	n.queue = nil
}
