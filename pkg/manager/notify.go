package manager

import (
	"sync"

	"github.com/google/uuid"
)

// Op identifies which operation produced a state update.
type Op string

// Operations reported through change events.
const (
	OpInit    Op = "init"
	OpRefresh Op = "refresh"
	OpExpand  Op = "expand"
	OpCreate  Op = "create"
	OpDelete  Op = "delete"
	OpMove    Op = "move"
)

// Event describes one installed state update.
type Event struct {
	Op   Op
	Root string
	Path string
}

// Subscription receives change events until it is cancelled.
type Subscription struct {
	ID     string
	Events chan Event
}

// notifier fans state-change events out to subscribers so consumers (the
// TUI, tests) re-render from fresh state.
type notifier struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription
	closed      bool
}

func newNotifier() *notifier {
	return &notifier{subscribers: make(map[string]*Subscription)}
}

func (n *notifier) subscribe() *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	sub := &Subscription{
		ID:     uuid.New().String(),
		Events: make(chan Event, 16),
	}
	n.subscribers[sub.ID] = sub
	return sub
}

func (n *notifier) unsubscribe(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, ok := n.subscribers[id]; ok {
		close(sub.Events)
		delete(n.subscribers, id)
	}
}

func (n *notifier) notify(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}
	for _, sub := range n.subscribers {
		select {
		case sub.Events <- ev:
		default:
			// Slow subscriber, event dropped.
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, sub := range n.subscribers {
		close(sub.Events)
		delete(n.subscribers, id)
	}
}
