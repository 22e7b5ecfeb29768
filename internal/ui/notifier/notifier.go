// Package notifier fans record change events out to live UI streams.
package notifier

import "sync"

// Source names where a change came from.
type Source string

// Event sources.
const (
	// SourceCoordinator marks mutations made through the coordinator.
	SourceCoordinator Source = "coordinator"
	// SourceWatch marks edits to the data files noticed on disk.
	SourceWatch Source = "watch"
)

// Event describes a change to the record stores. Op and ID are empty for
// on-disk changes, which carry only the file that changed.
type Event struct {
	Source Source
	Op     string
	ID     string
	File   string
}

// Notifier broadcasts events to all subscribed listeners. Listeners should
// treat any event as a cue to reload both stores; events may be dropped when
// a listener has not drained the previous one.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends ev to all listeners.
// Non-blocking: if a listener's channel is full, the event is skipped.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
			// listener still has a pending event and will reload anyway
		}
	}
}

// Len returns the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
