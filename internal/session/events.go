package session

import "log"

// ─────────────────────────────────────────────────────────────
// Change notification — typed observer for session mutations
// ─────────────────────────────────────────────────────────────

// EventType identifies a session state transition.
type EventType string

const (
	EventDimensionsChanged EventType = "dimensionsChanged"
	EventDocumentChanged   EventType = "documentChanged"
	EventPageChanged       EventType = "pageChanged"
	EventItemCreated       EventType = "itemCreated"
	EventSessionCleared    EventType = "sessionCleared"
	EventSessionImported   EventType = "sessionImported"
)

// Event carries the old and new values of a committed mutation.
// Cleared events carry the pre-clear snapshot in Old and the preserve
// list; imported events carry the restored data in New.
type Event struct {
	Type     EventType `json:"type"`
	Old      any       `json:"old,omitempty"`
	New      any       `json:"new,omitempty"`
	Preserve []string  `json:"preserve,omitempty"`
}

// Listener receives session events. Delivery is synchronous and in
// mutation order; a listener must not call back into the store.
type Listener func(Event)

type subscriber struct {
	id int
	fn Listener
}

// Subscribe registers a listener and returns its id for Unsubscribe.
func (s *Store) Subscribe(fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: s.nextSubID, fn: fn})
	return s.nextSubID
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// emit fans an event out to all subscribers in registration order.
// Called with the mutex held, after the mutation has been committed.
func (s *Store) emit(ev Event) {
	for _, sub := range s.subscribers {
		sub.fn(ev)
	}
}

// LogListener returns a Listener that writes one line per session
// transition to l. The server subscribes it so state changes stay
// visible in the log alongside tool activity.
func LogListener(l *log.Logger) Listener {
	return func(ev Event) {
		if ev.Type == EventSessionCleared {
			l.Printf("session: %s (preserved %v)", ev.Type, ev.Preserve)
			return
		}
		l.Printf("session: %s", ev.Type)
	}
}
