package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kitchen-ops-backend/internal/ticket"
)

// Store defines the authoritative ticket set and its legal mutations.
// Transition is the only way a ticket's status ever changes.
type Store interface {
	Append(t *ticket.Ticket) error
	Get(id uuid.UUID) (ticket.Ticket, error)
	List(f Filter) []ticket.Ticket
	ListByStatus(s ticket.Status) []ticket.Ticket
	Snapshot() []ticket.Ticket
	Transition(id uuid.UUID, action ticket.Action, ev ticket.TimelineEvent) (ticket.Ticket, error)
	MarkRemake(id, itemID uuid.UUID, reason ticket.RemakeReason, ev ticket.TimelineEvent) (ticket.Ticket, ticket.Item, error)
}

// memStore implements Store with a map keyed by ticket id under one coarse
// mutex. Transitions on the same ticket are linearized by the write lock;
// expected operator concurrency is low enough that a single serialization
// point is fine.
type memStore struct {
	mu      sync.RWMutex
	tickets map[uuid.UUID]*ticket.Ticket
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() Store {
	return &memStore{tickets: make(map[uuid.UUID]*ticket.Ticket)}
}

// Append inserts a fully-formed ticket. The caller (the lifecycle controller)
// is responsible for validation and for the create timeline event.
func (s *memStore) Append(t *ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tickets[t.ID]; exists {
		return fmt.Errorf("%w: %s", ticket.ErrDuplicateTicket, t.ID)
	}
	owned := t.Clone()
	s.tickets[t.ID] = &owned
	return nil
}

// Get returns a deep copy of one ticket.
func (s *memStore) Get(id uuid.UUID) (ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return ticket.Ticket{}, fmt.Errorf("%w: %s", ticket.ErrTicketNotFound, id)
	}
	return t.Clone(), nil
}

// List returns copies of all tickets matching the filter, oldest first.
func (s *memStore) List(f Filter) []ticket.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ticket.Ticket
	for _, t := range s.tickets {
		if !f.matches(t) {
			continue
		}
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memStore) ListByStatus(st ticket.Status) []ticket.Ticket {
	return s.List(Filter{Status: st})
}

// Snapshot returns copies of every ticket. The detectors re-scan this each
// cycle, so any committed transition is observable on the next cycle.
func (s *memStore) Snapshot() []ticket.Ticket {
	return s.List(Filter{})
}

// Transition validates (current status, action) against the state machine,
// sets the timestamp field for the new status, appends the timeline event,
// and clears priority when work starts.
func (s *memStore) Transition(id uuid.UUID, action ticket.Action, ev ticket.TimelineEvent) (ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return ticket.Ticket{}, fmt.Errorf("%w: %s", ticket.ErrTicketNotFound, id)
	}

	next, ok := ticket.NextStatus(t.Status, action)
	if !ok {
		msg := fmt.Sprintf("cannot %s a ticket that is %s", action, t.Status)
		if legal := ticket.TransitionActions(t.Status); len(legal) > 0 {
			msg = fmt.Sprintf("%s (legal: %v)", msg, legal)
		}
		return ticket.Ticket{}, fmt.Errorf("%w: %s", ticket.ErrInvalidTransition, msg)
	}

	ts := monotonic(t, ev.Timestamp)
	ev.Timestamp = ts
	ev.Action = action

	prev := t.Status
	switch next {
	case ticket.StatusInProgress:
		t.StartedAt = &ts
		t.Priority = nil
	case ticket.StatusReady:
		t.ReadyAt = &ts
		// Recall context is only meaningful while the ticket is recalled.
		t.RecallReason = ""
		t.RecalledFrom = ""
	case ticket.StatusCompleted:
		t.CompletedAt = &ts
	case ticket.StatusRecalled:
		t.RecallReason = ev.Note
		t.RecalledFrom = prev
	}

	t.Status = next
	t.Timeline = append(t.Timeline, ev)
	return t.Clone(), nil
}

// MarkRemake flags one item as a remake. It never changes the ticket's
// status and the flag never reverts; a second remake of the same dish is a
// new log entry, not a toggle.
func (s *memStore) MarkRemake(id, itemID uuid.UUID, reason ticket.RemakeReason, ev ticket.TimelineEvent) (ticket.Ticket, ticket.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return ticket.Ticket{}, ticket.Item{}, fmt.Errorf("%w: %s", ticket.ErrTicketNotFound, id)
	}

	idx := -1
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ticket.Ticket{}, ticket.Item{}, fmt.Errorf("%w: %s on ticket %s", ticket.ErrItemNotFound, itemID, id)
	}

	t.Items[idx].IsRemake = true
	t.Items[idx].RemakeReason = reason

	ev.Timestamp = monotonic(t, ev.Timestamp)
	ev.Action = ticket.ActionRemake
	t.Timeline = append(t.Timeline, ev)

	c := t.Clone()
	return c, c.Items[idx], nil
}

// monotonic clamps a proposed event timestamp so timestamps never decrease
// within a ticket's timeline, even if two operators' clocks disagree.
func monotonic(t *ticket.Ticket, proposed time.Time) time.Time {
	if n := len(t.Timeline); n > 0 {
		if last := t.Timeline[n-1].Timestamp; proposed.Before(last) {
			return last
		}
	}
	return proposed
}
