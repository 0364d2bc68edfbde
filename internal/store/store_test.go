package store

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen-ops-backend/internal/ticket"
)

func newTicket(t *testing.T) *ticket.Ticket {
	t.Helper()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	return &ticket.Ticket{
		ID:          uuid.New(),
		OrderNumber: "K-0001",
		Channel:     ticket.ChannelDineIn,
		CreatedAt:   now,
		PromisedAt:  now.Add(15 * time.Minute),
		Status:      ticket.StatusNew,
		Priority:    &ticket.Priority{Level: ticket.PriorityNormal, Explanation: "Due in 15 min"},
		Items: []ticket.Item{
			{ID: uuid.New(), Name: "Lamb Biryani", Station: "curry", Quantity: 1},
		},
		StationAssignments: []string{"curry"},
		Timeline: []ticket.TimelineEvent{
			{ID: uuid.New(), Action: ticket.ActionCreate, Timestamp: now, PerformedBy: "order-intake"},
		},
	}
}

func event(action ticket.Action, at time.Time, note string) ticket.TimelineEvent {
	return ticket.TimelineEvent{
		ID:          uuid.New(),
		Action:      action,
		Timestamp:   at,
		PerformedBy: "chef-1",
		Note:        note,
	}
}

func TestAppendAndGet(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)

	require.NoError(t, s.Append(tk))

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.OrderNumber, got.OrderNumber)

	// The store owns its copy: mutating what we got back must not leak in.
	got.Items[0].Name = "changed"
	again, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamb Biryani", again.Items[0].Name)

	assert.ErrorIs(t, s.Append(tk), ticket.ErrDuplicateTicket)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTransitionLifecycle(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)
	require.NoError(t, s.Append(tk))
	base := tk.CreatedAt

	// start
	got, err := s.Transition(tk.ID, ticket.ActionStart, event(ticket.ActionStart, base.Add(time.Minute), ""))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusInProgress, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.Nil(t, got.Priority, "priority must be cleared once work starts")
	assert.Len(t, got.Timeline, 2)

	// bump
	got, err = s.Transition(tk.ID, ticket.ActionBump, event(ticket.ActionBump, base.Add(5*time.Minute), ""))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusReady, got.Status)
	require.NotNil(t, got.ReadyAt)

	// recall from ready
	got, err = s.Transition(tk.ID, ticket.ActionRecall, event(ticket.ActionRecall, base.Add(6*time.Minute), "wrong item"))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusRecalled, got.Status)
	assert.Equal(t, "wrong item", got.RecallReason)
	assert.Equal(t, ticket.StatusReady, got.RecalledFrom)

	// bump again clears recall context
	got, err = s.Transition(tk.ID, ticket.ActionBump, event(ticket.ActionBump, base.Add(9*time.Minute), ""))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusReady, got.Status)
	assert.Empty(t, got.RecallReason)
	assert.Empty(t, got.RecalledFrom)

	// complete
	got, err = s.Transition(tk.ID, ticket.ActionComplete, event(ticket.ActionComplete, base.Add(12*time.Minute), ""))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// recall from completed
	got, err = s.Transition(tk.ID, ticket.ActionRecall, event(ticket.ActionRecall, base.Add(14*time.Minute), "cold food"))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, got.RecalledFrom)

	// Timeline grew by exactly one event per transition and stays ordered.
	assert.Len(t, got.Timeline, 7)
	for i := 1; i < len(got.Timeline); i++ {
		assert.False(t, got.Timeline[i].Timestamp.Before(got.Timeline[i-1].Timestamp))
	}
}

func TestInvalidTransitions(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)
	require.NoError(t, s.Append(tk))
	base := tk.CreatedAt

	// Bump before start.
	_, err := s.Transition(tk.ID, ticket.ActionBump, event(ticket.ActionBump, base, ""))
	assert.ErrorIs(t, err, ticket.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cannot bump a ticket that is new")

	// Double start: second attempt fails and does not double the timestamp.
	first, err := s.Transition(tk.ID, ticket.ActionStart, event(ticket.ActionStart, base.Add(time.Minute), ""))
	require.NoError(t, err)
	_, err = s.Transition(tk.ID, ticket.ActionStart, event(ticket.ActionStart, base.Add(2*time.Minute), ""))
	assert.ErrorIs(t, err, ticket.ErrInvalidTransition)

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, first.StartedAt, got.StartedAt)
	assert.Len(t, got.Timeline, 2)

	_, err = s.Transition(uuid.New(), ticket.ActionStart, event(ticket.ActionStart, base, ""))
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTransitionClampsClockSkew(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)
	require.NoError(t, s.Append(tk))

	// An operator clock behind the create timestamp must not produce a
	// timeline that runs backwards.
	skewed := tk.CreatedAt.Add(-30 * time.Second)
	got, err := s.Transition(tk.ID, ticket.ActionStart, event(ticket.ActionStart, skewed, ""))
	require.NoError(t, err)
	assert.Equal(t, tk.CreatedAt, got.LastEvent().Timestamp)
}

func TestMarkRemake(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)
	require.NoError(t, s.Append(tk))
	itemID := tk.Items[0].ID

	got, item, err := s.MarkRemake(tk.ID, itemID, ticket.ReasonWrongTemperature,
		event(ticket.ActionRemake, tk.CreatedAt.Add(time.Minute), "wrong-temperature"))
	require.NoError(t, err)
	assert.True(t, item.IsRemake)
	assert.Equal(t, ticket.ReasonWrongTemperature, item.RemakeReason)

	// Status untouched, timeline extended.
	assert.Equal(t, ticket.StatusNew, got.Status)
	assert.Equal(t, ticket.ActionRemake, got.LastEvent().Action)

	// A second remake keeps the flag; it never reverts.
	got, item, err = s.MarkRemake(tk.ID, itemID, ticket.ReasonDropped,
		event(ticket.ActionRemake, tk.CreatedAt.Add(2*time.Minute), "dropped"))
	require.NoError(t, err)
	assert.True(t, item.IsRemake)
	assert.Len(t, got.Timeline, 3)

	_, _, err = s.MarkRemake(tk.ID, uuid.New(), ticket.ReasonDropped,
		event(ticket.ActionRemake, tk.CreatedAt, ""))
	assert.ErrorIs(t, err, ticket.ErrItemNotFound)
}

func TestListFilters(t *testing.T) {
	s := NewMemStore()

	a := newTicket(t)
	a.OrderNumber = "K-0001"
	require.NoError(t, s.Append(a))

	b := newTicket(t)
	b.ID = uuid.New()
	b.OrderNumber = "K-0002"
	b.CreatedAt = a.CreatedAt.Add(time.Minute)
	b.Items = []ticket.Item{{ID: uuid.New(), Name: "Fries", Station: "fry", Quantity: 1}}
	b.StationAssignments = []string{"fry"}
	require.NoError(t, s.Append(b))

	_, err := s.Transition(b.ID, ticket.ActionStart, event(ticket.ActionStart, b.CreatedAt, ""))
	require.NoError(t, err)

	assert.Len(t, s.ListByStatus(ticket.StatusNew), 1)
	assert.Len(t, s.ListByStatus(ticket.StatusInProgress), 1)
	assert.Len(t, s.List(Filter{Station: "fry"}), 1)
	assert.Len(t, s.List(Filter{Station: "curry", Status: ticket.StatusNew}), 1)
	assert.Empty(t, s.List(Filter{Station: "curry", Status: ticket.StatusInProgress}))

	// Oldest first.
	all := s.Snapshot()
	require.Len(t, all, 2)
	assert.Equal(t, "K-0001", all[0].OrderNumber)
}

func TestConcurrentTransitionsAreLinearized(t *testing.T) {
	s := NewMemStore()
	tk := newTicket(t)
	require.NoError(t, s.Append(tk))

	// Many racing starts: exactly one must win.
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Transition(tk.ID, ticket.ActionStart,
				event(ticket.ActionStart, time.Now().UTC(), ""))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ticket.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, wins)

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Len(t, got.Timeline, 2)
}
