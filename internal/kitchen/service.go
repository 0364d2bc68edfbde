package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchen-ops-backend/internal/archive"
	"kitchen-ops-backend/internal/detect"
	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/priority"
	"kitchen-ops-backend/internal/remake"
	"kitchen-ops-backend/internal/station"
	"kitchen-ops-backend/internal/store"
	"kitchen-ops-backend/internal/ticket"
)

// Service is the lifecycle controller: the single entry point through which
// tickets enter the system and operators act on them.
type Service struct {
	store    store.Store
	load     *load.State
	remakes  *remake.Log
	detector *detect.Service
	archive  *archive.WorkerPool // may be nil when history is disabled

	// Now is replaceable for deterministic tests.
	Now func() time.Time
}

// NewService wires the lifecycle controller.
func NewService(s store.Store, l *load.State, r *remake.Log, d *detect.Service, a *archive.WorkerPool) *Service {
	return &Service{
		store:    s,
		load:     l,
		remakes:  r,
		detector: d,
		archive:  a,
		Now:      time.Now,
	}
}

// ActionRequest carries one operator action. ItemID and Reason are required
// only by the actions that need them (remake, recall).
type ActionRequest struct {
	TicketID uuid.UUID
	Action   ticket.Action
	Operator string
	Reason   string
	ItemID   uuid.UUID
}

// SubmitTicket accepts a fully-formed ticket from the ingestion source,
// validates it, derives station assignments, stamps the initial priority,
// and records the create event. Rejections carry the specific reason.
func (s *Service) SubmitTicket(ctx context.Context, t *ticket.Ticket, operator string) (ticket.Ticket, error) {
	if t == nil {
		return ticket.Ticket{}, fmt.Errorf("%w: nil ticket", ticket.ErrMalformedTicket)
	}
	if len(t.Items) == 0 {
		return ticket.Ticket{}, fmt.Errorf("%w: ticket has no items", ticket.ErrMalformedTicket)
	}

	now := s.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.PromisedAt.Before(t.CreatedAt) {
		return ticket.Ticket{}, fmt.Errorf("%w: promised time %s is before creation time %s",
			ticket.ErrMalformedTicket, t.PromisedAt.Format(time.RFC3339), t.CreatedAt.Format(time.RFC3339))
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Items {
		if t.Items[i].ID == uuid.Nil {
			t.Items[i].ID = uuid.New()
		}
		if t.Items[i].Quantity <= 0 {
			t.Items[i].Quantity = 1
		}
		if t.Items[i].Station == "" {
			return ticket.Ticket{}, fmt.Errorf("%w: item %q has no station", ticket.ErrMalformedTicket, t.Items[i].Name)
		}
	}

	t.Status = ticket.StatusNew
	t.StationAssignments = station.Assignments(t.Items)
	t.StartedAt, t.ReadyAt, t.CompletedAt = nil, nil, nil
	t.RecallReason, t.RecalledFrom = "", ""

	p := priority.Evaluate(*t, s.load.Snapshot(), now)
	t.Priority = &p

	t.Timeline = []ticket.TimelineEvent{{
		ID:          uuid.New(),
		Action:      ticket.ActionCreate,
		Timestamp:   now,
		PerformedBy: operator,
	}}

	if err := s.store.Append(t); err != nil {
		return ticket.Ticket{}, err
	}
	return s.store.Get(t.ID)
}

// ApplyAction is the single entry point for start, bump, recall,
// mark-complete, and mark-remake.
func (s *Service) ApplyAction(ctx context.Context, req ActionRequest) (ticket.Ticket, error) {
	if req.Operator == "" {
		return ticket.Ticket{}, fmt.Errorf("%w: operator is required", ticket.ErrEmptyActionContext)
	}

	switch req.Action {
	case ticket.ActionStart, ticket.ActionBump, ticket.ActionComplete:
		return s.transition(req)
	case ticket.ActionRecall:
		if req.Reason == "" {
			return ticket.Ticket{}, fmt.Errorf("%w: recall requires a reason", ticket.ErrEmptyActionContext)
		}
		return s.transition(req)
	case ticket.ActionRemake:
		return s.markRemake(ctx, req)
	default:
		return ticket.Ticket{}, fmt.Errorf("%w: %q", ticket.ErrUnknownAction, req.Action)
	}
}

func (s *Service) transition(req ActionRequest) (ticket.Ticket, error) {
	ev := ticket.TimelineEvent{
		ID:          uuid.New(),
		Action:      req.Action,
		Timestamp:   s.Now().UTC(),
		PerformedBy: req.Operator,
		Note:        req.Reason,
	}

	t, err := s.store.Transition(req.TicketID, req.Action, ev)
	if err != nil {
		return ticket.Ticket{}, err
	}

	if t.Status == ticket.StatusCompleted && s.archive != nil {
		s.archive.Dispatch(t)
	}
	return t, nil
}

// markRemake flags one item as remade, records the remake log entry, and
// appends a timeline event. It never changes the ticket's status.
func (s *Service) markRemake(ctx context.Context, req ActionRequest) (ticket.Ticket, error) {
	reason := ticket.RemakeReason(req.Reason)
	if req.Reason == "" {
		return ticket.Ticket{}, fmt.Errorf("%w: remake requires a reason", ticket.ErrEmptyActionContext)
	}
	if !ticket.ValidRemakeReason(reason) {
		return ticket.Ticket{}, fmt.Errorf("%w: unknown remake reason %q", ticket.ErrEmptyActionContext, req.Reason)
	}
	if req.ItemID == uuid.Nil {
		return ticket.Ticket{}, fmt.Errorf("%w: remake requires an item", ticket.ErrEmptyActionContext)
	}

	now := s.Now().UTC()
	ev := ticket.TimelineEvent{
		ID:          uuid.New(),
		Action:      ticket.ActionRemake,
		Timestamp:   now,
		PerformedBy: req.Operator,
		Note:        req.Reason,
	}

	t, item, err := s.store.MarkRemake(req.TicketID, req.ItemID, reason, ev)
	if err != nil {
		return ticket.Ticket{}, err
	}

	if err := s.remakes.Record(ctx, remake.Entry{
		ID:        uuid.New(),
		TicketID:  t.ID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Reason:    reason,
		Station:   item.Station,
		Timestamp: now,
	}); err != nil {
		// The item flag and timeline event are already committed; a failed
		// durable write must not roll back the audit trail.
		return t, nil
	}
	return t, nil
}

// GetTicket returns one ticket with its full timeline.
func (s *Service) GetTicket(id uuid.UUID) (ticket.Ticket, error) {
	return s.store.Get(id)
}

// ListTickets returns tickets matching the filter, oldest first.
func (s *Service) ListTickets(f store.Filter) []ticket.Ticket {
	return s.store.List(f)
}

// CurrentAlerts returns the latest bottleneck alert set.
func (s *Service) CurrentAlerts() []detect.Alert {
	return s.detector.Alerts()
}

// CurrentInsights returns the latest mistake insight set.
func (s *Service) CurrentInsights() []remake.Insight {
	return s.detector.Insights()
}

// AdjustLoad applies a delta to the global or a station load percentage and
// returns the resulting value.
func (s *Service) AdjustLoad(scope string, delta int) (int, error) {
	if scope == "" {
		return 0, fmt.Errorf("%w: load scope is required", ticket.ErrEmptyActionContext)
	}
	return s.load.Adjust(scope, delta), nil
}
