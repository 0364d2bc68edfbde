package ticket

import (
	"time"

	"github.com/google/uuid"
)

// Status enumerates the lifecycle states of a kitchen ticket.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusCompleted  Status = "completed"
	StatusRecalled   Status = "recalled"
)

// StatusByName returns the status for a given name, or "" if not recognized.
func StatusByName(name string) Status {
	switch Status(name) {
	case StatusNew, StatusInProgress, StatusReady, StatusCompleted, StatusRecalled:
		return Status(name)
	}
	return ""
}

// Channel identifies where an order originated.
type Channel string

const (
	ChannelDineIn      Channel = "dine-in"
	ChannelDelivery    Channel = "delivery"
	ChannelPickup      Channel = "pickup"
	ChannelMarketplace Channel = "marketplace"
)

// PriorityLevel is the computed urgency of an unstarted ticket.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityNormal PriorityLevel = "normal"
	PriorityHigh   PriorityLevel = "high"
	PriorityUrgent PriorityLevel = "urgent"
)

// Priority is set while a ticket is still unstarted and cleared once work begins.
type Priority struct {
	Level       PriorityLevel `json:"level"`
	Explanation string        `json:"explanation"`
}

// RemakeReason is a closed enum of reasons an item had to be re-prepared.
type RemakeReason string

const (
	ReasonWrongTemperature    RemakeReason = "wrong-temperature"
	ReasonDropped             RemakeReason = "dropped"
	ReasonCustomerChangedMind RemakeReason = "customer-changed-mind"
	ReasonWrongModifier       RemakeReason = "wrong-modifier"
)

// ValidRemakeReason reports whether r is one of the recognized remake reasons.
func ValidRemakeReason(r RemakeReason) bool {
	switch r {
	case ReasonWrongTemperature, ReasonDropped, ReasonCustomerChangedMind, ReasonWrongModifier:
		return true
	}
	return false
}

// Item is one line of a ticket. An item belongs to exactly one station.
type Item struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Station      string       `json:"station"`
	Modifiers    []string     `json:"modifiers,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Quantity     int          `json:"quantity"`
	IsRemake     bool         `json:"is_remake"`
	RemakeReason RemakeReason `json:"remake_reason,omitempty"`
}

// TimelineEvent is an immutable audit record owned by its ticket.
type TimelineEvent struct {
	ID          uuid.UUID `json:"id"`
	Action      Action    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	PerformedBy string    `json:"performed_by"`
	Note        string    `json:"note,omitempty"`
}

// Ticket is one unit of kitchen work.
type Ticket struct {
	ID              uuid.UUID `json:"id"`
	OrderNumber     string    `json:"order_number"`
	Channel         Channel   `json:"channel"`
	FulfillmentType string    `json:"fulfillment_type,omitempty"`
	TableNumber     string    `json:"table_number,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	PromisedAt  time.Time  `json:"promised_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Items         []Item `json:"items"`
	AllergenNotes string `json:"allergen_notes,omitempty"`
	CustomerNotes string `json:"customer_notes,omitempty"`

	// StationAssignments is derived from Items and recomputed whenever
	// items change, never hand-edited.
	StationAssignments []string `json:"station_assignments"`

	Status   Status    `json:"status"`
	Priority *Priority `json:"priority,omitempty"`

	// Present only while Status is recalled.
	RecallReason string `json:"recall_reason,omitempty"`
	RecalledFrom Status `json:"recalled_from,omitempty"`

	// Timeline is append-only; length >= 1 from creation onward.
	Timeline []TimelineEvent `json:"timeline"`
}

// Clone returns a deep copy so callers never alias store-owned memory.
func (t *Ticket) Clone() Ticket {
	c := *t

	c.Items = make([]Item, len(t.Items))
	copy(c.Items, t.Items)
	for i := range c.Items {
		if len(t.Items[i].Modifiers) > 0 {
			c.Items[i].Modifiers = append([]string(nil), t.Items[i].Modifiers...)
		}
	}

	if len(t.StationAssignments) > 0 {
		c.StationAssignments = append([]string(nil), t.StationAssignments...)
	}

	c.Timeline = append([]TimelineEvent(nil), t.Timeline...)

	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.StartedAt != nil {
		ts := *t.StartedAt
		c.StartedAt = &ts
	}
	if t.ReadyAt != nil {
		ts := *t.ReadyAt
		c.ReadyAt = &ts
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return c
}

// LastEvent returns the most recent timeline entry.
func (t *Ticket) LastEvent() TimelineEvent {
	if len(t.Timeline) == 0 {
		return TimelineEvent{}
	}
	return t.Timeline[len(t.Timeline)-1]
}
