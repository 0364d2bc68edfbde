package priority

import (
	"fmt"
	"time"

	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/ticket"
)

// Load penalty step function: under high kitchen load a ticket nominally on
// time is effectively at greater risk because throughput is saturated.
func loadPenalty(globalPercent int) time.Duration {
	switch {
	case globalPercent < 50:
		return 0
	case globalPercent <= 75:
		return 3 * time.Minute
	default:
		return 7 * time.Minute
	}
}

func levelFor(adjustedMargin time.Duration) ticket.PriorityLevel {
	switch {
	case adjustedMargin < 0:
		return ticket.PriorityUrgent
	case adjustedMargin < 5*time.Minute:
		return ticket.PriorityHigh
	case adjustedMargin < 15*time.Minute:
		return ticket.PriorityNormal
	default:
		return ticket.PriorityLow
	}
}

func escalate(l ticket.PriorityLevel) ticket.PriorityLevel {
	switch l {
	case ticket.PriorityLow:
		return ticket.PriorityNormal
	case ticket.PriorityNormal:
		return ticket.PriorityHigh
	default:
		return ticket.PriorityUrgent
	}
}

// Evaluate computes the priority for an unstarted ticket. It is a pure
// function of (ticket, load snapshot, now): same inputs always produce the
// same level and explanation.
func Evaluate(t ticket.Ticket, snap load.Snapshot, now time.Time) ticket.Priority {
	untilDue := t.PromisedAt.Sub(now)
	penalty := loadPenalty(snap.GlobalPercent)
	adjusted := untilDue - penalty

	level := levelFor(adjusted)

	allergen := t.AllergenNotes != ""
	if allergen {
		level = escalate(level)
	}

	return ticket.Priority{
		Level:       level,
		Explanation: explain(untilDue, penalty, snap.GlobalPercent, allergen),
	}
}

// explain produces a one-line operator-readable reason citing the dominant
// factor.
func explain(untilDue, penalty time.Duration, globalPercent int, allergen bool) string {
	mins := int(untilDue.Minutes())

	var due string
	if untilDue < 0 {
		due = fmt.Sprintf("Overdue by %d min", -mins)
	} else {
		due = fmt.Sprintf("Due in %d min", mins)
	}

	if allergen {
		return fmt.Sprintf("Allergen ticket, escalated (%s)", due)
	}
	if penalty > 0 {
		return fmt.Sprintf("%s, kitchen at %d%% load", due, globalPercent)
	}
	return due
}
