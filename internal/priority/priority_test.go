package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/ticket"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		dueIn         time.Duration
		globalPercent int
		allergens     string
		expected      ticket.PriorityLevel
	}{
		// Due in 10 min at 30% load: no penalty, margin 10 -> normal.
		{"on time, light load", 10 * time.Minute, 30, "", ticket.PriorityNormal},
		// Same ticket at 85% load: 7 min penalty, margin 3 -> high.
		{"on time, heavy load", 10 * time.Minute, 85, "", ticket.PriorityHigh},
		{"far out, light load", 30 * time.Minute, 30, "", ticket.PriorityLow},
		{"far out, medium load penalty", 16 * time.Minute, 60, "", ticket.PriorityNormal},
		{"already late", -2 * time.Minute, 10, "", ticket.PriorityUrgent},
		{"margin erased by load", 5 * time.Minute, 90, "", ticket.PriorityUrgent},
		{"allergen escalates low to normal", 30 * time.Minute, 10, "peanut allergy", ticket.PriorityNormal},
		{"allergen escalates high to urgent", 4 * time.Minute, 10, "shellfish", ticket.PriorityUrgent},
		{"allergen caps at urgent", -1 * time.Minute, 10, "dairy", ticket.PriorityUrgent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tk := ticket.Ticket{
				PromisedAt:    now.Add(tc.dueIn),
				AllergenNotes: tc.allergens,
			}
			snap := load.Snapshot{GlobalPercent: tc.globalPercent}

			p := Evaluate(tk, snap, now)
			assert.Equal(t, tc.expected, p.Level)
			assert.NotEmpty(t, p.Explanation)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	tk := ticket.Ticket{PromisedAt: now.Add(7 * time.Minute)}
	snap := load.Snapshot{GlobalPercent: 65}

	first := Evaluate(tk, snap, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(tk, snap, now))
	}
}

func TestAllergenNeverLow(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	for _, dueIn := range []time.Duration{-10 * time.Minute, 0, 20 * time.Minute, 3 * time.Hour} {
		for _, pct := range []int{0, 40, 60, 100} {
			tk := ticket.Ticket{PromisedAt: now.Add(dueIn), AllergenNotes: "tree nuts"}
			p := Evaluate(tk, load.Snapshot{GlobalPercent: pct}, now)
			assert.NotEqual(t, ticket.PriorityLow, p.Level,
				"allergen ticket due in %s at %d%% load must not be low", dueIn, pct)
		}
	}
}

func TestExplanationCitesDominantFactor(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	p := Evaluate(ticket.Ticket{PromisedAt: now.Add(3 * time.Minute)}, load.Snapshot{GlobalPercent: 82}, now)
	assert.Contains(t, p.Explanation, "Due in 3 min")
	assert.Contains(t, p.Explanation, "82% load")

	p = Evaluate(ticket.Ticket{PromisedAt: now.Add(3 * time.Minute), AllergenNotes: "gluten"}, load.Snapshot{}, now)
	assert.Contains(t, p.Explanation, "Allergen")

	p = Evaluate(ticket.Ticket{PromisedAt: now.Add(-4 * time.Minute)}, load.Snapshot{}, now)
	assert.Contains(t, p.Explanation, "Overdue by 4 min")
}
