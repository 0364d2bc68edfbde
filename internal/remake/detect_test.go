package remake

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen-ops-backend/internal/ticket"
)

var miningCfg = MiningConfig{
	Window:         4 * time.Hour,
	MinOccurrences: 3,
	CriticalCount:  5,
}

func entryAt(item, station string, reason ticket.RemakeReason, at time.Time) Entry {
	return Entry{
		ID:        uuid.New(),
		TicketID:  uuid.New(),
		ItemID:    uuid.New(),
		ItemName:  item,
		Reason:    reason,
		Station:   station,
		Timestamp: at,
	}
}

func TestDetectPatterns(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	entries := []Entry{
		entryAt("Lamb Biryani", "curry", ticket.ReasonWrongTemperature, now.Add(-10*time.Minute)),
		entryAt("Lamb Biryani", "curry", ticket.ReasonWrongTemperature, now.Add(-30*time.Minute)),
		entryAt("Lamb Biryani", "curry", ticket.ReasonDropped, now.Add(-50*time.Minute)),
		// Two fries remakes: below threshold, noise.
		entryAt("Fries", "fry", ticket.ReasonDropped, now.Add(-5*time.Minute)),
		entryAt("Fries", "fry", ticket.ReasonDropped, now.Add(-15*time.Minute)),
	}

	insights := DetectPatterns(entries, now, miningCfg)
	require.Len(t, insights, 1)

	got := insights[0]
	assert.Equal(t, "Lamb Biryani", got.ItemName)
	assert.Equal(t, "curry", got.Station)
	assert.Equal(t, 3, got.RemakeCount)
	assert.Equal(t, ticket.ReasonWrongTemperature, got.DominantReason)
	assert.Equal(t, SeverityWarning, got.Severity)
	assert.Contains(t, got.Suggestion, "Recalibrate")
}

func TestDetectPatternsBelowThreshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	entries := []Entry{
		entryAt("Lamb Biryani", "curry", ticket.ReasonWrongTemperature, now.Add(-10*time.Minute)),
		entryAt("Lamb Biryani", "curry", ticket.ReasonWrongTemperature, now.Add(-30*time.Minute)),
	}

	assert.Empty(t, DetectPatterns(entries, now, miningCfg))
	assert.Empty(t, DetectPatterns(nil, now, miningCfg))
}

func TestDetectPatternsWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	// Three remakes, but one fell out of the trailing window: an insight
	// must reflect current behavior only.
	entries := []Entry{
		entryAt("Cheesecake", "dessert", ticket.ReasonDropped, now.Add(-10*time.Minute)),
		entryAt("Cheesecake", "dessert", ticket.ReasonDropped, now.Add(-20*time.Minute)),
		entryAt("Cheesecake", "dessert", ticket.ReasonDropped, now.Add(-5*time.Hour)),
	}

	assert.Empty(t, DetectPatterns(entries, now, miningCfg))
}

func TestDetectPatternsGroupsByItemAndStation(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	// Same dish remade at two stations: separate groups, neither qualifies.
	entries := []Entry{
		entryAt("Grilled Salmon", "grill", ticket.ReasonWrongTemperature, now.Add(-10*time.Minute)),
		entryAt("Grilled Salmon", "grill", ticket.ReasonWrongTemperature, now.Add(-20*time.Minute)),
		entryAt("Grilled Salmon", "prep", ticket.ReasonWrongModifier, now.Add(-30*time.Minute)),
	}

	assert.Empty(t, DetectPatterns(entries, now, miningCfg))
}

func TestDetectPatternsSeverityAndOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	var entries []Entry
	for i := 0; i < 6; i++ {
		entries = append(entries, entryAt("Calamari", "fry", ticket.ReasonDropped, now.Add(-time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 3; i++ {
		entries = append(entries, entryAt("House Negroni", "bar", ticket.ReasonWrongModifier, now.Add(-time.Duration(i)*time.Minute)))
	}

	insights := DetectPatterns(entries, now, miningCfg)
	require.Len(t, insights, 2)

	// Worst first.
	assert.Equal(t, "Calamari", insights[0].ItemName)
	assert.Equal(t, SeverityCritical, insights[0].Severity)
	assert.Equal(t, SeverityWarning, insights[1].Severity)
	assert.Contains(t, insights[1].Suggestion, "legibility")
}
