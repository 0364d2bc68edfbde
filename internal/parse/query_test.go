package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen-ops-backend/internal/ticket"
)

func TestTicketFilter(t *testing.T) {
	f, err := TicketFilter("", "")
	require.NoError(t, err)
	assert.Empty(t, f.Status)
	assert.Empty(t, f.Station)

	f, err = TicketFilter("in_progress", "grill")
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusInProgress, f.Status)
	assert.Equal(t, "grill", f.Station)

	_, err = TicketFilter("cooking", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "cooking"`)
}

func TestTimeRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	since, until, err := TimeRange("", "", now)
	require.NoError(t, err)
	assert.True(t, since.IsZero())
	assert.Equal(t, now, until)

	since, until, err = TimeRange("2025-06-01T12:00:00Z", "2025-06-01T15:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, until.Sub(since))

	_, _, err = TimeRange("yesterday", "", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFC3339")

	_, _, err = TimeRange("2025-06-01T15:00:00Z", "2025-06-01T12:00:00Z", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes")
}
