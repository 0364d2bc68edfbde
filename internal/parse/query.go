package parse

import (
	"fmt"
	"time"

	"kitchen-ops-backend/internal/store"
	"kitchen-ops-backend/internal/ticket"
)

// TicketFilter converts the status/station query parameters of the ticket
// listing endpoint into a store filter. Empty strings match everything.
func TicketFilter(statusParam, stationParam string) (store.Filter, error) {
	f := store.Filter{Station: stationParam}
	if statusParam != "" {
		st := ticket.StatusByName(statusParam)
		if st == "" {
			return store.Filter{}, fmt.Errorf("unknown status %q", statusParam)
		}
		f.Status = st
	}
	return f, nil
}

// TimeRange converts the since/until query parameters of the history
// endpoint. Both are optional RFC3339 timestamps; an open end defaults to
// the epoch or now respectively.
func TimeRange(sinceParam, untilParam string, now time.Time) (since, until time.Time, err error) {
	until = now
	if sinceParam != "" {
		since, err = time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'since' timestamp %q, use RFC3339", sinceParam)
		}
	}
	if untilParam != "" {
		until, err = time.Parse(time.RFC3339, untilParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'until' timestamp %q, use RFC3339", untilParam)
		}
	}
	if !since.IsZero() && until.Before(since) {
		return time.Time{}, time.Time{}, fmt.Errorf("'until' precedes 'since'")
	}
	return since, until, nil
}
