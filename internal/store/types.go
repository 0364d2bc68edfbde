package store

import "kitchen-ops-backend/internal/ticket"

// Filter selects tickets by status and/or station. Zero values match
// everything.
type Filter struct {
	Status  ticket.Status
	Station string
}

func (f Filter) matches(t *ticket.Ticket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Station != "" {
		found := false
		for _, st := range t.StationAssignments {
			if st == f.Station {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
