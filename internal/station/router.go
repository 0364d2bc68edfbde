package station

import (
	"sort"

	"kitchen-ops-backend/internal/ticket"
)

// Assignments derives the distinct, sorted set of stations a ticket's items
// touch. An item never splits across stations, so this is a plain projection.
func Assignments(items []ticket.Item) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		if it.Station == "" {
			continue
		}
		if _, ok := seen[it.Station]; ok {
			continue
		}
		seen[it.Station] = struct{}{}
		out = append(out, it.Station)
	}
	sort.Strings(out)
	return out
}

// Active reports whether a ticket still represents live kitchen work.
// Ready and completed tickets have left the stations even if the overall
// order is still open.
func Active(s ticket.Status) bool {
	switch s {
	case ticket.StatusNew, ticket.StatusInProgress, ticket.StatusRecalled:
		return true
	}
	return false
}

// GroupActive buckets active tickets by station. A ticket with items at
// several stations appears in every one of those buckets; each station is
// expected to look only at its own items via ItemsFor.
func GroupActive(tickets []ticket.Ticket) map[string][]ticket.Ticket {
	groups := make(map[string][]ticket.Ticket)
	for _, t := range tickets {
		if !Active(t.Status) {
			continue
		}
		for _, st := range t.StationAssignments {
			groups[st] = append(groups[st], t)
		}
	}
	return groups
}

// ItemsFor filters a ticket down to the items routed to one station.
func ItemsFor(t ticket.Ticket, station string) []ticket.Item {
	var out []ticket.Item
	for _, it := range t.Items {
		if it.Station == station {
			out = append(out, it)
		}
	}
	return out
}
