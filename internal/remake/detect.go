package remake

import (
	"fmt"
	"sort"
	"time"

	"kitchen-ops-backend/internal/ticket"
)

// Severity of a mistake insight.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Insight is a derived read-model: one recurring (item, station) quality
// problem found inside the mining window. Recomputed from the log each run,
// never persisted.
type Insight struct {
	ItemName       string              `json:"item_name"`
	Station        string              `json:"station"`
	RemakeCount    int                 `json:"remake_count"`
	DominantReason ticket.RemakeReason `json:"dominant_reason"`
	Severity       string              `json:"severity"`
	Suggestion     string              `json:"suggestion"`
}

// MiningConfig tunes pattern detection.
type MiningConfig struct {
	Window         time.Duration
	MinOccurrences int
	// CriticalCount is the occurrence count at which an insight is critical
	// rather than a warning.
	CriticalCount int
}

// DetectPatterns mines the remake log for recurring (itemName, station)
// combinations within the trailing window. Groups below MinOccurrences are
// noise and produce nothing. Pure function of (entries, now, cfg).
func DetectPatterns(entries []Entry, now time.Time, cfg MiningConfig) []Insight {
	cutoff := now.Add(-cfg.Window)

	type key struct {
		item    string
		station string
	}
	groups := make(map[key][]Entry)
	for _, e := range entries {
		if e.Timestamp.Before(cutoff) || e.Timestamp.After(now) {
			continue
		}
		k := key{item: e.ItemName, station: e.Station}
		groups[k] = append(groups[k], e)
	}

	var insights []Insight
	for k, g := range groups {
		if len(g) < cfg.MinOccurrences {
			continue
		}

		dominant := dominantReason(g)
		severity := SeverityWarning
		if len(g) >= cfg.CriticalCount {
			severity = SeverityCritical
		}

		insights = append(insights, Insight{
			ItemName:       k.item,
			Station:        k.station,
			RemakeCount:    len(g),
			DominantReason: dominant,
			Severity:       severity,
			Suggestion:     suggestionFor(dominant, k.item, k.station),
		})
	}

	// Worst first; names break ties so output is deterministic.
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].RemakeCount != insights[j].RemakeCount {
			return insights[i].RemakeCount > insights[j].RemakeCount
		}
		if insights[i].ItemName != insights[j].ItemName {
			return insights[i].ItemName < insights[j].ItemName
		}
		return insights[i].Station < insights[j].Station
	})
	return insights
}

// dominantReason returns the mode of the reason field. Ties resolve to the
// reason seen earliest in the group, which keeps the result stable for a
// given log.
func dominantReason(g []Entry) ticket.RemakeReason {
	counts := make(map[ticket.RemakeReason]int)
	var best ticket.RemakeReason
	bestCount := 0
	for _, e := range g {
		counts[e.Reason]++
		if counts[e.Reason] > bestCount {
			best = e.Reason
			bestCount = counts[e.Reason]
		}
	}
	return best
}

func suggestionFor(reason ticket.RemakeReason, item, station string) string {
	switch reason {
	case ticket.ReasonWrongTemperature:
		return fmt.Sprintf("Recalibrate %s station equipment or review cook timing for %s", station, item)
	case ticket.ReasonWrongModifier:
		return fmt.Sprintf("Review ticket legibility and modifier training at the %s station", station)
	case ticket.ReasonDropped:
		return fmt.Sprintf("Check plating and hand-off workflow for %s at the %s station", item, station)
	case ticket.ReasonCustomerChangedMind:
		return fmt.Sprintf("Review how %s is described to customers before ordering", item)
	default:
		return fmt.Sprintf("Review preparation of %s at the %s station", item, station)
	}
}
