package detect

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/station"
	"kitchen-ops-backend/internal/ticket"
)

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert flags one station whose backlog or ticket age exceeds its
// load-adjusted threshold. Alerts are ephemeral: each cycle recomputes the
// full set with fresh ids, and an alert simply stops being emitted once its
// condition clears. Consumers de-duplicate by (station, message) if needed.
type Alert struct {
	ID              uuid.UUID `json:"id"`
	Station         string    `json:"station"`
	Severity        string    `json:"severity"`
	Message         string    `json:"message"`
	SuggestedAction string    `json:"suggested_action"`

	// Score orders alerts; it is how far past its threshold the station is.
	Score float64 `json:"score"`
}

// BottleneckConfig tunes the detector.
type BottleneckConfig struct {
	// BaseBacklogThreshold is the backlog a station tolerates at zero load.
	BaseBacklogThreshold int
}

// A heavily loaded station tolerates a smaller backlog before alarm; it has
// less slack to absorb surprises.
func stationLoadPenalty(percent int) int {
	switch {
	case percent < 50:
		return 0
	case percent <= 75:
		return 1
	default:
		return 2
	}
}

// DetectBottlenecks scans the active ticket set per station and returns
// alerts sorted worst first. Stateless: pure function of (tickets, load
// snapshot, now, cfg). A station with zero active tickets never alerts.
func DetectBottlenecks(tickets []ticket.Ticket, snap load.Snapshot, now time.Time, cfg BottleneckConfig) []Alert {
	groups := station.GroupActive(tickets)

	var alerts []Alert
	for st, group := range groups {
		if len(group) == 0 {
			continue
		}

		backlog := len(group)
		var totalAge time.Duration
		for _, t := range group {
			totalAge += now.Sub(t.CreatedAt)
		}
		avgAge := totalAge / time.Duration(backlog)

		threshold := cfg.BaseBacklogThreshold - stationLoadPenalty(snap.StationPercent[st])
		if threshold < 1 {
			threshold = 1
		}

		overBacklog := backlog > threshold
		overAge := snap.LateThreshold > 0 && avgAge > snap.LateThreshold
		if !overBacklog && !overAge {
			continue
		}

		a := Alert{
			ID:      uuid.New(),
			Station: st,
		}

		switch {
		case overBacklog:
			a.Score = float64(backlog-threshold) / float64(threshold)
			a.Message = fmt.Sprintf("%s station backlog at %d tickets (threshold %d)", st, backlog, threshold)
			a.SuggestedAction = fmt.Sprintf("Pause incoming tickets for %s or redistribute items to an alternate station", st)
		default:
			a.Score = avgAge.Minutes()/snap.LateThreshold.Minutes() - 1
			a.Message = fmt.Sprintf("%s station tickets averaging %.0f min old (late threshold %.0f min)",
				st, avgAge.Minutes(), snap.LateThreshold.Minutes())
			a.SuggestedAction = fmt.Sprintf("Expedite oldest tickets at %s", st)
		}

		a.Severity = SeverityWarning
		if a.Score >= 1 {
			a.Severity = SeverityCritical
		}

		alerts = append(alerts, a)
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Score != alerts[j].Score {
			return alerts[i].Score > alerts[j].Score
		}
		return alerts[i].Station < alerts[j].Station
	})
	return alerts
}
