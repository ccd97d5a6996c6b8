package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/tennis-ladder/models"
)

const (
	DefaultVenue = "Main Court"

	slotLength = 2 * time.Hour

	// elimination: four staggered start times, then wrap around
	eliminationSlots = 4

	// round robin: four matches per time slot, eight per day, three courts
	roundRobinPerSlot = 4
	roundRobinPerDay  = 8
	roundRobinCourts  = 3
)

// MatchScheduler assigns start times and courts by match position only.
// There is no court availability or collision check.
type MatchScheduler struct {
	venue string
}

func NewMatchScheduler(venue string) *MatchScheduler {
	if venue == "" {
		venue = DefaultVenue
	}
	return &MatchScheduler{venue: venue}
}

func (s *MatchScheduler) Schedule(format models.TournamentFormat, matches []*BracketMatch, start time.Time) {
	for i, m := range matches {
		if format == models.FormatRoundRobin {
			m.ScheduledAt, m.Location = s.roundRobinSlot(m.MatchNumber, start)
			continue
		}
		m.ScheduledAt = start.Add(time.Duration(i%eliminationSlots) * slotLength)
		m.Location = s.venue
	}
}

func (s *MatchScheduler) roundRobinSlot(matchNumber int, start time.Time) (time.Time, string) {
	m := matchNumber - 1
	at := start.
		AddDate(0, 0, m/roundRobinPerDay).
		Add(time.Duration(m/roundRobinPerSlot) * slotLength)
	court := matchNumber%roundRobinCourts + 1
	return at, fmt.Sprintf("Court %d", court)
}
