package brackets

import (
	"sort"

	"github.com/Dosada05/tennis-ladder/models"
)

// SeedAssignment binds a participant to its 1-based seed rank.
type SeedAssignment struct {
	Participant *models.Participant
	Seed        int
}

// SeedParticipants orders participants by rating, highest first. Missing ratings count as
// models.DefaultRating and ties keep the fetch order.
func SeedParticipants(participants []*models.Participant) []SeedAssignment {
	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveRating() > ordered[j].EffectiveRating()
	})

	assignments := make([]SeedAssignment, len(ordered))
	for i, p := range ordered {
		assignments[i] = SeedAssignment{Participant: p, Seed: i + 1}
	}
	return assignments
}

// SeededParticipants returns the participants of assignments in seed order.
func SeededParticipants(assignments []SeedAssignment) []*models.Participant {
	out := make([]*models.Participant, len(assignments))
	for i, a := range assignments {
		out[i] = a.Participant
	}
	return out
}
