package brackets

import (
	"testing"

	"github.com/Dosada05/tennis-ladder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 { return &v }

// participantsWithRatings builds participants with ids 1..n in the given fetch order.
func participantsWithRatings(ratings ...*float64) []*models.Participant {
	out := make([]*models.Participant, len(ratings))
	for i, r := range ratings {
		out[i] = &models.Participant{ID: i + 1, TournamentID: 7, PlayerID: 100 + i + 1, Rating: r}
	}
	return out
}

func rankedParticipants(n int) []*models.Participant {
	ratings := make([]*float64, n)
	for i := range ratings {
		ratings[i] = rating(float64(2000 - i*10))
	}
	return participantsWithRatings(ratings...)
}

func TestSeedParticipants_DescendingRating(t *testing.T) {
	ps := participantsWithRatings(rating(1300), rating(1500), rating(1100), rating(1400))

	got := SeedParticipants(ps)

	require.Len(t, got, 4)
	assert.Equal(t, []int{2, 4, 1, 3}, seededIDs(got))
	for i, a := range got {
		assert.Equal(t, i+1, a.Seed)
	}
	assert.Equal(t, 1500.0, got[0].Participant.EffectiveRating())
}

func TestSeedParticipants_TiesKeepFetchOrder(t *testing.T) {
	ps := participantsWithRatings(rating(1400), rating(1400), rating(1500), rating(1400))

	got := SeedParticipants(ps)

	assert.Equal(t, []int{3, 1, 2, 4}, seededIDs(got))
}

func TestSeedParticipants_MissingRatingUsesFloor(t *testing.T) {
	ps := participantsWithRatings(nil, rating(1250), rating(1150), nil)

	got := SeedParticipants(ps)

	// nil ratings sit at 1200: above 1150, below 1250, in fetch order.
	assert.Equal(t, []int{2, 1, 4, 3}, seededIDs(got))
}

func TestSeedParticipants_DoesNotReorderInput(t *testing.T) {
	ps := participantsWithRatings(rating(1000), rating(2000))

	SeedParticipants(ps)

	assert.Equal(t, 1, ps[0].ID)
	assert.Equal(t, 2, ps[1].ID)
}

func TestSeedParticipants_Empty(t *testing.T) {
	assert.Empty(t, SeedParticipants(nil))
}

func seededIDs(assignments []SeedAssignment) []int {
	ids := make([]int, len(assignments))
	for i, p := range SeededParticipants(assignments) {
		ids[i] = p.ID
	}
	return ids
}
