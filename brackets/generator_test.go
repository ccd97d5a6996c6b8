package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/tennis-ladder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTournament(format models.TournamentFormat) *models.Tournament {
	return &models.Tournament{ID: 7, Name: "Autumn Ladder", Format: format, Status: models.StatusRegistrationClosed}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		format models.TournamentFormat
		name   string
	}{
		{models.FormatSingleElimination, "SingleElimination"},
		{models.FormatDoubleElimination, "DoubleElimination"},
		{models.FormatRoundRobin, "RoundRobin"},
	}
	for _, tt := range tests {
		g, err := NewGenerator(tt.format, SeedingSimplified)
		require.NoError(t, err)
		assert.Equal(t, tt.name, g.GetName())
	}

	_, err := NewGenerator("swiss", SeedingSimplified)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "swiss")
}

func TestGenerators_RejectTooFewParticipants(t *testing.T) {
	generators := []BracketGenerator{
		NewSingleEliminationGenerator(SeedingSimplified),
		NewDoubleEliminationGenerator(SeedingSimplified),
		NewRoundRobinGenerator(),
	}
	for _, g := range generators {
		for _, n := range []int{0, 1} {
			_, err := g.GenerateBracket(context.Background(), GenerateBracketParams{
				Tournament:   testTournament(models.FormatSingleElimination),
				Participants: rankedParticipants(n),
			})
			require.Error(t, err, "%s n=%d", g.GetName(), n)
			assert.ErrorIs(t, err, ErrInsufficientParticipants)
			assert.Contains(t, err.Error(), "needs at least 2 participants")
		}
	}
}

func TestSingleElimination_PowerOfTwo(t *testing.T) {
	for _, mode := range []SeedingMode{SeedingSimplified, SeedingStandard} {
		for _, n := range []int{2, 4, 8, 16, 32} {
			ps := rankedParticipants(n)
			draw, err := NewSingleEliminationGenerator(mode).GenerateBracket(context.Background(), GenerateBracketParams{
				Tournament:   testTournament(models.FormatSingleElimination),
				Participants: ps,
			})
			require.NoError(t, err)
			assert.Empty(t, draw.Byes)
			matches := draw.Matches
			require.Len(t, matches, n/2, "mode=%s n=%d", mode, n)

			seen := make(map[int]int)
			for i, m := range matches {
				assert.Equal(t, 1, m.Round)
				assert.Equal(t, i+1, m.MatchNumber)
				require.NotNil(t, m.Participant1)
				require.NotNil(t, m.Participant2)
				seen[m.Participant1.ID]++
				seen[m.Participant2.ID]++
			}
			assert.Len(t, seen, n)
			for id, count := range seen {
				assert.Equal(t, 1, count, "participant %d", id)
			}
		}
	}
}

func TestSingleElimination_FourPlayers(t *testing.T) {
	ps := rankedParticipants(4)

	draw, err := NewSingleEliminationGenerator(SeedingSimplified).GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   testTournament(models.FormatSingleElimination),
		Participants: ps,
	})

	require.NoError(t, err)
	matches := draw.Matches
	require.Len(t, matches, 2)
	// slots [1,4,3,2]: seed 1 meets seed 4, seed 3 meets seed 2
	assert.Equal(t, ps[0], matches[0].Participant1)
	assert.Equal(t, ps[3], matches[0].Participant2)
	assert.Equal(t, ps[2], matches[1].Participant1)
	assert.Equal(t, ps[1], matches[1].Participant2)
	assert.Equal(t, 1, matches[0].Slot1)
	assert.Equal(t, 2, matches[0].Slot2)
	assert.Equal(t, "T7_R1M1", matches[0].UID)
}

func TestFirstRoundPairings_FivePlayers(t *testing.T) {
	ps := participantsWithRatings(rating(1500), rating(1400), rating(1300), rating(1200), rating(1100))
	seeded := SeededParticipants(SeedParticipants(ps))

	pairs := FirstRoundPairings(seeded, SeedingSimplified)

	// draw of 8, slots [1,5,6,4,3,7,8,2]; seeds 6-8 are byes
	require.Len(t, pairs, 4)
	outcomes := []PairingOutcome{pairs[0].Outcome, pairs[1].Outcome, pairs[2].Outcome, pairs[3].Outcome}
	assert.Equal(t, []PairingOutcome{PairingMatch, PairingBye, PairingBye, PairingBye}, outcomes)

	assert.Equal(t, 1, pairs[0].Slot1.Seed)
	assert.Equal(t, 5, pairs[0].Slot2.Seed)
	assert.Equal(t, seeded[3], pairs[1].ByeParticipant())
	assert.Equal(t, seeded[2], pairs[2].ByeParticipant())
	assert.Equal(t, seeded[1], pairs[3].ByeParticipant())
	assert.Nil(t, pairs[0].ByeParticipant())

	draw, err := NewSingleEliminationGenerator(SeedingSimplified).GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   testTournament(models.FormatSingleElimination),
		Participants: seeded,
	})
	require.NoError(t, err)
	require.Len(t, draw.Matches, 1)
	assert.Equal(t, 1500.0, draw.Matches[0].Participant1.EffectiveRating())
	assert.Equal(t, 1100.0, draw.Matches[0].Participant2.EffectiveRating())
	assert.Equal(t, pairs[1:], draw.Byes)
}

func TestFirstRoundPairings_MatchCountFollowsDraw(t *testing.T) {
	for _, mode := range []SeedingMode{SeedingSimplified, SeedingStandard} {
		for n := 2; n <= 33; n++ {
			ps := rankedParticipants(n)
			pairs := FirstRoundPairings(ps, mode)
			require.Len(t, pairs, BracketSize(n)/2)

			want, wantByes := 0, 0
			occupied := 0
			for _, p := range pairs {
				if p.Outcome == PairingMatch {
					want++
				}
				if p.Outcome == PairingBye {
					wantByes++
				}
				if !p.Slot1.IsBye() {
					occupied++
				}
				if !p.Slot2.IsBye() {
					occupied++
				}
			}
			assert.Equal(t, n, occupied, "mode=%s n=%d", mode, n)

			draw, err := NewSingleEliminationGenerator(mode).GenerateBracket(context.Background(), GenerateBracketParams{Participants: ps})
			require.NoError(t, err)
			assert.Len(t, draw.Matches, want, "mode=%s n=%d", mode, n)
			assert.Len(t, draw.Byes, wantByes, "mode=%s n=%d", mode, n)
		}
	}
}

func TestFirstRoundPairings_StandardNeverEmpty(t *testing.T) {
	for n := 2; n <= 64; n++ {
		for _, p := range FirstRoundPairings(rankedParticipants(n), SeedingStandard) {
			assert.NotEqual(t, PairingEmpty, p.Outcome, "n=%d", n)
		}
	}
}

func TestDoubleElimination_MatchesWinnersBracketRoundOne(t *testing.T) {
	ps := rankedParticipants(6)
	params := GenerateBracketParams{Tournament: testTournament(models.FormatDoubleElimination), Participants: ps}

	single, err := NewSingleEliminationGenerator(SeedingSimplified).GenerateBracket(context.Background(), params)
	require.NoError(t, err)
	double, err := NewDoubleEliminationGenerator(SeedingSimplified).GenerateBracket(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, single, double)
}

func TestRoundRobin_AllPairsOnce(t *testing.T) {
	for n := 2; n <= 12; n++ {
		ps := rankedParticipants(n)
		draw, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), GenerateBracketParams{
			Tournament:   testTournament(models.FormatRoundRobin),
			Participants: ps,
		})
		require.NoError(t, err)
		assert.Empty(t, draw.Byes)
		matches := draw.Matches
		require.Len(t, matches, n*(n-1)/2)

		type pair struct{ a, b int }
		seen := make(map[pair]bool)
		for i, m := range matches {
			assert.Equal(t, 1, m.Round)
			assert.Equal(t, i+1, m.MatchNumber)
			a, b := m.Participant1.ID, m.Participant2.ID
			require.NotEqual(t, a, b, "self pairing")
			if a > b {
				a, b = b, a
			}
			key := pair{a, b}
			require.False(t, seen[key], "duplicate pairing %v", key)
			seen[key] = true
		}
	}
}

func TestRoundRobin_SeedOrder(t *testing.T) {
	ps := rankedParticipants(3)

	draw, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), GenerateBracketParams{Participants: ps})

	require.NoError(t, err)
	matches := draw.Matches
	require.Len(t, matches, 3)
	assert.Equal(t, []int{1, 2}, []int{matches[0].Participant1.ID, matches[0].Participant2.ID})
	assert.Equal(t, []int{1, 3}, []int{matches[1].Participant1.ID, matches[1].Participant2.ID})
	assert.Equal(t, []int{2, 3}, []int{matches[2].Participant1.ID, matches[2].Participant2.ID})
}

func TestGenerators_HonourCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRoundRobinGenerator().GenerateBracket(ctx, GenerateBracketParams{Participants: rankedParticipants(4)})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewSingleEliminationGenerator(SeedingSimplified).GenerateBracket(ctx, GenerateBracketParams{Participants: rankedParticipants(4)})
	assert.ErrorIs(t, err, context.Canceled)
}
