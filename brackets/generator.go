package brackets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tennis-ladder/models"
)

var (
	ErrInsufficientParticipants = errors.New("needs at least 2 participants")
	ErrUnsupportedFormat        = errors.New("unsupported format")
)

// MinParticipants is the smallest roster any format accepts.
const MinParticipants = 2

type GenerateBracketParams struct {
	Tournament *models.Tournament
	// Participants must already be in seed order (seed 1 first).
	Participants []*models.Participant
}

// BracketMatch is an unsaved match produced by a generator.
// Slot1/Slot2 are 1-based bracket positions; round robin leaves them at zero.
type BracketMatch struct {
	UID         string
	Round       int
	MatchNumber int

	Slot1 int
	Slot2 int

	Participant1 *models.Participant
	Participant2 *models.Participant

	ScheduledAt time.Time
	Location    string
}

// Draw is the output of one generator run. Byes holds the first-round pairs of elimination
// draws that produced no match; round robin leaves it empty.
type Draw struct {
	Matches []*BracketMatch
	Byes    []SlotPair
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Draw, error)

	GetName() string
}

// NewGenerator picks the generator for a tournament format.
func NewGenerator(format models.TournamentFormat, seeding SeedingMode) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(seeding), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(seeding), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func checkParticipants(participants []*models.Participant) error {
	if len(participants) < MinParticipants {
		return fmt.Errorf("%w (found %d)", ErrInsufficientParticipants, len(participants))
	}
	return nil
}

func tournamentID(t *models.Tournament) int {
	if t == nil {
		return 0
	}
	return t.ID
}
