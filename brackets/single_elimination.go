package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/tennis-ladder/models"
)

// PairingOutcome tags what a first-round slot pair turns into.
type PairingOutcome int

const (
	// PairingMatch: both slots hold a participant.
	PairingMatch PairingOutcome = iota
	// PairingBye: one participant faces an empty slot. No match is created and the
	// participant is not advanced at generation time.
	PairingBye
	// PairingEmpty: both slots are byes.
	PairingEmpty
)

func (o PairingOutcome) String() string {
	switch o {
	case PairingMatch:
		return "match"
	case PairingBye:
		return "bye"
	case PairingEmpty:
		return "empty"
	default:
		return fmt.Sprintf("PairingOutcome(%d)", int(o))
	}
}

// Slot is one bracket position. Participant is nil when the seed rank exceeds the roster.
type Slot struct {
	Position    int
	Seed        int
	Participant *models.Participant
}

// IsBye reports whether no participant occupies the slot.
func (s Slot) IsBye() bool { return s.Participant == nil }

// SlotPair is two adjacent first-round slots and what they turn into.
type SlotPair struct {
	Slot1   Slot
	Slot2   Slot
	Outcome PairingOutcome
}

// ByeParticipant returns the lone participant of a PairingBye, nil otherwise.
func (p SlotPair) ByeParticipant() *models.Participant {
	if p.Outcome != PairingBye {
		return nil
	}
	if p.Slot1.Participant != nil {
		return p.Slot1.Participant
	}
	return p.Slot2.Participant
}

// FirstRoundPairings lays the seeded participants onto a power-of-two draw and pairs
// adjacent slots.
func FirstRoundPairings(participants []*models.Participant, mode SeedingMode) []SlotPair {
	n := len(participants)
	size := BracketSize(n)
	seeds := BracketPositions(size, mode)

	slots := make([]Slot, size)
	for i, seed := range seeds {
		slot := Slot{Position: i + 1, Seed: seed}
		if seed <= n {
			slot.Participant = participants[seed-1]
		}
		slots[i] = slot
	}

	pairs := make([]SlotPair, 0, size/2)
	for i := 0; i+1 < size; i += 2 {
		pair := SlotPair{Slot1: slots[i], Slot2: slots[i+1]}
		switch {
		case !pair.Slot1.IsBye() && !pair.Slot2.IsBye():
			pair.Outcome = PairingMatch
		case pair.Slot1.IsBye() && pair.Slot2.IsBye():
			pair.Outcome = PairingEmpty
		default:
			pair.Outcome = PairingBye
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

type SingleEliminationGenerator struct {
	seeding SeedingMode
}

func NewSingleEliminationGenerator(seeding SeedingMode) *SingleEliminationGenerator {
	return &SingleEliminationGenerator{seeding: seeding}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket returns the first-round matches. Pairs with a lone participant go to
// Draw.Byes; empty pairs are dropped.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Draw, error) {
	if err := checkParticipants(params.Participants); err != nil {
		return nil, err
	}

	pairs := FirstRoundPairings(params.Participants, g.seeding)
	tID := tournamentID(params.Tournament)

	matches := make([]*BracketMatch, 0, len(pairs))
	var byes []SlotPair
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pair.Outcome == PairingBye {
			byes = append(byes, pair)
		}
		if pair.Outcome != PairingMatch {
			continue
		}
		matchNumber := len(matches) + 1
		matches = append(matches, &BracketMatch{
			UID:          fmt.Sprintf("T%d_R1M%d", tID, matchNumber),
			Round:        1,
			MatchNumber:  matchNumber,
			Slot1:        pair.Slot1.Position,
			Slot2:        pair.Slot2.Position,
			Participant1: pair.Slot1.Participant,
			Participant2: pair.Slot2.Participant,
		})
	}
	return &Draw{Matches: matches, Byes: byes}, nil
}
