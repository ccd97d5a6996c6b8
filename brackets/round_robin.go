package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match for every unordered pair of participants.
// Every match is round 1; match numbers follow seed order.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Draw, error) {
	participants := params.Participants
	if err := checkParticipants(participants); err != nil {
		return nil, err
	}

	n := len(participants)
	tID := tournamentID(params.Tournament)
	matches := make([]*BracketMatch, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			matchNumber := len(matches) + 1
			matches = append(matches, &BracketMatch{
				UID:          fmt.Sprintf("T%d_RRM%d_P%dvsP%d", tID, matchNumber, participants[i].ID, participants[j].ID),
				Round:        1,
				MatchNumber:  matchNumber,
				Participant1: participants[i],
				Participant2: participants[j],
			})
		}
	}
	return &Draw{Matches: matches}, nil
}
