package brackets

import "context"

// DoubleEliminationGenerator only builds the winners bracket opening round.
// TODO: losers bracket routing (loser of winners round k drops into losers round 2k-1).
type DoubleEliminationGenerator struct {
	winners *SingleEliminationGenerator
}

func NewDoubleEliminationGenerator(seeding SeedingMode) *DoubleEliminationGenerator {
	return &DoubleEliminationGenerator{winners: NewSingleEliminationGenerator(seeding)}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Draw, error) {
	return g.winners.GenerateBracket(ctx, params)
}
