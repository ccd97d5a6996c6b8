package models

import "time"

// DefaultRating is used for seeding when a player has no rating yet.
const DefaultRating = 1200.0

type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	Rating       *float64  `json:"rating,omitempty" db:"rating"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

func (p *Participant) EffectiveRating() float64 {
	if p == nil || p.Rating == nil {
		return DefaultRating
	}
	return *p.Rating
}
