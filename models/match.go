package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusWalkover   MatchStatus = "walkover"
)

// Match is a scheduled pairing. Player1ID/Player2ID hold player ids, not participant ids.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	RunID        string      `json:"generation_run_id" db:"generation_run_id"`
	Player1ID    *int        `json:"player1_id" db:"player1_id"`
	Player2ID    *int        `json:"player2_id" db:"player2_id"`
	Status       MatchStatus `json:"status" db:"status"`
	ScheduledAt  time.Time   `json:"date" db:"scheduled_at"`
	Location     string      `json:"location" db:"location"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
