package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusInProgress         TournamentStatus = "in_progress"
	StatusCompleted          TournamentStatus = "completed"
	StatusCanceled           TournamentStatus = "canceled"
)

// TournamentFormat is the draw format stored on the tournament row.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

// Tournament представляет турнир.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Format    TournamentFormat `json:"format" db:"format"`
	StartDate *time.Time       `json:"start_date,omitempty" db:"start_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
