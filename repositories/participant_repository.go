package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-ladder/models"
	"github.com/lib/pq"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	// ListByTournament returns participants in registration order.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	UpdateSeed(ctx context.Context, participantID int, seed int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `
		SELECT p.id, p.tournament_id, p.player_id, pl.rating, p.seed, p.registered_at
		FROM tournament_participants p
		JOIN players pl ON pl.id = p.player_id
		WHERE p.tournament_id = $1
		ORDER BY p.registered_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var (
			p      models.Participant
			rating sql.NullFloat64
			seed   sql.NullInt64
		)
		if scanErr := rows.Scan(&p.ID, &p.TournamentID, &p.PlayerID, &rating, &seed, &p.RegisteredAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		if rating.Valid {
			v := rating.Float64
			p.Rating = &v
		}
		if seed.Valid {
			v := int(seed.Int64)
			p.Seed = &v
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateSeed(ctx context.Context, participantID int, seed int) error {
	query := `UPDATE tournament_participants SET seed = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, seed, participantID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation: seed < 1
			return fmt.Errorf("invalid seed %d for participant %d: %w", seed, participantID, err)
		}
		return fmt.Errorf("failed to update seed for participant %d: %w", participantID, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
