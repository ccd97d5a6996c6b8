package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-ladder/models"
	"github.com/lib/pq"
)

var (
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchNumberConflict    = errors.New("match number already used in this generation run")
)

var matchCopyColumns = []string{
	"tournament_id", "generation_run_id", "player1_id", "player2_id", "status",
	"scheduled_at", "location", "round", "match_number",
}

type MatchRepository interface {
	// CreateBatch bulk-inserts matches with COPY. exec must be a transaction.
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	if exec == nil {
		return errors.New("CreateBatch: a transaction is required for COPY")
	}

	stmt, err := exec.PrepareContext(ctx, pq.CopyIn("matches", matchCopyColumns...))
	if err != nil {
		return fmt.Errorf("CreateBatch: failed to prepare COPY: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		if _, err := stmt.ExecContext(ctx,
			m.TournamentID,
			m.RunID,
			m.Player1ID,
			m.Player2ID,
			m.Status,
			m.ScheduledAt,
			m.Location,
			m.Round,
			m.MatchNumber,
		); err != nil {
			return r.handleMatchError(fmt.Errorf("CreateBatch: failed to buffer match %d: %w", m.MatchNumber, err))
		}
	}
	// Пустой Exec сбрасывает буфер COPY на сервер.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return r.handleMatchError(fmt.Errorf("CreateBatch: failed to flush COPY: %w", err))
	}
	return nil
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, generation_run_id, player1_id, player2_id, status,
		       scheduled_at, location, round, match_number, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY created_at ASC, round ASC, match_number ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var (
			m      models.Match
			p1, p2 sql.NullInt64
		)
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.RunID, &p1, &p2, &m.Status,
			&m.ScheduledAt, &m.Location, &m.Round, &m.MatchNumber, &m.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		m.Player1ID = nullIntPtr(p1)
		m.Player2ID = nullIntPtr(p2)
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "matches_tournament_id_fkey" {
				return ErrMatchTournamentInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_generation_run_id_match_number_key" {
				return ErrMatchNumberConflict
			}
		}
	}
	return err
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
