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
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentStatusConflict = errors.New("tournament status changed concurrently")
)

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// TransitionStatus moves the tournament from one status to another and fails with
	// ErrTournamentStatusConflict when the stored status is no longer from.
	TransitionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, format, start_date, status, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var startDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Format, &startDate, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	if startDate.Valid {
		t.StartDate = &startDate.Time
	}
	return t, nil
}

func (r *postgresTournamentRepository) TransitionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2 AND status = $3`
	result, err := executor.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentStatusConflict)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// 22P02: invalid_text_representation, статус не входит в ENUM
		if pqErr.Code == "22P02" {
			return fmt.Errorf("invalid tournament status value: %w", err)
		}
	}
	return err
}
