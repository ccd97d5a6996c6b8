package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Dosada05/tennis-ladder/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffectedRows(t *testing.T) {
	assert.NoError(t, checkAffectedRows(fakeResult{rows: 1}, ErrParticipantNotFound))
	assert.ErrorIs(t, checkAffectedRows(fakeResult{rows: 0}, ErrTournamentStatusConflict), ErrTournamentStatusConflict)
	assert.Error(t, checkAffectedRows(fakeResult{err: errors.New("driver")}, ErrParticipantNotFound))
}

func TestNullIntPtr(t *testing.T) {
	assert.Nil(t, nullIntPtr(sql.NullInt64{}))
	p := nullIntPtr(sql.NullInt64{Int64: 42, Valid: true})
	if assert.NotNil(t, p) {
		assert.Equal(t, 42, *p)
	}
}

func TestHandleMatchError(t *testing.T) {
	r := &postgresMatchRepository{}

	fk := &pq.Error{Code: "23503", Constraint: "matches_tournament_id_fkey"}
	assert.ErrorIs(t, r.handleMatchError(fk), ErrMatchTournamentInvalid)

	dup := &pq.Error{Code: "23505", Constraint: "matches_generation_run_id_match_number_key"}
	assert.ErrorIs(t, r.handleMatchError(dup), ErrMatchNumberConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, r.handleMatchError(other))
}

func TestCreateBatch_RequiresTransaction(t *testing.T) {
	r := &postgresMatchRepository{}
	assert.NoError(t, r.CreateBatch(context.Background(), nil, nil))
	assert.Error(t, r.CreateBatch(context.Background(), nil, []*models.Match{{MatchNumber: 1}}))
}
