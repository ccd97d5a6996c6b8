package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Dosada05/tennis-ladder/brackets"
	"github.com/Dosada05/tennis-ladder/models"
	"github.com/Dosada05/tennis-ladder/repositories"
	"github.com/Dosada05/tennis-ladder/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerationState is a step of one bracket generation run.
type GenerationState string

const (
	StateValidating        GenerationState = "validating"
	StateSeeding           GenerationState = "seeding"
	StateGeneratingMatches GenerationState = "generating_matches"
	StateScheduling        GenerationState = "scheduling"
	StatePersisting        GenerationState = "persisting"
	StateCompleted         GenerationState = "completed"
	StateFailed            GenerationState = "failed"
)

const defaultSeedUpdateConcurrency = 8

type BracketServiceConfig struct {
	Seeding brackets.SeedingMode
	Venue   string
	// SeedUpdateConcurrency bounds the parallel seed writes.
	SeedUpdateConcurrency int
	// IdempotencyGuard refuses to insert a second match set for a tournament.
	IdempotencyGuard bool
}

// BracketNotifier is told about freshly generated brackets. brackets.Hub implements it.
type BracketNotifier interface {
	PublishBracketGenerated(tournamentID int, payload interface{})
}

type GenerateBracketResult struct {
	TournamentID       int                     `json:"tournament_id"`
	RunID              string                  `json:"run_id"`
	Format             models.TournamentFormat `json:"format"`
	MatchesCreated     int                     `json:"matches_created"`
	Byes               int                     `json:"byes"`
	Status             models.TournamentStatus `json:"status"`
	SeedUpdateFailures int                     `json:"seed_update_failures"`
	SnapshotURL        string                  `json:"snapshot_url,omitempty"`
	Matches            []*models.Match         `json:"matches"`
}

// BracketSnapshot is the JSON document exported to object storage after a run.
type BracketSnapshot struct {
	TournamentID int                     `json:"tournament_id"`
	RunID        string                  `json:"run_id"`
	Format       models.TournamentFormat `json:"format"`
	Seeding      brackets.SeedingMode    `json:"seeding"`
	RequestedBy  int                     `json:"requested_by,omitempty"`
	GeneratedAt  time.Time               `json:"generated_at"`
	Seeds        []SeedView              `json:"seeds"`
	Matches      []*models.Match         `json:"matches"`
}

// requestedByKey carries the id of the user who asked for a generation run.
type requestedByKey struct{}

// WithRequestedBy tags ctx with the requesting user for run logs and snapshots.
func WithRequestedBy(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, requestedByKey{}, userID)
}

// RequestedBy returns the user id stored by WithRequestedBy, zero when absent.
func RequestedBy(ctx context.Context) int {
	id, _ := ctx.Value(requestedByKey{}).(int)
	return id
}

type SeedView struct {
	ParticipantID int     `json:"participant_id"`
	PlayerID      int     `json:"player_id"`
	Rating        float64 `json:"rating"`
	Seed          int     `json:"seed"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID int) (*GenerateBracketResult, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type bracketService struct {
	txm             repositories.TxManager
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	notifier        BracketNotifier
	uploader        storage.FileUploader
	scheduler       *brackets.MatchScheduler
	cfg             BracketServiceConfig
	logger          *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewBracketService wires the generation pipeline. notifier and uploader may be nil.
func NewBracketService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	notifier BracketNotifier,
	uploader storage.FileUploader,
	cfg BracketServiceConfig,
	logger *slog.Logger,
) BracketService {
	if cfg.SeedUpdateConcurrency <= 0 {
		cfg.SeedUpdateConcurrency = defaultSeedUpdateConcurrency
	}
	if cfg.Seeding == "" {
		cfg.Seeding = brackets.SeedingSimplified
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		txm:             txm,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		notifier:        notifier,
		uploader:        uploader,
		scheduler:       brackets.NewMatchScheduler(cfg.Venue),
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
		newRunID:        func() string { return uuid.NewString() },
	}
}

type generationRun struct {
	id          string
	requestedBy int
	state       GenerationState
	logger      *slog.Logger
}

func (r *generationRun) enter(next GenerationState) {
	r.logger.Debug("bracket generation step", slog.String("from", string(r.state)), slog.String("to", string(next)))
	r.state = next
}

func (r *generationRun) fail(err error) error {
	r.logger.Warn("bracket generation failed",
		slog.String("state", string(r.state)),
		slog.Any("error", err),
	)
	r.state = StateFailed
	return err
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int) (*GenerateBracketResult, error) {
	runID := s.newRunID()
	run := &generationRun{
		id:          runID,
		requestedBy: RequestedBy(ctx),
		state:       StateValidating,
		logger:      s.logger.With(slog.Int("tournament_id", tournamentID), slog.String("run_id", runID)),
	}
	if run.requestedBy > 0 {
		run.logger = run.logger.With(slog.Int("requested_by", run.requestedBy))
	}

	if tournamentID <= 0 {
		return nil, run.fail(fmt.Errorf("%w: tournament id must be positive", ErrValidationFailed))
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, run.fail(fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID))
		}
		return nil, run.fail(fmt.Errorf("%w: failed to load tournament %d: %w", ErrPersistenceFailed, tournamentID, err))
	}
	if tournament.Status != models.StatusRegistrationClosed {
		return nil, run.fail(fmt.Errorf("%w: tournament must be in '%s' status to generate bracket (current: '%s')",
			ErrTournamentNotReady, models.StatusRegistrationClosed, tournament.Status))
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, run.fail(fmt.Errorf("%w: failed to list participants for tournament %d: %w", ErrPersistenceFailed, tournamentID, err))
	}
	if len(participants) < brackets.MinParticipants {
		return nil, run.fail(fmt.Errorf("%w (found %d)", ErrInsufficientParticipants, len(participants)))
	}

	generator, err := brackets.NewGenerator(tournament.Format, s.cfg.Seeding)
	if err != nil {
		return nil, run.fail(err)
	}

	run.enter(StateSeeding)
	assignments := brackets.SeedParticipants(participants)
	seeded := brackets.SeededParticipants(assignments)

	run.enter(StateGeneratingMatches)
	draw, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   tournament,
		Participants: seeded,
	})
	if err != nil {
		return nil, run.fail(fmt.Errorf("failed to generate %s bracket for tournament %d: %w", generator.GetName(), tournamentID, err))
	}
	byes := logByes(run, draw.Byes)

	run.enter(StateScheduling)
	s.scheduler.Schedule(tournament.Format, draw.Matches, s.startTime(tournament))
	matches := toMatches(tournament.ID, runID, draw.Matches)

	run.enter(StatePersisting)
	// Проверка до любых записей: отклонённый запуск не трогает seeds.
	if s.cfg.IdempotencyGuard {
		if err := s.checkNoMatches(ctx, nil, tournament.ID); err != nil {
			return nil, run.fail(err)
		}
	}
	seedFailures := s.updateSeeds(ctx, run, assignments)
	snapshotKey, snapshotURL := s.exportSnapshot(ctx, run, tournament, assignments, matches)

	err = s.txm.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// Повторная проверка внутри транзакции на случай параллельного запуска.
		if s.cfg.IdempotencyGuard {
			if err := s.checkNoMatches(ctx, exec, tournament.ID); err != nil {
				return err
			}
		}
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return fmt.Errorf("%w: failed to insert matches: %w", ErrPersistenceFailed, err)
		}
		err := s.tournamentRepo.TransitionStatus(ctx, exec, tournament.ID, models.StatusRegistrationClosed, models.StatusInProgress)
		if errors.Is(err, repositories.ErrTournamentStatusConflict) {
			return fmt.Errorf("%w: status changed while generating bracket", ErrTournamentNotReady)
		}
		if err != nil {
			return fmt.Errorf("%w: failed to update tournament status: %w", ErrPersistenceFailed, err)
		}
		return nil
	})
	if err != nil {
		s.discardSnapshot(ctx, run, snapshotKey)
		return nil, run.fail(err)
	}

	run.enter(StateCompleted)
	result := &GenerateBracketResult{
		TournamentID:       tournament.ID,
		RunID:              runID,
		Format:             tournament.Format,
		MatchesCreated:     len(matches),
		Byes:               byes,
		Status:             models.StatusInProgress,
		SeedUpdateFailures: seedFailures,
		SnapshotURL:        snapshotURL,
		Matches:            matches,
	}
	if s.notifier != nil {
		s.notifier.PublishBracketGenerated(tournament.ID, result)
	}

	run.logger.Info("bracket generated",
		slog.String("format", string(tournament.Format)),
		slog.Int("participants", len(participants)),
		slog.Int("matches_created", result.MatchesCreated),
		slog.Int("byes", byes),
		slog.Int("seed_update_failures", seedFailures),
	)
	return result, nil
}

func (s *bracketService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return matches, nil
}

func (s *bracketService) startTime(t *models.Tournament) time.Time {
	if t.StartDate != nil && !t.StartDate.IsZero() {
		return *t.StartDate
	}
	return s.now().Truncate(time.Hour)
}

func (s *bracketService) checkNoMatches(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	existing, err := s.matchRepo.CountByTournament(ctx, exec, tournamentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: tournament %d already has %d matches", ErrBracketAlreadyGenerated, tournamentID, existing)
	}
	return nil
}

// logByes reports the first-round byes of the draw. Bye pairs produce no match.
func logByes(run *generationRun, byes []brackets.SlotPair) int {
	for _, pair := range byes {
		p := pair.ByeParticipant()
		run.logger.Info("participant has a first-round bye, no match created",
			slog.Int("participant_id", p.ID),
			slog.Int("slot", pair.Slot1.Position),
		)
	}
	return len(byes)
}

// updateSeeds writes every seed concurrently. Failures are logged and counted, never returned.
func (s *bracketService) updateSeeds(ctx context.Context, run *generationRun, assignments []brackets.SeedAssignment) int {
	var failures atomic.Int32
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.SeedUpdateConcurrency)

	for _, a := range assignments {
		g.Go(func() error {
			if err := s.participantRepo.UpdateSeed(ctx, a.Participant.ID, a.Seed); err != nil {
				failures.Add(1)
				run.logger.Error("failed to update participant seed",
					slog.Int("participant_id", a.Participant.ID),
					slog.Int("seed", a.Seed),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failures.Load())
}

func (s *bracketService) exportSnapshot(
	ctx context.Context,
	run *generationRun,
	t *models.Tournament,
	assignments []brackets.SeedAssignment,
	matches []*models.Match,
) (key, location string) {
	if s.uploader == nil {
		return "", ""
	}
	snapshot := BracketSnapshot{
		TournamentID: t.ID,
		RunID:        run.id,
		Format:       t.Format,
		Seeding:      s.cfg.Seeding,
		RequestedBy:  run.requestedBy,
		GeneratedAt:  s.now().UTC(),
		Seeds:        make([]SeedView, len(assignments)),
		Matches:      matches,
	}
	for i, a := range assignments {
		snapshot.Seeds[i] = SeedView{
			ParticipantID: a.Participant.ID,
			PlayerID:      a.Participant.PlayerID,
			Rating:        a.Participant.EffectiveRating(),
			Seed:          a.Seed,
		}
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		run.logger.Error("failed to marshal bracket snapshot", slog.Any("error", err))
		return "", ""
	}
	res, err := s.uploader.Upload(ctx, storage.BracketSnapshotKey(t.ID, run.id), "application/json", bytes.NewReader(body))
	if err != nil {
		run.logger.Error("failed to upload bracket snapshot", slog.Any("error", err))
		return "", ""
	}
	return res.Key, res.Location
}

// discardSnapshot removes the export of a run whose matches were never committed.
func (s *bracketService) discardSnapshot(ctx context.Context, run *generationRun, key string) {
	if s.uploader == nil || key == "" {
		return
	}
	if err := s.uploader.Delete(context.WithoutCancel(ctx), key); err != nil {
		run.logger.Error("failed to delete orphaned bracket snapshot", slog.String("key", key), slog.Any("error", err))
	}
}

func toMatches(tournamentID int, runID string, bracketMatches []*brackets.BracketMatch) []*models.Match {
	matches := make([]*models.Match, len(bracketMatches))
	for i, bm := range bracketMatches {
		matches[i] = &models.Match{
			TournamentID: tournamentID,
			RunID:        runID,
			Player1ID:    playerID(bm.Participant1),
			Player2ID:    playerID(bm.Participant2),
			Status:       models.MatchStatusPending,
			ScheduledAt:  bm.ScheduledAt,
			Location:     bm.Location,
			Round:        bm.Round,
			MatchNumber:  bm.MatchNumber,
		}
	}
	return matches
}

func playerID(p *models.Participant) *int {
	if p == nil {
		return nil
	}
	id := p.PlayerID
	return &id
}
