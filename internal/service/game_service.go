package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notSunsin/math-hero/internal/config"
	"github.com/notSunsin/math-hero/internal/game"
	"github.com/notSunsin/math-hero/internal/model"
	"github.com/notSunsin/math-hero/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// completedGuardTTL is how long the completion idempotency marker lives.
// Long enough to absorb any realistic client retry, short enough to not
// accumulate forever.
const completedGuardTTL = 24 * time.Hour

// Game service errors.
var (
	ErrGameNotFound      = errors.New("game session not found")
	ErrGameNotFinished   = errors.New("game session is not finished")
	ErrGameAlreadyActive = errors.New("another game session is already active")
)

// GameService owns all in-flight game sessions. Sessions are ephemeral:
// they live in memory until completed, abandoned or reaped, and only a
// completed session's result tuple ever reaches PostgreSQL.
type GameService struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*game.Session
	generator *game.Generator

	studentRepo *repository.StudentRepository
	rdb         *redis.Client
	sessionTTL  time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewGameService creates a new GameService. The generator's random
// source is supplied by the caller so tests can seed it.
func NewGameService(
	studentRepo *repository.StudentRepository,
	rdb *redis.Client,
	generator *game.Generator,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *GameService {
	return &GameService{
		sessions:    make(map[uuid.UUID]*game.Session),
		generator:   generator,
		studentRepo: studentRepo,
		rdb:         rdb,
		sessionTTL:  sessionTTL,
		log:         log.With().Str("component", "game_service").Logger(),
		now:         time.Now,
	}
}

// Start creates a new game session for the student. A student has at
// most one active session, claimed atomically through a SET NX pointer
// in Redis: of two racing starts exactly one claim succeeds, and the
// loser discards its session before anyone has seen it. A pointer left
// behind by a reaped or lost session is detected and overwritten.
func (s *GameService) Start(ctx context.Context, studentID int, mode model.GameMode) (*game.Session, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown game mode %q", mode)
	}

	s.mu.Lock()
	questions := s.generator.Sequence(mode)
	session := game.NewSession(studentID, mode, questions, s.now())
	s.sessions[session.ID] = session
	s.mu.Unlock()

	activeKey := config.CacheKey.ActiveGameKey(studentID)
	claimed, err := s.rdb.SetNX(ctx, activeKey, session.ID.String(), s.sessionTTL).Result()
	if err != nil {
		s.discard(session.ID)
		return nil, fmt.Errorf("claim active game: %w", err)
	}

	if !claimed {
		holder, err := s.rdb.Get(ctx, activeKey).Result()
		if err == nil && holder != "" {
			if id, parseErr := uuid.Parse(holder); parseErr == nil {
				s.mu.Lock()
				held, ok := s.sessions[id]
				active := ok && held.State == game.SessionInProgress
				s.mu.Unlock()
				if active {
					s.discard(session.ID)
					return nil, ErrGameAlreadyActive
				}
			}
		} else if err != nil && !errors.Is(err, redis.Nil) {
			s.discard(session.ID)
			return nil, fmt.Errorf("check active game: %w", err)
		}

		// Stale pointer (reaped or lost session), overwrite it.
		if err := s.rdb.Set(ctx, activeKey, session.ID.String(), s.sessionTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Active game pointer write failed")
		}
	}

	s.log.Info().
		Int("student_id", studentID).
		Str("session_id", session.ID.String()).
		Str("mode", string(mode)).
		Msg("Game started")

	return session, nil
}

// discard drops a session that never became the student's active game.
func (s *GameService) discard(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Get returns the student's session by ID. A session belonging to a
// different student is reported as not found.
func (s *GameService) Get(sessionID uuid.UUID, studentID int) (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(sessionID, studentID)
}

// SubmitAnswer applies the player's choice to the current question.
func (s *GameService) SubmitAnswer(sessionID uuid.UUID, studentID, questionIndex, choice int) (*game.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return session.SubmitAnswer(questionIndex, choice, s.now())
}

// Timeout applies a countdown expiry to the current question. The
// session itself verifies that the deadline has really passed, so a
// client cannot fast-forward its own timer.
func (s *GameService) Timeout(sessionID uuid.UUID, studentID, questionIndex int) (*game.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return session.Timeout(questionIndex, s.now())
}

// Abandon discards an in-progress session without persisting anything.
func (s *GameService) Abandon(ctx context.Context, sessionID uuid.UUID, studentID int) error {
	s.mu.Lock()
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	err = session.Abandon()
	if err == nil {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if delErr := s.rdb.Del(ctx, config.CacheKey.ActiveGameKey(studentID)).Err(); delErr != nil {
		s.log.Warn().Err(delErr).Msg("Active game pointer delete failed")
	}
	return nil
}

// Complete persists a finished session's result tuple. The session ID is
// the idempotency token: a Redis SET NX guard makes sure a retried
// completion can neither double-count points nor re-unlock badges. The
// duplicate gets the current record and no new badges. On a storage
// failure the guard is released and the session kept, so the client can
// retry without losing the play-through.
func (s *GameService) Complete(ctx context.Context, sessionID uuid.UUID, studentID int) (*model.Student, []string, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && session.StudentID != studentID {
		session, ok = nil, false
	}
	s.mu.Unlock()

	if !ok {
		// The session may have been completed and dropped already;
		// replay the recorded outcome instead of failing the retry.
		done, err := s.rdb.Exists(ctx, config.CacheKey.GameCompletedKey(sessionID.String())).Result()
		if err == nil && done > 0 {
			student, err := s.studentRepo.GetByID(ctx, studentID)
			return student, []string{}, err
		}
		return nil, nil, ErrGameNotFound
	}

	if session.State != game.SessionCompleted {
		return nil, nil, ErrGameNotFinished
	}

	doneKey := config.CacheKey.GameCompletedKey(sessionID.String())
	first, err := s.rdb.SetNX(ctx, doneKey, "1", completedGuardTTL).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("completion guard: %w", err)
	}
	if !first {
		student, err := s.studentRepo.GetByID(ctx, studentID)
		return student, []string{}, err
	}

	student, newBadges, err := s.studentRepo.RecordSession(
		ctx, studentID, session.Mode, session.Score, session.CorrectCount, len(session.Questions),
	)
	if err != nil {
		if delErr := s.rdb.Del(ctx, doneKey).Err(); delErr != nil {
			s.log.Error().Err(delErr).Str("session_id", sessionID.String()).
				Msg("Failed to release completion guard after storage error")
		}
		return nil, nil, fmt.Errorf("record session: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.ActiveGameKey(studentID))
	pipe.Del(ctx, config.CacheKey.StatisticsKey(studentID))
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Post-completion cache cleanup failed")
	}

	s.log.Info().
		Int("student_id", studentID).
		Str("mode", string(session.Mode)).
		Int("score", session.Score).
		Strs("new_badges", newBadges).
		Msg("Game recorded")

	return student, newBadges, nil
}

// CountdownView is a consistent snapshot for the timer stream.
type CountdownView struct {
	State         game.SessionState
	QuestionIndex int
	Remaining     time.Duration
}

// Countdown snapshots the current question's timer under the store
// lock, so the stream never observes a half-applied event.
func (s *GameService) Countdown(sessionID uuid.UUID, studentID int) (*CountdownView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if !session.Mode.Timed() {
		return nil, game.ErrSessionUntimed
	}
	return &CountdownView{
		State:         session.State,
		QuestionIndex: session.CurrentIndex,
		Remaining:     session.TimeRemaining(s.now()),
	}, nil
}

// SweepExpired abandons sessions that have seen no event for longer
// than the configured TTL. Returns how many were reaped.
func (s *GameService) SweepExpired(ctx context.Context) int {
	cutoff := s.now().Add(-s.sessionTTL)

	s.mu.Lock()
	var reaped []*game.Session
	for id, session := range s.sessions {
		if session.LastEventAt.Before(cutoff) {
			_ = session.Abandon()
			delete(s.sessions, id)
			reaped = append(reaped, session)
		}
	}
	s.mu.Unlock()

	for _, session := range reaped {
		if err := s.rdb.Del(ctx, config.CacheKey.ActiveGameKey(session.StudentID)).Err(); err != nil {
			s.log.Warn().Err(err).Int("student_id", session.StudentID).
				Msg("Active game pointer delete failed during sweep")
		}
	}
	return len(reaped)
}

// lookup must be called with s.mu held.
func (s *GameService) lookup(sessionID uuid.UUID, studentID int) (*game.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.StudentID != studentID {
		return nil, ErrGameNotFound
	}
	return session, nil
}
