package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/notSunsin/math-hero/internal/config"
	"github.com/notSunsin/math-hero/internal/model"
	"github.com/notSunsin/math-hero/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNameTooShort is returned when a trimmed login name has fewer than 2 characters.
var ErrNameTooShort = errors.New("name must be at least 2 characters")

// statisticsCacheTTL bounds how stale the parent dashboard may get if an
// invalidation is ever missed.
const statisticsCacheTTL = 10 * time.Minute

// StudentService handles student accounts and the parent dashboard.
type StudentService struct {
	studentRepo *repository.StudentRepository
	authService *AuthService
	rdb         *redis.Client
	cfg         *config.Config
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	studentRepo *repository.StudentRepository,
	authService *AuthService,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		authService: authService,
		rdb:         rdb,
		cfg:         cfg,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// Login finds a student by trimmed name, creating a zero-state record on
// first login. The returned bool reports whether the account was created
// by this call.
func (s *StudentService) Login(ctx context.Context, name string) (*model.Student, bool, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, false, ErrNameTooShort
	}

	student, err := s.studentRepo.GetByName(ctx, name)
	if err == nil {
		return student, false, nil
	}
	if !errors.Is(err, repository.ErrStudentNotFound) {
		return nil, false, fmt.Errorf("find student: %w", err)
	}

	pinHash, err := s.authService.HashPin(s.cfg.DefaultParentPin)
	if err != nil {
		return nil, false, fmt.Errorf("hash default pin: %w", err)
	}

	student = &model.Student{Name: name, ParentPinHash: pinHash}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		// Two first logins with the same name can race; the loser
		// re-reads the row the winner created.
		if errors.Is(err, repository.ErrDuplicateName) {
			student, err = s.studentRepo.GetByName(ctx, name)
			return student, false, err
		}
		return nil, false, fmt.Errorf("create student: %w", err)
	}

	s.log.Info().Int("student_id", student.ID).Str("name", name).Msg("New student registered")
	return student, true, nil
}

// ParentLogin verifies a parent PIN against the named student's record.
func (s *StudentService) ParentLogin(ctx context.Context, name, pin string) (*model.Student, error) {
	student, err := s.studentRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if err := s.authService.CheckPin(student.ParentPinHash, pin); err != nil {
		return nil, err
	}
	return student, nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// RecentGames returns the student's most recent history entries, newest first.
func (s *StudentService) RecentGames(ctx context.Context, studentID, limit int) ([]model.GameRecord, error) {
	history, err := s.studentRepo.ListHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// GetStatistics derives the parent dashboard summary from the student's
// history: overall accuracy, per-mode games played and average score,
// and the 5 most recent games. Results are cached in Redis and
// invalidated whenever a new game is recorded; a Redis failure only
// costs the recompute.
func (s *StudentService) GetStatistics(ctx context.Context, studentID int) (*model.Statistics, error) {
	cacheKey := config.CacheKey.StatisticsKey(studentID)

	if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		stats := &model.Statistics{}
		if err := json.Unmarshal([]byte(raw), stats); err == nil {
			return stats, nil
		}
		// Corrupt cache entry, fall through and recompute.
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Statistics cache read failed")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	history, err := s.studentRepo.ListHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}

	stats := computeStatistics(student.TotalPoints, history)

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, statisticsCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Statistics cache write failed")
		}
	}

	return stats, nil
}

// InvalidateStatistics drops the cached dashboard summary for a student.
func (s *StudentService) InvalidateStatistics(ctx context.Context, studentID int) {
	if err := s.rdb.Del(ctx, config.CacheKey.StatisticsKey(studentID)).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Statistics cache invalidation failed")
	}
}

// SetParentPin hashes and stores a new parent PIN for a student.
func (s *StudentService) SetParentPin(ctx context.Context, studentID int, pin string) error {
	hash, err := s.authService.HashPin(pin)
	if err != nil {
		return err
	}
	return s.studentRepo.UpdateParentPin(ctx, studentID, hash)
}

func computeStatistics(totalPoints int, history []model.GameRecord) *model.Statistics {
	stats := &model.Statistics{
		TotalPoints: totalPoints,
		TotalGames:  len(history),
		RecentGames: []model.GameRecord{},
	}

	perMode := map[model.GameMode]*struct{ games, score int }{
		model.ModeEasy:      {},
		model.ModeMedium:    {},
		model.ModeChallenge: {},
	}

	for _, g := range history {
		stats.TotalCorrect += g.CorrectAnswers
		stats.TotalQuestions += g.TotalQuestions
		if m, ok := perMode[g.Mode]; ok {
			m.games++
			m.score += g.Score
		}
	}

	if stats.TotalQuestions > 0 {
		stats.Accuracy = int(math.Round(100 * float64(stats.TotalCorrect) / float64(stats.TotalQuestions)))
	}

	stats.EasyStats = modeStats(perMode[model.ModeEasy].games, perMode[model.ModeEasy].score)
	stats.MediumStats = modeStats(perMode[model.ModeMedium].games, perMode[model.ModeMedium].score)
	stats.ChallengeStats = modeStats(perMode[model.ModeChallenge].games, perMode[model.ModeChallenge].score)

	// History is already sorted newest first.
	recent := history
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentGames = append(stats.RecentGames, recent...)

	return stats
}

func modeStats(games, totalScore int) model.ModeStats {
	ms := model.ModeStats{GamesPlayed: games}
	if games > 0 {
		ms.AverageScore = int(math.Round(float64(totalScore) / float64(games)))
	}
	return ms
}
