package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notSunsin/math-hero/internal/game"
	"github.com/notSunsin/math-hero/internal/model"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrDuplicateName   = errors.New("student with this name already exists")
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student (with achievements) by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, total_points, easy_completed, medium_completed, challenge_completed,
		        parent_pin_hash, created_at, updated_at, last_played
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.TotalPoints, &s.EasyCompleted, &s.MediumCompleted, &s.ChallengeCompleted,
		&s.ParentPinHash, &s.CreatedAt, &s.UpdatedAt, &s.LastPlayed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if s.Achievements, err = r.listAchievements(ctx, r.pool, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByName retrieves a student by their unique display name (exact match).
func (r *StudentRepository) GetByName(ctx context.Context, name string) (*model.Student, error) {
	var id int
	err := r.pool.QueryRow(ctx, `SELECT id FROM students WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Create inserts a new zero-state student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (name, parent_pin_hash)
		 VALUES ($1, $2)
		 RETURNING id, total_points, easy_completed, medium_completed, challenge_completed,
		           created_at, updated_at, last_played`,
		s.Name, s.ParentPinHash,
	).Scan(&s.ID, &s.TotalPoints, &s.EasyCompleted, &s.MediumCompleted, &s.ChallengeCompleted,
		&s.CreatedAt, &s.UpdatedAt, &s.LastPlayed)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return err
	}
	s.Achievements = []model.Achievement{}
	return nil
}

// UpdateParentPin replaces a student's parent PIN hash.
func (r *StudentRepository) UpdateParentPin(ctx context.Context, id int, pinHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET parent_pin_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		pinHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// RecordSession applies one finished game to the student's record as a
// single transaction: point total, per-mode completion counter, history
// entry and any newly qualifying badges commit together or not at all.
// The student row is locked for the duration, so two concurrent
// submissions for the same student serialize and can never lose points
// or unlock a badge twice. Returns the updated record and the badge IDs
// unlocked by this call.
func (r *StudentRepository) RecordSession(ctx context.Context, studentID int, mode model.GameMode, score, correctAnswers, totalQuestions int) (*model.Student, []string, error) {
	counterCol, ok := modeCounterColumn(mode)
	if !ok {
		return nil, nil, fmt.Errorf("unknown game mode %q", mode)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var totalPoints int
	err = tx.QueryRow(ctx,
		`UPDATE students
		 SET total_points = total_points + $1,
		     `+counterCol+` = `+counterCol+` + 1,
		     last_played = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING total_points`,
		score, studentID,
	).Scan(&totalPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, fmt.Errorf("update counters: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO game_history (student_id, mode, score, correct_answers, total_questions)
		 VALUES ($1, $2, $3, $4, $5)`,
		studentID, mode, score, correctAnswers, totalQuestions,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert history: %w", err)
	}

	achievements, err := r.listAchievements(ctx, tx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("list achievements: %w", err)
	}
	unlocked := make([]string, len(achievements))
	for i, a := range achievements {
		unlocked[i] = a.BadgeID
	}

	newBadges := game.EvaluateBadges(totalPoints, unlocked)
	for _, badgeID := range newBadges {
		_, err = tx.Exec(ctx,
			`INSERT INTO achievements (student_id, badge_id)
			 VALUES ($1, $2)
			 ON CONFLICT (student_id, badge_id) DO NOTHING`,
			studentID, badgeID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("unlock badge %s: %w", badgeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	student, err := r.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	return student, newBadges, nil
}

// ListHistory retrieves a student's full play history, newest first.
func (r *StudentRepository) ListHistory(ctx context.Context, studentID int) ([]model.GameRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, mode, score, correct_answers, total_questions, played_at
		 FROM game_history WHERE student_id = $1
		 ORDER BY played_at DESC, id DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.GameRecord
	for rows.Next() {
		var g model.GameRecord
		if err := rows.Scan(&g.ID, &g.StudentID, &g.Mode, &g.Score, &g.CorrectAnswers, &g.TotalQuestions, &g.PlayedAt); err != nil {
			return nil, err
		}
		history = append(history, g)
	}
	return history, rows.Err()
}

// querier covers both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *StudentRepository) listAchievements(ctx context.Context, q querier, studentID int) ([]model.Achievement, error) {
	rows, err := q.Query(ctx,
		`SELECT badge_id, unlocked_at FROM achievements
		 WHERE student_id = $1`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.BadgeID, &a.UnlockedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortAchievements(achievements)
	return achievements, nil
}

// badgeRank maps badge IDs to their catalog position.
var badgeRank = func() map[string]int {
	ranks := make(map[string]int, len(model.BadgeCatalog))
	for i, b := range model.BadgeCatalog {
		ranks[b.ID] = i
	}
	return ranks
}()

// sortAchievements orders unlocks by ascending catalog threshold.
// Points only ever grow and badges unlock in threshold order, so this
// is chronological unlock order even when several badges unlock inside
// one transaction and share a timestamp. Unknown badge IDs sort last.
func sortAchievements(achievements []model.Achievement) {
	sort.SliceStable(achievements, func(i, j int) bool {
		ri, iKnown := badgeRank[achievements[i].BadgeID]
		rj, jKnown := badgeRank[achievements[j].BadgeID]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return achievements[i].BadgeID < achievements[j].BadgeID
		}
	})
}

// modeCounterColumn maps a mode to its completion counter column.
// Returning the column name from a fixed set keeps the dynamic SQL safe.
func modeCounterColumn(mode model.GameMode) (string, bool) {
	switch mode {
	case model.ModeEasy:
		return "easy_completed", true
	case model.ModeMedium:
		return "medium_completed", true
	case model.ModeChallenge:
		return "challenge_completed", true
	default:
		return "", false
	}
}
