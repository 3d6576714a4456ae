package main

import (
	"context"
	"fmt"
	"time"

	"github.com/notSunsin/math-hero/internal/config"
	"github.com/notSunsin/math-hero/internal/database"
	"github.com/notSunsin/math-hero/internal/logger"
	"github.com/notSunsin/math-hero/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// sampleStudent is one pre-built progression record for local testing.
type sampleStudent struct {
	name         string
	totalPoints  int
	easy         int
	medium       int
	challenge    int
	achievements []string
	history      []model.GameRecord
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	samples := []sampleStudent{
		{
			name:        "Budi Santoso",
			totalPoints: 350, easy: 5, medium: 3, challenge: 2,
			achievements: []string{"badge100", "badge250"},
			history: []model.GameRecord{
				{Mode: model.ModeEasy, Score: 80, CorrectAnswers: 8, TotalQuestions: 10, PlayedAt: date(2024, 1, 15)},
				{Mode: model.ModeMedium, Score: 70, CorrectAnswers: 7, TotalQuestions: 10, PlayedAt: date(2024, 1, 16)},
				{Mode: model.ModeChallenge, Score: 120, CorrectAnswers: 12, TotalQuestions: 20, PlayedAt: date(2024, 1, 17)},
			},
		},
		{
			name:        "Siti Nurhaliza",
			totalPoints: 580, easy: 8, medium: 6, challenge: 3,
			achievements: []string{"badge100", "badge250", "badge500"},
			history: []model.GameRecord{
				{Mode: model.ModeEasy, Score: 100, CorrectAnswers: 10, TotalQuestions: 10, PlayedAt: date(2024, 1, 10)},
				{Mode: model.ModeMedium, Score: 90, CorrectAnswers: 9, TotalQuestions: 10, PlayedAt: date(2024, 1, 12)},
				{Mode: model.ModeChallenge, Score: 180, CorrectAnswers: 18, TotalQuestions: 20, PlayedAt: date(2024, 1, 14)},
			},
		},
		{
			name:        "Ahmad Rizki",
			totalPoints: 150, easy: 3, medium: 2, challenge: 1,
			achievements: []string{"badge100"},
			history: []model.GameRecord{
				{Mode: model.ModeEasy, Score: 60, CorrectAnswers: 6, TotalQuestions: 10, PlayedAt: date(2024, 1, 18)},
			},
		},
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultParentPin), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash default PIN")
	}

	fmt.Println("=== Seeding Sample Students ===")

	for _, s := range samples {
		var studentID int
		err := pool.QueryRow(ctx, `
			INSERT INTO students (name, total_points, easy_completed, medium_completed, challenge_completed, parent_pin_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (name) DO NOTHING
			RETURNING id`,
			s.name, s.totalPoints, s.easy, s.medium, s.challenge, string(pinHash),
		).Scan(&studentID)
		if err != nil {
			fmt.Printf("Skipping %s (already seeded?): %v\n", s.name, err)
			continue
		}

		for _, badgeID := range s.achievements {
			if _, err := pool.Exec(ctx, `
				INSERT INTO achievements (student_id, badge_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				studentID, badgeID,
			); err != nil {
				log.Fatal().Err(err).Str("badge", badgeID).Msg("Failed to seed achievement")
			}
		}

		for _, g := range s.history {
			if _, err := pool.Exec(ctx, `
				INSERT INTO game_history (student_id, mode, score, correct_answers, total_questions, played_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				studentID, g.Mode, g.Score, g.CorrectAnswers, g.TotalQuestions, g.PlayedAt,
			); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed history entry")
			}
		}

		fmt.Printf("%s: %d points, %d badges, %d games\n", s.name, s.totalPoints, len(s.achievements), len(s.history))
	}

	fmt.Printf("\nSeed completed! Parent PIN for all: %s\n", cfg.DefaultParentPin)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
