package service

import (
	"testing"

	"github.com/notSunsin/math-hero/internal/model"
)

func TestComputeStatisticsEmptyHistory(t *testing.T) {
	stats := computeStatistics(0, nil)

	if stats.TotalGames != 0 || stats.Accuracy != 0 {
		t.Fatalf("expected zeroed stats, got games=%d accuracy=%d", stats.TotalGames, stats.Accuracy)
	}
	if stats.RecentGames == nil || len(stats.RecentGames) != 0 {
		t.Fatalf("recent games should be an empty slice, got %#v", stats.RecentGames)
	}
}

func TestComputeStatistics(t *testing.T) {
	history := []model.GameRecord{
		{Mode: model.ModeChallenge, Score: 150, CorrectAnswers: 15, TotalQuestions: 20},
		{Mode: model.ModeEasy, Score: 100, CorrectAnswers: 10, TotalQuestions: 10},
		{Mode: model.ModeEasy, Score: 70, CorrectAnswers: 7, TotalQuestions: 10},
		{Mode: model.ModeMedium, Score: 80, CorrectAnswers: 8, TotalQuestions: 10},
		{Mode: model.ModeEasy, Score: 90, CorrectAnswers: 9, TotalQuestions: 10},
		{Mode: model.ModeEasy, Score: 60, CorrectAnswers: 6, TotalQuestions: 10},
	}

	stats := computeStatistics(550, history)

	if stats.TotalPoints != 550 {
		t.Errorf("total points = %d, want 550", stats.TotalPoints)
	}
	if stats.TotalGames != 6 {
		t.Errorf("total games = %d, want 6", stats.TotalGames)
	}
	// 55 correct of 70 questions rounds to 79%.
	if stats.Accuracy != 79 {
		t.Errorf("accuracy = %d, want 79", stats.Accuracy)
	}
	if stats.EasyStats.GamesPlayed != 4 || stats.EasyStats.AverageScore != 80 {
		t.Errorf("easy stats = %+v, want 4 games avg 80", stats.EasyStats)
	}
	if stats.MediumStats.GamesPlayed != 1 || stats.MediumStats.AverageScore != 80 {
		t.Errorf("medium stats = %+v, want 1 game avg 80", stats.MediumStats)
	}
	if stats.ChallengeStats.GamesPlayed != 1 || stats.ChallengeStats.AverageScore != 150 {
		t.Errorf("challenge stats = %+v, want 1 game avg 150", stats.ChallengeStats)
	}
	if len(stats.RecentGames) != 5 {
		t.Fatalf("recent games = %d entries, want 5", len(stats.RecentGames))
	}
	if stats.RecentGames[0].Mode != model.ModeChallenge {
		t.Errorf("newest recent game mode = %s, want challenge", stats.RecentGames[0].Mode)
	}
}
