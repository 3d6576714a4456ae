package model

import "time"

// Student represents a player's durable progression record.
type Student struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	TotalPoints        int           `json:"total_points"`
	EasyCompleted      int           `json:"easy_completed"`
	MediumCompleted    int           `json:"medium_completed"`
	ChallengeCompleted int           `json:"challenge_completed"`
	Achievements       []Achievement `json:"achievements"`
	ParentPinHash      string        `json:"-"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	LastPlayed         time.Time     `json:"last_played"`
}

// TotalGamesPlayed is the sum of all per-mode completion counters.
func (s *Student) TotalGamesPlayed() int {
	return s.EasyCompleted + s.MediumCompleted + s.ChallengeCompleted
}

// Achievement is one unlocked badge on a student record.
// A badge appears at most once per student; insertion order is unlock order.
type Achievement struct {
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// GameRecord is one entry of a student's append-only play history.
type GameRecord struct {
	ID             int64     `json:"id"`
	StudentID      int       `json:"student_id"`
	Mode           GameMode  `json:"mode"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	PlayedAt       time.Time `json:"played_at"`
}

// ModeStats aggregates history entries of a single mode.
type ModeStats struct {
	GamesPlayed  int `json:"games_played"`
	AverageScore int `json:"average_score"`
}

// Statistics is the derived summary shown on the parent dashboard.
type Statistics struct {
	TotalPoints    int          `json:"total_points"`
	TotalGames     int          `json:"total_games"`
	Accuracy       int          `json:"accuracy"`
	TotalCorrect   int          `json:"total_correct"`
	TotalQuestions int          `json:"total_questions"`
	EasyStats      ModeStats    `json:"easy_stats"`
	MediumStats    ModeStats    `json:"medium_stats"`
	ChallengeStats ModeStats    `json:"challenge_stats"`
	RecentGames    []GameRecord `json:"recent_games"`
}

// StudentLoginRequest is the payload for student name-based login.
type StudentLoginRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// ParentLoginRequest is the payload for the parent dashboard login.
type ParentLoginRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
	Pin  string `json:"pin" binding:"required,min=4,max=12"`
}
