package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentLoginKey returns the cache key for a student's login session (JTI).
func (r *CacheKeyStruct) StudentLoginKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// ActiveGameKey returns the cache key pointing at a student's active game session.
func (r *CacheKeyStruct) ActiveGameKey(studentID int) string {
	return fmt.Sprintf("student:%d:active_game", studentID)
}

// GameCompletedKey returns the idempotency guard key for a completed game session.
func (r *CacheKeyStruct) GameCompletedKey(sessionID string) string {
	return fmt.Sprintf("game:%s:done", sessionID)
}

// StatisticsKey returns the cache key for a student's computed statistics.
func (r *CacheKeyStruct) StatisticsKey(studentID int) string {
	return fmt.Sprintf("student:%d:statistics", studentID)
}

var CacheKey = NewCacheKeyStruct()
