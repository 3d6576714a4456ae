package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/notSunsin/math-hero/internal/model"
)

// PointsPerCorrect is the fixed score award for a correct answer.
const PointsPerCorrect = 10

// QuestionTimeLimit is the per-question countdown in challenge mode.
const QuestionTimeLimit = 20 * time.Second

// SessionState enumerates game session states.
type SessionState string

const (
	SessionInProgress SessionState = "IN_PROGRESS"
	SessionCompleted  SessionState = "COMPLETED"
	SessionAbandoned  SessionState = "ABANDONED"
)

// Session event errors.
var (
	ErrNotInProgress  = errors.New("game session is not in progress")
	ErrStaleQuestion  = errors.New("event targets a question that was already resolved")
	ErrTimerNotDue    = errors.New("question timer has not expired yet")
	ErrSessionUntimed = errors.New("game session has no timer")
)

// Session is one play-through of a fixed question sequence. It is a
// plain value owned by its player's request flow; all mutation goes
// through SubmitAnswer, Timeout and Abandon, which resolve at most one
// outcome per question regardless of how answer and timer events race.
// The caller (service layer) is responsible for locking.
type Session struct {
	ID           uuid.UUID
	StudentID    int
	Mode         model.GameMode
	Questions    []model.Question
	CurrentIndex int
	Score        int
	CorrectCount int
	State        SessionState
	StartedAt    time.Time
	LastEventAt  time.Time
	// Deadline is when the current question times out. Zero for
	// untimed modes. Reset on every advancement.
	Deadline time.Time
}

// AnswerResult describes the resolved outcome of one question.
type AnswerResult struct {
	Correct       bool `json:"correct"`
	TimedOut      bool `json:"timed_out"`
	CorrectAnswer int  `json:"correct_answer"`
	Score         int  `json:"score"`
	CorrectCount  int  `json:"correct_count"`
	NextIndex     int  `json:"next_index"`
	Finished      bool `json:"finished"`
}

// NewSession starts a session over the given question sequence.
func NewSession(studentID int, mode model.GameMode, questions []model.Question, now time.Time) *Session {
	s := &Session{
		ID:          uuid.New(),
		StudentID:   studentID,
		Mode:        mode,
		Questions:   questions,
		State:       SessionInProgress,
		StartedAt:   now,
		LastEventAt: now,
	}
	if mode.Timed() {
		s.Deadline = now.Add(QuestionTimeLimit)
	}
	return s
}

// SubmitAnswer resolves the current question with the player's choice.
// questionIndex must match CurrentIndex; a stale index means the
// question was already resolved by an earlier answer or by the timer,
// and the event is rejected. In timed modes a submission arriving after
// the deadline loses the race: the question resolves as a timeout and
// no points are awarded.
func (s *Session) SubmitAnswer(questionIndex, choice int, now time.Time) (*AnswerResult, error) {
	if s.State != SessionInProgress {
		return nil, ErrNotInProgress
	}
	if questionIndex != s.CurrentIndex {
		return nil, ErrStaleQuestion
	}

	question := s.Questions[s.CurrentIndex]
	result := &AnswerResult{CorrectAnswer: question.CorrectAnswer}

	if s.Mode.Timed() && now.After(s.Deadline) {
		result.TimedOut = true
	} else if choice == question.CorrectAnswer {
		s.Score += PointsPerCorrect
		s.CorrectCount++
		result.Correct = true
	}

	s.advance(now)
	result.Score = s.Score
	result.CorrectCount = s.CorrectCount
	result.NextIndex = s.CurrentIndex
	result.Finished = s.State == SessionCompleted
	return result, nil
}

// Timeout resolves the current question as unanswered. Valid only in
// timed modes and only once the deadline has actually passed; an early
// or duplicate timeout is rejected, so a timeout racing a submission
// can never advance the session twice.
func (s *Session) Timeout(questionIndex int, now time.Time) (*AnswerResult, error) {
	if s.State != SessionInProgress {
		return nil, ErrNotInProgress
	}
	if !s.Mode.Timed() {
		return nil, ErrSessionUntimed
	}
	if questionIndex != s.CurrentIndex {
		return nil, ErrStaleQuestion
	}
	if now.Before(s.Deadline) {
		return nil, ErrTimerNotDue
	}

	result := &AnswerResult{
		TimedOut:      true,
		CorrectAnswer: s.Questions[s.CurrentIndex].CorrectAnswer,
	}
	s.advance(now)
	result.Score = s.Score
	result.CorrectCount = s.CorrectCount
	result.NextIndex = s.CurrentIndex
	result.Finished = s.State == SessionCompleted
	return result, nil
}

// Abandon discards an in-progress session. Nothing is persisted.
func (s *Session) Abandon() error {
	if s.State != SessionInProgress {
		return ErrNotInProgress
	}
	s.State = SessionAbandoned
	return nil
}

// TimeRemaining reports the countdown left for the current question,
// clamped at zero. Always zero for untimed modes.
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	if !s.Mode.Timed() || s.State != SessionInProgress {
		return 0
	}
	remaining := s.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) advance(now time.Time) {
	s.CurrentIndex++
	s.LastEventAt = now
	if s.CurrentIndex >= len(s.Questions) {
		s.State = SessionCompleted
		s.Deadline = time.Time{}
		return
	}
	if s.Mode.Timed() {
		s.Deadline = now.Add(QuestionTimeLimit)
	}
}
