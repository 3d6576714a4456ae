package game

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/notSunsin/math-hero/internal/model"
)

func newTestSession(t *testing.T, mode model.GameMode, now time.Time) *Session {
	t.Helper()
	g := NewGenerator(rand.New(rand.NewPCG(42, 0)))
	return NewSession(1, mode, g.Sequence(mode), now)
}

func TestFullEasySessionAllCorrect(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestSession(t, model.ModeEasy, now)

	for i := 0; i < 10; i++ {
		res, err := s.SubmitAnswer(i, s.Questions[i].CorrectAnswer, now)
		if err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
		if !res.Correct {
			t.Fatalf("question %d scored wrong despite correct choice", i)
		}
	}

	if s.State != SessionCompleted {
		t.Fatalf("state = %s, want %s", s.State, SessionCompleted)
	}
	if s.Score != 100 || s.CorrectCount != 10 {
		t.Errorf("score=%d correct=%d, want 100/10", s.Score, s.CorrectCount)
	}
}

func TestWrongAnswerKeepsCounters(t *testing.T) {
	now := time.Now()
	s := newTestSession(t, model.ModeEasy, now)

	q := s.Questions[0]
	wrong := q.CorrectAnswer + 1
	res, err := s.SubmitAnswer(0, wrong, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("wrong choice reported as correct")
	}
	if res.CorrectAnswer != q.CorrectAnswer {
		t.Errorf("result reveals %d, want %d", res.CorrectAnswer, q.CorrectAnswer)
	}
	if s.Score != 0 || s.CorrectCount != 0 {
		t.Errorf("counters changed on wrong answer: score=%d correct=%d", s.Score, s.CorrectCount)
	}
	if s.CurrentIndex != 1 {
		t.Errorf("session did not advance: index=%d", s.CurrentIndex)
	}
}

func TestStaleSubmissionRejected(t *testing.T) {
	now := time.Now()
	s := newTestSession(t, model.ModeEasy, now)

	if _, err := s.SubmitAnswer(0, s.Questions[0].CorrectAnswer, now); err != nil {
		t.Fatal(err)
	}
	// Second submission for question 0 must not record a second outcome.
	if _, err := s.SubmitAnswer(0, s.Questions[0].CorrectAnswer, now); !errors.Is(err, ErrStaleQuestion) {
		t.Fatalf("got %v, want ErrStaleQuestion", err)
	}
	if s.Score != PointsPerCorrect || s.CurrentIndex != 1 {
		t.Errorf("duplicate submission mutated session: score=%d index=%d", s.Score, s.CurrentIndex)
	}
}

func TestChallengeTimeoutAdvancesWithoutScore(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestSession(t, model.ModeChallenge, start)

	expired := start.Add(QuestionTimeLimit + time.Second)
	res, err := s.Timeout(0, expired)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut {
		t.Error("timeout result not marked timed out")
	}
	if s.Score != 0 || s.CorrectCount != 0 {
		t.Errorf("timeout awarded points: score=%d correct=%d", s.Score, s.CorrectCount)
	}
	if s.CurrentIndex != 1 {
		t.Errorf("timeout did not advance: index=%d", s.CurrentIndex)
	}
	// Timer restarts for the next question.
	if got := s.TimeRemaining(expired); got != QuestionTimeLimit {
		t.Errorf("TimeRemaining after advance = %v, want %v", got, QuestionTimeLimit)
	}
}

func TestEarlyTimeoutRejected(t *testing.T) {
	start := time.Now()
	s := newTestSession(t, model.ModeChallenge, start)

	if _, err := s.Timeout(0, start.Add(5*time.Second)); !errors.Is(err, ErrTimerNotDue) {
		t.Fatalf("got %v, want ErrTimerNotDue", err)
	}
	if s.CurrentIndex != 0 {
		t.Error("early timeout advanced the session")
	}
}

func TestTimeoutOnUntimedSessionRejected(t *testing.T) {
	now := time.Now()
	s := newTestSession(t, model.ModeEasy, now)
	if _, err := s.Timeout(0, now.Add(time.Hour)); !errors.Is(err, ErrSessionUntimed) {
		t.Fatalf("got %v, want ErrSessionUntimed", err)
	}
}

func TestLateSubmissionLosesToTimer(t *testing.T) {
	start := time.Now()
	s := newTestSession(t, model.ModeChallenge, start)

	late := start.Add(QuestionTimeLimit + time.Second)
	res, err := s.SubmitAnswer(0, s.Questions[0].CorrectAnswer, late)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct || !res.TimedOut {
		t.Errorf("late submission scored: %+v", res)
	}
	if s.Score != 0 {
		t.Errorf("late submission awarded points: %d", s.Score)
	}
}

func TestTimerRaceResolvesOnce(t *testing.T) {
	start := time.Now()
	s := newTestSession(t, model.ModeChallenge, start)

	// Answer lands just before the deadline, then the ticker fires.
	inTime := start.Add(QuestionTimeLimit - time.Millisecond)
	if _, err := s.SubmitAnswer(0, s.Questions[0].CorrectAnswer, inTime); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Timeout(0, start.Add(QuestionTimeLimit)); !errors.Is(err, ErrStaleQuestion) {
		t.Fatalf("racing timeout got %v, want ErrStaleQuestion", err)
	}
	if s.CurrentIndex != 1 {
		t.Errorf("race advanced twice: index=%d", s.CurrentIndex)
	}
}

func TestAbandon(t *testing.T) {
	now := time.Now()
	s := newTestSession(t, model.ModeMedium, now)

	if err := s.Abandon(); err != nil {
		t.Fatal(err)
	}
	if s.State != SessionAbandoned {
		t.Fatalf("state = %s, want %s", s.State, SessionAbandoned)
	}
	if _, err := s.SubmitAnswer(0, 1, now); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("submission after abandon got %v, want ErrNotInProgress", err)
	}
	if err := s.Abandon(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("double abandon got %v, want ErrNotInProgress", err)
	}
}

func TestSubmitAfterCompletionRejected(t *testing.T) {
	now := time.Now()
	s := newTestSession(t, model.ModeEasy, now)
	for i := 0; i < 10; i++ {
		if _, err := s.SubmitAnswer(i, 0, now); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SubmitAnswer(10, 1, now); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("got %v, want ErrNotInProgress", err)
	}
}
