package game

import (
	"math/rand/v2"
	"testing"

	"github.com/notSunsin/math-hero/internal/model"
)

func testGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, 0)))
}

func checkChoices(t *testing.T, q model.Question) {
	t.Helper()
	if len(q.Choices) != 4 {
		t.Fatalf("got %d choices, want 4", len(q.Choices))
	}
	seen := make(map[int]bool)
	correctCount := 0
	for _, c := range q.Choices {
		if c <= 0 {
			t.Errorf("choice %d is not positive", c)
		}
		if seen[c] {
			t.Errorf("duplicate choice %d", c)
		}
		seen[c] = true
		if c == q.CorrectAnswer {
			correctCount++
		}
	}
	if correctCount != 1 {
		t.Errorf("correct answer %d appears %d times in choices %v", q.CorrectAnswer, correctCount, q.Choices)
	}
}

func TestGenerateEasy(t *testing.T) {
	g := testGenerator(1)
	for i := 0; i < 500; i++ {
		q := g.Generate(model.ModeEasy)
		if q.Kind != model.KindAddition {
			t.Fatalf("easy mode produced %s", q.Kind)
		}
		if q.Num1 < 1 || q.Num1 > 8 || q.Num2 < 1 || q.Num2 > 8 {
			t.Errorf("operands out of range: %d + %d", q.Num1, q.Num2)
		}
		if q.CorrectAnswer != q.Num1+q.Num2 {
			t.Errorf("wrong answer for %d + %d: %d", q.Num1, q.Num2, q.CorrectAnswer)
		}
		checkChoices(t, q)
	}
}

func TestGenerateMedium(t *testing.T) {
	g := testGenerator(2)
	for i := 0; i < 500; i++ {
		q := g.Generate(model.ModeMedium)
		if q.Kind != model.KindSubtraction {
			t.Fatalf("medium mode produced %s", q.Kind)
		}
		if q.Num1 < 5 || q.Num1 > 14 {
			t.Errorf("minuend out of range: %d", q.Num1)
		}
		if q.Num2 < 1 || q.Num2 > 8 || q.Num2 >= q.Num1 {
			t.Errorf("subtrahend out of range: %d - %d", q.Num1, q.Num2)
		}
		if q.CorrectAnswer != q.Num1-q.Num2 {
			t.Errorf("wrong answer for %d - %d: %d", q.Num1, q.Num2, q.CorrectAnswer)
		}
		if q.CorrectAnswer < 1 {
			t.Errorf("non-positive answer for %d - %d", q.Num1, q.Num2)
		}
		checkChoices(t, q)
	}
}

func TestGenerateChallengeMixesKinds(t *testing.T) {
	g := testGenerator(3)
	kinds := make(map[model.QuestionKind]int)
	for i := 0; i < 200; i++ {
		q := g.Generate(model.ModeChallenge)
		kinds[q.Kind]++
		checkChoices(t, q)
	}
	if kinds[model.KindAddition] == 0 || kinds[model.KindSubtraction] == 0 {
		t.Errorf("challenge mode never mixed kinds: %v", kinds)
	}
}

// A correct answer of 1 leaves only three positive values in the
// initial [-3,3] offset window (2, 3, 4); the generator must still
// terminate with four distinct choices.
func TestChoicesTerminateForSmallAnswers(t *testing.T) {
	g := testGenerator(4)
	for i := 0; i < 100; i++ {
		choices := g.choices(1)
		if len(choices) != 4 {
			t.Fatalf("got %d choices for answer 1", len(choices))
		}
		seen := make(map[int]bool)
		for _, c := range choices {
			if c <= 0 || seen[c] {
				t.Fatalf("invalid choice set %v for answer 1", choices)
			}
			seen[c] = true
		}
		if !seen[1] {
			t.Fatalf("choice set %v is missing the correct answer", choices)
		}
	}
}

func TestSequenceLength(t *testing.T) {
	g := testGenerator(5)
	tests := []struct {
		mode model.GameMode
		want int
	}{
		{model.ModeEasy, 10},
		{model.ModeMedium, 10},
		{model.ModeChallenge, 20},
	}
	for _, tt := range tests {
		if got := len(g.Sequence(tt.mode)); got != tt.want {
			t.Errorf("Sequence(%s) length = %d, want %d", tt.mode, got, tt.want)
		}
	}
}
