package game

import (
	"math/rand/v2"

	"github.com/notSunsin/math-hero/internal/model"
)

const choiceCount = 4

// Generator produces arithmetic questions for a game mode. It has no
// side effects and draws exclusively from the supplied random source,
// so tests can seed it for deterministic output.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator backed by rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces one question for the given mode. Easy is addition
// with operands in [1,8]; medium is subtraction with a positive
// result; challenge picks either with equal probability.
func (g *Generator) Generate(mode model.GameMode) model.Question {
	switch mode {
	case model.ModeEasy:
		return g.addition()
	case model.ModeMedium:
		return g.subtraction()
	default:
		if g.rng.IntN(2) == 0 {
			return g.addition()
		}
		return g.subtraction()
	}
}

// Sequence produces the full question list for one game in this mode.
func (g *Generator) Sequence(mode model.GameMode) []model.Question {
	questions := make([]model.Question, mode.QuestionCount())
	for i := range questions {
		questions[i] = g.Generate(mode)
	}
	return questions
}

func (g *Generator) addition() model.Question {
	num1 := g.rng.IntN(8) + 1
	num2 := g.rng.IntN(8) + 1
	answer := num1 + num2
	return model.Question{
		Kind:          model.KindAddition,
		Num1:          num1,
		Num2:          num2,
		CorrectAnswer: answer,
		Choices:       g.choices(answer),
	}
}

func (g *Generator) subtraction() model.Question {
	// num2 stays below num1 so the difference is at least 1; zero can
	// never be a correct answer, which keeps every choice positive.
	num1 := g.rng.IntN(10) + 5
	num2 := g.rng.IntN(min(num1-1, 8)) + 1
	answer := num1 - num2
	return model.Question{
		Kind:          model.KindSubtraction,
		Num1:          num1,
		Num2:          num2,
		CorrectAnswer: answer,
		Choices:       g.choices(answer),
	}
}

// choices builds the shuffled 4-option choice set: the correct answer
// plus three distinct positive distractors sampled as offsets in
// [-spread, spread] around it. The spread starts at 3 and widens after
// repeated rejections so small answers (e.g. 1) cannot stall the loop.
func (g *Generator) choices(correct int) []int {
	seen := map[int]bool{correct: true}
	out := make([]int, 0, choiceCount)
	out = append(out, correct)

	spread := 3
	misses := 0
	for len(out) < choiceCount {
		offset := g.rng.IntN(2*spread+1) - spread
		value := correct + offset
		if offset == 0 || value <= 0 || seen[value] {
			misses++
			if misses >= 4*spread {
				spread++
				misses = 0
			}
			continue
		}
		seen[value] = true
		out = append(out, value)
	}

	g.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
