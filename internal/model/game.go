package model

// GameMode selects difficulty and question category.
type GameMode string

const (
	ModeEasy      GameMode = "easy"      // addition only
	ModeMedium    GameMode = "medium"    // subtraction only
	ModeChallenge GameMode = "challenge" // mixed, timed
)

// Valid reports whether the mode is one of the three known modes.
func (m GameMode) Valid() bool {
	return m == ModeEasy || m == ModeMedium || m == ModeChallenge
}

// QuestionCount is the sequence length for a game in this mode.
func (m GameMode) QuestionCount() int {
	if m == ModeChallenge {
		return 20
	}
	return 10
}

// Timed reports whether questions in this mode have a countdown.
func (m GameMode) Timed() bool {
	return m == ModeChallenge
}

// QuestionKind is the arithmetic operation of a question.
type QuestionKind string

const (
	KindAddition    QuestionKind = "addition"
	KindSubtraction QuestionKind = "subtraction"
)

// Question is one immutable arithmetic problem with multiple choices.
// Exactly one of Choices equals CorrectAnswer; all choices are positive
// and distinct.
type Question struct {
	Kind          QuestionKind `json:"kind"`
	Num1          int          `json:"num1"`
	Num2          int          `json:"num2"`
	CorrectAnswer int          `json:"correct_answer"`
	Choices       []int        `json:"choices"`
}

// StartGameRequest is the payload for starting a new game session.
type StartGameRequest struct {
	Mode GameMode `json:"mode" binding:"required,oneof=easy medium challenge"`
}

// SubmitAnswerRequest is the payload for answering the current question.
// QuestionIndex guards against a submission racing the timer: a stale
// index is rejected instead of scoring the wrong question. Choices are
// always positive, so min=1 alone bounds the payload.
type SubmitAnswerRequest struct {
	QuestionIndex int `json:"question_index" binding:"min=0"`
	Choice        int `json:"choice" binding:"min=1"`
}

// TimeoutRequest reports that the countdown for a question expired
// without an answer.
type TimeoutRequest struct {
	QuestionIndex int `json:"question_index" binding:"min=0"`
}
