package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventTick     Event = "tick"
	EventTimeout  Event = "timeout"
	EventFinished Event = "finished"
	EventPong     Event = "pong"
)

// TickResponse carries the countdown left for the current question.
type TickResponse struct {
	Event         Event   `json:"event"`
	QuestionIndex int     `json:"question_index"`
	Remaining     float64 `json:"remaining"`
}

// TimeoutResponse announces that the server resolved the current
// question as unanswered. Result mirrors the REST answer payload.
type TimeoutResponse struct {
	Event  Event       `json:"event"`
	Result interface{} `json:"result"`
}

// FinishedResponse closes the stream once the session leaves the
// in-progress state.
type FinishedResponse struct {
	Event Event  `json:"event"`
	State string `json:"state"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
