package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/notSunsin/math-hero/internal/game"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/service"
	ws "github.com/notSunsin/math-hero/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the server-side countdown for timed game sessions.
type WSHandler struct {
	gameService *service.GameService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(gameService *service.GameService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		gameService: gameService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// CountdownStream godoc
// WS /ws/v1/games/:session_id/stream?token=...
// Pushes one tick per second with the time left on the current question.
// When the deadline passes, the server resolves the question as a
// timeout itself, so a disconnected or frozen client cannot stall the
// game clock.
func (h *WSHandler) CountdownStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	studentID := claims.StudentID

	if _, err := h.gameService.Countdown(sessionID, studentID); err != nil {
		switch {
		case errors.Is(err, game.ErrSessionUntimed):
			ws.WriteError(conn, "game mode has no timer")
		default:
			ws.WriteError(conn, "no active game session")
		}
		return
	}

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("session_id", sessionID.String()).
		Logger()

	wsLog.Info().Msg("Countdown stream connected")

	closed := make(chan struct{})
	go h.readPump(conn, wsLog, closed)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("Connection closed")
			return
		case <-ticker.C:
			if done := h.tick(conn, wsLog, sessionID, studentID); done {
				return
			}
		}
	}
}

// tick sends one countdown update, firing the server-side timeout when
// the deadline has passed. Returns true when the stream should end.
func (h *WSHandler) tick(conn *websocket.Conn, wsLog zerolog.Logger, sessionID uuid.UUID, studentID int) bool {
	view, err := h.gameService.Countdown(sessionID, studentID)
	if err != nil {
		// Session completed or abandoned and left the store.
		ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, State: string(game.SessionCompleted)})
		return true
	}

	if view.State != game.SessionInProgress {
		ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, State: string(view.State)})
		return true
	}

	if view.Remaining > 0 {
		err := ws.WriteTyped(conn, ws.TickResponse{
			Event:         ws.EventTick,
			QuestionIndex: view.QuestionIndex,
			Remaining:     view.Remaining.Seconds(),
		})
		return err != nil
	}

	result, err := h.gameService.Timeout(sessionID, studentID, view.QuestionIndex)
	if err != nil {
		// A submission or a concurrent timeout won the race; the next
		// tick picks up the advanced question.
		if errors.Is(err, game.ErrStaleQuestion) || errors.Is(err, game.ErrTimerNotDue) {
			return false
		}
		wsLog.Warn().Err(err).Msg("Server-side timeout failed")
		return true
	}

	if writeErr := ws.WriteTyped(conn, ws.TimeoutResponse{Event: ws.EventTimeout, Result: result}); writeErr != nil {
		return true
	}
	if result.Finished {
		ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, State: string(game.SessionCompleted)})
		return true
	}
	return false
}

// readPump drains client messages (pings) and signals when the peer
// goes away.
func (h *WSHandler) readPump(conn *websocket.Conn, wsLog zerolog.Logger, closed chan<- struct{}) {
	defer close(closed)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		if msg.Action == ws.ActionPing {
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		}
	}
}
