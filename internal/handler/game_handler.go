package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/notSunsin/math-hero/internal/game"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/model"
	"github.com/notSunsin/math-hero/internal/response"
	"github.com/notSunsin/math-hero/internal/service"
	"github.com/notSunsin/math-hero/internal/validator"
)

// GameHandler handles the game session lifecycle endpoints.
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// Start godoc
// POST /api/v1/student/games
// Starts a new game session in the requested mode.
func (h *GameHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartGameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.gameService.Start(c.Request.Context(), claims.StudentID, req.Mode)
	if err != nil {
		if errors.Is(err, service.ErrGameAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrGameAlreadyActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"game": sessionView(session, time.Now())})
}

// Get godoc
// GET /api/v1/student/games/:session_id
// Returns the current state of the session, e.g. after a page reload.
func (h *GameHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, err := h.gameService.Get(sessionID, claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrGameNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"game": sessionView(session, time.Now())})
}

// SubmitAnswer godoc
// POST /api/v1/student/games/:session_id/answer
// Resolves the current question with the player's choice.
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.gameService.SubmitAnswer(sessionID, claims.StudentID, req.QuestionIndex, req.Choice)
	if err != nil {
		failGameEvent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Timeout godoc
// POST /api/v1/student/games/:session_id/timeout
// Reports that the countdown for the current question expired.
func (h *GameHandler) Timeout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.TimeoutRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.gameService.Timeout(sessionID, claims.StudentID, req.QuestionIndex)
	if err != nil {
		failGameEvent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Quit godoc
// DELETE /api/v1/student/games/:session_id
// Abandons the session. Nothing is persisted.
func (h *GameHandler) Quit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.gameService.Abandon(c.Request.Context(), sessionID, claims.StudentID); err != nil {
		failGameEvent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Complete godoc
// POST /api/v1/student/games/:session_id/complete
// Persists a finished session and returns any newly unlocked badges.
// Safe to retry: a duplicate completion returns the current record with
// an empty badge list.
func (h *GameHandler) Complete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	student, newBadges, err := h.gameService.Complete(c.Request.Context(), sessionID, claims.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrGameNotFound)
		case errors.Is(err, service.ErrGameNotFinished):
			response.Fail(c, http.StatusConflict, response.ErrGameNotFinished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	if newBadges == nil {
		newBadges = []string{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"student":    student,
		"new_badges": badgeViews(newBadges),
	})
}

// failGameEvent maps session event errors to API error codes.
func failGameEvent(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrGameNotFound)
	case errors.Is(err, game.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrGameNotInProgress)
	case errors.Is(err, game.ErrStaleQuestion):
		response.Fail(c, http.StatusConflict, response.ErrQuestionResolved)
	case errors.Is(err, game.ErrTimerNotDue):
		response.Fail(c, http.StatusConflict, response.ErrTimerNotExpired)
	case errors.Is(err, game.ErrSessionUntimed):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// sessionView renders a session for the client without ever exposing
// correct answers for unresolved questions.
func sessionView(s *game.Session, now time.Time) gin.H {
	view := gin.H{
		"id":              s.ID,
		"mode":            s.Mode,
		"state":           s.State,
		"current_index":   s.CurrentIndex,
		"total_questions": len(s.Questions),
		"score":           s.Score,
		"correct_count":   s.CorrectCount,
		"started_at":      s.StartedAt,
	}
	if s.State == game.SessionInProgress {
		view["question"] = questionView(s.Questions[s.CurrentIndex])
		if s.Mode.Timed() {
			view["time_remaining"] = s.TimeRemaining(now).Seconds()
		}
	}
	return view
}

func questionView(q model.Question) gin.H {
	return gin.H{
		"kind":    q.Kind,
		"num1":    q.Num1,
		"num2":    q.Num2,
		"choices": q.Choices,
	}
}

// badgeViews resolves badge IDs against the catalog for display.
func badgeViews(badgeIDs []string) []model.Badge {
	views := make([]model.Badge, 0, len(badgeIDs))
	for _, id := range badgeIDs {
		for _, b := range model.BadgeCatalog {
			if b.ID == id {
				views = append(views, b)
				break
			}
		}
	}
	return views
}
