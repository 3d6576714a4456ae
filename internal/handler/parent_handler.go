package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/response"
	"github.com/notSunsin/math-hero/internal/service"
)

// ParentHandler handles the read-only parent dashboard endpoints. The
// student whose data is served is fixed by the parent token's claims.
type ParentHandler struct {
	studentService *service.StudentService
}

// NewParentHandler creates a new ParentHandler.
func NewParentHandler(studentService *service.StudentService) *ParentHandler {
	return &ParentHandler{studentService: studentService}
}

// GetStatistics godoc
// GET /api/v1/parent/statistics
// Returns the derived dashboard summary for the bound student.
func (h *ParentHandler) GetStatistics(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.studentService.GetStatistics(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"statistics": stats})
}

// GetOverview godoc
// GET /api/v1/parent/overview
// Returns the student record itself, including unlocked achievements
// and the 10 most recent games.
func (h *ParentHandler) GetOverview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		return
	}

	recent, err := h.studentService.RecentGames(c.Request.Context(), student.ID, 10)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student":      student,
		"games_played": student.TotalGamesPlayed(),
		"recent_games": recent,
	})
}
