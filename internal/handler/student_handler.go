package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/model"
	"github.com/notSunsin/math-hero/internal/response"
	"github.com/notSunsin/math-hero/internal/service"
)

// StudentHandler handles the student-facing progression endpoints.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// GetBadges godoc
// GET /api/v1/student/badges
// Returns the full badge catalog overlaid with the student's unlocks.
func (h *StudentHandler) GetBadges(c *gin.Context) {
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

	unlockedAt := make(map[string]time.Time, len(student.Achievements))
	for _, a := range student.Achievements {
		unlockedAt[a.BadgeID] = a.UnlockedAt
	}

	badges := make([]gin.H, 0, len(model.BadgeCatalog))
	for _, b := range model.BadgeCatalog {
		entry := gin.H{
			"id":          b.ID,
			"name":        b.Name,
			"icon":        b.Icon,
			"points":      b.Points,
			"description": b.Description,
			"unlocked":    false,
		}
		if at, ok := unlockedAt[b.ID]; ok {
			entry["unlocked"] = true
			entry["unlocked_at"] = at
		}
		badges = append(badges, entry)
	}

	response.Success(c, http.StatusOK, gin.H{
		"total_points": student.TotalPoints,
		"badges":       badges,
	})
}
