package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/model"
	"github.com/notSunsin/math-hero/internal/repository"
	"github.com/notSunsin/math-hero/internal/response"
	"github.com/notSunsin/math-hero/internal/service"
	"github.com/notSunsin/math-hero/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	studentService *service.StudentService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, studentService *service.StudentService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		studentService: studentService,
	}
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Name-only login: finds the student or creates a fresh account, returns JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, created, err := h.studentService.Login(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrNameTooShort) {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateStudentToken(c.Request.Context(), student.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"student": student,
		"is_new":  created,
	})
}

// ParentLogin godoc
// POST /api/v1/auth/parent/login
// Verifies the per-student parent PIN, returns a read-only dashboard JWT.
func (h *AuthHandler) ParentLogin(c *gin.Context) {
	var req model.ParentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.ParentLogin(c.Request.Context(), req.Name, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		case errors.Is(err, service.ErrInvalidPin):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidPin)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	token, err := h.authService.GenerateParentToken(student.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recent, err := h.studentService.RecentGames(c.Request.Context(), student.ID, 10)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":        token,
		"student":      student,
		"recent_games": recent,
	})
}

// GetStudentProfile godoc
// GET /api/v1/auth/student/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) GetStudentProfile(c *gin.Context) {
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

	response.Success(c, http.StatusOK, gin.H{"student": student})
}
