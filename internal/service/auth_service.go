package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/notSunsin/math-hero/internal/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPin is returned when a parent PIN does not match.
var ErrInvalidPin = errors.New("invalid parent pin")

// TokenType distinguishes student vs parent tokens.
type TokenType string

const (
	TokenTypeStudent TokenType = "student"
	TokenTypeParent  TokenType = "parent"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	StudentID int       `json:"student_id"`
}

// AuthService handles PIN hashing, JWT issuing and login bookkeeping.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPin hashes a parent PIN with the configured bcrypt cost.
func (s *AuthService) HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPin compares a plaintext PIN against a bcrypt hash.
func (s *AuthService) CheckPin(hash, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidPin
	}
	return nil
}

// GenerateStudentToken creates a JWT for a student and records the login
// in Redis. A new login simply replaces any previous one; young players
// switch devices freely, so the last login wins.
func (s *AuthService) GenerateStudentToken(ctx context.Context, studentID int) (string, error) {
	jti := uuid.New().String()
	signed, err := s.sign(TokenTypeStudent, studentID, jti)
	if err != nil {
		return "", err
	}

	loginKey := config.CacheKey.StudentLoginKey(studentID)
	if err := s.rdb.Set(ctx, loginKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store login: %w", err)
	}

	return signed, nil
}

// GenerateParentToken creates a read-only dashboard JWT bound to the
// student whose PIN was verified.
func (s *AuthService) GenerateParentToken(studentID int) (string, error) {
	return s.sign(TokenTypeParent, studentID, uuid.New().String())
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) sign(tokenType TokenType, studentID int, jti string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(studentID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: tokenType,
		StudentID: studentID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
