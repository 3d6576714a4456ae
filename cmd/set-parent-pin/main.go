package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/notSunsin/math-hero/internal/config"
	"github.com/notSunsin/math-hero/internal/database"
	"github.com/notSunsin/math-hero/internal/logger"
	"github.com/notSunsin/math-hero/internal/repository"
	"github.com/notSunsin/math-hero/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService, rdb, cfg, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Set Parent PIN ===")

	// Student name
	fmt.Print("Enter Student Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	student, err := studentRepo.GetByName(ctx, name)
	if err != nil {
		fmt.Printf("Error: student %q not found\n", name)
		return
	}

	// New PIN
	fmt.Print("Enter New PIN: ")
	bytePin, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading PIN")
		return
	}
	pin := string(bytePin)
	fmt.Println() // Newline after PIN input
	if len(pin) < 4 || len(pin) > 12 {
		fmt.Println("Error: PIN must be 4 to 12 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	if err := studentService.SetParentPin(ctx, student.ID, pin); err != nil {
		log.Fatal().Err(err).Msg("Failed to update parent PIN")
	}

	fmt.Printf("\nSuccess! Parent PIN updated for '%s' (ID: %d)\n", student.Name, student.ID)
}
