package worker

import (
	"context"
	"time"

	"github.com/notSunsin/math-hero/internal/service"
	"github.com/rs/zerolog"
)

// SessionReaper periodically abandons in-memory game sessions that have
// been idle past their TTL, so a closed browser tab does not pin the
// student's active-game slot forever.
type SessionReaper struct {
	gameService *service.GameService
	interval    time.Duration
	log         zerolog.Logger
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(gameService *service.GameService, interval time.Duration, log zerolog.Logger) *SessionReaper {
	return &SessionReaper{
		gameService: gameService,
		interval:    interval,
		log:         log.With().Str("component", "session_reaper").Logger(),
	}
}

// Start begins the reaper loop. Call in a goroutine.
func (w *SessionReaper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if reaped := w.gameService.SweepExpired(ctx); reaped > 0 {
				w.log.Info().Int("reaped", reaped).Msg("Idle game sessions abandoned")
			}
		}
	}
}
