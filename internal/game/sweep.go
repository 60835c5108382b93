package game

import (
	"context"
	"time"

	"github.com/Mayur-kumbar/Checkmate.io/internal/logger"
)

// Sweeper periodically runs CheckTimeout over every live game so an
// abandoned game concludes even if no client ever nudges it. It also
// replays interrupted conclusion cleanups it encounters.
type Sweeper struct {
	coordinator *Coordinator
	interval    time.Duration
}

func NewSweeper(coordinator *Coordinator, interval time.Duration) *Sweeper {
	return &Sweeper{coordinator: coordinator, interval: interval}
}

// Run blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ids, err := s.coordinator.store.LiveIDs(ctx)
	if err != nil {
		logger.Error("timeout sweep failed to list games", map[string]any{"error": err.Error()})
		return
	}

	for _, id := range ids {
		if err := s.coordinator.CheckTimeout(ctx, id); err != nil {
			logger.Error("timeout check failed", map[string]any{
				"gameId": id,
				"error":  err.Error(),
			})
		}
	}
}
