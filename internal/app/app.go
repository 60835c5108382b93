package app

import (
	"context"
	"net/http"

	"github.com/Mayur-kumbar/Checkmate.io/internal/config"
	"github.com/Mayur-kumbar/Checkmate.io/internal/game"
)

type App struct {
	httpServer *http.Server
	sweeper    *game.Sweeper
	sweepStop  context.CancelFunc
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, sweeper, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer: server,
		sweeper:    sweeper,
		cleanup:    cleanup,
	}, nil
}

func (a *App) Run() error {
	sweepCtx, stop := context.WithCancel(context.Background())
	a.sweepStop = stop
	go a.sweeper.Run(sweepCtx)

	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.sweepStop != nil {
		a.sweepStop()
	}
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
