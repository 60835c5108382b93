package app

import (
	"context"

	"github.com/Mayur-kumbar/Checkmate.io/internal/auth"
	"github.com/Mayur-kumbar/Checkmate.io/internal/config"
	"github.com/Mayur-kumbar/Checkmate.io/internal/engine"
	"github.com/Mayur-kumbar/Checkmate.io/internal/game"
	"github.com/Mayur-kumbar/Checkmate.io/internal/presence"
	"github.com/Mayur-kumbar/Checkmate.io/internal/ws"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, *game.Sweeper, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userStore := auth.NewDBUserStore(infra.DB)
	authHandler := auth.NewHandler(userStore, cfg.JWTSecret)

	gameStore := game.NewRedisStore(infra.Redis.Client)
	queue := game.NewRedisQueue(infra.Redis.Client)
	history := game.NewPGHistory(infra.DB)
	registry := presence.NewRegistry()
	hub := ws.NewHub()

	coordinator := game.NewCoordinator(
		gameStore,
		queue,
		history,
		registry,
		hub,
		engine.NewChessEngine(),
		cfg.InitialClock,
	)

	wsServer := ws.NewServer(hub, coordinator, registry, cfg.JWTSecret)
	gameHandler := game.NewHandler(gameStore, history)
	sweeper := game.NewSweeper(coordinator, cfg.SweepInterval)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/ws", wsServer.GinHandler())

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(auth.RequireAuth(cfg.JWTSecret))

	gameHandler.RegisterRoutes(api)

	api.GET("/me", func(c *gin.Context) {
		userID, _ := auth.UserIDFromGin(c)
		c.JSON(200, gin.H{
			"user_id": userID,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, sweeper, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
