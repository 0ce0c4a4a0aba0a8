package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrms_lite/internal/config"
	"hrms_lite/internal/database"
	"hrms_lite/internal/router"
	"hrms_lite/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		utils.InitLogger(utils.LoggerOptions{})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.InitLogger(utils.LoggerOptions{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps router.Dependencies
	switch cfg.Storage {
	case config.StorageMemory:
		deps = router.MemoryDependencies()
		utils.LogInfo("Using in-memory storage", map[string]interface{}{"persistent": false})
	default:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		deps = router.PostgresDependencies(db)
	}
	deps.AutoAbsent = cfg.AutoAbsent
	deps.AllowedOrigins = cfg.AllowedOrigins

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "storage": cfg.Storage})
		utils.LogInfo("Frontend should be configured to make API calls", map[string]interface{}{"url": "http://localhost:" + cfg.Port + "/api"})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
	utils.LogInfo("Server stopped")
}
