package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/webvibe/supportdesk/internal/api/handlers"
	"github.com/webvibe/supportdesk/internal/config"
	"github.com/webvibe/supportdesk/internal/services"
	"github.com/webvibe/supportdesk/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; the real environment still applies
		log.Debug().Err(err).Msg("No .env file loaded")
	}
	logger.Setup()

	svcs, err := services.InitializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	r, err := setupRouter(svcs, config.GetUpstreamURL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register routes")
	}

	server := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	if err := svcs.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close services")
	}
	log.Info().Msg("Server stopped")
}

func setupRouter(svcs *services.Services, upstream string) (*mux.Router, error) {
	r := mux.NewRouter()
	if err := handlers.RegisterRoutes(r, svcs, upstream); err != nil {
		return nil, err
	}
	return r, nil
}
