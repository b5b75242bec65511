package services

import (
	"github.com/rs/zerolog/log"

	"github.com/webvibe/supportdesk/internal/config"
	"github.com/webvibe/supportdesk/internal/connections"
	"github.com/webvibe/supportdesk/internal/infrastructure/question"
	"github.com/webvibe/supportdesk/internal/infrastructure/redis"
	"github.com/webvibe/supportdesk/internal/metrics"
	"github.com/webvibe/supportdesk/internal/services/session"
)

type Services struct {
	connectionManager *connections.Manager
	metrics           *metrics.Metrics
	questionService   question.Asker
	redisService      *redis.Service
	sessionService    *session.Service
}

// InitializeServices builds every service from the environment. Redis is
// optional; without it sessions live in process memory.
func InitializeServices() (*Services, error) {
	log.Info().Msg("Initializing core services")

	m := metrics.New()

	redisService := redis.NewService(config.GetRedisURL(), config.GetRedisPassword())
	log.Info().Bool("available", redisService != nil).Msg("Initializing Redis service")

	sessionService := session.NewService(redisService)
	log.Info().Msg("Initializing session service")

	questionService := question.NewService(
		config.GetQuestionBaseURL(),
		question.WithTimeout(config.GetQuestionTimeout()),
		question.WithMetrics(m),
	)
	log.Info().Str("endpoint", questionService.Endpoint()).Msg("Initializing question relay")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		connectionManager: connections.NewManager(connections.DefaultTimeouts),
		metrics:           m,
		questionService:   questionService,
		redisService:      redisService,
		sessionService:    sessionService,
	}, nil
}

// New assembles Services from parts that are already built, mostly for tests.
func New(asker question.Asker, sessionService *session.Service, m *metrics.Metrics) *Services {
	return &Services{
		connectionManager: connections.NewManager(connections.DefaultTimeouts),
		metrics:           m,
		questionService:   asker,
		sessionService:    sessionService,
	}
}

// GetQuestionService returns the relay used for every question
func (s *Services) GetQuestionService() question.Asker {
	return s.questionService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetConnectionManager returns the registry of open chat sockets
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connectionManager
}

// GetMetrics returns the Prometheus collectors
func (s *Services) GetMetrics() *metrics.Metrics {
	return s.metrics
}

// Close releases external connections.
func (s *Services) Close() error {
	s.connectionManager.CloseAll()
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
