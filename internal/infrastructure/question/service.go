package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webvibe/supportdesk/internal/metrics"
	"github.com/webvibe/supportdesk/pkg/logger"
)

const (
	questionPath = "/api/question"

	// FallbackAnswer is returned when the service accepts the question but
	// sends no answer text back.
	FallbackAnswer = "Response received from question service"
)

type Service struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	metrics *metrics.Metrics
}

type Option func(*Service)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithTimeout bounds each call. Zero leaves the call unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(baseURL string, opts ...Option) *Service {
	s := &Service{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info(logger.QUESTION, "Initialising question relay for %s", s.Endpoint())
	return s
}

// Endpoint is the full URL questions are posted to.
func (s *Service) Endpoint() string {
	return s.baseURL + questionPath
}

// AskQuestion forwards req to the answering service and never fails: every
// error is folded into a Response with Success false.
func (s *Service) AskQuestion(ctx context.Context, req Request) Response {
	requestID := uuid.New().String()
	log := logger.With(logger.QUESTION).With().Str("request_id", requestID).Logger()
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Debug().
		Int("message_length", len(req.Message)).
		Str("category", req.Category).
		Msg("Sending question")

	answer, status, err := s.post(ctx, req)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		s.metrics.ObserveQuestion(metrics.OutcomeTransport, elapsed)
		log.Error().
			Err(err).
			Dur("duration", elapsed).
			Msg("Question relay failed")
		return Response{Success: false, Error: err.Error()}

	case status < 200 || status > 299:
		s.metrics.ObserveQuestion(metrics.OutcomeHTTPError, elapsed)
		log.Error().
			Int("status", status).
			Str("status_text", http.StatusText(status)).
			Dur("duration", elapsed).
			Msg("Question service rejected request")
		return Response{Success: false, Error: fmt.Sprintf("Request failed with status %d", status)}
	}

	s.metrics.ObserveQuestion(metrics.OutcomeSuccess, elapsed)
	if answer == "" {
		log.Debug().Msg("Question service returned no answer, using fallback")
		answer = FallbackAnswer
	}

	log.Info().
		Dur("duration", elapsed).
		Int("answer_length", len(answer)).
		Msg("Question relayed")

	return Response{Success: true, Answer: answer}
}

// post performs the single round trip. A non-2xx status is reported through
// status with a nil error; the body is only read for logging in that case.
// Only a 2xx body that is not JSON at all is an error.
func (s *Service) post(ctx context.Context, req Request) (string, int, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Debug(logger.QUESTION, "Error response body: %s", string(body))
		return "", resp.StatusCode, nil
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	return answerFrom(payload), resp.StatusCode, nil
}

// answerFrom extracts a string "answer" field. Any other JSON shape yields ""
// so the caller falls back to the placeholder.
func answerFrom(payload interface{}) string {
	body, ok := payload.(map[string]interface{})
	if !ok {
		return ""
	}
	answer, _ := body["answer"].(string)
	return answer
}
