package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/webvibe/supportdesk/internal/api/middleware"
	"github.com/webvibe/supportdesk/internal/infrastructure/question"
	"github.com/webvibe/supportdesk/internal/services/session"
	"github.com/webvibe/supportdesk/pkg/httpext"
)

// HandleQuestion relays a user's question and always answers 200 with the
// normalized relay result once the body is valid. Whether to surface a failed
// relay is up to the UI.
func HandleQuestion(asker question.Asker, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req question.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, http.StatusBadRequest, httpext.CodeChatFailure, "Failed to process question")
		return
	}

	if err := req.Validate(); err != nil {
		log.Warn().
			Bool("missing_message", req.Message == "").
			Bool("missing_category", req.Category == "").
			Msg("Question validation failed")
		httpext.JsonError(w, http.StatusBadRequest, httpext.CodeBadRequest, "Message and category are required")
		return
	}

	userSession := middleware.GetSession(r)
	if userSession != nil {
		if _, err := sessionService.AddMessage(r.Context(), userSession.SessionID, session.RoleUser, req.Message); err != nil {
			log.Error().Err(err).Str("session_id", userSession.SessionID).Msg("Failed to record question")
		}
	}

	resp := asker.AskQuestion(r.Context(), req)

	if userSession != nil && resp.Success {
		if _, err := sessionService.AddMessage(r.Context(), userSession.SessionID, session.RoleAssistant, resp.Answer); err != nil {
			log.Error().Err(err).Str("session_id", userSession.SessionID).Msg("Failed to record answer")
		}
	}

	log.Debug().
		Bool("success", resp.Success).
		Int("answer_length", len(resp.Answer)).
		Msg("Returning relay response")

	httpext.JsonResponse(w, http.StatusOK, resp)
}
