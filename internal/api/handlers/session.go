package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/webvibe/supportdesk/internal/api/middleware"
	"github.com/webvibe/supportdesk/internal/services/catalog"
	"github.com/webvibe/supportdesk/internal/services/session"
	"github.com/webvibe/supportdesk/pkg/httpext"
)

// validate is shared; it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

type sessionView struct {
	SessionID        string `json:"session_id"`
	UserID           string `json:"user_id"`
	SelectedCategory string `json:"selected_category,omitempty"`
	HasMessages      bool   `json:"has_messages"`
}

type categoryRequest struct {
	Category string `json:"category" validate:"required"`
}

func HandleGetSession(w http.ResponseWriter, r *http.Request) {
	userSession := middleware.GetSession(r)
	httpext.JsonResponse(w, http.StatusOK, sessionView{
		SessionID:        userSession.SessionID,
		UserID:           userSession.UserID,
		SelectedCategory: userSession.SelectedCategory,
		HasMessages:      len(userSession.Messages) > 0,
	})
}

func HandleGetMessages(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	messages, err := sessionService.Messages(r.Context(), middleware.GetSession(r).SessionID)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpext.JsonResponse(w, http.StatusOK, messages)
}

func HandleClearMessages(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	if err := sessionService.ClearMessages(r.Context(), middleware.GetSession(r).SessionID); err != nil {
		writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetCategory only accepts categories from the catalog.
func HandleSetCategory(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, http.StatusBadRequest, httpext.CodeBadRequest, "Invalid request format")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpext.JsonError(w, http.StatusBadRequest, httpext.CodeBadRequest, "Category is required")
		return
	}
	if _, ok := catalog.Lookup(req.Category); !ok {
		httpext.JsonError(w, http.StatusBadRequest, httpext.CodeBadRequest, "Unknown category")
		return
	}

	if err := sessionService.SetSelectedCategory(r.Context(), middleware.GetSession(r).SessionID, req.Category); err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpext.JsonResponse(w, http.StatusOK, req)
}

func HandleClearCategory(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	if err := sessionService.ClearSelectedCategory(r.Context(), middleware.GetSession(r).SessionID); err != nil {
		writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func HandleEndSession(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	sessionService.ClearSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrNoSession) {
		httpext.JsonError(w, http.StatusNotFound, httpext.CodeNotFound, "Session expired")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("Session store failure")
	httpext.JsonError(w, http.StatusInternalServerError, httpext.CodeInternal, "Session unavailable")
}
