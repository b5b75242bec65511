package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/webvibe/supportdesk/pkg/logger"
)

// Error codes are "<type>:<surface>" so the UI can pick a message without
// parsing free text.
const (
	CodeBadRequest  = "bad_request:api"
	CodeNotFound    = "not_found:api"
	CodeRateLimited = "rate_limit:api"
	CodeChatFailure = "bad_request:chat"
	CodeInternal    = "internal:api"
	CodeBadGateway  = "offline:api"
)

// ErrorResponse represents a standardised JSON error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// JsonError writes a JSON error response with the specified status code
func JsonError(w http.ResponseWriter, status int, code, message string) {
	JsonErrorWithDetails(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// JsonErrorWithDetails writes an error response that may carry a cause
func JsonErrorWithDetails(w http.ResponseWriter, status int, errResp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error(logger.HANDLER, "Failed to encode error response: %v", err)
	}
}

// JsonResponse writes v as JSON with the given status.
func JsonResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(logger.HANDLER, "Failed to encode response: %v", err)
	}
}
