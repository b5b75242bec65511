package handlers

import (
	"net/http"

	"github.com/webvibe/supportdesk/pkg/httpext"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "supportdesk",
	})
}
