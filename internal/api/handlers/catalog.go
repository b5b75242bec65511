package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/webvibe/supportdesk/internal/services/catalog"
	"github.com/webvibe/supportdesk/pkg/httpext"
)

func HandleCategories(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, catalog.Categories())
}

// HandleSuggestions serves one page of suggested questions for a category.
// The page defaults to 0 and is clamped to the valid range.
func HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpext.JsonError(w, http.StatusBadRequest, httpext.CodeBadRequest, "Parameter page must be a number")
			return
		}
		page = parsed
	}

	suggestions, err := catalog.Suggestions(id, page)
	if errors.Is(err, catalog.ErrUnknownCategory) {
		httpext.JsonError(w, http.StatusNotFound, httpext.CodeNotFound, "Unknown category")
		return
	}
	if err != nil {
		httpext.JsonError(w, http.StatusInternalServerError, httpext.CodeInternal, "Failed to load suggestions")
		return
	}

	httpext.JsonResponse(w, http.StatusOK, suggestions)
}
