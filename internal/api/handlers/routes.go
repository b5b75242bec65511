package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/webvibe/supportdesk/internal/api/handlers/websocket"
	"github.com/webvibe/supportdesk/internal/api/middleware"
	"github.com/webvibe/supportdesk/internal/services"
)

// RegisterRoutes mounts the API on router. upstream may be empty, in which
// case the /next rewrite is not registered.
func RegisterRoutes(router *mux.Router, services *services.Services, upstream string) error {
	router.Use(middleware.Logging)

	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	if m := services.GetMetrics(); m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()

	// Public routes, no session
	api.HandleFunc("/categories", HandleCategories).Methods("GET")
	api.HandleFunc("/categories/{id}/suggestions", HandleSuggestions).Methods("GET")
	api.Handle("/ws", middleware.RateLimit("websocket")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		websocket.HandleChatSocket(services.GetQuestionService(), services.GetConnectionManager(), services.GetMetrics(), w, r)
	}))).Methods("GET")

	sessionService := services.GetSessionService()
	api.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		HandleEndSession(sessionService, w, r)
	}).Methods("DELETE")

	// Session-scoped routes
	scoped := api.NewRoute().Subrouter()
	scoped.Use(middleware.WithSession(sessionService))

	scoped.Handle("/question", middleware.RateLimit("question")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleQuestion(services.GetQuestionService(), sessionService, w, r)
	}))).Methods("POST")

	scoped.HandleFunc("/session", HandleGetSession).Methods("GET")
	scoped.HandleFunc("/session/messages", func(w http.ResponseWriter, r *http.Request) {
		HandleGetMessages(sessionService, w, r)
	}).Methods("GET")
	scoped.HandleFunc("/session/messages", func(w http.ResponseWriter, r *http.Request) {
		HandleClearMessages(sessionService, w, r)
	}).Methods("DELETE")
	scoped.HandleFunc("/session/category", func(w http.ResponseWriter, r *http.Request) {
		HandleSetCategory(sessionService, w, r)
	}).Methods("PUT")
	scoped.HandleFunc("/session/category", func(w http.ResponseWriter, r *http.Request) {
		HandleClearCategory(sessionService, w, r)
	}).Methods("DELETE")

	if upstream != "" {
		proxy, err := NewUpstreamProxy(upstream)
		if err != nil {
			return err
		}
		router.PathPrefix("/next/").Handler(http.StripPrefix("/next", proxy))
		log.Info().Str("upstream", upstream).Msg("Rewriting /next/* to upstream")
	}

	return nil
}
