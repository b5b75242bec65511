package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Logging attaches a request-scoped zerolog logger and writes one access line
// per request. Websocket upgrades pass straight through so the connection can
// be hijacked.
func Logging(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	})(next)
	access = hlog.RemoteAddrHandler("remote_addr")(access)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			log.Debug().Str("path", r.URL.Path).Msg("Websocket upgrade requested")
			next.ServeHTTP(w, r)
			return
		}
		hlog.NewHandler(log.Logger)(access).ServeHTTP(w, r)
	})
}
