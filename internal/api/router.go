package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/seiwell/gomokuhub/internal/middleware"
	"github.com/seiwell/gomokuhub/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger    *slog.Logger
	WSHandler *ws.Handler
}

// NewRouter creates the HTTP router: the websocket endpoint plus a
// health check.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/ws", cfg.WSHandler.ServeWS).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
