package handler

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the handlers and assets served by NewRouter
type RouterConfig struct {
	Activities  *ActivityHandler
	Events      *EventsHandler // optional
	StaticFS    fs.FS          // optional
	MetricsPath string         // empty disables /metrics
}

// NewRouter registers every route on a new ServeMux.
// The literal /activities/events pattern takes precedence over
// /activities/{activity_name}.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("GET /activities", cfg.Activities.List)
	mux.HandleFunc("GET /activities/{activity_name}", cfg.Activities.Get)
	mux.HandleFunc("POST /activities/{activity_name}/signup", cfg.Activities.Signup)
	mux.HandleFunc("POST /activities/{activity_name}/unregister", cfg.Activities.Unregister)

	if cfg.Events != nil {
		mux.HandleFunc("GET /activities/events", cfg.Events.Stream)
	}

	if cfg.StaticFS != nil {
		mux.HandleFunc("GET /{$}", RootRedirect)
		mux.Handle("GET /static/", Static(cfg.StaticFS))
	}

	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	return mux
}
