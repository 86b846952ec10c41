package httpapi

import (
	"context"
	"net/http"
	"time"

	"wayanadconnect/auth"
	"wayanadconnect/broadcast"
	"wayanadconnect/config"
	"wayanadconnect/incident"
)

// Server wraps an http.Server with the configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware and routes and returns a ready server.
func New(cfg config.Config, authSvc *auth.Service, incidentSvc *incident.Service, broadcastSvc *broadcast.Service) *Server {
	handler := CORS(cfg.CORSOrigins, Logging(Routes(authSvc, incidentSvc, broadcastSvc)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Routes builds the bare route mux without outer middleware. Tests mount it
// directly under httptest.
func Routes(authSvc *auth.Service, incidentSvc *incident.Service, broadcastSvc *broadcast.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend is running!"))
	})

	ah := &authHandler{auth: authSvc, incidents: incidentSvc}
	ah.register(mux)

	ih := &incidentHandler{auth: authSvc, incidents: incidentSvc}
	ih.register(mux)

	bh := &broadcastHandler{auth: authSvc, broadcasts: broadcastSvc}
	bh.register(mux)

	return mux
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
