package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"socialFeed/auth"
	"socialFeed/domain"
	"socialFeed/errs"
	"socialFeed/graph"
	"socialFeed/metrics"
)

// Config holds the optional parts of a Server.
type Config struct {
	// AllowedOrigins lists the origins allowed to make cross-origin requests.
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *metrics.Collector
}

// Timeouts bound the phases of a connection served by Run.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

// Server provides the http functionality of this app, namely routing, request
// handling and middleware. It serves the REST routes and mounts the GraphQL
// facade. Both hand every request over to the same feed service.
type Server struct {
	router  *mux.Router
	handler http.Handler
	feed    domain.FeedService
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewServer returns a new instance of the server, registers all routes and
// gives their handlers access to the feed service passed in.
func NewServer(feed domain.FeedService, cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:  mux.NewRouter(),
		feed:    feed,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}

	// Build the GraphQL facade on top of the same feed service.
	schema, err := graph.NewSchema(feed)
	if err != nil {
		return nil, err
	}

	// Register routes.
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.registerAuthRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerLikeRoutes(s.router)
	handle(s.router, "/graphql/", graph.NewHandler(schema), "GET", "POST")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "Not found."))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", strings.Join(s.allowedMethods(r), ", "))
		errs.ReturnError(w, r, errs.Errorf(errs.EMETHODNOTALLOWED, "Method %s not allowed.", r.Method))
	})

	// Set up middleware that needs to run on every matched route.
	s.router.Use(setContentTypeJSON, s.observe)

	// Wrap the router with middleware that also covers unmatched requests.
	// The outermost runs first.
	userMw := &auth.UserMw{Identifier: feed}
	s.handler = cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})(s.requestID(s.logRequest(s.recoverPanic(userMw.Apply(s.router)))))

	return s, nil
}

// ServeHTTP lets the server itself be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on addr until ctx is done, then shuts down gracefully,
// letting in-flight requests finish within the shutdown timeout.
func (s *Server) Run(ctx context.Context, addr string, t Timeouts) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  t.Read,
		WriteTimeout: t.Write,
		IdleTimeout:  t.Idle,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), t.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// allowedMethods lists the methods some route accepts for the request's path.
func (s *Server) allowedMethods(r *http.Request) []string {
	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := r.Clone(r.Context())
		req.Method = method
		var match mux.RouteMatch
		if s.router.Match(req, &match) && match.MatchErr == nil {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// handleIndex handles the route "GET /".
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "API is running"})
}

// handle registers h under path both with and without its trailing slash.
func handle(r *mux.Router, path string, h http.Handler, methods ...string) {
	r.Handle(path, h).Methods(methods...)
	if trimmed := path[:len(path)-1]; path[len(path)-1] == '/' && trimmed != "" {
		r.Handle(trimmed, h).Methods(methods...)
	}
}

// handleFunc is handle for handler functions.
func handleFunc(r *mux.Router, path string, fn http.HandlerFunc, methods ...string) {
	handle(r, path, fn, methods...)
}
