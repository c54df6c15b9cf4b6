// Package httpserver wires the web surface: routes, middleware, sessions.
package httpserver

import (
	"log/slog"
	"net/http"

	"jee-solver/internal/config"
	"jee-solver/internal/engine"
	"jee-solver/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

const sessionName = "jee-solver"

type Server struct {
	cfg      *config.Config
	engines  *engine.Engines
	renderer *web.Renderer
	store    *sessions.CookieStore
	log      *slog.Logger
}

func New(cfg *config.Config, engines *engine.Engines, renderer *web.Renderer, log *slog.Logger) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Server{
		cfg:      cfg,
		engines:  engines,
		renderer: renderer,
		store:    store,
		log:      log,
	}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if s.cfg.Debug {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.Index)
	r.Post("/solve", s.SolveForm)
	r.Post("/api/solve", s.APISolve)
	r.Get("/health", s.Health)
	r.Handle("/static/*", web.StaticHandler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.renderError(w, http.StatusNotFound, "Page not found")
	})

	return r
}

// availableEngines lists the configured engine names for the form select.
func (s *Server) availableEngines() []string {
	names := []string{}
	if s.engines.Gemini != nil {
		names = append(names, "gemini")
	}
	if s.engines.OpenAI != nil {
		names = append(names, "gpt")
	}
	return names
}

// enginePref reads the remembered engine choice from the signed session,
// falling back to the configured default.
func (s *Server) enginePref(req *http.Request) string {
	sess, err := s.store.Get(req, sessionName)
	if err == nil {
		if name, ok := sess.Values["engine"].(string); ok && name != "" {
			return name
		}
	}
	return s.engines.Default
}

// rememberEngine persists the engine choice in the session cookie.
func (s *Server) rememberEngine(w http.ResponseWriter, req *http.Request, name string) {
	sess, err := s.store.Get(req, sessionName)
	if err != nil {
		// A tampered cookie yields a fresh session; Get still returns one.
		sess, _ = s.store.New(req, sessionName)
	}
	sess.Values["engine"] = name
	if err := sess.Save(req, w); err != nil {
		s.log.Warn("save session", "error", err)
	}
}
