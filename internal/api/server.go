package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/metrics"
	"github.com/dgallion1/rfcsite/internal/site"
	"github.com/dgallion1/rfcsite/internal/watch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SiteProvider returns the site snapshot to serve. Implementations may
// swap the snapshot between calls.
type SiteProvider interface {
	Current() *site.Site
}

// StaticSite serves a single snapshot that never changes.
type StaticSite struct{ Site *site.Site }

func (s StaticSite) Current() *site.Site { return s.Site }

// Server is the HTTP server for the RFC site.
type Server struct {
	router    chi.Router
	sites     SiteProvider
	reload    *LiveReload
	metrics   *metrics.Metrics
	log       *slog.Logger
	staticDir string
	started   time.Time
}

// NewServer creates and configures the HTTP server. reload and m may be
// nil. Site pages are mounted under the base URL of the snapshot current
// at construction time.
func NewServer(sites SiteProvider, reload *LiveReload, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sites:     sites,
		reload:    reload,
		metrics:   m,
		log:       log,
		staticDir: cfg.StaticDir,
		started:   time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.metrics != nil {
		r.Use(Metrics(s.metrics))
	}

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	if s.reload != nil {
		r.Method(http.MethodGet, "/livereload", s.reload)
	}

	pages := chi.NewRouter()
	pages.Use(s.requireSite)
	pages.Get("/api/sidebar", s.handleSidebar)
	pages.Get("/api/toc", s.handleTOC)
	pages.Get("/rfcs.pdf", s.handlePDF)
	pages.Get("/assets/css/highlight.css", s.handleHighlightCSS)
	pages.Get("/assets/*", s.handleAsset)
	pages.Get("/*", s.handlePage)
	pages.Head("/*", s.handlePage)

	r.Mount(s.basePath(), pages)
	s.router = r
}

func (s *Server) basePath() string {
	if cur := s.sites.Current(); cur != nil {
		if base := strings.TrimSuffix(cur.Config().BaseURL, "/"); base != "" {
			return base
		}
	}
	return "/"
}

// requireSite answers 503 until a snapshot is available.
func (s *Server) requireSite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sites.Current() == nil {
			jsonError(w, "site not built", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	}
	if cur := s.sites.Current(); cur != nil {
		resp["documents"] = len(cur.Routes())
		resp["toc_entries"] = len(cur.TOC())
		resp["built_at"] = cur.BuiltAt().UTC().Format(time.RFC3339)
	} else {
		resp["status"] = "building"
	}
	if rb, ok := s.sites.(interface{ LastBuild() watch.Result }); ok {
		resp["last_rebuild"] = rb.LastBuild()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
