package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "coderefine/internal/application/analysis"
	domain "coderefine/internal/domain/analysis"
	"coderefine/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

// Options for router construction. HealthCheckers may be empty; StaticDir
// empty disables the frontend.
type Options struct {
	HealthCheckers     map[string]middleware.HealthChecker
	StaticDir          string
	RateLimitCapacity  int
	RateLimitPerSecond int
}

func NewRouter(svc *appanalysis.Service, log *zap.Logger, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	// The frontend is served from a different origin during development.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	mux.Use(middleware.LoggingMiddleware(log))
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateLimitCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitPerSecond))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/status", r.wrap(r.handleStatus))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
	})

	if opts.StaticDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, appanalysis.ErrEmptyCode):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, appanalysis.ErrHistoryDisabled), errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /api/analyze
// Body: {"code": "...", "language": "python"}
// Always answers 200 with an analysis for well-formed non-empty input;
// model backend failures degrade to demo mode inside the service.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidateCode(body.Code); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	language := middleware.SanitizeString(body.Language)
	if err := middleware.ValidateLanguage(language); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	a, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		Code:     body.Code,
		Language: language,
	})
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	if a.Mode == domain.ModeDemo {
		middleware.IncrementDemoAnalyses()
	}

	return writeJSON(w, a)
}

// GET /api/status
func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, r.svc.Status())
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.Paginate(req.Context(),
		middleware.ValidatePage(page), middleware.ValidatePageSize(size))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, list)
}

// GET /api/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	a, err := r.svc.Get(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /api/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.svc.Summary(req.Context(), middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
