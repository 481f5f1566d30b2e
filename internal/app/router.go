package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kisanlog/kisanlog/internal/auth"
	"github.com/kisanlog/kisanlog/internal/expenses"
	"github.com/kisanlog/kisanlog/internal/observability"
	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/summary"
	"github.com/kisanlog/kisanlog/internal/yields"
	"github.com/kisanlog/kisanlog/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Metrics           *observability.Metrics
	AuthHandler       *auth.Handler
	SessionMiddleware *auth.Middleware
	ExpenseHandler    *expenses.Handler
	YieldHandler      *yields.Handler
	SummaryHandler    *summary.Handler
	// Static overrides the UI filesystem. When nil, STATIC_DIR or the
	// embedded assets are used.
	Static fs.FS
}

// NewRouter constructs the chi.Router with KisanLog defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.Fail(w, http.StatusNotFound, "Route not found")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			httpx.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		})

		authLimit := 20
		if params.Config != nil && params.Config.AuthRateLimitPerMinute > 0 {
			authLimit = params.Config.AuthRateLimitPerMinute
		}
		api.Route("/auth", func(ar chi.Router) {
			ar.Use(RateLimit(authLimit))
			params.AuthHandler.MountRoutes(ar, params.SessionMiddleware.Require)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(params.SessionMiddleware.Require)
			if params.ExpenseHandler != nil {
				pr.Route("/expenses", params.ExpenseHandler.MountRoutes)
			}
			if params.YieldHandler != nil {
				pr.Route("/yields", params.YieldHandler.MountRoutes)
			}
			if params.SummaryHandler != nil {
				pr.Route("/summary", params.SummaryHandler.MountRoutes)
			}
		})
	})

	staticFS, err := resolveStatic(params)
	if err != nil {
		logger.Error("create static filesystem", slog.Any("error", err))
	} else {
		r.Handle("/*", staticCacheHandler(http.FileServer(http.FS(staticFS))))
	}

	return r
}

func resolveStatic(params RouterParams) (fs.FS, error) {
	if params.Static != nil {
		return params.Static, nil
	}
	if params.Config != nil && params.Config.StaticDir != "" {
		return os.DirFS(params.Config.StaticDir), nil
	}
	return fs.Sub(web.Static, "static")
}

// staticCacheHandler sets Cache-Control on the UI. Pages are revalidated on
// every load, assets are cached for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets/") {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		next.ServeHTTP(w, r)
	})
}
