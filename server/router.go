package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goto/salt/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/goto/jobtrail/internal/telemetry"
	"github.com/goto/jobtrail/internal/utils"
)

const (
	apiPrefix      = "/api"
	readyzTimeout  = 5 * time.Second
	corsMaxAgeSecs = 600
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type RouterOptions struct {
	AllowedOrigins    []string
	RequestsPerMinute int
	// Ready reports whether the database answers, /readyz fails while it errors
	Ready    func(ctx context.Context) error
	Handlers []RouteRegistrar
}

func NewRouter(l log.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(recoverer(l))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         corsMaxAgeSecs,
	}))
	if opts.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if opts.Ready != nil {
			ctx, cancel := context.WithTimeout(req.Context(), readyzTimeout)
			defer cancel()
			if err := opts.Ready(ctx); err != nil {
				l.Warn("readiness check failed: %s", err)
				utils.WriteError(w, err, "database not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(apiPrefix, func(api chi.Router) {
		for _, h := range opts.Handlers {
			h.RegisterRoutes(api)
		}
	})

	return otelhttp.NewHandler(r, "jobtrail-api")
}

func recoverer(l log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					telemetry.LogPanic("http")
					l.Error("recovered from panic serving [%s %s]: %v", r.Method, r.URL.Path, rec)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
