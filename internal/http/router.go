package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mkravets/userhub/internal/auth"
	"github.com/mkravets/userhub/internal/cache"
	"github.com/mkravets/userhub/internal/config"
	"github.com/mkravets/userhub/internal/http/handlers"
	"github.com/mkravets/userhub/internal/http/middlewares"
	"github.com/mkravets/userhub/internal/observability"
)

const maxBodyBytes = 1 << 20 // profiles are small documents

// NewRouter wires middleware and the three account routes.
func NewRouter(
	log *slog.Logger,
	cfg config.Config,
	accounts handlers.AccountStore,
	tokens *auth.Manager,
	prom *observability.Prom,
	ping func(ctx context.Context) error,
) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("userhub"))

	if prom != nil {
		r.Use(middlewares.Metrics(prom))
	}

	// health + metrics
	hh := handlers.NewHealthHandler(ping)
	r.GET("/healthz", hh.Healthz)
	r.GET("/readyz", hh.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// account routes
	profiles := cache.New(cfg.ProfileCacheTTL)
	ah := handlers.NewAccountsHandler(accounts, tokens, profiles)
	authmw := middlewares.NewAuthMiddleware(tokens, cfg.EnforceSubject)

	users := r.Group("/users")
	users.PUT("/:id", ah.Create)
	users.PUT("/:id/auth", ah.Login)
	users.GET("/:id", authmw.RequireAuth(), ah.GetProfile)

	return r
}
