package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/contactbook/internal/config"
	"github.com/geocoder89/contactbook/internal/http/handlers"
	"github.com/geocoder89/contactbook/internal/http/middlewares"
	"github.com/geocoder89/contactbook/internal/observability"
	"github.com/geocoder89/contactbook/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom, metrics prometheus.Gatherer) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("contactbook"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	contactsRepo := postgres.NewContactsRepo(pool, prom)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo)
	contactsHandler := handlers.NewContactsHandler(contactsRepo)
	profileHandler := handlers.NewProfileHandler(usersRepo)

	// auth routes sit behind a per-IP limiter
	rl := middlewares.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	limited := rl.RateLimiterMiddleware(middlewares.KeyByIP)

	r.POST("/login", limited, authHandler.Login)
	r.POST("/register", limited, authHandler.Register)
	r.POST("/forgot-password", limited, authHandler.ForgotPassword)

	r.GET("/contacts/:userId", contactsHandler.FetchContacts)
	r.POST("/add-contact", contactsHandler.AddContact)
	r.PUT("/update-contact/:contactId", contactsHandler.UpdateContact)
	r.DELETE("/delete-contact/:contactId", contactsHandler.DeleteContact)

	r.GET("/profile/:userId", profileHandler.GetProfile)
	r.PUT("/update-profile/:userId", profileHandler.UpdateProfile)

	return r
}
