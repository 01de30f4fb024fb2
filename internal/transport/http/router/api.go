package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/server"
	"go-gin-gorm-crm/internal/metrics"
	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
	mdw "go-gin-gorm-crm/internal/transport/http/middleware"
)

// Deps is everything the API engine serves.
type Deps struct {
	Customers     *service.CustomerService
	Interactions  *service.InteractionService
	Opportunities *service.OpportunityService
	Users         *service.UserService
	Sessions      *service.SessionService
	Metrics       *metrics.Recorder

	// Ping reports storage health for /health; nil skips the check.
	Ping func(ctx context.Context) error

	// ProtectRecords puts record routes behind the bearer token.
	ProtectRecords bool

	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l)

	mw := []gin.HandlerFunc{mdw.RequestID()}
	if d.MaxInFlight > 0 {
		mw = append(mw, mdw.ConcurrencyLimit(d.MaxInFlight))
	}
	if d.MaxBodyBytes > 0 {
		mw = append(mw, mdw.MaxBodyBytes(d.MaxBodyBytes))
	}
	if d.RequestTimeout > 0 {
		mw = append(mw, mdw.Timeout(d.RequestTimeout))
	}
	mw = append(mw, mdw.Metrics(d.Metrics), mdw.AccessLog(l.Named("http")))
	r.Use(mw...)

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			if err := d.Ping(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	public := ez.New(api, l)
	authed := public.Group("", mdw.AuthJWT(func(ctx context.Context, tok string) (int64, error) {
		u, err := d.Sessions.Current(ctx, tok)
		if err != nil {
			return 0, err
		}
		return u.ID, nil
	}, d.Metrics, l.Named("auth")))
	records := public
	if d.ProtectRecords {
		records = authed
	}

	var reg Registry
	reg.Register(
		customerRoutes{svc: d.Customers},
		interactionRoutes{svc: d.Interactions},
		opportunityRoutes{svc: d.Opportunities},
		userRoutes{svc: d.Users},
		sessionRoutes{svc: d.Sessions},
	)
	reg.MountAll(Groups{Public: public, Authed: authed, Records: records})
	return r
}
