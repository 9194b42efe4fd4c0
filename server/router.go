package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/realtime"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/utils"
	"github.com/sirupsen/logrus"
)

const (
	headerCorrelationId = "x-correlation-id"
	headerBusinessId    = "x-business-id"
)

// Refresher reloads the snapshot for a business from the backing store.
type Refresher interface {
	Refresh(ctx context.Context, businessId string) (reports.MetricsSnapshot, error)
}

// Deps are the collaborators the dashboard API is built from.
// Refresher and RateLimiter are optional.
type Deps struct {
	Publisher      *realtime.Publisher
	Refresher      Refresher
	RateLimiter    *RateLimiter
	BusinessId     string
	Locale         string
	Logger         *logrus.Logger
	AllowedOrigins []string
	Production     bool
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = config.GetLogger()
	}
	if deps.Locale == "" {
		deps.Locale = config.DefaultLocale
	}

	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader(headerCorrelationId)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header(headerCorrelationId, cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Use(cors.New(corsConfig(deps.AllowedOrigins, deps.Production)))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.RateLimitMiddleware)
	}
	r.Use(businessMiddleware(deps.BusinessId))
	r.Use(customErrorLogger(deps.Logger))
	r.Use(gin.Recovery())

	h := &handler{deps: deps}
	dashboard := r.Group("/dashboard")
	dashboard.GET("/metrics", h.getMetrics)
	dashboard.POST("/data", h.postData)
	dashboard.POST("/refresh", h.postRefresh)
	dashboard.GET("/export", h.getExport)
	dashboard.GET("/currency", h.getCurrency)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

// corsConfig allows every origin outside production; production requires an explicit allowlist.
func corsConfig(allowedOrigins []string, production bool) cors.Config {
	cfg := cors.DefaultConfig()
	if production {
		if len(allowedOrigins) == 0 {
			// deny all
			cfg.AllowOriginFunc = func(string) bool { return false }
		} else {
			cfg.AllowOrigins = allowedOrigins
		}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods("GET", "POST", "OPTIONS")
	cfg.AddAllowHeaders("Origin", "Content-Type", headerBusinessId, headerCorrelationId)
	cfg.AddExposeHeaders("Content-Length", "Content-Disposition", headerCorrelationId)
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	return cfg
}

// businessMiddleware takes the business from the request header, else the service default.
func businessMiddleware(defaultBusinessId string) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId := c.GetHeader(headerBusinessId)
		if businessId == "" {
			businessId = defaultBusinessId
		}
		if businessId != "" {
			c.Request = c.Request.WithContext(utils.SetBusinessIdInContext(c.Request.Context(), businessId))
		}
		c.Next()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"path":           c.FullPath(),
				"status":         c.Writer.Status(),
				"correlation_id": cid,
			}).Error(c.Errors.String())
		}
	}
}
