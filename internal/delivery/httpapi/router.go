package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	Handler         *Handler
	Logger          *zap.Logger
	AdminSecret     string
	RateLimitWindow time.Duration
	RateLimitMax    int
	BodyLimitBytes  int64
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger), cors(), bodyLimit(cfg.BodyLimitBytes))

	router.GET("/", cfg.Handler.Health)

	api := router.Group("/api")
	api.Use(rateLimit(newIPLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)))
	api.POST("/sync-alerts", cfg.Handler.SyncAlerts)

	admin := api.Group("/admin", requireAdmin(cfg.AdminSecret))
	{
		admin.GET("/stats", cfg.Handler.Stats)
		admin.GET("/logs", cfg.Handler.Logs)
	}

	return router
}
