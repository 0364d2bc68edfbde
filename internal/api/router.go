package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"kitchen-ops-backend/config"
	"kitchen-ops-backend/internal/kitchen"
	"kitchen-ops-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, svc *kitchen.Service, history *gorm.DB) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc, history)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Short-lived response cache; any successful mutation flushes it so a
	// transition is never hidden behind a stale read.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 10*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Bust(cacheStore))
	{
		api.POST("/tickets", handler.SubmitTicket)
		api.GET("/tickets", handler.ListTickets)
		api.GET("/tickets/:id", handler.GetTicket)
		api.POST("/tickets/:id/actions", handler.ApplyAction)

		api.GET("/alerts", caching, handler.GetAlerts)
		api.GET("/insights", caching, handler.GetInsights)
		api.POST("/load", handler.AdjustLoad)

		api.GET("/history", caching, handler.GetHistory)
	}

	return r
}
