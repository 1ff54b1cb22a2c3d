package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geotag-backend-go/internal/config"
	"github.com/jengzang/geotag-backend-go/internal/handler"
	"github.com/jengzang/geotag-backend-go/internal/logging"
	"github.com/jengzang/geotag-backend-go/internal/middleware"
	"github.com/jengzang/geotag-backend-go/internal/observability"
	"github.com/jengzang/geotag-backend-go/internal/service"
)

// Dependencies 路由依赖
type Dependencies struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *observability.GeotagCollector
	Track   *service.TrackService
	Journal *service.JournalService // nil when the journal is disabled
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Geotag API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(120, time.Minute)))
	{
		trackHandler := handler.NewTrackHandler(deps.Track)
		api.GET("/track", trackHandler.GetTrack)
		api.GET("/fix", trackHandler.GetFix)

		if deps.Journal != nil {
			secret := ""
			if deps.Config != nil {
				secret = deps.Config.JWTSecret
			}
			geotagHandler := handler.NewGeotagHandler(deps.Journal)
			geotags := api.Group("/geotags", middleware.Auth(secret))
			{
				geotags.GET("", geotagHandler.GetGeotags)
				geotags.GET("/runs/:runId", geotagHandler.GetRunSummary)
			}
		}
	}

	return r
}
