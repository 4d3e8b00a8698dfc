// Package api is the thin HTTP layer over the query engine and the
// ingestion scheduler.
package api

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/logisticlabs/supplywatch/internal/ingest"
	"github.com/logisticlabs/supplywatch/internal/query"
	"github.com/logisticlabs/supplywatch/internal/storage"
	"github.com/logisticlabs/supplywatch/internal/taxonomy"
)

const indexFile = "web/index.html"

type Api struct {
	engine    *query.Engine
	scheduler *ingest.Scheduler
	store     storage.Store
	taxonomy  *taxonomy.Taxonomy
}

func NewApi(router *gin.Engine, engine *query.Engine, scheduler *ingest.Scheduler, store storage.Store, tax *taxonomy.Taxonomy) *Api {
	api := &Api{engine: engine, scheduler: scheduler, store: store, taxonomy: tax}
	api.setupRouters(router)
	return api
}

func (api *Api) setupRouters(router *gin.Engine) {
	router.Use(cors.Default())
	router.Use(RequestID())

	router.GET("/api/alerts", api.GetAlerts)
	router.GET("/api/stats", api.GetStats)
	router.POST("/api/refresh", api.Refresh)
	router.GET("/api/categories", api.GetCategories)
	router.GET("/health", api.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if _, err := os.Stat(indexFile); err == nil {
		router.StaticFile("/", indexFile)
	}
}

// RequestID echoes an incoming X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}
