package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/logisticlabs/supplywatch/internal/alert"
	"github.com/logisticlabs/supplywatch/internal/query"
	"github.com/logisticlabs/supplywatch/internal/storage"
)

// GetAlerts handles GET /api/alerts. Non-numeric limit/offset fall back
// to defaults; a store failure yields an empty result set with an error
// indicator instead of killing the request path.
func (api *Api) GetAlerts(c *gin.Context) {
	req := query.Request{
		Category:  c.Query("category"),
		Region:    c.Query("region"),
		Severity:  c.Query("severity"),
		Search:    c.Query("search"),
		DateRange: c.Query("date_range"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Limit:     atoiDefault(c.Query("limit"), 0),
		Offset:    atoiDefault(c.Query("offset"), 0),
	}

	res, err := api.engine.Search(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("alert search failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"alerts": []alert.Alert{},
			"total":  0,
			"limit":  req.Limit,
			"offset": req.Offset,
			"error":  "alert store unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetStats handles GET /api/stats.
func (api *Api) GetStats(c *gin.Context) {
	stats, err := api.engine.Stats(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("stats aggregation failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": map[string]any{"code": "STORE_UNAVAILABLE", "message": "alert store unavailable"},
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Refresh handles POST /api/refresh: one synchronous ingestion run.
func (api *Api) Refresh(c *gin.Context) {
	n, err := api.scheduler.Run(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("manual refresh failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": fmt.Sprintf("Fetched %d new alerts before the store became unavailable", n),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Fetched %d new alerts", n)})
}

// GetCategories handles GET /api/categories: the static label
// enumeration the frontend builds its filter controls from.
func (api *Api) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":  api.taxonomy.CategoryLabels(),
		"regions":     api.taxonomy.RegionLabels(),
		"severities":  alert.Severities(),
		"date_ranges": storage.DateRanges(),
	})
}

// Health handles GET /health.
func (api *Api) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := api.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": api.store.Mode()})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
