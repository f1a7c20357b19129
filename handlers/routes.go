package handlers

import "github.com/labstack/echo/v4"

// Register mounts every route on e
func Register(e *echo.Echo, h *Handler, cacheHandlers *CacheHandlers) {
	// System
	e.GET("/health", h.GetHealth)
	if cacheHandlers != nil {
		e.GET("/cache/status", cacheHandlers.GetCacheStatus)
		e.POST("/cache/clear", cacheHandlers.ClearCache)
	}

	api := e.Group("/api")

	api.GET("/status", h.GetStatus)
	api.GET("/validators", h.GetValidators)
	api.GET("/versions", h.GetVersions)
	api.GET("/distribution/:dimension", h.GetDistribution)
	api.GET("/filters", h.GetFilters)
	api.GET("/export", h.ExportCSV)
	api.POST("/convert", h.ConvertKeys)

	history := api.Group("/history")
	history.GET("/versions", h.GetVersionHistory)
}
