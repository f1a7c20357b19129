package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigarcia/validator-version-monitor/services"
)

const maxHistoryHours = 24 * 30

// GetVersionHistory godoc
// @Summary Get minor version distribution over time
// @Tags history
// @Produce json
// @Param hours query int false "Window in hours (default: 24, max: 720)"
// @Success 200 {array} models.VersionHistoryPoint
// @Failure 503 {object} ErrorResponse
// @Router /api/history/versions [get]
func (h *Handler) GetVersionHistory(c echo.Context) error {
	hours, err := strconv.Atoi(c.QueryParam("hours"))
	if err != nil || hours < 1 {
		hours = 24
	}
	if hours > maxHistoryHours {
		hours = maxHistoryHours
	}

	points, err := h.Explorer.History(c.Request().Context(), time.Duration(hours)*time.Hour)
	if errors.Is(err, services.ErrMongoDisabled) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Version history is not enabled"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"hours":  hours,
		"points": points,
	})
}
