package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/services"
)

// Explorer is the part of the refresh pipeline the handlers read from
type Explorer interface {
	Current() *services.Dataset
	History(ctx context.Context, window time.Duration) ([]models.VersionHistoryPoint, error)
}

type Handler struct {
	Cfg      *config.Config
	Explorer Explorer
}

func NewHandler(cfg *config.Config, explorer Explorer) *Handler {
	return &Handler{
		Cfg:      cfg,
		Explorer: explorer,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHealth returns OK
func (h *Handler) GetHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// StatusResponse describes the dataset currently being served
type StatusResponse struct {
	Status     string                  `json:"status"`
	Validators int                     `json:"validators"`
	Sources    []services.SourceStatus `json:"sources"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// GetStatus returns backend status
func (h *Handler) GetStatus(c echo.Context) error {
	ds := h.Explorer.Current()
	status := "running"
	if ds.UpdatedAt.IsZero() {
		status = "warming"
	}
	sources := ds.Sources
	if sources == nil {
		sources = []services.SourceStatus{}
	}
	return c.JSON(http.StatusOK, StatusResponse{
		Status:     status,
		Validators: len(ds.Validators),
		Sources:    sources,
		UpdatedAt:  ds.UpdatedAt,
	})
}
