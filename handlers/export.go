package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/services"
)

// ExportCSV downloads the filtered, sorted table
func (h *Handler) ExportCSV(c echo.Context) error {
	filtered, all, _, _ := h.view(c)

	filename, body, err := services.ExportCSV(filtered, all, time.Now())
	if errors.Is(err, services.ErrEmptyExport) {
		return c.JSON(http.StatusUnprocessableEntity, models.Notification{
			Message: "No validators to export",
			IsError: true,
		})
	}
	if err != nil {
		log.Printf("CSV export failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to export CSV"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

type ConvertRequest struct {
	Keys string `json:"keys"`
}

type ConvertResponse struct {
	services.Conversion
	Output       string              `json:"output"`
	Notification models.Notification `json:"notification"`
}

// ConvertKeys translates a newline separated key list between identity and
// vote accounts.
func (h *Handler) ConvertKeys(c echo.Context) error {
	var req ConvertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}

	conv, err := services.ConvertKeys(services.ParseKeyList(req.Keys), h.Explorer.Current().Validators)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Notification{Message: err.Error(), IsError: true})
	}

	note := models.Notification{
		Message: fmt.Sprintf("Converted %d keys to %s accounts", conv.Converted, conv.Direction),
	}
	if conv.Failed > 0 {
		note.Message = fmt.Sprintf("%s, %d could not be found", note.Message, conv.Failed)
		note.IsError = conv.Converted == 0
	}

	return c.JSON(http.StatusOK, ConvertResponse{
		Conversion:   conv,
		Output:       conv.Output(),
		Notification: note,
	})
}
