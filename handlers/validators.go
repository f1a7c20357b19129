package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/services"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// ValidatorRow is a table row with the derived columns filled in
type ValidatorRow struct {
	models.Validator
	MinorGroup      string `json:"minorGroup"`
	StakePercentage string `json:"stakePercentage"`
	ASNDisplay      string `json:"asnDisplay"`
	VersionStatus   string `json:"versionStatus"`
	UpgradeMessage  string `json:"upgradeMessage,omitempty"`
}

type ValidatorsResponse struct {
	Validators []ValidatorRow       `json:"validators"`
	Summary    models.Summary       `json:"summary"`
	Sort       models.SortState     `json:"sort"`
	Query      string               `json:"query"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	Total      int                  `json:"total"`
	Notice     *models.Notification `json:"notice,omitempty"`
}

func (h *Handler) versionConfig() *utils.VersionConfig {
	return &utils.VersionConfig{
		CurrentStable: h.Cfg.Versions.CurrentStable,
		MinSupported:  h.Cfg.Versions.MinSupported,
		Deprecated:    h.Cfg.Versions.Deprecated,
	}
}

// view decodes the shared query state and returns the filtered, sorted rows
// alongside the full set.
func (h *Handler) view(c echo.Context) (filtered, all []models.Validator, f models.FilterState, s models.SortState) {
	all = h.Explorer.Current().Validators
	f, s = services.DecodeQuery(c.QueryParams())
	filtered = services.SortValidators(services.ApplyFilter(all, f), s)
	return filtered, all, f, s
}

// GetValidators godoc
// @Summary Get the validator table
// @Description Filtered and sorted validators with the summary header. Paging is optional; without limit every row is returned.
// @Tags validators
// @Produce json
// @Param versions query string false "Comma separated versions"
// @Param sfdp query string false "all, sfdp, non-sfdp or a literal state"
// @Param sort query string false "Sort key"
// @Param sortDir query string false "asc or desc"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (max: 5000)"
// @Success 200 {object} ValidatorsResponse
// @Router /api/validators [get]
func (h *Handler) GetValidators(c echo.Context) error {
	filtered, all, f, s := h.view(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = len(filtered)
	}
	if limit > 5000 {
		limit = 5000
	}

	start, end := len(filtered), len(filtered)
	if limit > 0 && page-1 <= len(filtered)/limit {
		start = (page - 1) * limit
		end = min(start+limit, len(filtered))
		start = min(start, len(filtered))
	}

	total := services.TotalStake(all)
	vcfg := h.versionConfig()
	rows := make([]ValidatorRow, 0, end-start)
	for _, v := range filtered[start:end] {
		status, _, _ := utils.CheckVersionStatus(v.Version, vcfg)
		rows = append(rows, ValidatorRow{
			Validator:       v,
			MinorGroup:      utils.GetMinorVersionGroup(v.Version),
			StakePercentage: services.StakePercentage(v.ActivatedStake, total),
			ASNDisplay:      utils.AsnDisplay(v.AutonomousSystemNumber),
			VersionStatus:   status,
			UpgradeMessage:  utils.GetUpgradeMessage(v.Version, vcfg),
		})
	}

	resp := ValidatorsResponse{
		Validators: rows,
		Summary:    services.Summarize(filtered, all),
		Sort:       s,
		Query:      services.EncodeQuery(f, s).Encode(),
		Page:       page,
		Limit:      limit,
		Total:      len(filtered),
	}
	if len(filtered) == 0 && len(all) > 0 {
		resp.Notice = &models.Notification{Message: "No validators match the current filters"}
	}

	c.Response().Header().Set("Cache-Control", "max-age=30")
	return c.JSON(http.StatusOK, resp)
}

// VersionsResponse is the version filter panel
type VersionsResponse struct {
	Groups   []models.VersionGroup `json:"groups"`
	Statuses map[string]string     `json:"statuses"`
}

// GetVersions returns minor groups over the filtered set. Percentages are
// relative to the whole network.
func (h *Handler) GetVersions(c echo.Context) error {
	filtered, all, _, _ := h.view(c)

	groups := services.VersionGroups(filtered, all)
	vcfg := h.versionConfig()
	statuses := make(map[string]string)
	for _, g := range groups {
		for _, v := range g.Versions {
			status, _, _ := utils.CheckVersionStatus(v.Key, vcfg)
			statuses[v.Key] = status
		}
	}

	return c.JSON(http.StatusOK, VersionsResponse{Groups: groups, Statuses: statuses})
}

// GetDistribution returns stake shares along one dimension
func (h *Handler) GetDistribution(c echo.Context) error {
	dim := services.Dimension(c.Param("dimension"))
	filtered, all, _, _ := h.view(c)

	shares, err := services.AggregateByDimension(filtered, all, dim)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unknown dimension: " + string(dim),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"dimension": dim,
		"shares":    shares,
	})
}

// GetFilters lists every value the filter dimensions can take
func (h *Handler) GetFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, services.BuildFilterOptions(h.Explorer.Current().Validators))
}
