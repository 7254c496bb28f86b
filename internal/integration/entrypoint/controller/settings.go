package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleet-console/backend/internal/application/usecase/settings"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
	"github.com/fleet-console/backend/internal/integration/entrypoint/middleware"
)

// SettingsController handles dashboard settings endpoints.
type SettingsController struct {
	getSettingsUseCase    *settings.GetSettingsUseCase
	updateSettingsUseCase *settings.UpdateSettingsUseCase
}

// NewSettingsController creates a new settings controller instance.
func NewSettingsController(
	getSettingsUseCase *settings.GetSettingsUseCase,
	updateSettingsUseCase *settings.UpdateSettingsUseCase,
) *SettingsController {
	return &SettingsController{
		getSettingsUseCase:    getSettingsUseCase,
		updateSettingsUseCase: updateSettingsUseCase,
	}
}

// Get handles GET /settings/dashboard requests.
func (c *SettingsController) Get(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.getSettingsUseCase.Execute(ctx.Request.Context(), orgID)
	if err != nil {
		c.handleSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardSettingsResponse(output.Settings, output.Stored))
}

// Update handles PUT /settings/dashboard requests.
func (c *SettingsController) Update(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UpdateDashboardSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidSettings),
		})
		return
	}

	input := settings.UpdateSettingsInput{
		OrganizationID:   orgID,
		Timezone:         req.Timezone,
		DefaultTimeframe: req.DefaultTimeframe,
		LegacyDailySlot:  req.LegacyDailySlot,
		HiddenCharts:     req.HiddenCharts,
	}

	updated, err := c.updateSettingsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardSettingsResponse(updated, true))
}

// handleSettingsError handles settings-related errors and returns appropriate HTTP responses.
func (c *SettingsController) handleSettingsError(ctx *gin.Context, err error) {
	var settingsErr *domainerror.SettingsError
	if errors.As(err, &settingsErr) {
		status := c.getStatusCodeForSettingsError(settingsErr.Code)
		if status == http.StatusInternalServerError {
			slog.Error("Dashboard settings failure", "code", settingsErr.Code, "error", err)
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: settingsErr.Message,
			Code:  string(settingsErr.Code),
		})
		return
	}

	slog.Error("Dashboard settings failure", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeSettingsInternalError),
	})
}

// getStatusCodeForSettingsError maps settings error codes to HTTP status codes.
func (c *SettingsController) getStatusCodeForSettingsError(code domainerror.SettingsErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidTimezone,
		domainerror.ErrCodeInvalidTimeframe,
		domainerror.ErrCodeInvalidHiddenChart,
		domainerror.ErrCodeInvalidSettings:
		return http.StatusBadRequest
	case domainerror.ErrCodeSettingsNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
