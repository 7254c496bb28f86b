// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleet-console/backend/internal/application/usecase/chart"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
	"github.com/fleet-console/backend/internal/integration/entrypoint/middleware"
)

// statusClientClosedRequest is reported when the client went away mid-assembly.
const statusClientClosedRequest = 499

// ChartController handles chart endpoints.
type ChartController struct {
	getChartUseCase    *chart.GetChartUseCase
	getOverviewUseCase *chart.GetOverviewUseCase
}

// NewChartController creates a new chart controller instance.
func NewChartController(
	getChartUseCase *chart.GetChartUseCase,
	getOverviewUseCase *chart.GetOverviewUseCase,
) *ChartController {
	return &ChartController{
		getChartUseCase:    getChartUseCase,
		getOverviewUseCase: getOverviewUseCase,
	}
}

// Get handles GET /charts/:kind requests.
func (c *ChartController) Get(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	input := chart.GetChartInput{
		OrganizationID: orgID,
		Kind:           entity.ChartKind(ctx.Param("kind")),
		Timeframe:      ctx.Query("timeframe"),
	}

	result, err := c.getChartUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleChartError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToChartResponse(result))
}

// Overview handles GET /charts requests.
// It returns every chart the organization has not hidden.
func (c *ChartController) Overview(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	input := chart.GetOverviewInput{
		OrganizationID: orgID,
		Timeframe:      ctx.Query("timeframe"),
	}

	overview, err := c.getOverviewUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleChartError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOverviewResponse(overview))
}

// handleChartError handles chart-related errors and returns appropriate HTTP responses.
func (c *ChartController) handleChartError(ctx *gin.Context, err error) {
	var chartErr *domainerror.ChartError
	if errors.As(err, &chartErr) {
		ctx.JSON(c.getStatusCodeForChartError(chartErr.Code), dto.ErrorResponse{
			Error: chartErr.Message,
			Code:  string(chartErr.Code),
		})
		return
	}

	if errors.Is(err, context.Canceled) {
		ctx.AbortWithStatus(statusClientClosedRequest)
		return
	}

	slog.Error("Failed to assemble chart", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeChartInternalError),
	})
}

// getStatusCodeForChartError maps chart error codes to HTTP status codes.
func (c *ChartController) getStatusCodeForChartError(code domainerror.ChartErrorCode) int {
	switch code {
	case domainerror.ErrCodeUnknownChart:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "Operator not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
