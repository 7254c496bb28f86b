package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleet-console/backend/internal/application/usecase/notification"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
)

// NotificationController handles notification count endpoints.
type NotificationController struct {
	getCountsUseCase *notification.GetCountsUseCase
}

// NewNotificationController creates a new notification controller instance.
func NewNotificationController(getCountsUseCase *notification.GetCountsUseCase) *NotificationController {
	return &NotificationController{
		getCountsUseCase: getCountsUseCase,
	}
}

// Counts handles GET /notifications/counts requests.
func (c *NotificationController) Counts(ctx *gin.Context) {
	counts, err := c.getCountsUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleUpstreamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NotificationCountsResponse{
		Data: dto.ToNotificationCountsData(counts),
	})
}

func (c *NotificationController) handleUpstreamError(ctx *gin.Context, err error) {
	var upstreamErr *domainerror.UpstreamError
	if errors.As(err, &upstreamErr) {
		slog.Warn("Notification counts unavailable", "code", upstreamErr.Code, "error", err)
		ctx.JSON(c.getStatusCodeForUpstreamError(upstreamErr.Code), dto.ErrorResponse{
			Error: "Notification counts are temporarily unavailable",
			Code:  string(upstreamErr.Code),
		})
		return
	}

	slog.Error("Failed to get notification counts", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForUpstreamError maps upstream error codes to HTTP status codes.
func (c *NotificationController) getStatusCodeForUpstreamError(code domainerror.UpstreamErrorCode) int {
	switch code {
	case domainerror.ErrCodeUpstreamCircuitOpen:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
