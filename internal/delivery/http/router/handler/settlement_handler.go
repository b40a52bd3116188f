package handler

import (
	"log/slog"
	"net/http"

	"ptbook/internal/delivery/http/middleware"
	"ptbook/internal/delivery/http/response"
	"ptbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SettlementHandler holds dependencies for monthly settlement handlers.
type SettlementHandler struct {
	uc     usecase.SettlementUsecase
	logger *slog.Logger
}

// NewSettlementHandler is the constructor for SettlementHandler, injected by Fx.
func NewSettlementHandler(uc usecase.SettlementUsecase, logger *slog.Logger) *SettlementHandler {
	return &SettlementHandler{
		uc:     uc,
		logger: logger,
	}
}

// MonthlyStats returns per-trainer aggregates for the month in the path
// ("2006-01"). Staff only; trainers see their own line.
func (h *SettlementHandler) MonthlyStats(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	stats, err := h.uc.MonthlyStats(c.Request().Context(), usecase.MonthlyStatsInput{
		Actor: actor,
		Month: c.Param("month"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Settlement stats retrieved successfully")
}

// Export writes the month's aggregates as a CSV object and returns its
// storage key. Admin only.
func (h *SettlementHandler) Export(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	output, err := h.uc.Export(c.Request().Context(), usecase.MonthlyStatsInput{
		Actor: actor,
		Month: c.Param("month"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Settlement exported successfully")
}
