package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ptbook/internal/delivery/context"
	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/domain/service"
	"ptbook/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// settlementService implements the SettlementUsecase interface. Aggregation
// is a pure fold over the month's appointments, so re-running a settlement
// after a late no-show correction just yields the corrected numbers.
type settlementService struct {
	apptRepo repository.AppointmentRepository
	exporter service.SettlementExporter
	logger   *slog.Logger
}

// SettlementServiceParams holds dependencies for SettlementService, injected by Fx.
type SettlementServiceParams struct {
	fx.In

	ApptRepo repository.AppointmentRepository
	Exporter service.SettlementExporter
	Logger   *slog.Logger
}

// NewSettlementService is the constructor for settlementService.
func NewSettlementService(params SettlementServiceParams) usecase.SettlementUsecase {
	return &settlementService{
		apptRepo: params.ApptRepo,
		exporter: params.Exporter,
		logger:   params.Logger,
	}
}

func (srv *settlementService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// MonthlyStats aggregates the month's appointments into per-trainer lines.
// Trainers receive only their own line; admins receive every trainer's.
func (srv *settlementService) MonthlyStats(ctx context.Context, input usecase.MonthlyStatsInput) ([]*booking.TrainerStats, error) {
	if !input.Actor.IsStaff() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only staff may view settlements")
	}

	stats, err := srv.aggregateMonth(ctx, input.Month)
	if err != nil {
		return nil, err
	}

	if input.Actor.Role == entity.RoleTrainer {
		for _, line := range stats {
			if line.TrainerID == input.Actor.UserID {
				return []*booking.TrainerStats{line}, nil
			}
		}

		return []*booking.TrainerStats{}, nil
	}

	return stats, nil
}

// Export writes the month's settlement as a CSV object and returns its key.
// Admin only.
func (srv *settlementService) Export(ctx context.Context, input usecase.MonthlyStatsInput) (*usecase.ExportOutput, error) {
	if !input.Actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only admins may export settlements")
	}

	stats, err := srv.aggregateMonth(ctx, input.Month)
	if err != nil {
		return nil, err
	}

	key, err := srv.exporter.ExportCSV(ctx, input.Month, stats)
	if err != nil {
		srv.log(ctx).Error("Settlement export failed", slog.String("month", input.Month), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to export settlement")
	}

	srv.log(ctx).Info("Settlement exported", slog.String("month", input.Month), slog.String("key", key))

	return &usecase.ExportOutput{Key: key}, nil
}

func (srv *settlementService) aggregateMonth(ctx context.Context, month string) ([]*booking.TrainerStats, error) {
	if _, err := time.Parse(booking.MonthLayout, month); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("month must look like 2024-06")
	}

	// "-31" overshoots short months but dates compare lexicographically, so
	// the range still covers exactly the month.
	appointments, err := srv.apptRepo.Find(ctx, repository.AppointmentFilter{
		DateFrom: month + "-01",
		DateTo:   month + "-31",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load appointments for settlement")
	}

	return booking.Aggregate(appointments, month), nil
}
