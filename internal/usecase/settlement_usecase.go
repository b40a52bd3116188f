package usecase

import (
	"context"

	"ptbook/internal/domain/booking"
)

// MonthlyStatsInput identifies the settlement month to aggregate.
type MonthlyStatsInput struct {
	Actor Actor
	Month string // "2006-01"
}

// ExportOutput carries the storage key of a generated settlement file.
type ExportOutput struct {
	Key string `json:"key"`
}

// SettlementUsecase aggregates completed appointments into per-trainer
// monthly statistics and exports them for payout processing.
type SettlementUsecase interface {
	// MonthlyStats returns per-trainer aggregates for the given month,
	// sorted by trainer name. Staff only.
	MonthlyStats(ctx context.Context, input MonthlyStatsInput) ([]*booking.TrainerStats, error)

	// Export writes the month's aggregates as a CSV object and returns
	// its storage key. Admin only.
	Export(ctx context.Context, input MonthlyStatsInput) (*ExportOutput, error)
}
