package service

import (
	"context"

	"ptbook/internal/domain/booking"
)

// SettlementExporter writes a month's per-trainer settlement to durable
// storage and returns the object key of the written file.
type SettlementExporter interface {
	// ExportCSV renders the stats as CSV and uploads them under a key derived
	// from the month ("2006-01").
	ExportCSV(ctx context.Context, month string, stats []*booking.TrainerStats) (string, error)
}
