// Package export writes settlement reports to blob storage through the
// gocloud.dev portable bucket API, so the same code serves local files in
// development and GCS in production.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"ptbook/config"
	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/lifecycle"
	"ptbook/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// bucket driver
)

// csvHeader is the fixed column layout of a settlement export.
var csvHeader = []string{
	"trainer_id",
	"trainer_name",
	"total_appointments",
	"fulfilled_appointments",
	"cancelled_appointments",
	"fulfilled_by_product",
	"cancelled_by_product",
	"success_rate",
}

// blobExporter implements service.SettlementExporter on a *blob.Bucket.
type blobExporter struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Params holds dependencies for the settlement exporter, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and returns a SettlementExporter bound to it.
func New(params Params) (service.SettlementExporter, error) {
	if params.Config.Export == nil || params.Config.Export.BucketURL == "" {
		return nil, errors.New("export bucket URL must be configured")
	}

	openCtx, cancel := context.WithTimeout(params.Ctx, lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, params.Config.Export.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open export bucket %s", params.Config.Export.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobExporter{
		bucket: bucket,
		logger: params.Logger,
	}, nil
}

// ExportCSV renders the stats as CSV and uploads them under
// "settlements/<month>.csv". Re-exporting a month overwrites the previous
// file, which is safe because aggregation is idempotent.
func (e *blobExporter) ExportCSV(ctx context.Context, month string, stats []*booking.TrainerStats) (string, error) {
	key := fmt.Sprintf("settlements/%s.csv", month)

	writer, err := e.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to open writer for %s", key)
	}

	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write(csvHeader); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write CSV header")
	}

	for _, line := range stats {
		record := []string{
			line.TrainerID.String(),
			line.TrainerName,
			strconv.Itoa(line.TotalAppointments),
			strconv.Itoa(line.FulfilledAppointments),
			strconv.Itoa(line.CancelledAppointments),
			formatProductCounts(line.FulfilledByProduct),
			formatProductCounts(line.CancelledByProduct),
			strconv.FormatFloat(line.SuccessRate, 'f', 4, 64),
		}
		if err := csvWriter.Write(record); err != nil {
			writer.Close()

			return "", errors.Wrap(err, "failed to write CSV record")
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to flush CSV")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to finalize upload of %s", key)
	}

	e.logger.Info("Settlement exported",
		slog.String("month", month),
		slog.String("key", key),
		slog.Int("trainer_count", len(stats)),
	)

	return key, nil
}

// formatProductCounts flattens a per-product count map into a stable
// "name:count;name:count" cell, sorted by product name.
func formatProductCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, counts[name]))
	}

	return strings.Join(parts, ";")
}

// Module provides the export FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(New),
)
