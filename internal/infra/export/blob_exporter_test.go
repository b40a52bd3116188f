package export

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"ptbook/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/fileblob"
)

func newTestExporter(t *testing.T) *blobExporter {
	t.Helper()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })

	return &blobExporter{
		bucket: bucket,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestBlobExporter_ExportCSV(t *testing.T) {
	exporter := newTestExporter(t)
	trainerID := uuid.New()

	stats := []*booking.TrainerStats{
		{
			TrainerID:             trainerID,
			TrainerName:           "陳教練",
			TotalAppointments:     10,
			FulfilledAppointments: 8,
			CancelledAppointments: 1,
			FulfilledByProduct:    map[string]int{"60 min x 10": 5, "30 min x 10": 3},
			CancelledByProduct:    map[string]int{"60 min x 10": 1},
			SuccessRate:           0.8,
		},
	}

	key, err := exporter.ExportCSV(context.Background(), "2024-06", stats)
	require.NoError(t, err)
	assert.Equal(t, "settlements/2024-06.csv", key)

	data, err := exporter.bucket.ReadAll(context.Background(), key)
	require.NoError(t, err)

	content := string(data)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "trainer_id")
	assert.Contains(t, lines[1], trainerID.String())
	assert.Contains(t, lines[1], "陳教練")
	// Product counts are sorted by name for stable output
	assert.Contains(t, lines[1], "30 min x 10:3;60 min x 10:5")
	assert.Contains(t, lines[1], "0.8000")
}

func TestBlobExporter_ExportCSV_Empty(t *testing.T) {
	exporter := newTestExporter(t)

	key, err := exporter.ExportCSV(context.Background(), "2024-07", nil)
	require.NoError(t, err)

	data, err := exporter.bucket.ReadAll(context.Background(), key)
	require.NoError(t, err)

	// Header only
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1)
}

func TestBlobExporter_ExportCSV_Overwrite(t *testing.T) {
	exporter := newTestExporter(t)
	stats := []*booking.TrainerStats{{TrainerID: uuid.New(), TrainerName: "林教練", TotalAppointments: 1}}

	_, err := exporter.ExportCSV(context.Background(), "2024-08", stats)
	require.NoError(t, err)

	// Second export of the same month replaces the file
	key, err := exporter.ExportCSV(context.Background(), "2024-08", nil)
	require.NoError(t, err)

	data, err := exporter.bucket.ReadAll(context.Background(), key)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "林教練")
}

func TestFormatProductCounts(t *testing.T) {
	assert.Empty(t, formatProductCounts(nil))
	assert.Equal(t, "a:1", formatProductCounts(map[string]int{"a": 1}))
	assert.Equal(t, "a:1;b:2", formatProductCounts(map[string]int{"b": 2, "a": 1}))
}
