package booking

import (
	"sort"
	"strings"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// MonthLayout identifies a settlement period, e.g. "2024-06".
const MonthLayout = "2006-01"

// UnknownProduct keys per-product counts for appointments that carry no
// product reference (legacy rows, admin-created bookings).
const UnknownProduct = "unknown"

// TrainerStats is one trainer's settlement line for a calendar month.
type TrainerStats struct {
	TrainerID             uuid.UUID      `json:"trainerId"`
	TrainerName           string         `json:"trainerName"`
	TotalAppointments     int            `json:"totalAppointments"`
	FulfilledAppointments int            `json:"fulfilledAppointments"`
	CancelledAppointments int            `json:"cancelledAppointments"`
	FulfilledByProduct    map[string]int `json:"fulfilledByProduct"`
	CancelledByProduct    map[string]int `json:"cancelledByProduct"`
	SuccessRate           float64        `json:"successRate"`
}

// InMonth reports whether an appointment's date falls inside the "2006-01"
// settlement month.
func InMonth(apt *entity.Appointment, month string) bool {
	return strings.HasPrefix(apt.Date, month+"-")
}

// Aggregate folds a month's appointments into per-trainer settlement lines.
// It is pure and idempotent: the same input always yields the same output,
// and nothing is persisted. A trainer with zero fulfilled appointments gets a
// success rate of 0, never NaN. Results are ordered by trainer name, then ID,
// for stable rendering and export.
func Aggregate(appointments []*entity.Appointment, month string) []*TrainerStats {
	byTrainer := make(map[uuid.UUID]*TrainerStats)

	for _, apt := range appointments {
		if !InMonth(apt, month) {
			continue
		}

		stats, ok := byTrainer[apt.TrainerID]
		if !ok {
			stats = &TrainerStats{
				TrainerID:          apt.TrainerID,
				TrainerName:        apt.TrainerName,
				FulfilledByProduct: make(map[string]int),
				CancelledByProduct: make(map[string]int),
			}
			byTrainer[apt.TrainerID] = stats
		}

		stats.TotalAppointments++
		switch apt.Status {
		case entity.StatusCompleted:
			stats.FulfilledAppointments++
			stats.FulfilledByProduct[productKey(apt)]++
		case entity.StatusCancelled:
			stats.CancelledAppointments++
			stats.CancelledByProduct[productKey(apt)]++
		}
	}

	lines := make([]*TrainerStats, 0, len(byTrainer))
	for _, stats := range byTrainer {
		if stats.TotalAppointments > 0 {
			stats.SuccessRate = float64(stats.FulfilledAppointments) / float64(stats.TotalAppointments)
		}
		lines = append(lines, stats)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].TrainerName != lines[j].TrainerName {
			return lines[i].TrainerName < lines[j].TrainerName
		}

		return lines[i].TrainerID.String() < lines[j].TrainerID.String()
	})

	return lines
}

func productKey(apt *entity.Appointment) string {
	if apt.ProductID == nil {
		return UnknownProduct
	}

	return apt.ProductID.String()
}
