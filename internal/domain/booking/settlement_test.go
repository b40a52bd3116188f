package booking

import (
	"testing"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settlementFixture() ([]*entity.Appointment, uuid.UUID, uuid.UUID, uuid.UUID) {
	trainerA, trainerB := uuid.New(), uuid.New()
	productID := uuid.New()

	appts := []*entity.Appointment{
		{TrainerID: trainerA, TrainerName: "陳教練", Date: "2024-06-03", Status: entity.StatusCompleted, ProductID: &productID},
		{TrainerID: trainerA, TrainerName: "陳教練", Date: "2024-06-05", Status: entity.StatusCompleted, ProductID: &productID},
		{TrainerID: trainerA, TrainerName: "陳教練", Date: "2024-06-08", Status: entity.StatusCancelled, ProductID: &productID},
		{TrainerID: trainerA, TrainerName: "陳教練", Date: "2024-06-12", Status: entity.StatusNoShow, ProductID: &productID},
		{TrainerID: trainerB, TrainerName: "林教練", Date: "2024-06-20", Status: entity.StatusCompleted}, // no product reference
		{TrainerID: trainerB, TrainerName: "林教練", Date: "2024-07-01", Status: entity.StatusCompleted}, // next month, excluded
		{TrainerID: trainerB, TrainerName: "林教練", Date: "2024-05-31", Status: entity.StatusCancelled}, // prior month, excluded
	}

	return appts, trainerA, trainerB, productID
}

func TestAggregate_PerTrainerCounts(t *testing.T) {
	appts, trainerA, trainerB, productID := settlementFixture()

	lines := Aggregate(appts, "2024-06")
	require.Len(t, lines, 2)

	byID := map[uuid.UUID]*TrainerStats{}
	for _, l := range lines {
		byID[l.TrainerID] = l
	}

	a := byID[trainerA]
	require.NotNil(t, a)
	assert.Equal(t, 4, a.TotalAppointments)
	assert.Equal(t, 2, a.FulfilledAppointments)
	assert.Equal(t, 1, a.CancelledAppointments)
	assert.Equal(t, 2, a.FulfilledByProduct[productID.String()])
	assert.Equal(t, 1, a.CancelledByProduct[productID.String()])
	assert.InDelta(t, 0.5, a.SuccessRate, 1e-9)

	b := byID[trainerB]
	require.NotNil(t, b)
	assert.Equal(t, 1, b.TotalAppointments)
	assert.Equal(t, 1, b.FulfilledAppointments)
	assert.Equal(t, 1, b.FulfilledByProduct[UnknownProduct])
	assert.InDelta(t, 1.0, b.SuccessRate, 1e-9)
}

func TestAggregate_Idempotent(t *testing.T) {
	appts, _, _, _ := settlementFixture()

	first := Aggregate(appts, "2024-06")
	second := Aggregate(appts, "2024-06")
	assert.Equal(t, first, second)
}

func TestAggregate_FulfilledSumMatchesCompletedCount(t *testing.T) {
	appts, _, _, _ := settlementFixture()

	completed := 0
	for _, apt := range appts {
		if InMonth(apt, "2024-06") && apt.Status == entity.StatusCompleted {
			completed++
		}
	}

	sum := 0
	for _, line := range Aggregate(appts, "2024-06") {
		sum += line.FulfilledAppointments
	}
	assert.Equal(t, completed, sum)
}

func TestAggregate_EmptyMonthYieldsNoLinesAndNoNaN(t *testing.T) {
	appts, _, _, _ := settlementFixture()

	lines := Aggregate(appts, "2024-01")
	assert.Empty(t, lines)

	// A trainer whose only appointments are neither completed nor cancelled
	// still gets a line with rate 0, never NaN.
	noShowOnly := []*entity.Appointment{
		{TrainerID: uuid.New(), TrainerName: "黃教練", Date: "2024-06-15", Status: entity.StatusNoShow},
	}
	lines = Aggregate(noShowOnly, "2024-06")
	require.Len(t, lines, 1)
	assert.Equal(t, 0.0, lines[0].SuccessRate)
	assert.Equal(t, 1, lines[0].TotalAppointments)
}

func TestAggregate_StableOrdering(t *testing.T) {
	appts, _, _, _ := settlementFixture()

	lines := Aggregate(appts, "2024-06")
	require.Len(t, lines, 2)
	assert.LessOrEqual(t, lines[0].TrainerName, lines[1].TrainerName)
}
