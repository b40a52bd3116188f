package impl

import (
	"context"
	"testing"

	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// settlementServiceFixtures holds all test dependencies for settlement service tests.
type settlementServiceFixtures struct {
	service  usecase.SettlementUsecase
	apptRepo *mockAppointmentRepo
	exporter *mockSettlementExporter
}

func createTestSettlementService(_ *testing.T) settlementServiceFixtures {
	apptRepo := &mockAppointmentRepo{}
	exporter := &mockSettlementExporter{}

	svc := NewSettlementService(SettlementServiceParams{
		ApptRepo: apptRepo,
		Exporter: exporter,
		Logger:   newDiscardLogger(),
	})

	return settlementServiceFixtures{
		service:  svc,
		apptRepo: apptRepo,
		exporter: exporter,
	}
}

func monthAppointment(trainerID uuid.UUID, trainerName, date string, status entity.AppointmentStatus) *entity.Appointment {
	return &entity.Appointment{
		ID:          uuid.New(),
		MemberID:    uuid.New(),
		TrainerID:   trainerID,
		TrainerName: trainerName,
		Date:        date,
		StartTime:   "10:00",
		Status:      status,
	}
}

func TestSettlementService_MonthlyStats_AdminSeesAllTrainers(t *testing.T) {
	fx := createTestSettlementService(t)

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	fx.apptRepo.On("Find", ctx, mock.MatchedBy(func(f repository.AppointmentFilter) bool {
		return f.DateFrom == "2024-06-01" && f.DateTo == "2024-06-31"
	})).Return([]*entity.Appointment{
		monthAppointment(alice, "Alice", "2024-06-03", entity.StatusCompleted),
		monthAppointment(alice, "Alice", "2024-06-10", entity.StatusCancelled),
		monthAppointment(bob, "Bob", "2024-06-05", entity.StatusCompleted),
	}, nil)

	stats, err := fx.service.MonthlyStats(ctx, usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin},
		Month: "2024-06",
	})

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Alice", stats[0].TrainerName)
	assert.Equal(t, 2, stats[0].TotalAppointments)
	assert.Equal(t, 1, stats[0].FulfilledAppointments)
	assert.Equal(t, 1, stats[0].CancelledAppointments)
	assert.InDelta(t, 0.5, stats[0].SuccessRate, 1e-9)
	assert.Equal(t, "Bob", stats[1].TrainerName)
	assert.InDelta(t, 1.0, stats[1].SuccessRate, 1e-9)
}

func TestSettlementService_MonthlyStats_TrainerSeesOwnLineOnly(t *testing.T) {
	fx := createTestSettlementService(t)

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	fx.apptRepo.On("Find", ctx, mock.Anything).Return([]*entity.Appointment{
		monthAppointment(alice, "Alice", "2024-06-03", entity.StatusCompleted),
		monthAppointment(bob, "Bob", "2024-06-05", entity.StatusCompleted),
	}, nil)

	stats, err := fx.service.MonthlyStats(ctx, usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: bob, Role: entity.RoleTrainer},
		Month: "2024-06",
	})

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, bob, stats[0].TrainerID)
}

func TestSettlementService_MonthlyStats_MemberDenied(t *testing.T) {
	fx := createTestSettlementService(t)

	_, err := fx.service.MonthlyStats(context.Background(), usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: uuid.New(), Role: entity.RoleMember},
		Month: "2024-06",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestSettlementService_MonthlyStats_InvalidMonth(t *testing.T) {
	fx := createTestSettlementService(t)

	_, err := fx.service.MonthlyStats(context.Background(), usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin},
		Month: "June 2024",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestSettlementService_Export_AdminOnly(t *testing.T) {
	fx := createTestSettlementService(t)

	_, err := fx.service.Export(context.Background(), usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: uuid.New(), Role: entity.RoleTrainer},
		Month: "2024-06",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestSettlementService_Export_ReturnsKey(t *testing.T) {
	fx := createTestSettlementService(t)

	ctx := context.Background()
	alice := uuid.New()

	fx.apptRepo.On("Find", ctx, mock.Anything).Return([]*entity.Appointment{
		monthAppointment(alice, "Alice", "2024-06-03", entity.StatusCompleted),
	}, nil)
	fx.exporter.On("ExportCSV", ctx, "2024-06", mock.Anything).
		Return("settlements/2024-06.csv", nil)

	output, err := fx.service.Export(ctx, usecase.MonthlyStatsInput{
		Actor: usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin},
		Month: "2024-06",
	})

	require.NoError(t, err)
	assert.Equal(t, "settlements/2024-06.csv", output.Key)
	fx.exporter.AssertExpectations(t)
}
