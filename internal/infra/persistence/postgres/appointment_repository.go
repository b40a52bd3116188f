// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// appointmentRepository implements the repository.AppointmentRepository interface.
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository is the constructor for appointmentRepository.
func NewAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &appointmentRepository{
		db: db,
	}
}

// Find retrieves appointments matching the filter, ordered by date and start time.
func (repo *appointmentRepository) Find(ctx context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, error) {
	query := repo.db.WithContext(ctx).Model(&model.AppointmentModel{})

	if filter.TrainerID != nil {
		query = query.Where("trainer_id = ?", *filter.TrainerID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}

	var appointmentModels []*model.AppointmentModel
	if err := query.
		Order("date ASC, start_time ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find appointments")
	}

	appointments := make([]*entity.Appointment, 0, len(appointmentModels))
	for _, appointmentM := range appointmentModels {
		appointments = append(appointments, toAppointmentDomain(appointmentM))
	}

	return appointments, nil
}

// FindByID retrieves a single appointment by its unique ID.
func (repo *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointmentM model.AppointmentModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&appointmentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAppointmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find appointment by ID")
	}

	return toAppointmentDomain(&appointmentM), nil
}

// Create persists a new appointment. The partial unique index on
// (trainer_id, date, start_time) turns a lost race into ErrSlotTaken instead
// of a silent double booking.
func (repo *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	appointmentM := fromAppointmentDomain(appointment)

	if err := repo.db.WithContext(ctx).Create(appointmentM).Error; err != nil {
		if isTrainerSlotConflict(err) || isUniqueConstraintViolation(err) {
			return repository.ErrSlotTaken
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid member or trainer reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create appointment")
	}

	// Update the entity with generated values
	appointment.ID = appointmentM.ID
	appointment.CreatedAt = appointmentM.CreatedAt
	appointment.UpdatedAt = appointmentM.UpdatedAt

	return nil
}

// UpdateStatus moves an appointment to a new lifecycle status.
func (repo *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AppointmentModel{}).
		Where("id = ?", id).
		Update("status", status.String())

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update appointment status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrAppointmentNotFound
	}

	return nil
}

// FindSweepCandidates retrieves scheduled appointments whose start lies in the
// past: dated strictly before today, or dated today with a start time before
// the cutoff. Date and time strings compare lexicographically in chronological
// order, so plain string comparison is enough.
func (repo *appointmentRepository) FindSweepCandidates(ctx context.Context, today, cutoff string) ([]*entity.Appointment, error) {
	var appointmentModels []*model.AppointmentModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", entity.StatusScheduled.String()).
		Where("date < ? OR (date = ? AND start_time < ?)", today, today, cutoff).
		Order("date ASC, start_time ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find sweep candidates")
	}

	appointments := make([]*entity.Appointment, 0, len(appointmentModels))
	for _, appointmentM := range appointmentModels {
		appointments = append(appointments, toAppointmentDomain(appointmentM))
	}

	return appointments, nil
}

// --- Mapper Functions ---

// toAppointmentDomain converts a GORM AppointmentModel to a domain Appointment entity.
func toAppointmentDomain(data *model.AppointmentModel) *entity.Appointment {
	if data == nil {
		return nil
	}

	return &entity.Appointment{
		ID:              data.ID,
		MemberID:        data.MemberID,
		MemberName:      data.MemberName,
		MemberEmail:     data.MemberEmail,
		TrainerID:       data.TrainerID,
		TrainerName:     data.TrainerName,
		Date:            data.Date,
		StartTime:       data.StartTime,
		DurationMinutes: data.DurationMinutes,
		Status:          entity.AppointmentStatus(data.Status),
		PointBatchID:    data.PointBatchID,
		ProductID:       data.ProductID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromAppointmentDomain converts a domain Appointment entity to a GORM AppointmentModel.
func fromAppointmentDomain(data *entity.Appointment) *model.AppointmentModel {
	if data == nil {
		return nil
	}

	return &model.AppointmentModel{
		ID:              data.ID,
		MemberID:        data.MemberID,
		MemberName:      data.MemberName,
		MemberEmail:     data.MemberEmail,
		TrainerID:       data.TrainerID,
		TrainerName:     data.TrainerName,
		Date:            data.Date,
		StartTime:       data.StartTime,
		DurationMinutes: data.DurationMinutes,
		Status:          data.Status.String(),
		PointBatchID:    data.PointBatchID,
		ProductID:       data.ProductID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
