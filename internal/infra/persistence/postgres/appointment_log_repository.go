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

// appointmentLogRepository implements the repository.AppointmentLogRepository interface.
type appointmentLogRepository struct {
	db *gorm.DB
}

// NewAppointmentLogRepository is the constructor for appointmentLogRepository.
func NewAppointmentLogRepository(db *gorm.DB) repository.AppointmentLogRepository {
	return &appointmentLogRepository{
		db: db,
	}
}

// Append persists one transition record.
func (repo *appointmentLogRepository) Append(ctx context.Context, log *entity.AppointmentLog) error {
	logM := fromAppointmentLogDomain(log)

	if err := repo.db.WithContext(ctx).Create(logM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append appointment log")
	}

	log.ID = logM.ID
	log.CreatedAt = logM.CreatedAt

	return nil
}

// FindByAppointment retrieves the transition history of one appointment, oldest first.
func (repo *appointmentLogRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*entity.AppointmentLog, error) {
	var logModels []*model.AppointmentLogModel

	if err := repo.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find logs by appointment")
	}

	return toAppointmentLogDomains(logModels), nil
}

// FindRecent retrieves the newest entries across all appointments for the admin audit view.
func (repo *appointmentLogRepository) FindRecent(ctx context.Context, limit int) ([]*entity.AppointmentLog, error) {
	var logModels []*model.AppointmentLogModel

	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find recent logs")
	}

	return toAppointmentLogDomains(logModels), nil
}

// --- Mapper Functions ---

func toAppointmentLogDomains(logModels []*model.AppointmentLogModel) []*entity.AppointmentLog {
	logs := make([]*entity.AppointmentLog, 0, len(logModels))
	for _, logM := range logModels {
		logs = append(logs, toAppointmentLogDomain(logM))
	}

	return logs
}

func toAppointmentLogDomain(data *model.AppointmentLogModel) *entity.AppointmentLog {
	if data == nil {
		return nil
	}

	return &entity.AppointmentLog{
		ID:            data.ID,
		AppointmentID: data.AppointmentID,
		Action:        entity.LogAction(data.Action),
		ActorID:       data.ActorID,
		ActorRole:     entity.Role(data.ActorRole),
		MemberName:    data.MemberName,
		TrainerName:   data.TrainerName,
		Date:          data.Date,
		StartTime:     data.StartTime,
		CreatedAt:     data.CreatedAt,
	}
}

func fromAppointmentLogDomain(data *entity.AppointmentLog) *model.AppointmentLogModel {
	if data == nil {
		return nil
	}

	return &model.AppointmentLogModel{
		ID:            data.ID,
		AppointmentID: data.AppointmentID,
		Action:        data.Action.String(),
		ActorID:       data.ActorID,
		ActorRole:     data.ActorRole.String(),
		MemberName:    data.MemberName,
		TrainerName:   data.TrainerName,
		Date:          data.Date,
		StartTime:     data.StartTime,
		CreatedAt:     data.CreatedAt,
	}
}
