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

// pointBatchRepository implements the repository.PointBatchRepository interface.
type pointBatchRepository struct {
	db *gorm.DB
}

// NewPointBatchRepository is the constructor for pointBatchRepository.
func NewPointBatchRepository(db *gorm.DB) repository.PointBatchRepository {
	return &pointBatchRepository{
		db: db,
	}
}

// FindByMember retrieves all point batches owned by a member, oldest purchase
// first. The ordering matches the deduction order of the ledger, so callers
// can pass the slice straight through.
func (repo *pointBatchRepository) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*entity.PointBatch, error) {
	var batchModels []*model.PointBatchModel

	if err := repo.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("purchase_date ASC, created_at ASC").
		Find(&batchModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find point batches by member")
	}

	batches := make([]*entity.PointBatch, 0, len(batchModels))
	for _, batchM := range batchModels {
		batches = append(batches, toPointBatchDomain(batchM))
	}

	return batches, nil
}

// FindByID retrieves a single batch by its unique ID.
func (repo *pointBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PointBatch, error) {
	var batchM model.PointBatchModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&batchM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPointBatchNotFound
		}

		return nil, errors.Wrap(err, "failed to find point batch by ID")
	}

	return toPointBatchDomain(&batchM), nil
}

// Create persists a new point batch (purchase or refund fallback).
func (repo *pointBatchRepository) Create(ctx context.Context, batch *entity.PointBatch) error {
	batchM := fromPointBatchDomain(batch)

	if err := repo.db.WithContext(ctx).Create(batchM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid member or product reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create point batch")
	}

	batch.ID = batchM.ID
	batch.CreatedAt = batchM.CreatedAt
	batch.UpdatedAt = batchM.UpdatedAt

	return nil
}

// UpdateRemaining writes back a batch's remaining point count after a ledger
// deduction or refund.
func (repo *pointBatchRepository) UpdateRemaining(ctx context.Context, id uuid.UUID, remainingPoints int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PointBatchModel{}).
		Where("id = ?", id).
		Update("remaining_points", remainingPoints)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update remaining points")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPointBatchNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toPointBatchDomain(data *model.PointBatchModel) *entity.PointBatch {
	if data == nil {
		return nil
	}

	return &entity.PointBatch{
		ID:              data.ID,
		MemberID:        data.MemberID,
		ProductID:       data.ProductID,
		DurationMinutes: data.DurationMinutes,
		OriginalPoints:  data.OriginalPoints,
		RemainingPoints: data.RemainingPoints,
		PurchaseDate:    data.PurchaseDate,
		ExpiryDate:      data.ExpiryDate,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromPointBatchDomain(data *entity.PointBatch) *model.PointBatchModel {
	if data == nil {
		return nil
	}

	return &model.PointBatchModel{
		ID:              data.ID,
		MemberID:        data.MemberID,
		ProductID:       data.ProductID,
		DurationMinutes: data.DurationMinutes,
		OriginalPoints:  data.OriginalPoints,
		RemainingPoints: data.RemainingPoints,
		PurchaseDate:    data.PurchaseDate,
		ExpiryDate:      data.ExpiryDate,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
