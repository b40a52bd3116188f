// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPointBatchNotFound is returned when a point batch is not found.
var ErrPointBatchNotFound = errors.New("point batch not found")

// PointBatchRepository defines the standard operations for point batch persistence.
// Batches are never deleted; expiry is a read-time projection done by the
// booking ledger, so reads return expired rows too.
type PointBatchRepository interface {
	// FindByMember retrieves all point batches owned by a member, oldest purchase first.
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]*entity.PointBatch, error)

	// FindByID retrieves a single batch by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PointBatch, error)

	// Create persists a new point batch (purchase or refund fallback).
	Create(ctx context.Context, batch *entity.PointBatch) error

	// UpdateRemaining writes back a batch's remaining point count after a
	// ledger deduction or refund.
	UpdateRemaining(ctx context.Context, id uuid.UUID, remainingPoints int) error
}
