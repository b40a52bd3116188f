package usecase

import (
	"context"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// PurchaseInput defines a course package purchase. MemberID is ignored for
// member actors; admins may purchase on a member's behalf (front-desk sales).
type PurchaseInput struct {
	Actor     Actor
	MemberID  uuid.UUID
	ProductID uuid.UUID
}

// BucketBalance is the active point total for one duration bucket.
type BucketBalance struct {
	DurationMinutes int `json:"durationMinutes"`
	Points          int `json:"points"`
}

// BalanceOutput is a member's point position: per-bucket active totals plus
// the underlying batches (remaining counts and expiry dates).
type BalanceOutput struct {
	Balances []BucketBalance      `json:"balances"`
	Batches  []*entity.PointBatch `json:"batches"`
}

// PointUsecase defines the interface for product catalog and point ledger operations.
type PointUsecase interface {
	// ListProducts returns the purchasable catalog for the acting member,
	// narrowed to their assigned trainer's type. Admins see everything.
	ListProducts(ctx context.Context, actor Actor) ([]*entity.Product, error)

	// Purchase validates eligibility and creates a new point batch.
	Purchase(ctx context.Context, input *PurchaseInput) (*entity.PointBatch, error)

	// GetBalance returns the member's active point position.
	GetBalance(ctx context.Context, actor Actor, memberID uuid.UUID) (*BalanceOutput, error)

	// CreateProduct adds a product to the catalog (admin).
	CreateProduct(ctx context.Context, actor Actor, product *entity.Product) (*entity.Product, error)
}
