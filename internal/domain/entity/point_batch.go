// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// NewExpiry returns the expiry date for a batch purchased at the given time.
// Expiry is purchase + 6 calendar months, normalized by time.AddDate.
func NewExpiry(purchasedAt time.Time) time.Time {
	return purchasedAt.AddDate(0, 6, 0)
}

// PointBatch is a dated, expiring lot of points from one purchase, owned by
// exactly one member. Batches are never deleted; they soft-expire by date
// comparison at read time.
type PointBatch struct {
	ID              uuid.UUID  // The Global Unique Identifier (GUID) for the batch.
	MemberID        uuid.UUID  // Owner of the batch.
	ProductID       *uuid.UUID // Product that produced the batch. Display reference only.
	DurationMinutes int        // Duration bucket the points redeem: 30 or 60.
	OriginalPoints  int        // Points granted at purchase. Never changes.
	RemainingPoints int        // Points still redeemable. 0 <= remaining <= original.
	PurchaseDate    time.Time  // When the batch was bought. Orders FIFO deduction.
	ExpiryDate      time.Time  // PurchaseDate + 6 months.
	CreatedAt       time.Time  // Timestamp of when this record was created.
	UpdatedAt       time.Time  // Timestamp of the last modification.
}

// IsExpired reports whether the batch has passed its expiry date at the given time.
func (b *PointBatch) IsExpired(now time.Time) bool {
	return !now.Before(b.ExpiryDate)
}

// IsUsable reports whether the batch still holds redeemable points at the given time.
func (b *PointBatch) IsUsable(now time.Time) bool {
	return b.RemainingPoints > 0 && !b.IsExpired(now)
}
