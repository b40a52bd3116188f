// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session duration buckets. Points from one bucket are not fungible with the other.
const (
	Duration30 = 30
	Duration60 = 60
)

// IsValidDuration reports whether minutes is one of the supported session lengths.
func IsValidDuration(minutes int) bool {
	return minutes == Duration30 || minutes == Duration60
}

// Product is a purchasable session package. It is immutable once referenced by a
// purchase; point batches keep a reference for display purposes only.
type Product struct {
	ID              uuid.UUID   // The Global Unique Identifier (GUID) for the product.
	Name            string      // Display name, e.g. "60 min x 10 sessions".
	DurationMinutes int         // Session length this package redeems: 30 or 60.
	Points          int         // Number of points (sessions) granted by one purchase.
	Price           int         // Price in the smallest currency unit.
	TrainerType     TrainerType // Trainer type this product is valid for.
	IsActive        bool        // Inactive products are hidden from the catalog.
	CreatedAt       time.Time   // Timestamp of when this product was created.
	UpdatedAt       time.Time   // Timestamp of the last modification.
}
