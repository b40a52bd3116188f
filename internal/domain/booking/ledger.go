// Package booking holds the stateless business rules of the appointment
// system: the point ledger, the slot availability calculator, the appointment
// state machine and the monthly settlement fold. Everything here is a pure
// function over entities; persistence and transactions belong to the use case
// layer, which applies the returned mutations inside a single database
// transaction.
package booking

import (
	"sort"
	"time"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInsufficientPoints is returned when a duration bucket holds fewer
// redeemable points than a deduction requests. The batches are left untouched.
var ErrInsufficientPoints = errors.New("insufficient points in duration bucket")

// ActiveBatches filters batches to those still holding redeemable points at
// the given time. Expiry is a read-time projection; expired rows stay stored.
func ActiveBatches(batches []*entity.PointBatch, now time.Time) []*entity.PointBatch {
	active := make([]*entity.PointBatch, 0, len(batches))
	for _, b := range batches {
		if b.IsUsable(now) {
			active = append(active, b)
		}
	}

	return active
}

// BucketBalance sums the remaining points of all active batches in one
// duration bucket.
func BucketBalance(batches []*entity.PointBatch, durationMinutes int, now time.Time) int {
	total := 0
	for _, b := range ActiveBatches(batches, now) {
		if b.DurationMinutes == durationMinutes {
			total += b.RemainingPoints
		}
	}

	return total
}

// Deduct consumes amount points from the member's batches in the given
// duration bucket, oldest purchase first. Batches are fully drained before the
// next one is touched; the first batch with enough remainder is reduced
// partially and later batches stay untouched. Returns only the batches whose
// RemainingPoints changed, for the caller to persist.
//
// The sufficiency check happens before any mutation, so on
// ErrInsufficientPoints every batch is unchanged.
func Deduct(batches []*entity.PointBatch, durationMinutes, amount int, now time.Time) ([]*entity.PointBatch, error) {
	candidates := make([]*entity.PointBatch, 0, len(batches))
	for _, b := range ActiveBatches(batches, now) {
		if b.DurationMinutes == durationMinutes {
			candidates = append(candidates, b)
		}
	}

	total := 0
	for _, b := range candidates {
		total += b.RemainingPoints
	}
	if total < amount {
		return nil, errors.WithStack(ErrInsufficientPoints)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PurchaseDate.Before(candidates[j].PurchaseDate)
	})

	changed := make([]*entity.PointBatch, 0, len(candidates))
	remaining := amount
	for _, b := range candidates {
		if remaining == 0 {
			break
		}

		take := min(b.RemainingPoints, remaining)
		b.RemainingPoints -= take
		remaining -= take
		changed = append(changed, b)
	}

	return changed, nil
}

// Refund credits amount points back to the member. The refund is
// duration-agnostic: it lands in the single most-recently-purchased
// non-expired batch regardless of bucket, so points that should already have
// expired are never silently revived. When every batch is expired (or none
// exist) a brand-new batch is created in the given duration bucket with a
// fresh 6-month expiry, so the member still gets something usable back.
//
// Returns the credited batch and whether it was newly created. The caller
// persists it (update or insert). Refund never fails.
func Refund(memberID uuid.UUID, batches []*entity.PointBatch, durationMinutes, amount int, now time.Time) (batch *entity.PointBatch, created bool) {
	var newest *entity.PointBatch
	for _, b := range batches {
		if b.IsExpired(now) {
			continue
		}
		if newest == nil || b.PurchaseDate.After(newest.PurchaseDate) {
			newest = b
		}
	}

	if newest != nil {
		newest.RemainingPoints += amount

		return newest, false
	}

	return &entity.PointBatch{
		ID:              uuid.New(),
		MemberID:        memberID,
		DurationMinutes: durationMinutes,
		OriginalPoints:  amount,
		RemainingPoints: amount,
		PurchaseDate:    now,
		ExpiryDate:      entity.NewExpiry(now),
	}, true
}
