package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewExpiry_SixCalendarMonths(t *testing.T) {
	purchased := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	expiry := NewExpiry(purchased)

	assert.Equal(t, time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC), expiry)
}

func TestPointBatch_IsUsable(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	fresh := &PointBatch{RemainingPoints: 3, ExpiryDate: now.AddDate(0, 1, 0)}
	drained := &PointBatch{RemainingPoints: 0, ExpiryDate: now.AddDate(0, 1, 0)}
	expired := &PointBatch{RemainingPoints: 3, ExpiryDate: now.AddDate(0, -1, 0)}
	atExpiry := &PointBatch{RemainingPoints: 3, ExpiryDate: now}

	assert.True(t, fresh.IsUsable(now))
	assert.False(t, drained.IsUsable(now))
	assert.False(t, expired.IsUsable(now))
	assert.False(t, atExpiry.IsUsable(now))
}
