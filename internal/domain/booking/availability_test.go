package booking

import (
	"testing"
	"time"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment(memberID, trainerID uuid.UUID, date, clock string, duration int) *entity.Appointment {
	return &entity.Appointment{
		ID:              uuid.New(),
		MemberID:        memberID,
		MemberName:      "王小明",
		TrainerID:       trainerID,
		TrainerName:     "陳教練",
		Date:            date,
		StartTime:       clock,
		DurationMinutes: duration,
		Status:          entity.StatusScheduled,
	}
}

func TestOverlaps_HalfOpenIntervalLaw(t *testing.T) {
	// A 60-minute appointment at T occupies [T, T+60): the cells at T and
	// T+30 collide, the cells at T-30 and T+60 do not. Holds across the grid.
	for start := OpenMinute; start+60 <= CloseMinute; start += SlotMinutes {
		assert.True(t, Overlaps(start, SlotMinutes, start, 60), "slot at T")
		assert.True(t, Overlaps(start+30, SlotMinutes, start, 60), "slot at T+30")
		assert.False(t, Overlaps(start-30, SlotMinutes, start, 60), "slot at T-30")
		assert.False(t, Overlaps(start+60, SlotMinutes, start, 60), "slot at T+60")
	}
}

func TestCheckSlotBookable_Conflicts(t *testing.T) {
	memberID, trainerID := uuid.New(), uuid.New()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
	appointments := []*entity.Appointment{
		testAppointment(memberID, trainerID, "2024-06-10", "09:00", 60),
	}

	tests := []struct {
		name    string
		clock   string
		wantErr error
	}{
		{name: "head-on", clock: "09:00", wantErr: ErrSlotConflict},
		{name: "tail cell", clock: "09:30", wantErr: ErrSlotConflict},
		{name: "before", clock: "08:30", wantErr: nil},
		{name: "after", clock: "10:00", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSlotBookable(appointments, "2024-06-10", tt.clock, 30, now)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckSlotBookable_CancelledFreesTheSlot(t *testing.T) {
	apt := testAppointment(uuid.New(), uuid.New(), "2024-06-10", "09:00", 60)
	apt.Status = entity.StatusCancelled
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

	assert.NoError(t, CheckSlotBookable([]*entity.Appointment{apt}, "2024-06-10", "09:00", 60, now))
}

func TestCheckSlotBookable_GridAndLeadTime(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		date     string
		clock    string
		duration int
		wantErr  error
	}{
		{name: "off grid", date: "2024-06-10", clock: "09:15", duration: 30, wantErr: ErrSlotOffGrid},
		{name: "before opening", date: "2024-06-11", clock: "05:30", duration: 30, wantErr: ErrSlotOutsideHours},
		{name: "runs past closing", date: "2024-06-11", clock: "21:30", duration: 60, wantErr: ErrSlotOutsideHours},
		{name: "elapsed", date: "2024-06-10", clock: "08:00", duration: 30, wantErr: ErrSlotInPast},
		{name: "inside lead time", date: "2024-06-10", clock: "09:00", duration: 30, wantErr: ErrSlotTooSoon},
		{name: "exactly one hour ahead", date: "2024-06-10", clock: "09:30", duration: 30, wantErr: nil},
		{name: "last slot of the day", date: "2024-06-11", clock: "21:30", duration: 30, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSlotBookable(nil, tt.date, tt.clock, tt.duration, now)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDaySlots_RoleProjection(t *testing.T) {
	memberID, otherMemberID, trainerID := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

	own := testAppointment(memberID, trainerID, "2024-06-10", "09:00", 60)
	foreign := testAppointment(otherMemberID, trainerID, "2024-06-10", "11:00", 30)
	appointments := []*entity.Appointment{own, foreign}

	memberSlots, err := DaySlots("2024-06-10", appointments, Viewer{UserID: memberID, Role: entity.RoleMember}, now)
	require.NoError(t, err)
	require.Len(t, memberSlots, SlotsPerDay)

	bySlot := make(map[string]SlotView, len(memberSlots))
	for _, s := range memberSlots {
		bySlot[s.Time] = s
	}

	// Own booking paints both cells, tail cell flagged as a continuation.
	assert.Equal(t, SlotOwn, bySlot["09:00"].Status)
	assert.False(t, bySlot["09:00"].ContinuesBlock)
	assert.Equal(t, SlotOwn, bySlot["09:30"].Status)
	assert.True(t, bySlot["09:30"].ContinuesBlock)
	require.NotNil(t, bySlot["09:00"].AppointmentID)
	assert.Equal(t, own.ID, *bySlot["09:00"].AppointmentID)

	// Another member's booking is reduced to an anonymous tuple.
	assert.Equal(t, SlotUnavailable, bySlot["11:00"].Status)
	assert.Empty(t, bySlot["11:00"].MemberName)
	assert.Nil(t, bySlot["11:00"].AppointmentID)

	assert.Equal(t, SlotFree, bySlot["10:00"].Status)
	assert.Equal(t, SlotFree, bySlot["08:30"].Status)

	// Staff see the full appointment graph with member identity.
	staffSlots, err := DaySlots("2024-06-10", appointments, Viewer{UserID: trainerID, Role: entity.RoleTrainer}, now)
	require.NoError(t, err)
	for _, s := range staffSlots {
		if s.Time == "11:00" {
			assert.Equal(t, SlotBooked, s.Status)
			assert.Equal(t, "王小明", s.MemberName)
			require.NotNil(t, s.AppointmentID)
			assert.Equal(t, foreign.ID, *s.AppointmentID)
		}
	}
}

func TestDaySlots_MarksElapsedCells(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 10, 0, 0, time.Local)

	slots, err := DaySlots("2024-06-10", nil, Viewer{UserID: uuid.New(), Role: entity.RoleMember}, now)
	require.NoError(t, err)

	for _, s := range slots {
		minute, merr := MinuteOfDay(s.Time)
		require.NoError(t, merr)
		if minute <= 12*60 {
			assert.Equal(t, SlotPast, s.Status, "slot %s", s.Time)
		} else {
			assert.Equal(t, SlotFree, s.Status, "slot %s", s.Time)
		}
	}
}
