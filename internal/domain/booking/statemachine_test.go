package booking

import (
	"testing"
	"time"

	"ptbook/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateTransition_Table(t *testing.T) {
	all := []entity.AppointmentStatus{
		entity.StatusScheduled,
		entity.StatusCompleted,
		entity.StatusCancelled,
		entity.StatusNoShow,
	}

	allowed := map[entity.AppointmentStatus]map[entity.AppointmentStatus]bool{
		entity.StatusScheduled: {
			entity.StatusCompleted: true,
			entity.StatusCancelled: true,
			entity.StatusNoShow:    true,
		},
		entity.StatusCompleted: {
			entity.StatusNoShow: true, // staff correction path
		},
	}

	for _, from := range all {
		for _, to := range all {
			err := ValidateTransition(from, to)
			if allowed[from][to] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidTransition), "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	targets := []entity.AppointmentStatus{
		entity.StatusScheduled,
		entity.StatusCompleted,
		entity.StatusCancelled,
		entity.StatusNoShow,
	}

	for _, from := range []entity.AppointmentStatus{entity.StatusCancelled, entity.StatusNoShow} {
		for _, to := range targets {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestRefundsPoint(t *testing.T) {
	assert.True(t, RefundsPoint(entity.StatusScheduled, entity.StatusCancelled))
	assert.False(t, RefundsPoint(entity.StatusScheduled, entity.StatusCompleted))
	assert.False(t, RefundsPoint(entity.StatusScheduled, entity.StatusNoShow))
	assert.False(t, RefundsPoint(entity.StatusCompleted, entity.StatusNoShow))
}

func TestMemberMayCancel_FutureDateOnly(t *testing.T) {
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.Local)

	sameDay := &entity.Appointment{Date: "2024-06-10", StartTime: "21:30"}
	tomorrow := &entity.Appointment{Date: "2024-06-11", StartTime: "06:00"}
	yesterday := &entity.Appointment{Date: "2024-06-09", StartTime: "09:00"}

	// The member rule ignores the time of day entirely: a session later today
	// is not cancellable even though it is hours away.
	assert.False(t, MemberMayCancel(sameDay, now))
	assert.True(t, MemberMayCancel(tomorrow, now))
	assert.False(t, MemberMayCancel(yesterday, now))
}

func TestStaffMayCancel_TwoHourLead(t *testing.T) {
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.Local)

	inThreeHours := &entity.Appointment{Date: "2024-06-10", StartTime: "10:00"}
	inExactlyTwo := &entity.Appointment{Date: "2024-06-10", StartTime: "09:00"}
	inOneHour := &entity.Appointment{Date: "2024-06-10", StartTime: "08:00"}
	// The staff rule reaches across midnight where the member rule cannot.
	justAfterMidnight := &entity.Appointment{Date: "2024-06-11", StartTime: "06:00"}

	assert.True(t, StaffMayCancel(inThreeHours, now))
	assert.True(t, StaffMayCancel(inExactlyTwo, now))
	assert.False(t, StaffMayCancel(inOneHour, now))
	assert.True(t, StaffMayCancel(justAfterMidnight, now))
}

func TestSweepEligible(t *testing.T) {
	tests := []struct {
		name   string
		apt    *entity.Appointment
		want   bool
		cutoff string
	}{
		{
			name:   "earlier date",
			apt:    &entity.Appointment{Status: entity.StatusScheduled, Date: "2024-06-09", StartTime: "21:00"},
			cutoff: "12:00",
			want:   true,
		},
		{
			name:   "today before cutoff",
			apt:    &entity.Appointment{Status: entity.StatusScheduled, Date: "2024-06-10", StartTime: "09:00"},
			cutoff: "12:00",
			want:   true,
		},
		{
			name:   "today after cutoff",
			apt:    &entity.Appointment{Status: entity.StatusScheduled, Date: "2024-06-10", StartTime: "14:00"},
			cutoff: "12:00",
			want:   false,
		},
		{
			name:   "future date",
			apt:    &entity.Appointment{Status: entity.StatusScheduled, Date: "2024-06-11", StartTime: "09:00"},
			cutoff: "12:00",
			want:   false,
		},
		{
			name:   "already completed",
			apt:    &entity.Appointment{Status: entity.StatusCompleted, Date: "2024-06-09", StartTime: "09:00"},
			cutoff: "12:00",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SweepEligible(tt.apt, "2024-06-10", tt.cutoff))
		})
	}
}
