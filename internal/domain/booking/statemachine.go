package booking

import (
	"time"

	"ptbook/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrInvalidTransition is returned when a requested status change is not in
// the transition table.
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// transitions is the complete lifecycle table. scheduled fans out to every
// other status; completed keeps a single staff correction path to no_show;
// cancelled and no_show are terminal.
var transitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.StatusScheduled: {entity.StatusCompleted, entity.StatusCancelled, entity.StatusNoShow},
	entity.StatusCompleted: {entity.StatusNoShow},
	entity.StatusCancelled: {},
	entity.StatusNoShow:    {},
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to entity.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// ValidateTransition returns ErrInvalidTransition when from → to is not permitted.
func ValidateTransition(from, to entity.AppointmentStatus) error {
	if !CanTransition(from, to) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", from, to)
	}

	return nil
}

// RefundsPoint reports whether the transition credits the booking point back
// to the member. Only a cancellation of a scheduled appointment refunds;
// completion and no-show never do.
func RefundsPoint(from, to entity.AppointmentStatus) bool {
	return from == entity.StatusScheduled && to == entity.StatusCancelled
}

// StaffCancellationLead is how long before the session start staff may still
// cancel on a member's behalf.
const StaffCancellationLead = 2 * time.Hour

// MemberMayCancel implements the member-side cancellation policy: the
// appointment date must be strictly after today in local wall-clock terms.
// The staff rule below is deliberately a separate, differently-shaped policy;
// the two are not unified because their strictness differs around midnight.
func MemberMayCancel(apt *entity.Appointment, now time.Time) bool {
	return apt.Date > now.Format(DateLayout)
}

// StaffMayCancel implements the staff-side cancellation policy: at least two
// hours must remain before the session start.
func StaffMayCancel(apt *entity.Appointment, now time.Time) bool {
	start, err := SlotStart(apt.Date, apt.StartTime, now.Location())
	if err != nil {
		return false
	}

	return !start.Before(now.Add(StaffCancellationLead))
}

// SweepEligible reports whether the bulk auto-completion sweep should move a
// scheduled appointment to completed: its date lies strictly before today, or
// it is today's appointment and its start time has passed the supplied
// cutoff. ISO wall-clock strings compare lexicographically.
func SweepEligible(apt *entity.Appointment, today, cutoff string) bool {
	if apt.Status != entity.StatusScheduled {
		return false
	}
	if apt.Date < today {
		return true
	}

	return apt.Date == today && apt.StartTime < cutoff
}
