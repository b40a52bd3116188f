package booking

import (
	"time"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Layouts for the local wall-clock values carried by appointments.
// The system has no timezone model; dates and times are interpreted in the
// server's local location.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// The booking grid: fixed 30-minute slots between 06:00 and 22:00.
const (
	OpenMinute  = 6 * 60  // first bookable slot starts at 06:00
	CloseMinute = 22 * 60 // last appointment must end by 22:00
	SlotMinutes = 30
	SlotsPerDay = (CloseMinute - OpenMinute) / SlotMinutes

	// MinLeadTime is how far in the future a booking must start.
	MinLeadTime = time.Hour
)

// SlotStatus classifies one calendar cell for one viewer.
type SlotStatus string

const (
	// SlotFree is an open, bookable cell.
	SlotFree SlotStatus = "free"
	// SlotOwn is the viewing member's own appointment, shown with full detail.
	SlotOwn SlotStatus = "own"
	// SlotBooked is another member's appointment, visible with member identity.
	// Only staff ever receive this status.
	SlotBooked SlotStatus = "booked"
	// SlotUnavailable is another member's appointment reduced to an anonymous
	// {date, time, duration} tuple. Members receive this instead of SlotBooked.
	SlotUnavailable SlotStatus = "unavailable"
	// SlotPast is a cell whose start time has already elapsed.
	SlotPast SlotStatus = "past"
)

// SlotView is one classified cell of the weekly calendar. MemberName and
// AppointmentID are only populated when the viewer is entitled to them; the
// projection happens here, server-side, not in the UI.
type SlotView struct {
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	Status          SlotStatus `json:"status"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	ContinuesBlock  bool       `json:"continuesBlock,omitempty"` // tail cell of a 60-minute block
	AppointmentID   *uuid.UUID `json:"appointmentId,omitempty"`
	MemberName      string     `json:"memberName,omitempty"`
}

// Viewer identifies who is looking at the calendar, which decides how much
// detail each busy slot carries.
type Viewer struct {
	UserID uuid.UUID
	Role   entity.Role
}

// Slot-level booking errors, surfaced by CheckSlotBookable.
var (
	ErrSlotOutsideHours = errors.New("slot outside business hours")
	ErrSlotOffGrid      = errors.New("slot start not on the half-hour grid")
	ErrSlotInPast       = errors.New("slot start already elapsed")
	ErrSlotTooSoon      = errors.New("slot starts within the minimum lead time")
	ErrSlotConflict     = errors.New("slot overlaps an existing appointment")
)

// MinuteOfDay parses a "15:04" wall-clock value into minutes since midnight.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid time %q", clock)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// ClockOf renders minutes since midnight back into "15:04" form.
func ClockOf(minute int) string {
	return time.Date(0, 1, 1, minute/60, minute%60, 0, 0, time.UTC).Format(TimeLayout)
}

// SlotStart resolves a date + wall-clock pair into an instant in the given
// location.
func SlotStart(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid slot %q %q", date, clock)
	}

	return t, nil
}

// Overlaps applies the half-open interval law to two bookings given as
// minutes-since-midnight start and duration: [aStart, aStart+aDur) collides
// with [bStart, bStart+bDur) unless one ends before the other begins.
func Overlaps(aStart, aDur, bStart, bDur int) bool {
	return !(aStart+aDur <= bStart || aStart >= bStart+bDur)
}

// conflictsAt returns the first non-cancelled appointment on the given date
// whose interval covers the candidate interval. Cancelled appointments free
// their slots; every other status keeps them occupied.
func conflictsAt(appointments []*entity.Appointment, date string, startMinute, durationMinutes int) (*entity.Appointment, error) {
	for _, apt := range appointments {
		if apt.Date != date || apt.Status == entity.StatusCancelled {
			continue
		}

		aptStart, err := MinuteOfDay(apt.StartTime)
		if err != nil {
			return nil, err
		}
		if Overlaps(startMinute, durationMinutes, aptStart, apt.DurationMinutes) {
			return apt, nil
		}
	}

	return nil, nil
}

// CheckSlotBookable validates a prospective booking against the grid, the
// lead-time rule and the supplied appointments. The appointment slice must
// contain every non-cancelled appointment that could conflict: the trainer's,
// plus the booking member's own with any trainer.
func CheckSlotBookable(appointments []*entity.Appointment, date, clock string, durationMinutes int, now time.Time) error {
	startMinute, err := MinuteOfDay(clock)
	if err != nil {
		return err
	}

	if startMinute%SlotMinutes != 0 {
		return errors.WithStack(ErrSlotOffGrid)
	}
	if startMinute < OpenMinute || startMinute+durationMinutes > CloseMinute {
		return errors.WithStack(ErrSlotOutsideHours)
	}

	start, err := SlotStart(date, clock, now.Location())
	if err != nil {
		return err
	}
	if start.Before(now) {
		return errors.WithStack(ErrSlotInPast)
	}
	if start.Before(now.Add(MinLeadTime)) {
		return errors.WithStack(ErrSlotTooSoon)
	}

	conflict, err := conflictsAt(appointments, date, startMinute, durationMinutes)
	if err != nil {
		return err
	}
	if conflict != nil {
		return errors.WithStack(ErrSlotConflict)
	}

	return nil
}

// DaySlots classifies every grid cell of one date for the given viewer. The
// appointment slice carries the selected trainer's bookings plus, for member
// viewers, the member's own bookings with any trainer. A 60-minute
// appointment paints both of its cells; the second cell is flagged as the
// continuation of a visually merged block and offers no separate affordance.
func DaySlots(date string, appointments []*entity.Appointment, viewer Viewer, now time.Time) ([]SlotView, error) {
	slots := make([]SlotView, 0, SlotsPerDay)

	for minute := OpenMinute; minute < CloseMinute; minute += SlotMinutes {
		clock := ClockOf(minute)

		view := SlotView{Date: date, Time: clock, Status: SlotFree}

		covering, err := conflictsAt(appointments, date, minute, SlotMinutes)
		if err != nil {
			return nil, err
		}

		if covering != nil {
			view = classifySlot(view, covering, viewer, minute)
		} else {
			start, err := SlotStart(date, clock, now.Location())
			if err != nil {
				return nil, err
			}
			if start.Before(now) {
				view.Status = SlotPast
			}
		}

		slots = append(slots, view)
	}

	return slots, nil
}

// classifySlot applies the role-based visibility rule to one occupied cell.
func classifySlot(view SlotView, apt *entity.Appointment, viewer Viewer, slotMinute int) SlotView {
	aptStart, _ := MinuteOfDay(apt.StartTime)
	view.DurationMinutes = apt.DurationMinutes
	view.ContinuesBlock = slotMinute > aptStart

	switch {
	case apt.MemberID == viewer.UserID:
		// The member's own booking stays clickable for cancellation.
		id := apt.ID
		view.Status = SlotOwn
		view.AppointmentID = &id
	case viewer.Role.IsStaff():
		id := apt.ID
		view.Status = SlotBooked
		view.AppointmentID = &id
		view.MemberName = apt.MemberName
	default:
		// Other members only learn that the slot is taken.
		view.Status = SlotUnavailable
	}

	return view
}
