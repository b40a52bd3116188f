package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ptbook/internal/delivery/context"
	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/domain/service"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultAvailabilityDays = 7
	maxAvailabilityDays     = 31
	defaultLogLimit         = 50
	maxLogLimit             = 500
)

// bookingService implements the BookingUsecase interface. Every mutation runs
// the decision logic of the booking package inside a single transaction; audit
// logging and event publishing happen after commit and never fail the
// operation. Push notifications ride on the published events and are sent by
// the worker.
type bookingService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	apptRepo  repository.AppointmentRepository
	logRepo   repository.AppointmentLogRepository
	qrService service.QRCodeService
	publisher service.EventPublisher
	logger    *slog.Logger
}

// BookingServiceParams holds dependencies for BookingService, injected by Fx.
type BookingServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	ApptRepo  repository.AppointmentRepository
	LogRepo   repository.AppointmentLogRepository
	QRService service.QRCodeService
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewBookingService is the constructor for bookingService.
func NewBookingService(params BookingServiceParams) usecase.BookingUsecase {
	return &bookingService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		apptRepo:  params.ApptRepo,
		logRepo:   params.LogRepo,
		qrService: params.QRService,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *bookingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetAvailability builds the role-projected calendar for one trainer. Busy
// detail is decided server-side per viewer; members never receive other
// members' identities.
func (srv *bookingService) GetAvailability(ctx context.Context, input *usecase.GetAvailabilityInput) (*usecase.AvailabilityOutput, error) {
	rawStart := input.StartDate
	if rawStart == "" {
		rawStart = time.Now().Format(booking.DateLayout)
	}
	startDate, err := time.ParseInLocation(booking.DateLayout, rawStart, time.Local)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid start date")
	}

	days := input.Days
	if days <= 0 {
		days = defaultAvailabilityDays
	}
	if days > maxAvailabilityDays {
		days = maxAvailabilityDays
	}

	trainer, err := srv.userRepo.FindByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "trainer not found")
		}

		return nil, errors.Wrap(err, "failed to load trainer for availability")
	}
	if trainer.Role != entity.RoleTrainer {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("availability is only defined for trainers")
	}

	endDate := startDate.AddDate(0, 0, days-1)
	appointments, err := srv.loadCalendarAppointments(ctx, input, startDate, endDate)
	if err != nil {
		return nil, err
	}

	viewer := booking.Viewer{UserID: input.Actor.UserID, Role: input.Actor.Role}
	now := time.Now()

	output := &usecase.AvailabilityOutput{
		TrainerID:   trainer.ID,
		TrainerName: trainer.Name,
		Days:        make([]usecase.AvailabilityDay, 0, days),
	}
	for i := range days {
		date := startDate.AddDate(0, 0, i).Format(booking.DateLayout)

		slots, err := booking.DaySlots(date, appointments, viewer, now)
		if err != nil {
			return nil, errors.Wrap(err, "failed to classify day slots")
		}

		output.Days = append(output.Days, usecase.AvailabilityDay{Date: date, Slots: slots})
	}

	return output, nil
}

// loadCalendarAppointments fetches the trainer's bookings in the window plus,
// for member viewers, the member's own bookings with any trainer so their
// cross-trainer sessions render as "own".
func (srv *bookingService) loadCalendarAppointments(ctx context.Context, input *usecase.GetAvailabilityInput, start, end time.Time) ([]*entity.Appointment, error) {
	filter := repository.AppointmentFilter{
		TrainerID: &input.TrainerID,
		DateFrom:  start.Format(booking.DateLayout),
		DateTo:    end.Format(booking.DateLayout),
	}

	appointments, err := srv.apptRepo.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trainer appointments")
	}

	if input.Actor.Role != entity.RoleMember {
		return appointments, nil
	}

	memberID := input.Actor.UserID
	own, err := srv.apptRepo.Find(ctx, repository.AppointmentFilter{
		MemberID: &memberID,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load member appointments")
	}

	seen := make(map[uuid.UUID]struct{}, len(appointments))
	for _, apt := range appointments {
		seen[apt.ID] = struct{}{}
	}
	for _, apt := range own {
		if _, ok := seen[apt.ID]; !ok {
			appointments = append(appointments, apt)
		}
	}

	return appointments, nil
}

// Book creates a scheduled appointment, deducting one point from the member's
// ledger. The availability check, the deduction and the insert commit
// atomically; the slot-uniqueness constraint backstops concurrent bookings
// that pass the in-transaction check simultaneously.
func (srv *bookingService) Book(ctx context.Context, input *usecase.BookInput) (*usecase.BookOutput, error) {
	memberID, err := resolveTargetMember(input.Actor, input.MemberID)
	if err != nil {
		return nil, err
	}
	if !entity.IsValidDuration(input.DurationMinutes) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("duration must be 30 or 60 minutes")
	}

	srv.log(ctx).Info("Booking appointment",
		slog.Any("memberID", memberID),
		slog.Any("trainerID", input.TrainerID),
		slog.String("date", input.Date),
		slog.String("startTime", input.StartTime),
	)

	now := time.Now()
	var appointment *entity.Appointment

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		apptRepo := repoFactory.NewAppointmentRepository()
		batchRepo := repoFactory.NewPointBatchRepository()

		member, err := userRepo.FindByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "member not found")
			}

			return errors.Wrap(err, "failed to load member")
		}
		if member.Role != entity.RoleMember {
			return domainerrors.ErrValidationFailed.WrapMessage("appointments can only be booked for members")
		}

		// Lock the trainer row for the rest of the transaction so concurrent
		// bookings for the same trainer queue here. The overlap scan below
		// then sees any competing appointment that committed first, which the
		// exact-start unique index alone cannot guarantee for offset overlaps.
		trainer, err := userRepo.FindByIDForUpdate(ctx, input.TrainerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "trainer not found")
			}

			return errors.Wrap(err, "failed to load trainer")
		}
		if !trainer.CanBeAssigned() {
			return domainerrors.ErrValidationFailed.WrapMessage("selected trainer is not active")
		}

		// Points first: a full slot check on an empty ledger is wasted work.
		batches, err := batchRepo.FindByMember(ctx, memberID)
		if err != nil {
			return errors.Wrap(err, "failed to load point batches")
		}

		changed, err := booking.Deduct(batches, input.DurationMinutes, 1, now)
		if err != nil {
			if errors.Is(err, booking.ErrInsufficientPoints) {
				return domainerrors.ErrInsufficientPoints.WrapMessage("no active points in duration bucket")
			}

			return errors.Wrap(err, "failed to deduct point")
		}
		deductedBatch := changed[0]

		conflicts, err := srv.loadConflictCandidates(ctx, apptRepo, input.TrainerID, memberID, input.Date)
		if err != nil {
			return err
		}
		if err := booking.CheckSlotBookable(conflicts, input.Date, input.StartTime, input.DurationMinutes, now); err != nil {
			return mapSlotError(err)
		}

		appointment = &entity.Appointment{
			ID:              uuid.New(),
			MemberID:        member.ID,
			MemberName:      member.Name,
			MemberEmail:     member.Email,
			TrainerID:       trainer.ID,
			TrainerName:     trainer.Name,
			Date:            input.Date,
			StartTime:       input.StartTime,
			DurationMinutes: input.DurationMinutes,
			Status:          entity.StatusScheduled,
			PointBatchID:    &deductedBatch.ID,
			ProductID:       deductedBatch.ProductID,
		}

		if err := apptRepo.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return domainerrors.ErrSlotUnavailable.WrapMessage("slot was taken by a concurrent booking")
			}

			return errors.Wrap(err, "failed to create appointment")
		}

		for _, batch := range changed {
			if err := batchRepo.UpdateRemaining(ctx, batch.ID, batch.RemainingPoints); err != nil {
				return errors.Wrap(err, "failed to persist point deduction")
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Booking failed", slog.Any("memberID", memberID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute booking transaction")
	}

	logWarning := srv.recordTransition(ctx, appointment, entity.LogActionBooked, input.Actor)

	srv.log(ctx).Debug("Appointment booked", slog.Any("appointmentID", appointment.ID))

	return &usecase.BookOutput{Appointment: appointment, LogWarning: logWarning}, nil
}

// loadConflictCandidates gathers every appointment that could collide with
// the prospective booking: the trainer's day plus the member's own day with
// any trainer (a member cannot be in two places at once).
func (srv *bookingService) loadConflictCandidates(ctx context.Context, apptRepo repository.AppointmentRepository, trainerID, memberID uuid.UUID, date string) ([]*entity.Appointment, error) {
	trainerDay, err := apptRepo.Find(ctx, repository.AppointmentFilter{
		TrainerID: &trainerID,
		DateFrom:  date,
		DateTo:    date,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trainer day")
	}

	memberDay, err := apptRepo.Find(ctx, repository.AppointmentFilter{
		MemberID: &memberID,
		DateFrom: date,
		DateTo:   date,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load member day")
	}

	seen := make(map[uuid.UUID]struct{}, len(trainerDay))
	combined := trainerDay
	for _, apt := range trainerDay {
		seen[apt.ID] = struct{}{}
	}
	for _, apt := range memberDay {
		if _, ok := seen[apt.ID]; !ok {
			combined = append(combined, apt)
		}
	}

	return combined, nil
}

// Cancel moves a scheduled appointment to cancelled and refunds the point.
// Members may cancel until the end of the day before the session; staff may
// cancel up to two hours before start.
func (srv *bookingService) Cancel(ctx context.Context, input *usecase.TransitionInput) (*usecase.TransitionOutput, error) {
	now := time.Now()

	var (
		appointment *entity.Appointment
		refunded    bool
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		apptRepo := repoFactory.NewAppointmentRepository()
		batchRepo := repoFactory.NewPointBatchRepository()

		apt, err := srv.loadAuthorizedAppointment(ctx, apptRepo, input.Actor, input.AppointmentID)
		if err != nil {
			return err
		}

		if err := booking.ValidateTransition(apt.Status, entity.StatusCancelled); err != nil {
			return domainerrors.ErrInvalidTransition.WrapMessage(err.Error())
		}

		if input.Actor.IsStaff() {
			if !booking.StaffMayCancel(apt, now) {
				return domainerrors.ErrCancellationWindowExpired.WrapMessage("less than two hours before session start")
			}
		} else if !booking.MemberMayCancel(apt, now) {
			return domainerrors.ErrCancellationWindowExpired.WrapMessage("same-day cancellation is not allowed")
		}

		if err := apptRepo.UpdateStatus(ctx, apt.ID, entity.StatusCancelled); err != nil {
			return errors.Wrap(err, "failed to update appointment status")
		}

		if booking.RefundsPoint(apt.Status, entity.StatusCancelled) {
			if err := srv.refundPoint(ctx, batchRepo, apt, now); err != nil {
				return err
			}
			refunded = true
		}

		apt.Status = entity.StatusCancelled
		appointment = apt

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Cancellation failed", slog.Any("appointmentID", input.AppointmentID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute cancellation transaction")
	}

	logWarning := srv.recordTransition(ctx, appointment, entity.LogActionCancelled, input.Actor)

	srv.log(ctx).Debug("Appointment cancelled", slog.Any("appointmentID", appointment.ID), slog.Bool("refunded", refunded))

	return &usecase.TransitionOutput{Appointment: appointment, Refunded: refunded, LogWarning: logWarning}, nil
}

// refundPoint credits one point back to the member under the refund policy:
// newest non-expired batch, or a fresh batch when everything has expired.
func (srv *bookingService) refundPoint(ctx context.Context, batchRepo repository.PointBatchRepository, apt *entity.Appointment, now time.Time) error {
	batches, err := batchRepo.FindByMember(ctx, apt.MemberID)
	if err != nil {
		return errors.Wrap(err, "failed to load point batches for refund")
	}

	batch, created := booking.Refund(apt.MemberID, batches, apt.DurationMinutes, 1, now)
	if created {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return errors.Wrap(err, "failed to create refund batch")
		}

		return nil
	}

	if err := batchRepo.UpdateRemaining(ctx, batch.ID, batch.RemainingPoints); err != nil {
		return errors.Wrap(err, "failed to persist refund")
	}

	return nil
}

// Complete marks a scheduled appointment as completed. Staff only.
func (srv *bookingService) Complete(ctx context.Context, input *usecase.TransitionInput) (*usecase.TransitionOutput, error) {
	return srv.staffTransition(ctx, input, entity.StatusCompleted, entity.LogActionCompleted)
}

// MarkNoShow marks an appointment as a no-show. Staff only. The completed →
// no_show path corrects a mistaken completion; no point is refunded either way.
func (srv *bookingService) MarkNoShow(ctx context.Context, input *usecase.TransitionInput) (*usecase.TransitionOutput, error) {
	return srv.staffTransition(ctx, input, entity.StatusNoShow, entity.LogActionNoShow)
}

func (srv *bookingService) staffTransition(ctx context.Context, input *usecase.TransitionInput, to entity.AppointmentStatus, action entity.LogAction) (*usecase.TransitionOutput, error) {
	if !input.Actor.IsStaff() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only staff may change appointment status")
	}

	var appointment *entity.Appointment

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		apptRepo := repoFactory.NewAppointmentRepository()

		apt, err := srv.loadAuthorizedAppointment(ctx, apptRepo, input.Actor, input.AppointmentID)
		if err != nil {
			return err
		}

		if err := booking.ValidateTransition(apt.Status, to); err != nil {
			return domainerrors.ErrInvalidTransition.WrapMessage(err.Error())
		}

		if err := apptRepo.UpdateStatus(ctx, apt.ID, to); err != nil {
			return errors.Wrap(err, "failed to update appointment status")
		}

		apt.Status = to
		appointment = apt

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Status transition failed",
			slog.Any("appointmentID", input.AppointmentID),
			slog.Any("to", to),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to execute transition transaction")
	}

	logWarning := srv.recordTransition(ctx, appointment, action, input.Actor)

	srv.log(ctx).Debug("Appointment status changed", slog.Any("appointmentID", appointment.ID), slog.Any("status", to))

	return &usecase.TransitionOutput{Appointment: appointment, LogWarning: logWarning}, nil
}

// Sweep bulk-completes every scheduled appointment whose start time has
// passed, on the assumption that an unreported session happened. Admin only;
// typically run daily or before settlement.
func (srv *bookingService) Sweep(ctx context.Context, actor usecase.Actor) (*usecase.SweepOutput, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only admins may run the completion sweep")
	}

	now := time.Now()
	today := now.Format(booking.DateLayout)
	cutoff := now.Format(booking.TimeLayout)

	srv.log(ctx).Info("Running completion sweep", slog.String("today", today), slog.String("cutoff", cutoff))

	var swept []*entity.Appointment

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		apptRepo := repoFactory.NewAppointmentRepository()

		candidates, err := apptRepo.FindSweepCandidates(ctx, today, cutoff)
		if err != nil {
			return errors.Wrap(err, "failed to load sweep candidates")
		}

		for _, apt := range candidates {
			if !booking.SweepEligible(apt, today, cutoff) {
				continue
			}
			if err := apptRepo.UpdateStatus(ctx, apt.ID, entity.StatusCompleted); err != nil {
				return errors.Wrap(err, "failed to sweep appointment")
			}

			apt.Status = entity.StatusCompleted
			swept = append(swept, apt)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Completion sweep failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute sweep transaction")
	}

	logWarning := false
	for _, apt := range swept {
		if srv.recordTransition(ctx, apt, entity.LogActionCompleted, actor) {
			logWarning = true
		}
	}

	srv.log(ctx).Info("Completion sweep finished", slog.Int("completed", len(swept)))

	return &usecase.SweepOutput{Completed: len(swept), LogWarning: logWarning}, nil
}

// ListAppointments returns appointments scoped by role: members see their
// own, trainers their own schedule, admins everything.
func (srv *bookingService) ListAppointments(ctx context.Context, input *usecase.ListAppointmentsInput) ([]*entity.Appointment, error) {
	filter := repository.AppointmentFilter{
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Status:   input.Status,
	}

	switch input.Actor.Role {
	case entity.RoleMember:
		memberID := input.Actor.UserID
		filter.MemberID = &memberID
	case entity.RoleTrainer:
		trainerID := input.Actor.UserID
		filter.TrainerID = &trainerID
	case entity.RoleAdmin:
		// Unscoped.
	default:
		return nil, domainerrors.ErrAccessDenied.WrapMessage("unknown role")
	}

	appointments, err := srv.apptRepo.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}

	return appointments, nil
}

// GetAppointment returns one appointment if the actor is entitled to see it.
func (srv *bookingService) GetAppointment(ctx context.Context, actor usecase.Actor, appointmentID uuid.UUID) (*entity.Appointment, error) {
	return srv.loadAuthorizedAppointment(ctx, srv.apptRepo, actor, appointmentID)
}

// loadAuthorizedAppointment fetches an appointment and enforces visibility:
// the owning member, the serving trainer, or any admin.
func (srv *bookingService) loadAuthorizedAppointment(ctx context.Context, apptRepo repository.AppointmentRepository, actor usecase.Actor, appointmentID uuid.UUID) (*entity.Appointment, error) {
	apt, err := apptRepo.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAppointmentNotFound, "appointment not found")
		}

		return nil, errors.Wrap(err, "failed to find appointment")
	}

	switch {
	case actor.IsAdmin():
	case actor.Role == entity.RoleTrainer && apt.TrainerID == actor.UserID:
	case actor.Role == entity.RoleMember && apt.MemberID == actor.UserID:
	default:
		return nil, domainerrors.ErrAccessDenied.WrapMessage("appointment belongs to someone else")
	}

	return apt, nil
}

// GetCheckInQR renders the check-in QR code for a scheduled appointment.
func (srv *bookingService) GetCheckInQR(ctx context.Context, actor usecase.Actor, appointmentID uuid.UUID) ([]byte, error) {
	apt, err := srv.loadAuthorizedAppointment(ctx, srv.apptRepo, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != entity.StatusScheduled {
		return nil, domainerrors.ErrInvalidTransition.WrapMessage("check-in code is only available for scheduled appointments")
	}

	png, err := srv.qrService.GenerateCheckInQR(apt.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate check-in QR code")
	}

	return png, nil
}

// CheckIn completes an appointment from a scanned QR payload. Staff only.
func (srv *bookingService) CheckIn(ctx context.Context, actor usecase.Actor, qrData string) (*usecase.TransitionOutput, error) {
	if !actor.IsStaff() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only staff may scan check-ins")
	}

	appointmentID, err := srv.qrService.ParseCheckInQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unrecognized check-in code")
	}

	return srv.Complete(ctx, &usecase.TransitionInput{Actor: actor, AppointmentID: appointmentID})
}

// ListLogs returns the newest audit entries. Admin only.
func (srv *bookingService) ListLogs(ctx context.Context, actor usecase.Actor, limit int) ([]*entity.AppointmentLog, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only admins may read the audit log")
	}

	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := srv.logRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointment logs")
	}

	return logs, nil
}

// recordTransition runs the after-commit side effects of a state change: the
// audit log append and the pubsub event the worker turns into a push
// notification. Both are best-effort; the returned flag reports a failed log
// append so the response can carry a warning.
func (srv *bookingService) recordTransition(ctx context.Context, apt *entity.Appointment, action entity.LogAction, actor usecase.Actor) (logWarning bool) {
	entry := &entity.AppointmentLog{
		ID:            uuid.New(),
		AppointmentID: apt.ID,
		Action:        action,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		MemberName:    apt.MemberName,
		TrainerName:   apt.TrainerName,
		Date:          apt.Date,
		StartTime:     apt.StartTime,
	}
	if err := srv.logRepo.Append(ctx, entry); err != nil {
		srv.log(ctx).Warn("Failed to append appointment log",
			slog.Any("appointmentID", apt.ID),
			slog.Any("action", action),
			slog.Any("error", err),
		)
		logWarning = true
	}

	event := &service.AppointmentEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		AppointmentID: apt.ID.String(),
		Action:        action.String(),
		MemberID:      apt.MemberID.String(),
		TrainerID:     apt.TrainerID.String(),
		Date:          apt.Date,
		StartTime:     apt.StartTime,
		ActorRole:     actor.Role.String(),
	}
	if err := srv.publisher.PublishAppointmentEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish appointment event", slog.Any("appointmentID", apt.ID), slog.Any("error", err))
	}

	return logWarning
}

// resolveTargetMember decides whose account an operation applies to. Members
// always act on themselves; admins may act on any member.
func resolveTargetMember(actor usecase.Actor, requested uuid.UUID) (uuid.UUID, error) {
	if actor.Role == entity.RoleMember {
		return actor.UserID, nil
	}
	if actor.IsAdmin() {
		if requested == uuid.Nil {
			return uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage("member id is required")
		}

		return requested, nil
	}

	return uuid.Nil, domainerrors.ErrAccessDenied.WrapMessage("trainers cannot act on member accounts")
}

// mapSlotError converts availability-calculator errors into user-facing ones.
func mapSlotError(err error) error {
	var parseErr *time.ParseError

	switch {
	case errors.Is(err, booking.ErrSlotConflict):
		return domainerrors.ErrSlotUnavailable.WrapMessage("slot overlaps an existing appointment")
	case errors.Is(err, booking.ErrSlotInPast), errors.Is(err, booking.ErrSlotTooSoon):
		return domainerrors.ErrSlotUnavailable.WrapMessage("slot start is too close or already elapsed")
	case errors.Is(err, booking.ErrSlotOutsideHours), errors.Is(err, booking.ErrSlotOffGrid):
		return domainerrors.ErrValidationFailed.WrapMessage("slot is outside the booking grid")
	case errors.As(err, &parseErr):
		return domainerrors.ErrValidationFailed.WrapMessage("invalid date or time format")
	default:
		return errors.Wrap(err, "failed to validate slot")
	}
}
