package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"ptbook/internal/delivery/http/middleware"
	"ptbook/internal/delivery/http/response"
	"ptbook/internal/domain/entity"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BookingHandler holds dependencies for appointment lifecycle handlers.
type BookingHandler struct {
	uc     usecase.BookingUsecase
	logger *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler, injected by Fx.
func NewBookingHandler(uc usecase.BookingUsecase, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetAvailability returns a trainer's calendar, projected for the caller's
// role. Query: start_date ("2006-01-02", defaults to today) and days.
func (h *BookingHandler) GetAvailability(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	trainerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid trainer ID")
	}

	days := 0
	if rawDays := c.QueryParam("days"); rawDays != "" {
		days, err = strconv.Atoi(rawDays)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid days parameter")
		}
	}

	output, err := h.uc.GetAvailability(c.Request().Context(), &usecase.GetAvailabilityInput{
		Actor:     actor,
		TrainerID: trainerID,
		StartDate: c.QueryParam("start_date"),
		Days:      days,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Availability retrieved successfully")
}

type bookRequest struct {
	TrainerID       string `json:"trainerId" validate:"required,uuid"`
	MemberID        string `json:"memberId" validate:"omitempty,uuid"`
	Date            string `json:"date" validate:"required"`
	StartTime       string `json:"startTime" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required"`
}

// Book creates a new appointment, deducting one point from the member.
func (h *BookingHandler) Book(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid booking input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	trainerID, err := uuid.Parse(req.TrainerID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid trainer ID")
	}

	memberID := uuid.Nil
	if req.MemberID != "" {
		memberID, err = uuid.Parse(req.MemberID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid member ID")
		}
	}

	output, err := h.uc.Book(c.Request().Context(), &usecase.BookInput{
		Actor:           actor,
		MemberID:        memberID,
		TrainerID:       trainerID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Appointment booked successfully")
}

// Cancel cancels a scheduled appointment and refunds the point.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.uc.Cancel, "Appointment cancelled successfully")
}

// Complete marks a scheduled appointment as completed. Staff only.
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, h.uc.Complete, "Appointment completed successfully")
}

// MarkNoShow marks an appointment as a no-show, including the correction of
// an appointment completed by mistake. Staff only.
func (h *BookingHandler) MarkNoShow(c echo.Context) error {
	return h.transition(c, h.uc.MarkNoShow, "Appointment marked as no-show")
}

// transition applies one lifecycle operation to the appointment in the path.
func (h *BookingHandler) transition(
	c echo.Context,
	op func(ctx context.Context, input *usecase.TransitionInput) (*usecase.TransitionOutput, error),
	message string,
) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid appointment ID")
	}

	output, err := op(c.Request().Context(), &usecase.TransitionInput{
		Actor:         actor,
		AppointmentID: appointmentID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, message)
}

// Sweep bulk-completes past scheduled appointments. Admin only.
func (h *BookingHandler) Sweep(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	output, err := h.uc.Sweep(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Sweep completed successfully")
}

// ListAppointments lists appointments visible to the caller. Query:
// date_from, date_to ("2006-01-02") and status.
func (h *BookingHandler) ListAppointments(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	appointments, err := h.uc.ListAppointments(c.Request().Context(), &usecase.ListAppointmentsInput{
		Actor:    actor,
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
		Status:   entity.AppointmentStatus(c.QueryParam("status")),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, appointments, "Appointments retrieved successfully")
}

// GetAppointment returns one appointment the caller is allowed to see.
func (h *BookingHandler) GetAppointment(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid appointment ID")
	}

	appointment, err := h.uc.GetAppointment(c.Request().Context(), actor, appointmentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, appointment, "Appointment retrieved successfully")
}

// GetCheckInQR streams the check-in QR code PNG for a scheduled appointment.
func (h *BookingHandler) GetCheckInQR(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid appointment ID")
	}

	png, err := h.uc.GetCheckInQR(c.Request().Context(), actor, appointmentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

type checkInRequest struct {
	QRData string `json:"qrData" validate:"required"`
}

// CheckIn completes an appointment from a scanned QR code. Staff only.
func (h *BookingHandler) CheckIn(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid check-in input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.CheckIn(c.Request().Context(), actor, req.QRData)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Check-in successful")
}

// ListLogs returns the most recent appointment audit entries. Admin only.
// Query: limit.
func (h *BookingHandler) ListLogs(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	limit := 0
	if rawLimit := c.QueryParam("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid limit parameter")
		}
		limit = parsed
	}

	logs, err := h.uc.ListLogs(c.Request().Context(), actor, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, logs, "Logs retrieved successfully")
}
