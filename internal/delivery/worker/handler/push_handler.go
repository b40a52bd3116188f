// Package handler contains the Pub/Sub push handlers for the worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"ptbook/config"
	deliverycontext "ptbook/internal/delivery/context"
	"ptbook/internal/domain/constants"
	"ptbook/internal/domain/entity"
	"ptbook/internal/domain/repository"
	"ptbook/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler turns appointment transition events into push notifications
// for the counterparty: trainers hear about member actions, members hear
// about staff actions.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	userRepo        repository.UserRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	UserRepo        repository.UserRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		userRepo:        params.UserRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Parse appointment event
	var event service.AppointmentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse appointment event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)

	// Create request-scoped logger with request_id
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	// Update context with request_id and logger
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing appointment event",
		slog.String("appointment_id", event.AppointmentID),
		slog.String("action", event.Action),
		slog.String("actor_role", event.ActorRole),
	)

	// Process the event
	if err := h.processEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process appointment event",
			slog.String("appointment_id", event.AppointmentID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Appointment event processed successfully",
		slog.String("appointment_id", event.AppointmentID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.AppointmentEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	// 4. Generate new UUID as fallback
	return uuid.New().String()
}

// processEvent resolves the counterparty of the transition and sends one
// push notification to their registered device.
func (h *PushHandler) processEvent(ctx context.Context, event *service.AppointmentEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	memberID, err := uuid.Parse(event.MemberID)
	if err != nil {
		return errors.WithStack(err)
	}

	trainerID, err := uuid.Parse(event.TrainerID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Member actions notify the trainer; staff actions notify the member.
	recipientID := memberID
	if event.ActorRole == entity.RoleMember.String() {
		recipientID = trainerID
	}

	recipient, err := h.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("[Worker] Recipient no longer exists, skipping notification",
				slog.String("recipient_id", recipientID.String()),
			)

			return nil
		}

		return newRetryableError(errors.WithStack(err))
	}

	if recipient.PushToken == "" {
		logger.Info("[Worker] Recipient has no push token, skipping notification",
			slog.String("recipient_id", recipientID.String()),
		)

		return nil
	}

	memberName := ""
	if recipient.ID != memberID {
		member, memberErr := h.userRepo.FindByID(ctx, memberID)
		if memberErr == nil {
			memberName = member.Name
		}
	}

	title, body := notificationContent(event, recipient, memberName)
	data := map[string]string{
		"appointment_id": event.AppointmentID,
		"action":         event.Action,
		"date":           event.Date,
		"start_time":     event.StartTime,
	}

	if err := h.notificationSvc.SendSingleNotification(ctx, recipient.PushToken, title, body, data); err != nil {
		// A failed push is not worth redelivering the whole event for.
		logger.Error("[Worker] Failed to send push notification",
			slog.String("recipient_id", recipientID.String()),
			slog.Any("error", err),
		)

		return nil
	}

	logger.Info("[Worker] Push notification sent",
		slog.String("recipient_id", recipientID.String()),
		slog.String("action", event.Action),
	)

	return nil
}

// notificationContent builds the localized push title and body for one
// transition, phrased for the recipient's side of the appointment.
func notificationContent(event *service.AppointmentEvent, recipient *entity.User, memberName string) (title, body string) {
	when := event.Date + " " + event.StartTime
	forTrainer := recipient.Role != entity.RoleMember
	if memberName == "" {
		memberName = "會員"
	}

	switch entity.LogAction(event.Action) {
	case entity.LogActionBooked:
		title = "預約成功"
		if forTrainer {
			body = memberName + " 已預約 " + when + " 的課程"
		} else {
			body = "您已成功預約 " + when + " 的課程"
		}
	case entity.LogActionCancelled:
		title = "預約已取消"
		if forTrainer {
			body = memberName + " 已取消 " + when + " 的課程"
		} else {
			body = "您於 " + when + " 的課程已取消"
		}
	case entity.LogActionCompleted:
		title = "課程已完成"
		body = when + " 的課程已完成"
	case entity.LogActionNoShow:
		title = "課程未出席"
		if forTrainer {
			body = memberName + " 於 " + when + " 的課程未出席"
		} else {
			body = "您於 " + when + " 的課程被標記為未出席"
		}
	default:
		title = "預約通知"
		body = when + " 的課程狀態已更新"
	}

	return title, body
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	// Get the Authorization header
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	// Extract Bearer token
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// Construct the expected audience (the push endpoint URL)
	// The audience should be the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	// Validate the token using Google's ID token validator
	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// Verify the token is from Google Pub/Sub
	// The issuer should be accounts.google.com
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	// Verify email is verified (if email claim exists)
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
