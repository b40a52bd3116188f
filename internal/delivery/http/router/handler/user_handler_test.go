package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ptbook/internal/delivery/http/middleware"
	"ptbook/internal/delivery/http/response"
	"ptbook/internal/delivery/http/validator"
	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserUsecase struct{ mock.Mock }

func (m *mockUserUsecase) RegisterMember(ctx context.Context, input *usecase.RegisterMemberInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RegisterOutput), args.Error(1)
}

func (m *mockUserUsecase) CreateStaff(ctx context.Context, input *usecase.CreateStaffInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RegisterOutput), args.Error(1)
}

func (m *mockUserUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *mockUserUsecase) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RefreshTokenOutput), args.Error(1)
}

func (m *mockUserUsecase) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockUserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserUsecase) ListTrainers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *mockUserUsecase) RegisterPushToken(ctx context.Context, userID uuid.UUID, pushToken string) error {
	return m.Called(ctx, userID, pushToken).Error(0)
}

// newHandlerEcho builds an Echo instance with the same validator and error
// handler the real server installs.
func newHandlerEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func performJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return envelope
}

func TestRegisterMember_Success(t *testing.T) {
	uc := new(mockUserUsecase)
	trainerID := uuid.New()
	uc.On("RegisterMember", mock.Anything, mock.MatchedBy(func(input *usecase.RegisterMemberInput) bool {
		return input.Email == "amy@example.com" && input.TrainerID == trainerID
	})).Return(&usecase.RegisterOutput{User: &entity.User{ID: uuid.New(), Name: "Amy"}}, nil)

	e := newHandlerEcho()
	h := NewUserHandler(uc, discardLogger())
	e.POST("/auth/register", h.RegisterMember)

	body := `{"name":"Amy","email":"amy@example.com","password":"Sup3r$ecret","trainerId":"` + trainerID.String() + `"}`
	rec := performJSON(e, http.MethodPost, "/auth/register", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeResponse(t, rec)
	assert.True(t, envelope.Success)
	uc.AssertExpectations(t)
}

func TestRegisterMember_InvalidEmail(t *testing.T) {
	uc := new(mockUserUsecase)

	e := newHandlerEcho()
	h := NewUserHandler(uc, discardLogger())
	e.POST("/auth/register", h.RegisterMember)

	body := `{"name":"Amy","email":"not-an-email","password":"Sup3r$ecret","trainerId":"` + uuid.NewString() + `"}`
	rec := performJSON(e, http.MethodPost, "/auth/register", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeResponse(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	uc.AssertNotCalled(t, "RegisterMember", mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentialsEnvelope(t *testing.T) {
	uc := new(mockUserUsecase)
	uc.On("Login", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInvalidCredentials)

	e := newHandlerEcho()
	h := NewUserHandler(uc, discardLogger())
	e.POST("/auth/login", h.Login)

	rec := performJSON(e, http.MethodPost, "/auth/login", `{"email":"amy@example.com","password":"wrong-pass"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeResponse(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestListTrainers_Public(t *testing.T) {
	uc := new(mockUserUsecase)
	uc.On("ListTrainers", mock.Anything).Return([]*entity.User{
		{ID: uuid.New(), Name: "Trainer Chen", Role: entity.RoleTrainer},
	}, nil)

	e := newHandlerEcho()
	h := NewUserHandler(uc, discardLogger())
	e.GET("/trainers", h.ListTrainers)

	req := httptest.NewRequest(http.MethodGet, "/trainers", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeResponse(t, rec)
	assert.True(t, envelope.Success)
}

func TestGetProfile_RequiresActor(t *testing.T) {
	uc := new(mockUserUsecase)

	e := newHandlerEcho()
	h := NewUserHandler(uc, discardLogger())
	e.GET("/me/profile", h.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
