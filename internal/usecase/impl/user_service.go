// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ptbook/internal/delivery/context"
	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/domain/service"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterMember creates a member account bound to an assigned trainer.
// User, credential and the trainer check run in one transaction so a
// concurrent trainer deactivation cannot slip between check and insert.
func (srv *userService) RegisterMember(ctx context.Context, input *usecase.RegisterMemberInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting member registration", slog.String("email", input.Email))

	// Hash outside the transaction (bcrypt is CPU-bound). Hash also runs the
	// password strength policy.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Warn("Password rejected during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		ID:                uuid.New(),
		Email:             input.Email,
		Name:              input.Name,
		Role:              entity.RoleMember,
		AssignedTrainerID: &input.TrainerID,
		IsActive:          true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		authRepo := repoFactory.NewAuthRepository()

		trainer, err := userRepo.FindByID(ctx, input.TrainerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrTrainerNotAssignable.WrapMessage("assigned trainer does not exist")
			}

			return errors.Wrap(err, "failed to load assigned trainer")
		}
		if !trainer.CanBeAssigned() {
			return domainerrors.ErrTrainerNotAssignable.WrapMessage("assigned trainer is not an active trainer")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		credential := &entity.Credential{
			ID:           uuid.New(),
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}
		if err := authRepo.CreateCredential(ctx, credential); err != nil {
			return errors.Wrap(err, "failed to create credential during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Member registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute member registration transaction")
	}

	srv.log(ctx).Debug("Member registered", slog.Any("userID", newUser.ID), slog.Any("trainerID", input.TrainerID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// CreateStaff creates a trainer or admin account. Admin only.
func (srv *userService) CreateStaff(ctx context.Context, input *usecase.CreateStaffInput) (*usecase.RegisterOutput, error) {
	if !input.Actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only admins may create staff accounts")
	}
	if input.Role != entity.RoleTrainer && input.Role != entity.RoleAdmin {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("staff role must be trainer or admin")
	}
	if input.Role == entity.RoleTrainer && !input.TrainerType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("trainer accounts require a valid trainer type")
	}

	srv.log(ctx).Info("Creating staff account", slog.Any("role", input.Role), slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during staff creation")
	}

	newUser := &entity.User{
		ID:       uuid.New(),
		Email:    input.Email,
		Name:     input.Name,
		Role:     input.Role,
		IsActive: true,
	}
	if input.Role == entity.RoleTrainer {
		newUser.TrainerType = input.TrainerType
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewUserRepository().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create staff user")
		}

		credential := &entity.Credential{
			ID:           uuid.New(),
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}
		if err := repoFactory.NewAuthRepository().CreateCredential(ctx, credential); err != nil {
			return errors.Wrap(err, "failed to create staff credential")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Staff creation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute staff creation transaction")
	}

	srv.log(ctx).Debug("Staff account created", slog.Any("userID", newUser.ID), slog.Any("role", input.Role))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}
	if !user.IsActive {
		srv.log(ctx).Warn("Login attempt on inactive account", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "account inactive")
	}

	credential, err := srv.authRepo.FindCredentialByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID, []string{user.Role.String()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.storeRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, errors.Wrap(err, "failed to create refresh token during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

func (srv *userService) storeRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	return srv.authRepo.CreateRefreshToken(ctx, record)
}

// RefreshToken exchanges a valid refresh token for a new token pair. The old
// refresh token is rotated out: its hash is deleted before the replacement is
// stored, so a replayed token fails the database lookup.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}
	if claims.Type != "refresh" {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "token is not a refresh token")
	}

	var output usecase.RefreshTokenOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		authRepo := repoFactory.NewAuthRepository()

		oldHash := srv.tokenService.HashToken(input.RefreshToken)
		stored, err := authRepo.FindRefreshTokenByHash(ctx, oldHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if time.Now().After(stored.ExpiresAt) {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token expired")
		}

		user, err := userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to find user for token refresh")
		}
		if !user.IsActive {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "account inactive")
		}

		newAccess, newRefresh, err := srv.tokenService.GenerateTokens(user.ID, []string{user.Role.String()})
		if err != nil {
			return errors.Wrap(err, "failed to generate rotated tokens")
		}

		// Rotation: retire the presented token, persist the replacement.
		if err := authRepo.DeleteRefreshTokenByHash(ctx, oldHash); err != nil {
			return errors.Wrap(err, "failed to delete rotated refresh token")
		}

		replacement := &entity.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: srv.tokenService.HashToken(newRefresh),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		}
		if err := authRepo.CreateRefreshToken(ctx, replacement); err != nil {
			return errors.Wrap(err, "failed to store rotated refresh token")
		}

		output = usecase.RefreshTokenOutput{
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to refresh token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return &output, nil
}

// Logout handles the process of invalidating a user's session by deleting their refresh token.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	if err := srv.authRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Session is already gone; logout is idempotent.
			return nil
		}
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// GetProfile returns the user's account data.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile not found")
		}

		return nil, errors.Wrap(err, "failed to find user profile")
	}

	return user, nil
}

// ListTrainers returns every active trainer, for the signup trainer picker and
// the calendar trainer selector.
func (srv *userService) ListTrainers(ctx context.Context) ([]*entity.User, error) {
	trainers, err := srv.userRepo.FindActiveTrainers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active trainers")
	}

	return trainers, nil
}

// RegisterPushToken stores the client's FCM device token so appointment
// notifications have somewhere to go. An empty token unregisters the device.
func (srv *userService) RegisterPushToken(ctx context.Context, userID uuid.UUID, pushToken string) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "cannot register push token")
		}

		return errors.Wrap(err, "failed to find user for push token registration")
	}

	user.PushToken = pushToken
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store push token")
	}

	srv.log(ctx).Debug("Push token registered", slog.Any("userID", userID))

	return nil
}
