package usecase

import (
	"context"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterMemberInput defines the data required to register a new member.
// Every member picks an assigned trainer at signup.
type RegisterMemberInput struct {
	Name      string
	Email     string
	Password  string
	TrainerID uuid.UUID
}

// CreateStaffInput defines the data an admin supplies to create a trainer or
// admin account. TrainerType is only meaningful for trainers.
type CreateStaffInput struct {
	Actor       Actor
	Name        string
	Email       string
	Password    string
	Role        entity.Role
	TrainerType entity.TrainerType
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token being exchanged.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the rotated token pair.
type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterMember(ctx context.Context, input *RegisterMemberInput) (*RegisterOutput, error)
	CreateStaff(ctx context.Context, input *CreateStaffInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ListTrainers(ctx context.Context) ([]*entity.User, error)
	RegisterPushToken(ctx context.Context, userID uuid.UUID, pushToken string) error
}
