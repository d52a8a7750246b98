package dto

import (
	"time"

	"ghumakad/infras/jwt"
	"ghumakad/internal/domains/auth/model"
	userModel "ghumakad/internal/domains/user/model"
	userDto "ghumakad/internal/domains/user/model/dto"
	gModel "ghumakad/shared/model"
	"ghumakad/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username  string   `json:"username"   validate:"required,max=100"`
	Email     string   `json:"email"      validate:"required,email"`
	Password  string   `json:"password"   validate:"required,min=8"`
	Phone     string   `json:"phone"      validate:"omitempty,max=20"`
	Address   string   `json:"address"    validate:"omitempty,max=300"`
	Role      string   `json:"role"       validate:"required,oneof=user host"`
	HostTypes []string `json:"host_types" validate:"omitempty,dive,oneof=hotel services experiences"`
}

func (r *RegisterRequest) ToPendingModel(hashedPassword, otp string, expiresAt time.Time) model.PendingRegistration {
	return model.PendingRegistration{
		ID:        uuid.NewString(),
		Username:  r.Username,
		Email:     r.Email,
		Password:  hashedPassword,
		Phone:     r.Phone,
		Address:   r.Address,
		Role:      r.Role,
		HostTypes: r.HostTypes,
		OTP:       otp,
		ExpiresAt: expiresAt,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  r.Email,
			ModifiedBy: r.Email,
		},
	}
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,numeric"`
}

// ToUserModel materializes the staged registration into a user row.
func ToUserModel(pending model.PendingRegistration) userModel.User {
	return userModel.User{
		ID:        uuid.NewString(),
		Username:  pending.Username,
		Email:     pending.Email,
		Password:  pending.Password,
		Phone:     pending.Phone,
		Address:   pending.Address,
		Role:      pending.Role,
		HostTypes: pending.HostTypes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  pending.Email,
			ModifiedBy: pending.Email,
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
	User         userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair, user userModel.User) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
	l.User.FromModel(user)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
