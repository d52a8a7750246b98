package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghumakad/config"
	"ghumakad/infras/jwt"
	jwtMocks "ghumakad/infras/jwt/mocks"
	mailerMocks "ghumakad/infras/mailer/mocks"
	"ghumakad/infras/otel/mocks"
	authMocks "ghumakad/internal/domains/auth/mocks"
	"ghumakad/internal/domains/auth/model"
	"ghumakad/internal/domains/auth/model/dto"
	"ghumakad/internal/domains/auth/service"
	userMocks "ghumakad/internal/domains/user/mocks"
	userModel "ghumakad/internal/domains/user/model"
	"ghumakad/shared/constant"
	"ghumakad/shared/timezone"
)

// "password" hashed with bcrypt.
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func newAuthFixture(ctrl *gomock.Controller) (*userMocks.MockUser, *authMocks.MockPendingRegistration, *jwtMocks.MockJWT, *mailerMocks.MockMailer, service.Auth) {
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockPendingRepo := authMocks.NewMockPendingRegistration(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockMailer := mailerMocks.NewMockMailer(ctrl)

	cfg := &config.Config{}
	cfg.App.OTPLengthDigits = 6
	cfg.App.OTPExpireMinutes = 10

	svc := service.New(mockUserRepo, mockPendingRepo, cfg, mocks.NewOtel(), mockJWT, mockMailer)

	return mockUserRepo, mockPendingRepo, mockJWT, mockMailer, svc
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo, mockPendingRepo, _, mockMailer, svc := newAuthFixture(ctrl)

	req := dto.RegisterRequest{
		Username:  "traveller",
		Email:     "traveller@example.com",
		Password:  "password123",
		Role:      constant.RoleUser,
		HostTypes: nil,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful registration",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockPendingRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPendingRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockMailer.EXPECT().
					SendOTP(gomock.Any(), "traveller@example.com", gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "email already registered",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "otp delivery failure rolls back the staged registration",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockPendingRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPendingRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockMailer.EXPECT().
					SendOTP(gomock.Any(), "traveller@example.com", gomock.Any()).
					Return(errors.New("smtp timeout"))

				mockPendingRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
		{
			name: "existence check failure",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Register(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_VerifyOTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo, mockPendingRepo, mockJWT, _, svc := newAuthFixture(ctrl)

	pending := model.PendingRegistration{
		ID:        "pending-id-123",
		Username:  "traveller",
		Email:     "traveller@example.com",
		Password:  passwordHash,
		Role:      constant.RoleUser,
		OTP:       "482913",
		ExpiresAt: timezone.Now().Add(10 * time.Minute),
	}

	tests := []struct {
		name      string
		req       dto.VerifyOTPRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful verification creates the user",
			req: dto.VerifyOTPRequest{
				Email: "traveller@example.com",
				OTP:   "482913",
			},
			setupMock: func() {
				mockPendingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockUserRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPendingRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), "traveller@example.com", constant.RoleUser).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)
			},
		},
		{
			name: "wrong otp",
			req: dto.VerifyOTPRequest{
				Email: "traveller@example.com",
				OTP:   "000000",
			},
			setupMock: func() {
				mockPendingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr: true,
		},
		{
			name: "expired otp removes the staged registration",
			req: dto.VerifyOTPRequest{
				Email: "traveller@example.com",
				OTP:   "482913",
			},
			setupMock: func() {
				expired := pending
				expired.ExpiresAt = timezone.Now().Add(-time.Minute)

				mockPendingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(expired, nil)

				mockPendingRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
		{
			name: "no pending registration",
			req: dto.VerifyOTPRequest{
				Email: "stranger@example.com",
				OTP:   "482913",
			},
			setupMock: func() {
				mockPendingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.PendingRegistration{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.VerifyOTP(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access-token", result.AccessToken)
				assert.Equal(t, "traveller@example.com", result.User.Email)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo, _, mockJWT, _, svc := newAuthFixture(ctrl)

	validUser := userModel.User{
		ID:       "user-id-123",
		Username: "traveller",
		Email:    "traveller@example.com",
		Password: passwordHash,
		Role:     constant.RoleUser,
	}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "traveller@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)
			},
		},
		{
			name: "unknown email",
			req: dto.LoginRequest{
				Email:    "stranger@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "traveller@example.com",
				Password: "letmein",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)
			},
			wantErr: true,
		},
		{
			name: "token generation failure",
			req: dto.LoginRequest{
				Email:    "traveller@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Role).
					Return(nil, errors.New("signing failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access-token", result.AccessToken)
				assert.Equal(t, "refresh-token", result.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, mockJWT, _, svc := newAuthFixture(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful refresh",
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("refresh-token").
					Return(&jwt.TokenPair{
						AccessToken:  "new-access-token",
						RefreshToken: "new-refresh-token",
					}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("refresh-token").
					Return(nil, errors.New("token expired"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access-token", result.AccessToken)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo, _, _, _, svc := newAuthFixture(ctrl)

	validUser := userModel.User{
		ID:       "user-id-123",
		Email:    "traveller@example.com",
		Password: passwordHash,
	}

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful change",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "betterpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "wrong current password",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "guess",
				NewPassword:     "betterpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)
			},
			wantErr: true,
		},
		{
			name: "user not found",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "betterpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, "user-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
