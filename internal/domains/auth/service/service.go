package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"ghumakad/config"
	"ghumakad/infras/jwt"
	"ghumakad/infras/mailer"
	"ghumakad/infras/otel"
	"ghumakad/internal/domains/auth/model"
	"ghumakad/internal/domains/auth/model/dto"
	"ghumakad/internal/domains/auth/repository"
	userModel "ghumakad/internal/domains/user/model"
	userRepo "ghumakad/internal/domains/user/repository"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/failure"
	"ghumakad/shared/password"
	"ghumakad/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	userRepo    userRepo.User
	pendingRepo repository.PendingRegistration
	cfg         *config.Config
	otel        otel.Otel
	jwtService  jwt.JWT
	mailer      mailer.Mailer
}

func New(userRepo userRepo.User, pendingRepo repository.PendingRegistration, cfg *config.Config, otel otel.Otel, jwt jwt.JWT, mailer mailer.Mailer) Auth {
	return &serviceImpl{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		cfg:         cfg,
		otel:        otel,
		jwtService:  jwt,
		mailer:      mailer,
	}
}

// Register stages the signup and mails the OTP. The user row is only created
// once the OTP is verified. A failed OTP delivery fails the registration,
// without it the flow cannot complete.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, emailFilter(userModel.FieldEmail, userModel.TableName, req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := generateOTP(s.cfg.App.OTPLengthDigits)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate otp")

		return fmt.Errorf("failed to generate otp: %w", err)
	}

	pendingFilter := emailFilter(model.FieldEmail, model.TableName, req.Email)

	// Re-registration replaces any earlier staged attempt.
	if err = s.pendingRepo.Delete(ctx, pendingFilter); err != nil {
		log.Error().Err(err).Msg("failed to clear previous registration attempt")

		return fmt.Errorf("failed to clear previous registration attempt: %w", err)
	}

	expiresAt := timezone.Now().Add(time.Duration(s.cfg.App.OTPExpireMinutes) * time.Minute)

	if err = s.pendingRepo.Insert(ctx, req.ToPendingModel(hashedPassword, otp, expiresAt)); err != nil {
		log.Error().Err(err).Msg("failed to stage registration")

		return fmt.Errorf("failed to stage registration: %w", err)
	}

	if err = s.mailer.SendOTP(ctx, req.Email, otp); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to send otp email")

		if cleanupErr := s.pendingRepo.Delete(ctx, pendingFilter); cleanupErr != nil {
			log.Error().Err(cleanupErr).Msg("failed to clean up staged registration")
		}

		return failure.UpstreamFailure("failed to send verification email") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyOTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	pendingFilter := emailFilter(model.FieldEmail, model.TableName, req.Email)

	pending, err := s.pendingRepo.Get(ctx, pendingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pending registration")

		return res, fmt.Errorf("failed to get pending registration: %w", err)
	}

	if pending.ID == constant.Empty {
		return res, failure.BadRequestFromString("no pending registration for this email")
	}

	if pending.Expired(timezone.Now()) {
		if err := s.pendingRepo.Delete(ctx, pendingFilter); err != nil {
			log.Error().Err(err).Msg("failed to delete expired registration")
		}

		return res, failure.BadRequestFromString("otp expired, register again")
	}

	if pending.OTP != req.OTP {
		return res, failure.BadRequestFromString("invalid otp")
	}

	user := dto.ToUserModel(pending)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.pendingRepo.Delete(ctx, pendingFilter); err != nil {
		log.Error().Err(err).Msg("failed to delete verified registration")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := emailFilter(userModel.FieldEmail, userModel.TableName, req.Email)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil || user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found")
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, user.ID)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func emailFilter(field, table, email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    table,
			},
		},
	}
}

func generateOTP(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to read random otp: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
