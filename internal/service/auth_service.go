package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/config"
	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/domain"
	"github.com/gaganrajn/urban-company-backend/internal/events"
	"github.com/gaganrajn/urban-company-backend/internal/metrics"
	"github.com/gaganrajn/urban-company-backend/internal/models"
	"github.com/gaganrajn/urban-company-backend/internal/sms"
)

// AuthService runs the phone + OTP login flow.
type AuthService struct {
	store      domain.Store
	throttle   domain.Throttle
	gateway    sms.Gateway
	tokens     *auth.TokenManager
	eventBus   domain.EventPublisher
	cfg        config.AuthConfig
	production bool
	logger     *zerolog.Logger
}

func NewAuthService(
	store domain.Store,
	throttle domain.Throttle,
	gateway sms.Gateway,
	tokens *auth.TokenManager,
	eventBus domain.EventPublisher,
	cfg config.AuthConfig,
	production bool,
	logger *zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		throttle:   throttle,
		gateway:    gateway,
		tokens:     tokens,
		eventBus:   eventBus,
		cfg:        cfg,
		production: production,
		logger:     logger,
	}
}

// SendOTPResult reports a successful code dispatch. TestOTP is only set
// outside production so integration clients can log in without a real
// phone.
type SendOTPResult struct {
	TestOTP string
}

// SendOTP issues a code for the phone and dispatches it over SMS. The
// code is persisted on the user row only after the gateway accepted the
// message, so a failed send leaves no partial state.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (*SendOTPResult, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	allowed, err := s.throttle.Allow(ctx, phone, s.cfg.OTPSendLimit, s.cfg.OTPSendWindow())
	if err != nil {
		return nil, fmt.Errorf("otp throttle check: %w", err)
	}
	if !allowed {
		metrics.IncOTPSend("throttled")
		return nil, ErrTooManyRequests
	}

	otp := auth.IssueOTP(time.Now(), s.cfg.OTPTTL())
	message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", otp.Code, int(s.cfg.OTPTTL().Minutes()))

	if err := s.gateway.Send(ctx, phone, message); err != nil {
		metrics.IncOTPSend("failed")
		s.logger.Error().Err(err).Str("phone", phone).Msg("sms dispatch failed")
		return nil, fmt.Errorf("%w: %v", ErrSMSDelivery, err)
	}

	if _, err := s.store.SetUserOTP(ctx, phone, otp.Code, otp.ExpiresAt); err != nil {
		return nil, fmt.Errorf("persist otp: %w", err)
	}

	metrics.IncOTPSend("sent")
	s.logger.Info().Str("phone", phone).Time("expires_at", otp.ExpiresAt).Msg("otp sent")

	result := &SendOTPResult{}
	if !s.production {
		result.TestOTP = otp.Code
	}
	return result, nil
}

// VerifyOTP checks the submitted code, consumes it, applies optional
// registration fields and mints a session token.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string, name, email, role *string) (*models.User, string, error) {
	if !isValidPhone(phone) {
		return nil, "", ErrInvalidPhone
	}
	if role != nil && !models.IsValidRole(*role) {
		return nil, "", ErrInvalidRole
	}

	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrNoPendingOTP
		}
		return nil, "", err
	}
	if !user.HasPendingOTP() {
		return nil, "", ErrNoPendingOTP
	}
	if !user.IsActive {
		return nil, "", ErrUserDisabled
	}

	if err := auth.VerifyOTP(user.OTPCode, code, *user.OTPExpiresAt, time.Now()); err != nil {
		return nil, "", err
	}

	// The code is single use: clear the pair before anything else.
	if err := s.store.ClearUserOTP(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("clear otp: %w", err)
	}

	if name != nil || email != nil || role != nil {
		if err := s.store.ApplyRegistration(ctx, user.ID, name, email, role); err != nil {
			return nil, "", fmt.Errorf("apply registration: %w", err)
		}
	}

	user, err = s.store.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventUserVerified, events.UserEventPayload{
			UserID: user.ID,
			Phone:  user.Phone,
			Role:   user.Role,
		})
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user verified")
	return user, token, nil
}

// Me resolves the current user from validated claims.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// Logout is a stateless acknowledgement: tokens expire on their own and
// there is no server-side session to destroy.
func (s *AuthService) Logout(ctx context.Context, userID int64) {
	s.logger.Info().Int64("user_id", userID).Msg("user logged out")
}

func isValidPhone(phone string) bool {
	if len(phone) != models.PhoneLength {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
