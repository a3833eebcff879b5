package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/cache"
	"github.com/openlms/lms-service/internal/events"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/utils"
	"github.com/openlms/lms-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	jwt       *utils.JWTManager
	tokens    cache.TokenStore
	publisher events.EventPublisher
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, jwt *utils.JWTManager, tokens cache.TokenStore, publisher events.EventPublisher) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		jwt:       jwt,
		tokens:    tokens,
		publisher: publisher,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if errors := s.validator.GetBusinessValidator().ValidateRegister(req); len(errors) > 0 {
		return nil, errors
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Phone:        req.Phone,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, validator.ValidationErrors{{
				Field:   "email",
				Message: "is already registered",
				Rule:    "unique",
			}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventUserRegistered, &events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName(),
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}))

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Logout(ctx context.Context, req *LogoutRequest) error {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return errors
	}

	claims, err := s.jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return ErrInvalidCredentials
	}

	revoked, err := s.tokens.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}

	// Keep the token denylisted until it would have expired on its own.
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokens.Revoke(ctx, req.RefreshToken, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("User logged out", "user_id", claims.UserID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error) {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Email and role are immutable; only profile fields can change.
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return user, nil
}

func (s *authService) ForgetPassword(ctx context.Context, req *ForgetPasswordRequest) error {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return errors
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return validator.ValidationErrors{{
				Field:   "email",
				Message: "no account registered with this email",
				Rule:    "exists",
			}}
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token := &models.PasswordResetToken{
		UserID: user.ID,
		Token:  uuid.NewString(),
	}
	if err := s.repo.PasswordResetToken().Create(ctx, nil, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	// The token only travels through the event to the mail consumer.
	s.publishEvent(ctx, events.NewEvent(events.EventPasswordResetRequested, &events.PasswordResetRequestedEvent{
		UserID:     user.ID,
		Email:      user.Email,
		FullName:   user.FullName(),
		ResetToken: token.Token,
	}))

	s.logger.Info("Password reset requested", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if errors := s.validator.GetBusinessValidator().ValidateResetPassword(req); len(errors) > 0 {
		return errors
	}

	token, err := s.repo.PasswordResetToken().Consume(ctx, nil, req.Token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdatePasswordHash(ctx, nil, token.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", token.UserID)
	return nil
}

func (s *authService) issueTokens(user *models.User) (TokenPair, error) {
	access, _, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, _, err := s.jwt.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// publishEvent logs and moves on when the broker is unavailable; auth flows
// never fail because an event could not be delivered.
func (s *authService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
