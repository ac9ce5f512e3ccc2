// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/cache"
	"github.com/webreviewer/webreviewer/internal/mailer"
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Auth service errors.
var (
	ErrInvalidUsername     = errors.New("invalid username format")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrPasswordLoginOnly   = errors.New("account has no password login")
)

// Username validation regex: 3-20 chars, alphanumeric + underscore + hyphen.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

const minPasswordLength = 8

// AuthService handles accounts, sessions, and email verification.
type AuthService struct {
	repo            *repository.Repository
	cache           *cache.Cache
	tokens          *auth.TokenIssuer
	mailer          *mailer.Mailer
	logger          *slog.Logger
	verificationTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, cache *cache.Cache, tokens *auth.TokenIssuer, mailer *mailer.Mailer, logger *slog.Logger, verificationTTL time.Duration) *AuthService {
	return &AuthService{
		repo:            repo,
		cache:           cache,
		tokens:          tokens,
		mailer:          mailer,
		logger:          logger,
		verificationTTL: verificationTTL,
	}
}

// TokenPair is an access/refresh token set issued on login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// SignupInput defines input for a signup request.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SignupRequest creates an unverified account and emails a verification code.
func (s *AuthService) SignupRequest(ctx context.Context, input SignupInput) (*model.User, error) {
	username := cleanText(input.Username)
	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	taken, err := s.repo.UsernameExists(ctx, username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	switch {
	case err == nil && existing.EmailVerified:
		return nil, ErrEmailTaken
	case err == nil:
		// A stale unverified signup for this email gives way to the new one.
		if err := s.repo.DeleteUserCascade(ctx, existing.ID); err != nil {
			return nil, err
		}
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        input.Email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if err := s.issueVerificationCode(ctx, user); err != nil {
		// An account nobody can verify is useless; roll it back so the
		// email can be retried.
		if delErr := s.repo.DeleteUserCascade(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to roll back unverifiable signup", "user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	return user, nil
}

// VerifySignup consumes a verification code, marks the account verified,
// and logs the user in.
func (s *AuthService) VerifySignup(ctx context.Context, code string) (*model.User, *TokenPair, error) {
	user, err := s.consumeCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("email verified", "user_id", user.ID)
	return user, pair, nil
}

// CheckVerificationCode consumes a verification code and marks its owner
// verified, without logging the user in.
func (s *AuthService) CheckVerificationCode(ctx context.Context, code string) (*model.User, error) {
	return s.consumeCode(ctx, code)
}

// consumeCode validates a code, flips email_verified, and deletes the
// user's outstanding codes.
func (s *AuthService) consumeCode(ctx context.Context, code string) (*model.User, error) {
	vc, err := s.lookupCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkEmailVerified(ctx, vc.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.repo.DeleteVerificationCodesForUser(ctx, vc.UserID); err != nil {
		s.logger.Warn("failed to clear used verification codes", "error", err)
	}

	return s.repo.GetUserByID(ctx, vc.UserID)
}

// ResendVerificationEmail issues a fresh code for an unverified account.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.issueVerificationCode(ctx, user)
}

// VerificationStatus reports whether an account's email is verified.
func (s *AuthService) VerificationStatus(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.EmailVerified, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.HasPassword() {
		return nil, nil, ErrPasswordLoginOnly
	}
	ok, err := auth.VerifyPassword(password, *user.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, nil, ErrEmailNotVerified
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates a refresh token and issues a new pair. The old token's
// session is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	userID, err := s.cache.SessionUser(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if userID == "" || userID != claims.Subject {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, err
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	if err := s.cache.RotateSession(ctx, claims.ID, refresh.ID, user.ID, s.tokens.RefreshTTL()); err != nil {
		return nil, nil, err
	}

	return user, &TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Logout revokes the refresh session. An already-invalid token is not an
// error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.cache.RevokeSession(ctx, claims.ID)
}

// GetUser retrieves an account by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines input for a profile update. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

// UpdateProfile changes an account's username and/or email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	if input.Username != nil {
		username := cleanText(*input.Username)
		if !usernameRegex.MatchString(username) {
			return nil, ErrInvalidUsername
		}
		taken, err := s.repo.UsernameExists(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		input.Username = &username
	}
	if input.Email != nil {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			return nil, ErrInvalidEmail
		}
		taken, err := s.repo.EmailExists(ctx, *input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user, err := s.repo.UpdateUserProfile(ctx, userID, input.Username, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.HasPassword() {
		return ErrPasswordLoginOnly
	}

	ok, err := auth.VerifyPassword(current, *user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdateUserPassword(ctx, userID, hash)
}

// DeleteAccount removes an account and everything it authored. For accounts
// with a password the caller must supply it.
func (s *AuthService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.HasPassword() {
		ok, err := auth.VerifyPassword(password, *user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidCredentials
		}
	}

	if err := s.repo.DeleteUserCascade(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

// issueTokens creates an access/refresh pair and registers the refresh
// session in Redis.
func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.cache.PutSession(ctx, refresh.ID, user.ID, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// issueVerificationCode stores a fresh code for the user and emails it.
func (s *AuthService) issueVerificationCode(ctx context.Context, user *model.User) error {
	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now().UTC()
	vc := &model.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: now.Add(s.verificationTTL),
		CreatedAt: now,
	}
	if err := s.repo.ReplaceVerificationCode(ctx, vc); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Username, code); err != nil {
		s.logger.Error("failed to send verification email", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// lookupCode normalizes and fetches a verification code, deleting it when
// it turns out to be expired.
func (s *AuthService) lookupCode(ctx context.Context, raw string) (*model.VerificationCode, error) {
	code, ok := auth.NormalizeCode(raw)
	if !ok {
		return nil, ErrInvalidCode
	}

	vc, err := s.repo.GetVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if vc.Expired(time.Now().UTC()) {
		if err := s.repo.DeleteVerificationCode(ctx, code); err != nil {
			s.logger.Warn("failed to delete expired code", "error", err)
		}
		return nil, ErrCodeExpired
	}
	return vc, nil
}
