package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Google OAuth errors.
var (
	ErrGoogleNotConfigured = errors.New("google oauth not configured")
	ErrGoogleExchange      = errors.New("google code exchange failed")
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	maxUsernameSuffix = 100
)

// GoogleService handles the Google OAuth login flow.
type GoogleService struct {
	auth         *AuthService
	repo         *repository.Repository
	client       *http.Client
	clientID     string
	clientSecret string
	redirectURL  string
	logger       *slog.Logger
}

// NewGoogleService creates a new GoogleService. An empty client ID leaves
// the flow disabled.
func NewGoogleService(auth *AuthService, repo *repository.Repository, clientID, clientSecret, redirectURL string, logger *slog.Logger) *GoogleService {
	return &GoogleService{
		auth:         auth,
		repo:         repo,
		client:       &http.Client{Timeout: 10 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		logger:       logger,
	}
}

// Enabled reports whether Google OAuth credentials are configured.
func (s *GoogleService) Enabled() bool {
	return s.clientID != ""
}

// AuthURL builds the Google consent page URL for the login redirect.
func (s *GoogleService) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return "https://accounts.google.com/o/oauth2/v2/auth?" + q.Encode()
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleCallback exchanges the authorization code, resolves the account
// (linking or creating it as needed), and issues a token pair. Google
// accounts are treated as email-verified.
func (s *GoogleService) HandleCallback(ctx context.Context, code string) (*model.User, *TokenPair, error) {
	if !s.Enabled() {
		return nil, nil, ErrGoogleNotConfigured
	}

	accessToken, err := s.exchangeCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	info, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.resolveUser(ctx, info)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.auth.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("google login", "user_id", user.ID)
	return user, pair, nil
}

// exchangeCode trades the authorization code for a Google access token.
func (s *GoogleService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("redirect_uri", s.redirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrGoogleExchange
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", ErrGoogleExchange
	}
	return body.AccessToken, nil
}

// fetchUserInfo retrieves the Google profile for an access token.
func (s *GoogleService) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGoogleExchange
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, ErrGoogleExchange
	}
	return &info, nil
}

// resolveUser finds the account for a Google identity. An existing account
// with the same email gets the Google ID linked; otherwise a new verified
// account is created.
func (s *GoogleService) resolveUser(ctx context.Context, info *googleUserInfo) (*model.User, error) {
	user, err := s.repo.GetUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.repo.GetUserByEmail(ctx, info.Email)
	if err == nil {
		if err := s.repo.LinkGoogleID(ctx, user.ID, info.ID); err != nil {
			return nil, err
		}
		if !user.EmailVerified {
			if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
				return nil, err
			}
			user.EmailVerified = true
		}
		user.GoogleID = &info.ID
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	username, err := s.pickUsername(ctx, info)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		ID:            ulid.Make().String(),
		Username:      username,
		Email:         info.Email,
		GoogleID:      &info.ID,
		Role:          model.RoleUser,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// pickUsername derives a username from the Google profile, appending a
// numeric suffix on collision.
func (s *GoogleService) pickUsername(ctx context.Context, info *googleUserInfo) (string, error) {
	base := sanitizeUsername(info.Name)
	if base == "" {
		base = sanitizeUsername(strings.SplitN(info.Email, "@", 2)[0])
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; i <= maxUsernameSuffix; i++ {
		taken, err := s.repo.UsernameExists(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", errors.New("failed to pick a unique username")
}

// sanitizeUsername keeps only characters valid in a username and trims to
// the maximum length.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 20 {
		out = out[:20]
	}
	if len(out) < 3 {
		return ""
	}
	return out
}
