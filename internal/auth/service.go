package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/email"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

const minPasswordLength = 8

// dummyHash is compared against when the email is unknown, keeping login
// timing independent of account existence
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service handles account lifecycle and session tokens
type Service struct {
	repos  *db.Repositories
	issuer *TokenIssuer
	sender email.Sender
	cfg    config.AuthConfig
}

// NewService creates a new auth service
func NewService(repos *db.Repositories, issuer *TokenIssuer, sender email.Sender, cfg config.AuthConfig) *Service {
	return &Service{repos: repos, issuer: issuer, sender: sender, cfg: cfg}
}

// Register creates an unverified account and sends the verification email.
// Email delivery failure does not fail registration; the verification email
// can be requested again by logging in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user := models.NewUser(name, email, string(hashed))
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerification(user)

	logger.Log.Info().
		Str("user_id", user.ID.String()).
		Msg("User registered")
	return user, nil
}

// VerifyEmail marks the account behind a verification token as verified.
// Verifying twice is harmless.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.issuer.ParseVerificationToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsVerified {
		return nil
	}

	user.IsVerified = true
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	logger.Log.Info().Str("user_id", user.ID.String()).Msg("Email verified")
	return nil
}

// Login checks credentials and issues a token pair. An unverified account
// gets a fresh verification email instead of a session.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*TokenPair, *models.User, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if db.IsNotFound(err) {
			// Run the hash comparison anyway so unknown emails take as
			// long as wrong passwords
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		s.sendVerification(user)
		return nil, nil, ErrNotVerified
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return pair, user, nil
}

// Refresh rotates the session: the presented refresh token is spent and a
// new pair is issued. An expired or unknown token yields ErrInvalidToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByRefreshTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if user.RefreshTokenExpiry == nil || time.Now().UTC().After(*user.RefreshTokenExpiry) {
		return nil, ErrInvalidToken
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the user's refresh token. Access tokens stay valid until
// they expire on their own.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.HashedRefreshToken = nil
	user.RefreshTokenExpiry = nil
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// GetUser returns the account behind a user id
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the user's display name
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.Name = name
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ForgotPassword sends a reset link when the email is registered. Unknown
// emails are answered identically so the endpoint cannot be used to probe
// which addresses have accounts.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.issuer.ResetToken(user.ID, s.cfg.ResetTokenTTL, user.PasswordChangedAt)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)
	if err := s.sender.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		logger.Log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send reset email")
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password from a reset token. The token is single
// use in effect: it carries the password generation it was minted under, and
// the change it performs invalidates that generation.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	claims, err := s.issuer.ParseResetToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.PasswordChangedAt != nil && claims.PasswordChangedAt != user.PasswordChangedAt.Unix() {
		return ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user.HashedPassword = string(hashed)
	user.PasswordChangedAt = &now
	user.HashedRefreshToken = nil
	user.RefreshTokenExpiry = nil
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	logger.Log.Info().Str("user_id", user.ID.String()).Msg("Password reset")
	return nil
}

// ValidateAccess checks an access token and returns the authenticated user
// id. A token minted before the last password change is rejected.
func (s *Service) ValidateAccess(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.issuer.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.PasswordChangedAt != nil && claims.PasswordChangedAt != user.PasswordChangedAt.Unix() {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// issueSession mints a token pair and stores the refresh token hash
func (s *Service) issueSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.issuer.AccessToken(user.ID, s.cfg.AccessTokenTTL, user.PasswordChangedAt)
	if err != nil {
		return nil, err
	}

	refresh, hash, err := NewRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().UTC().Add(s.cfg.RefreshTokenTTL)
	user.HashedRefreshToken = &hash
	user.RefreshTokenExpiry = &expiry
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(s.cfg.AccessTokenTTL),
	}, nil
}

// sendVerification mints a verification token and emails the link. Failures
// are logged, not returned; the caller's operation already succeeded.
func (s *Service) sendVerification(user *models.User) {
	token, err := s.issuer.VerificationToken(user.ID, s.cfg.VerificationTokenTTL)
	if err != nil {
		logger.Log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to mint verification token")
		return
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)
	if err := s.sender.SendVerification(user.Email, user.Name, verifyURL); err != nil {
		logger.Log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send verification email")
	}
}
