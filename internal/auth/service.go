// Package auth implements username/password accounts with revocable
// bearer sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coverletter-backend/internal/sessions"
	sharedauth "coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/users"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Result is returned by register and login.
type Result struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

type Service struct {
	Users      users.Repo
	Sessions   sessions.Repo
	Signer     *sharedauth.Signer
	SessionTTL time.Duration
	Cost       int
	Now        func() time.Time
}

func NewService(userRepo users.Repo, sessionRepo sessions.Repo, signer *sharedauth.Signer, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		Users:      userRepo,
		Sessions:   sessionRepo,
		Signer:     signer,
		SessionTTL: ttl,
		Cost:       bcrypt.DefaultCost,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, username, password string) (Result, error) {
	username = users.NormalizeUsername(username)
	if len(username) < minUsernameLength {
		return Result{}, fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, minUsernameLength)
	}
	if len(password) < minPasswordLength {
		return Result{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}
	user := users.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			return Result{}, ErrUsernameTaken
		}
		return Result{}, err
	}
	telemetry.Info("auth.register", map[string]any{"user_id": user.ID})
	return s.openSession(ctx, user)
}

// Login checks credentials and opens a new session.
func (s *Service) Login(ctx context.Context, username, password string) (Result, error) {
	user, err := s.Users.GetByUsername(ctx, users.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Result{}, ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// Logout revokes the session. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a bearer token to a live session. Expired
// sessions are deleted when encountered.
func (s *Service) Authenticate(ctx context.Context, token string) (middleware.Principal, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return middleware.Principal{}, ErrUnauthorized
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return middleware.Principal{}, ErrUnauthorized
		}
		return middleware.Principal{}, err
	}
	if sess.UserID != claims.Subject {
		return middleware.Principal{}, ErrUnauthorized
	}
	if sess.Expired(s.now()) {
		if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
			telemetry.Warn("auth.session_cleanup_failed", map[string]any{"session_id": sess.ID, "error": err})
		}
		return middleware.Principal{}, ErrSessionExpired
	}
	return middleware.Principal{UserID: sess.UserID, Username: claims.Username, SessionID: sess.ID}, nil
}

// ResetPassword changes the password and revokes every other session.
func (s *Service) ResetPassword(ctx context.Context, p middleware.Principal, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	user, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.Cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	revoked, err := s.Sessions.DeleteByUser(ctx, user.ID, p.SessionID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	telemetry.Info("auth.password_reset", map[string]any{"user_id": user.ID, "revoked_sessions": revoked})
	return nil
}

func (s *Service) openSession(ctx context.Context, user users.User) (Result, error) {
	now := s.now()
	sess := sessions.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.SessionTTL),
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return Result{}, fmt.Errorf("create session: %w", err)
	}
	token, err := s.Signer.Sign(user.ID, user.Username, sess.ID, s.SessionTTL)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, User: user}, nil
}

var _ middleware.Authenticator = (*Service)(nil)
