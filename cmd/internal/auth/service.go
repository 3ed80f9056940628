package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arathikrishnaam/dueDash/cmd/identity"
	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/security/password"
	"github.com/arathikrishnaam/dueDash/cmd/security/token"
)

// Service wires the user store, the password hasher and the token codec.
type Service struct {
	log    *slog.Logger
	users  identity.Store
	hasher password.Config
	codec  *token.Codec

	dummyHash string
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for auth events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService builds the gateway. All dependencies are required.
func NewService(users identity.Store, hasher password.Config, codec *token.Codec, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: nil user store")
	}
	if codec == nil {
		return nil, errors.New("auth: nil token codec")
	}

	s := &Service{
		log:    slog.Default(),
		users:  users,
		hasher: hasher,
		codec:  codec,
	}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}

	// Unknown usernames are verified against this so both login failures
	// take comparable time.
	dummy, err := hasher.Dummy()
	if err != nil {
		return nil, fmt.Errorf("auth: dummy hash: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Signup registers username with password.
func (s *Service) Signup(ctx context.Context, username, pw string) (identity.User, error) {
	username = identity.NormalizeUsername(username)
	if username == "" {
		return identity.User{}, apperr.Invalid("username", "is required")
	}
	if !identity.ValidUsername(username) {
		return identity.User{}, apperr.Invalid("username", fmt.Sprintf("must be at most %d characters", identity.MaxUsernameLength))
	}
	if err := s.hasher.Validate(pw); err != nil {
		return identity.User{}, apperr.Invalid("password", passwordReason(err))
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		s.log.Info("auth.signup.fail", "reason", "username_taken")
		return identity.User{}, ErrUsernameTaken
	case !apperr.IsNotFound(err):
		return identity.User{}, err
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return identity.User{}, fmt.Errorf("auth.Signup: hash: %w", err)
	}

	u, err := s.users.CreateUser(ctx, identity.CreateUserInput{Username: username, PasswordHash: hash})
	if err != nil {
		if apperr.IsConflict(err) {
			// Lost a race with a concurrent signup for the same name.
			s.log.Info("auth.signup.fail", "reason", "username_taken")
			return identity.User{}, ErrUsernameTaken
		}
		return identity.User{}, err
	}

	s.log.Info("auth.signup", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues an access token whose subject is the username.
func (s *Service) Login(ctx context.Context, username, pw string) (token.Issued, error) {
	username = identity.NormalizeUsername(username)

	ua, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return token.Issued{}, err
		}
		_, _ = s.hasher.Verify(s.dummyHash, pw)
		s.log.Info("auth.login.failed", "reason", "not_found")
		return token.Issued{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ua.PasswordHash, pw)
	if err != nil || !ok {
		reason := "bad_password"
		if err != nil {
			reason = "bad_hash"
		}
		s.log.Info("auth.login.failed", "reason", reason, "user_id", ua.ID)
		return token.Issued{}, ErrInvalidCredentials
	}

	issued, err := s.codec.Encode(ua.Username)
	if err != nil {
		return token.Issued{}, fmt.Errorf("auth.Login: encode: %w", err)
	}

	s.log.Info("auth.login.success", "user_id", ua.ID)
	return issued, nil
}

// ResolveCurrentUser decodes raw and loads the user it names.
func (s *Service) ResolveCurrentUser(ctx context.Context, raw string) (identity.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return identity.User{}, ErrInvalidCredentials
	}

	claims, err := s.codec.Decode(raw)
	if err != nil {
		return identity.User{}, err
	}

	ua, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if apperr.IsNotFound(err) {
			return identity.User{}, ErrInvalidCredentials
		}
		return identity.User{}, err
	}
	return ua.User, nil
}

func passwordReason(err error) string {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return "is too short"
	case errors.Is(err, password.ErrPasswordTooLong):
		return "is too long"
	case errors.Is(err, password.ErrWeakPassword):
		return "is too weak"
	default:
		return "is invalid"
	}
}
