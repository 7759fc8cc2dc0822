package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/observability"
)

var _ Service = (*ServiceImpl)(nil)

// Service manages accounts and the session slot of the calling client.
type Service interface {
	Signup(ctx context.Context, email, password, name string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.User, error)
	// UpdateProfile overwrites every profile field of a registered account.
	// Callers merge partial edits themselves.
	UpdateProfile(ctx context.Context, user types.User) (*types.User, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	gateway  *storage.Gateway
	hashCost int
}

type Option func(*ServiceImpl)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *ServiceImpl) { s.hashCost = cost }
}

func NewServiceImpl(gateway *storage.Gateway, logger *slog.Logger, opts ...Option) *ServiceImpl {
	s := &ServiceImpl{
		logger:   logger,
		gateway:  gateway,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ServiceImpl) Signup(ctx context.Context, email, password, name string) (user *types.User, err error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "Signup", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()
	defer func() { observability.AccountOperationsTotal.WithLabelValues("signup", observability.Outcome(err)).Inc() }()

	l := s.logger.With(slog.String("method", "Signup"), slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := types.UserRecord{
		User: types.User{
			Email: email,
			Name:  name,
			Bio:   types.DefaultBio,
		},
		PasswordHash: string(hash),
	}

	err = s.gateway.UpdateUsers(ctx, func(users map[string]types.UserRecord) error {
		if _, exists := users[email]; exists {
			return types.ErrDuplicateAccount
		}
		users[email] = record
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrDuplicateAccount) {
			l.InfoContext(ctx, "Signup rejected, email already registered")
		} else {
			l.ErrorContext(ctx, "Failed to store new account", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "signup failed")
		return nil, fmt.Errorf("signup: %w", err)
	}

	if err := s.gateway.SetSession(ctx, record); err != nil {
		l.ErrorContext(ctx, "Failed to open session", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "Account created")
	span.SetStatus(codes.Ok, "account created")
	return record.Profile(), nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (user *types.User, err error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()
	defer func() { observability.AccountOperationsTotal.WithLabelValues("login", observability.Outcome(err)).Inc() }()

	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	users, err := s.gateway.Users(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load accounts", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	record, ok := users[email]
	if !ok {
		span.SetStatus(codes.Error, "unknown email")
		return nil, fmt.Errorf("login: user %s: %w", email, types.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			l.InfoContext(ctx, "Login rejected, wrong password")
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, fmt.Errorf("login: %w", types.ErrInvalidCredentials)
		}
		l.ErrorContext(ctx, "Stored password hash is unusable", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("login: failed to verify password: %w", err)
	}

	if err := s.gateway.SetSession(ctx, record); err != nil {
		l.ErrorContext(ctx, "Failed to open session", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User logged in")
	span.SetStatus(codes.Ok, "logged in")
	return record.Profile(), nil
}

// Logout clears the session slot only; the account is untouched.
func (s *ServiceImpl) Logout(ctx context.Context) error {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "Logout")
	defer span.End()

	err := s.gateway.ClearSession(ctx)
	observability.AccountOperationsTotal.WithLabelValues("logout", observability.Outcome(err)).Inc()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear session", slog.Any("error", err))
		span.RecordError(err)
		return err
	}
	return nil
}

// CurrentUser returns the session user, or nil when nobody is logged in.
func (s *ServiceImpl) CurrentUser(ctx context.Context) (*types.User, error) {
	record, err := s.gateway.Session(ctx)
	if err != nil {
		return nil, err
	}
	return record.Profile(), nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, user types.User) (updated *types.User, err error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.email", user.Email),
	))
	defer span.End()
	defer func() { observability.AccountOperationsTotal.WithLabelValues("update_profile", observability.Outcome(err)).Inc() }()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("email", user.Email))

	var record types.UserRecord
	err = s.gateway.UpdateUsers(ctx, func(users map[string]types.UserRecord) error {
		existing, ok := users[user.Email]
		if !ok {
			return fmt.Errorf("user %s: %w", user.Email, types.ErrNotFound)
		}
		record = types.UserRecord{User: user, PasswordHash: existing.PasswordHash}
		users[user.Email] = record
		return nil
	})
	if err != nil {
		l.WarnContext(ctx, "Profile update failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := s.gateway.SetSession(ctx, record); err != nil {
		l.ErrorContext(ctx, "Failed to refresh session", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "Profile updated")
	span.SetStatus(codes.Ok, "profile updated")
	return record.Profile(), nil
}
