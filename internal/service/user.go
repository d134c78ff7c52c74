package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/auth"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type DepartmentRepositoryInterface interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

type TokenRepositoryInterface interface {
	Create(ctx context.Context, token *domain.APIToken) error
	GetByHash(ctx context.Context, keyHash string) (*domain.APIToken, error)
	Revoke(ctx context.Context, keyHash string) error
}

type Enroller interface {
	Enroll(ctx context.Context, userID uuid.UUID, image []byte) ([]float64, error)
}

// RegisterInput is a new user as submitted by the registration kiosk.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	DepartmentID *uuid.UUID
	Photo        []byte
}

// RegisterResult reports what registration produced. Enrolled is false
// when the photo could not be turned into an embedding; the account
// still exists and can be enrolled later.
type RegisterResult struct {
	User         *domain.User
	Enrolled     bool
	EnrollReason string
}

// UserService manages accounts, sessions and departments.
type UserService struct {
	users       UserRepositoryInterface
	departments DepartmentRepositoryInterface
	tokens      TokenRepositoryInterface
	enroller    Enroller
	jwt         *auth.JWTService
	logger      *slog.Logger
}

func NewUserService(
	users UserRepositoryInterface,
	departments DepartmentRepositoryInterface,
	tokens TokenRepositoryInterface,
	enroller Enroller,
	jwt *auth.JWTService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		departments: departments,
		tokens:      tokens,
		enroller:    enroller,
		jwt:         jwt,
		logger:      logger,
	}
}

// Register creates the account and, when a photo was submitted, tries
// to enroll it. Account creation is authoritative; enrollment is
// best-effort and its failure is reported, not fatal.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidationFailed
	}

	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
	}

	password := input.Password
	if password == "" {
		password = auth.DefaultPassword(email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		DepartmentID: input.DepartmentID,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	result := &RegisterResult{User: user}

	if len(input.Photo) > 0 {
		if _, err := s.enroller.Enroll(ctx, user.ID, input.Photo); err != nil {
			result.EnrollReason = enrollFailureReason(err)
			s.logger.Warn("enrollment failed during registration",
				slog.String("user_id", user.ID.String()),
				slog.String("reason", result.EnrollReason),
			)
		} else {
			result.Enrolled = true
		}
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Bool("enrolled", result.Enrolled),
	)

	return result, nil
}

// Authenticate verifies credentials and issues a session token. The
// token is also stored hashed so it can be revoked on logout; a failed
// store still returns a usable token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, domain.ErrInternal.WithError(err)
	}

	expiresAt := s.jwt.ExpiresIn()
	record := &domain.APIToken{
		UserID:  user.ID,
		KeyHash: auth.HashToken(token),
	}
	if expiresAt > 0 {
		t := time.Now().Add(expiresAt)
		record.ExpiresAt = &t
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		s.logger.Warn("token store failed", slog.String("error", err.Error()))
	}

	return token, user, nil
}

// Logout revokes the session token server-side. Best-effort: an
// unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, auth.HashToken(token))
}

// IsRevoked reports whether the token was revoked. Unknown tokens are
// not revoked: tokens issued before a store outage must keep working.
func (s *UserService) IsRevoked(ctx context.Context, token string) bool {
	record, err := s.tokens.GetByHash(ctx, auth.HashToken(token))
	if err != nil {
		return false
	}
	return !record.Valid()
}

// GetByID loads one user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListDepartments returns all departments ordered by name.
func (s *UserService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

// CreateDepartment adds a department.
func (s *UserService) CreateDepartment(ctx context.Context, name, location string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidationFailed
	}

	dept := &domain.Department{Name: name, Location: strings.TrimSpace(location)}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func enrollFailureReason(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "embedding extraction failed"
}
