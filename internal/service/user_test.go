package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/auth"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func newUserService(
	users *MockUserRepository,
	departments *MockDepartmentRepository,
	tokens *MockTokenRepository,
	enroller *MockEnroller,
) *UserService {
	jwt := auth.NewJWTService("test-secret", "ponto", 24*time.Hour)
	return NewUserService(users, departments, tokens, enroller, jwt, testLogger())
}

func TestUserService_Register(t *testing.T) {
	deptID := uuid.New()

	t.Run("creates user with default password", func(t *testing.T) {
		users := &MockUserRepository{}

		var created *domain.User
		users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
			created.ID = uuid.New()
		}).Return(nil)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		result, err := svc.Register(context.Background(), RegisterInput{
			Name:  "Maria Silva",
			Email: "  Maria@Example.com ",
		})
		require.NoError(t, err)

		assert.Equal(t, "maria@example.com", result.User.Email)
		assert.False(t, result.Enrolled)
		require.NotNil(t, created)
		assert.True(t, auth.CheckPassword(created.PasswordHash, "maria123"))
	})

	t.Run("photo enrolls the user", func(t *testing.T) {
		users := &MockUserRepository{}
		enroller := &MockEnroller{}

		users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = uuid.New()
		}).Return(nil)
		enroller.On("Enroll", mock.Anything, mock.Anything, []byte("photo")).Return([]float64{1, 0, 0}, nil)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, enroller)

		result, err := svc.Register(context.Background(), RegisterInput{
			Name:  "Maria Silva",
			Email: "maria@example.com",
			Photo: []byte("photo"),
		})
		require.NoError(t, err)
		assert.True(t, result.Enrolled)
		assert.Empty(t, result.EnrollReason)
	})

	t.Run("failed enrollment does not fail registration", func(t *testing.T) {
		users := &MockUserRepository{}
		enroller := &MockEnroller{}

		users.On("Create", mock.Anything, mock.Anything).Return(nil)
		enroller.On("Enroll", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrNoFaceDetected)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, enroller)

		result, err := svc.Register(context.Background(), RegisterInput{
			Name:  "Maria Silva",
			Email: "maria@example.com",
			Photo: []byte("photo"),
		})
		require.NoError(t, err)
		assert.False(t, result.Enrolled)
		assert.Equal(t, "No face detected in the image", result.EnrollReason)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUserExists)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		_, err := svc.Register(context.Background(), RegisterInput{
			Name:  "Maria Silva",
			Email: "maria@example.com",
		})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("unknown department", func(t *testing.T) {
		departments := &MockDepartmentRepository{}
		departments.On("GetByID", mock.Anything, deptID).Return(nil, domain.ErrDepartmentNotFound)

		svc := newUserService(&MockUserRepository{}, departments, &MockTokenRepository{}, &MockEnroller{})

		_, err := svc.Register(context.Background(), RegisterInput{
			Name:         "Maria Silva",
			Email:        "maria@example.com",
			DepartmentID: &deptID,
		})
		assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := newUserService(&MockUserRepository{}, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		_, err := svc.Register(context.Background(), RegisterInput{Name: "", Email: "maria@example.com"})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)

		_, err = svc.Register(context.Background(), RegisterInput{Name: "Maria", Email: "not-an-email"})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Maria Silva",
		Email:        "maria@example.com",
		PasswordHash: hash,
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		users := &MockUserRepository{}
		tokens := &MockTokenRepository{}

		users.On("GetByEmail", mock.Anything, "maria@example.com").Return(user, nil)
		tokens.On("Create", mock.Anything, mock.MatchedBy(func(tok *domain.APIToken) bool {
			return tok.UserID == user.ID && tok.KeyHash != "" && tok.ExpiresAt != nil
		})).Return(nil)

		svc := newUserService(users, &MockDepartmentRepository{}, tokens, &MockEnroller{})

		token, got, err := svc.Authenticate(context.Background(), "maria@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, got.ID)

		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("GetByEmail", mock.Anything, "maria@example.com").Return(user, nil)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		_, _, err := svc.Authenticate(context.Background(), "maria@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrUserNotFound)

		svc := newUserService(users, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		_, _, err := svc.Authenticate(context.Background(), "nobody@example.com", "s3cret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("token store outage still returns a token", func(t *testing.T) {
		users := &MockUserRepository{}
		tokens := &MockTokenRepository{}

		users.On("GetByEmail", mock.Anything, "maria@example.com").Return(user, nil)
		tokens.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		svc := newUserService(users, &MockDepartmentRepository{}, tokens, &MockEnroller{})

		token, _, err := svc.Authenticate(context.Background(), "maria@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestUserService_LogoutAndRevocation(t *testing.T) {
	t.Run("logout revokes the token hash", func(t *testing.T) {
		tokens := &MockTokenRepository{}
		tokens.On("Revoke", mock.Anything, auth.HashToken("session-token")).Return(nil)

		svc := newUserService(&MockUserRepository{}, &MockDepartmentRepository{}, tokens, &MockEnroller{})

		require.NoError(t, svc.Logout(context.Background(), "session-token"))
		tokens.AssertExpectations(t)
	})

	t.Run("revoked token is reported", func(t *testing.T) {
		tokens := &MockTokenRepository{}
		tokens.On("GetByHash", mock.Anything, auth.HashToken("session-token")).Return(&domain.APIToken{
			Revoked: true,
		}, nil)

		svc := newUserService(&MockUserRepository{}, &MockDepartmentRepository{}, tokens, &MockEnroller{})

		assert.True(t, svc.IsRevoked(context.Background(), "session-token"))
	})

	t.Run("unknown token is not revoked", func(t *testing.T) {
		tokens := &MockTokenRepository{}
		tokens.On("GetByHash", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

		svc := newUserService(&MockUserRepository{}, &MockDepartmentRepository{}, tokens, &MockEnroller{})

		assert.False(t, svc.IsRevoked(context.Background(), "session-token"))
	})
}

func TestUserService_Departments(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		departments := &MockDepartmentRepository{}
		departments.On("List", mock.Anything).Return([]domain.Department{
			{Name: "Engineering"},
		}, nil)

		svc := newUserService(&MockUserRepository{}, departments, &MockTokenRepository{}, &MockEnroller{})

		got, err := svc.ListDepartments(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("create trims the name", func(t *testing.T) {
		departments := &MockDepartmentRepository{}
		departments.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Department) bool {
			return d.Name == "Engineering" && d.Location == "HQ"
		})).Return(nil)

		svc := newUserService(&MockUserRepository{}, departments, &MockTokenRepository{}, &MockEnroller{})

		_, err := svc.CreateDepartment(context.Background(), "  Engineering ", " HQ ")
		require.NoError(t, err)
	})

	t.Run("create rejects empty name", func(t *testing.T) {
		svc := newUserService(&MockUserRepository{}, &MockDepartmentRepository{}, &MockTokenRepository{}, &MockEnroller{})

		_, err := svc.CreateDepartment(context.Background(), "  ", "HQ")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}
