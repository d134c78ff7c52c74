package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/service"
)

// UserService manages accounts, sessions and departments.
type UserService interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.RegisterResult, error)
	Authenticate(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	CreateDepartment(ctx context.Context, name, location string) (*domain.Department, error)
}

type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID string `json:"department_id"`
	Photo        string `json:"photo"`
}

type RegisterResponse struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	Enrolled     bool   `json:"enrolled"`
	EnrollReason string `json:"enroll_reason,omitempty"`
}

// Register POST /api/register/ - create an account, optionally with a
// reference photo. Accepts multipart (kiosk) or JSON.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	input, err := h.parseRegister(c)
	if err != nil {
		return err
	}

	result, err := h.users.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Message:      "User registered successfully",
		UserID:       result.User.ID.String(),
		Enrolled:     result.Enrolled,
		EnrollReason: result.EnrollReason,
	})
}

func (h *UserHandler) parseRegister(c *fiber.Ctx) (service.RegisterInput, error) {
	var input service.RegisterInput

	contentType := c.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		input.Name = c.FormValue("name")
		input.Email = c.FormValue("email")
		input.Password = c.FormValue("password")

		if dept := strings.TrimSpace(c.FormValue("department")); dept != "" {
			id, err := uuid.Parse(dept)
			if err != nil {
				return input, domain.ErrDepartmentNotFound
			}
			input.DepartmentID = &id
		}

		if _, err := c.FormFile("photo"); err == nil {
			photo, err := readImageFile(c, "photo")
			if err != nil {
				return input, err
			}
			input.Photo = photo
		}

		return input, nil
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return input, domain.ErrBadRequest.WithError(err)
	}

	input.Name = req.Name
	input.Email = req.Email
	input.Password = req.Password

	if dept := strings.TrimSpace(req.DepartmentID); dept != "" {
		id, err := uuid.Parse(dept)
		if err != nil {
			return input, domain.ErrDepartmentNotFound
		}
		input.DepartmentID = &id
	}

	if req.Photo != "" {
		photo, err := decodeImagePayload(req.Photo)
		if err != nil {
			return input, err
		}
		input.Photo = photo
	}

	return input, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse duplicates the user's identity fields at the top level
// alongside the nested user object; the kiosk frontend reads them from
// the root of the payload.
type LoginResponse struct {
	Status  string       `json:"status"`
	Token   string       `json:"token"`
	UserID  uuid.UUID    `json:"user_id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	IsAdmin bool         `json:"is_admin"`
	User    *domain.User `json:"user"`
}

// Login POST /api/login/ - password login, returns a session JWT
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return domain.ErrValidationFailed.WithError(errors.New("email and password are required"))
	}

	token, user, err := h.users.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Status:  "success",
		Token:   token,
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		User:    user,
	})
}

// Logout POST /api/logout/ - revoke the presented session token
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	token, err := middleware.GetToken(c)
	if err != nil {
		return err
	}

	if err := h.users.Logout(c.Context(), token); err != nil {
		h.logger.Warn("token revocation failed", slog.String("error", err.Error()))
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// WhoAmI GET /api/whoami/ - the authenticated user
func (h *UserHandler) WhoAmI(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return err
	}

	return c.JSON(user)
}
