package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type DepartmentHandler struct {
	users  UserService
	logger *slog.Logger
}

func NewDepartmentHandler(users UserService, logger *slog.Logger) *DepartmentHandler {
	return &DepartmentHandler{users: users, logger: logger}
}

type DepartmentListResponse struct {
	Departments []domain.Department `json:"departments"`
}

// List GET /api/departments/
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	departments, err := h.users.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	if departments == nil {
		departments = []domain.Department{}
	}

	return c.JSON(DepartmentListResponse{Departments: departments})
}

type addDepartmentRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Add POST /api/departments/add/
func (h *DepartmentHandler) Add(c *fiber.Ctx) error {
	var req addDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	dept, err := h.users.CreateDepartment(c.Context(), req.Name, req.Location)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dept)
}
