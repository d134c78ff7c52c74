package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/facematch"
	"github.com/saturnino-fabrica-de-software/ponto/internal/service"
)

const (
	maxImageSize   = 10 * 1024 * 1024 // 10MB
	defaultHistory = 30
)

// RecognitionService is the camera-to-attendance pipeline.
type RecognitionService interface {
	Clock(ctx context.Context, image []byte) (*service.ClockResult, error)
	Verify(ctx context.Context, email string, image []byte) (bool, float64, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	recognition RecognitionService
	logger      *slog.Logger
}

func NewAttendanceHandler(recognition RecognitionService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{recognition: recognition, logger: logger}
}

type startRequest struct {
	Image string `json:"image"`
}

// ClockResponse is the payload for a processed camera frame. Status is
// "success" for a recognized face and "failed" for a soft rejection;
// hard errors go through the error handler instead.
type ClockResponse struct {
	Status       string   `json:"status"`
	Action       string   `json:"action,omitempty"`
	Name         string   `json:"name,omitempty"`
	Message      string   `json:"message"`
	WorkingHours *float64 `json:"working_hours,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
}

// Start POST /api/start/ - process a base64 camera frame
func (h *AttendanceHandler) Start(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	image, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	return h.clock(c, image)
}

// StartUpload POST /api/start/upload/ - process an uploaded image file
func (h *AttendanceHandler) StartUpload(c *fiber.Ctx) error {
	image, err := readImageFile(c, "image")
	if err != nil {
		return err
	}

	return h.clock(c, image)
}

func (h *AttendanceHandler) clock(c *fiber.Ctx, image []byte) error {
	result, err := h.recognition.Clock(c.Context(), image)
	if err != nil {
		return h.clockFailure(c, err)
	}

	resp := ClockResponse{
		Status:       "success",
		Action:       string(result.Action),
		Name:         result.Name,
		WorkingHours: result.WorkingHours,
	}
	if result.Action == domain.ActionLogin {
		resp.Message = fmt.Sprintf("Login recorded for %s", result.Name)
	} else {
		resp.Message = fmt.Sprintf("Logout recorded for %s", result.Name)
	}

	return c.JSON(resp)
}

// clockFailure maps soft recognition failures to a 200 "failed"
// payload the kiosk renders inline. Everything else is a real error.
func (h *AttendanceHandler) clockFailure(c *fiber.Ctx, err error) error {
	var noMatch *facematch.NoMatchError
	if errors.As(err, &noMatch) {
		resp := ClockResponse{
			Status:  "failed",
			Message: "Face not recognised",
		}
		if noMatch.HasCandidate {
			d := noMatch.BestDistance
			resp.Distance = &d
		}
		return c.JSON(resp)
	}

	if errors.Is(err, domain.ErrNoFaceDetected) {
		return c.JSON(ClockResponse{
			Status:  "failed",
			Message: "No face detected in the image",
		})
	}

	return err
}

type verifyFaceRequest struct {
	Email string `json:"email"`
	Image string `json:"image"`
}

type VerifyFaceResponse struct {
	Match    bool    `json:"match"`
	Distance float64 `json:"distance"`
}

// VerifyFace POST /api/verify-face/ - compare a frame against one user
func (h *AttendanceHandler) VerifyFace(c *fiber.Ctx) error {
	var req verifyFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return domain.ErrValidationFailed.WithError(errors.New("email is required"))
	}

	image, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	match, distance, err := h.recognition.Verify(c.Context(), email, image)
	if err != nil {
		if errors.Is(err, domain.ErrNoFaceDetected) {
			return c.JSON(ClockResponse{
				Status:  "failed",
				Message: "No face detected in the image",
			})
		}
		return err
	}

	return c.JSON(VerifyFaceResponse{Match: match, Distance: distance})
}

type HistoryResponse struct {
	Records []domain.AttendanceRecord `json:"records"`
}

// History GET /api/attendance/history/ - the caller's own records
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", defaultHistory)
	if limit <= 0 || limit > 365 {
		limit = defaultHistory
	}

	records, err := h.recognition.History(c.Context(), userID, limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}

	return c.JSON(HistoryResponse{Records: records})
}

// decodeImagePayload decodes a base64 image, tolerating the data URL
// prefix browsers produce ("data:image/jpeg;base64,...").
func decodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, domain.ErrNoImageData
	}

	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	if len(image) == 0 {
		return nil, domain.ErrNoImageData
	}
	if len(image) > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	return image, nil
}

// readImageFile reads a multipart file field.
func readImageFile(c *fiber.Ctx, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, domain.ErrNoImageData
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	image, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return image, nil
}
