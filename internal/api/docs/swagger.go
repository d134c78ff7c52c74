package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// RegisterResponse represents the response for a successful registration
type RegisterResponse struct {
	Message      string `json:"message" example:"User registered successfully"`
	UserID       string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Enrolled     bool   `json:"enrolled" example:"true"`
	EnrollReason string `json:"enroll_reason,omitempty" example:"No face detected in the image"`
}

// UserData represents a user in responses
type UserData struct {
	ID           string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string `json:"name" example:"Maria Silva"`
	Email        string `json:"email" example:"maria@example.com"`
	DepartmentID string `json:"department_id,omitempty" example:"660e8400-e29b-41d4-a716-446655440000"`
	CreatedAt    string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// LoginResponse represents the response for a successful login. The
// identity fields are duplicated at the top level for the frontend.
type LoginResponse struct {
	Status  string   `json:"status" example:"success"`
	Token   string   `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	UserID  string   `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name    string   `json:"name" example:"Maria Silva"`
	Email   string   `json:"email" example:"maria@example.com"`
	IsAdmin bool     `json:"is_admin" example:"false"`
	User    UserData `json:"user"`
}

// LogoutResponse represents the response for logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out"`
}

// ClockResponse represents the outcome of a processed camera frame
type ClockResponse struct {
	Status       string  `json:"status" example:"success"`
	Action       string  `json:"action,omitempty" example:"login"`
	Name         string  `json:"name,omitempty" example:"Maria Silva"`
	Message      string  `json:"message" example:"Login recorded for Maria Silva"`
	WorkingHours float64 `json:"working_hours,omitempty" example:"8.5"`
	Distance     float64 `json:"distance,omitempty" example:"0.82"`
}

// VerifyFaceResponse represents the response for 1:1 face verification
type VerifyFaceResponse struct {
	Match    bool    `json:"match" example:"true"`
	Distance float64 `json:"distance" example:"0.64"`
}

// AttendanceRecordData represents a single attendance record
type AttendanceRecordData struct {
	ID           string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Date         string  `json:"date" example:"2024-01-15"`
	LoginTime    string  `json:"login_time" example:"2024-01-15T09:00:00Z"`
	LogoutTime   string  `json:"logout_time,omitempty" example:"2024-01-15T17:30:00Z"`
	WorkingHours float64 `json:"working_hours,omitempty" example:"8.5"`
}

// HistoryResponse wraps attendance history
type HistoryResponse struct {
	Records []AttendanceRecordData `json:"records"`
}

// DepartmentData represents a department
type DepartmentData struct {
	ID       string `json:"id" example:"660e8400-e29b-41d4-a716-446655440000"`
	Name     string `json:"name" example:"Engineering"`
	Location string `json:"location" example:"São Paulo"`
}

// DepartmentListResponse wraps the department list
type DepartmentListResponse struct {
	Departments []DepartmentData `json:"departments"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// ErrorDetail carries the machine-readable error code
type ErrorDetail struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// ErrorResponse represents the hard-error envelope
type ErrorResponse struct {
	Status  string      `json:"status" example:"error"`
	Message string      `json:"message" example:"Request validation failed"`
	Error   ErrorDetail `json:"error"`
}

func errResp(code, message string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Message: message,
		Error:   ErrorDetail{Code: code, Message: message},
	}
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Ponto Attendance API",
		Version:     "v0.1.0",
		Description: "Face recognition attendance tracking: camera frames clock employees in and out against enrolled Facenet embeddings",
		Host:        "localhost:8000",
		Path:        "/api",
	})

	bearer := []map[string][]string{{"BearerAuth": {}}}

	endpoints := []*endpoint.EndPoint{
		// POST /api/register/ - Register user
		endpoint.New(
			endpoint.POST,
			"/register/",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("Register a new user"),
			endpoint.WithDescription("Creates an account, optionally enrolling a reference photo. Accepts JSON with a base64 photo or multipart form data. Enrollment failures do not fail registration."),
			endpoint.WithConsume([]mime.MIME{mime.JSON, mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterResponse{}, "201", "User registered successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("VALIDATION_FAILED", "Name and a valid email are required"), "400", "Bad Request"),
				response.New(errResp("DEPARTMENT_NOT_FOUND", "Department not found"), "404", "Not Found"),
				response.New(errResp("USER_EXISTS", "A user with this email already exists"), "409", "Conflict"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
		),

		// POST /api/login/ - Password login
		endpoint.New(
			endpoint.POST,
			"/login/",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("Log in with email and password"),
			endpoint.WithDescription("Issues a session JWT. New accounts default to the email local part followed by 123."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Login successful"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("VALIDATION_FAILED", "Email and password are required"), "400", "Bad Request"),
				response.New(errResp("INVALID_CREDENTIALS", "Invalid email or password"), "401", "Unauthorized"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
		),

		// POST /api/logout/ - Revoke session
		endpoint.New(
			endpoint.POST,
			"/logout/",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("Log out"),
			endpoint.WithDescription("Revokes the presented session token server side"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LogoutResponse{}, "200", "Logged out"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// GET /api/whoami/ - Authenticated user
		endpoint.New(
			endpoint.GET,
			"/whoami/",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("Get the authenticated user"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UserData{}, "200", "User retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// POST /api/start/ - Clock with a base64 frame
		endpoint.New(
			endpoint.POST,
			"/start/",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Clock in or out from a camera frame"),
			endpoint.WithDescription("Recognises the face in a base64 encoded frame and records the day's login or logout. Unrecognised faces and frames without a face return 200 with status failed."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClockResponse{}, "200", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("NO_IMAGE_DATA", "No image data provided"), "400", "Bad Request"),
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
				response.New(errResp("ATTENDANCE_CLOSED", "Attendance already closed for today"), "409", "Conflict"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// POST /api/start/upload/ - Clock with an uploaded file
		endpoint.New(
			endpoint.POST,
			"/start/upload/",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Clock in or out from an uploaded image"),
			endpoint.WithDescription("Same pipeline as /start/ but takes the frame as a multipart image field"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClockResponse{}, "200", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("NO_IMAGE_DATA", "No image data provided"), "400", "Bad Request"),
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
				response.New(errResp("ATTENDANCE_CLOSED", "Attendance already closed for today"), "409", "Conflict"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// POST /api/verify-face/ - 1:1 verification
		endpoint.New(
			endpoint.POST,
			"/verify-face/",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Verify a face against one user"),
			endpoint.WithDescription("Compares the provided frame against the stored embedding for the given email without touching attendance"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerifyFaceResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("VALIDATION_FAILED", "Email is required"), "400", "Bad Request"),
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
				response.New(errResp("USER_NOT_FOUND", "User not found"), "404", "Not Found"),
				response.New(errResp("NO_EMBEDDING", "User has no enrolled face"), "422", "Unprocessable Entity"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// GET /api/attendance/history/ - Own attendance records
		endpoint.New(
			endpoint.GET,
			"/attendance/history/",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List the caller's attendance records"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of records (1-365, default: 30)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HistoryResponse{}, "200", "Records retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// GET /api/departments/ - List departments
		endpoint.New(
			endpoint.GET,
			"/departments/",
			endpoint.WithTags("Departments"),
			endpoint.WithSummary("List departments"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DepartmentListResponse{}, "200", "Departments retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
		),

		// POST /api/departments/add/ - Create department
		endpoint.New(
			endpoint.POST,
			"/departments/add/",
			endpoint.WithTags("Departments"),
			endpoint.WithSummary("Create a department"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DepartmentData{}, "201", "Department created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(errResp("VALIDATION_FAILED", "Department name is required"), "400", "Bad Request"),
				response.New(errResp("UNAUTHORIZED", "Invalid or missing token"), "401", "Unauthorized"),
				response.New(errResp("INTERNAL_ERROR", "An unexpected error occurred"), "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity(bearer),
		),

		// GET /health - Liveness
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready - Readiness
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Verifies the database connection before reporting ready"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "not ready"}, "503", "Service is not ready"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
