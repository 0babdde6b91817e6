package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/taskflow-app/taskflow-api/internal/domain"
)

// Common request structures. Field names follow the public API contract,
// which accepts snake_case request bodies and returns camelCase entities.

// RegisterRequest defines the payload for the user registration endpoint.
// Field-level rules live in domain.ValidateRegistration so every rule
// failure is reported with its public message; nothing here is validated
// beyond JSON shape.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Absent fields leave the stored values untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// toInput converts the request into the domain's creation input.
func (r CreateTaskRequest) toInput() domain.TaskInput {
	return domain.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TaskPriority(r.Priority),
		Status:      domain.TaskStatus(r.Status),
		DueDate:     r.DueDate,
	}
}

// toUpdate converts the request into the domain's partial update.
func (r UpdateTaskRequest) toUpdate() domain.TaskUpdate {
	u := domain.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		u.Priority = &p
	}
	if r.Status != nil {
		s := domain.TaskStatus(*r.Status)
		u.Status = &s
	}
	return u
}

// Success payloads nested under the envelope's data key.

type authPayload struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userPayload struct {
	User *domain.User `json:"user"`
}

type taskPayload struct {
	Task *domain.Task `json:"task"`
}

type statsPayload struct {
	Stats domain.TaskStats `json:"stats"`
}

// fieldErrorsFromValidator flattens validator failures into the
// field-level error shape the response envelope carries. Field names are
// reported in their JSON form.
func fieldErrorsFromValidator(err error) []domain.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "body", Message: "Invalid request payload"}}
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, ve := range verrs {
		field := jsonFieldName(ve.Field())
		var msg string
		switch ve.Tag() {
		case "required":
			msg = field + " is required"
		case "email":
			msg = "Invalid email format"
		default:
			msg = field + " is invalid"
		}
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}
	return fields
}

// jsonFieldName maps the Go struct field names used in request models to
// their JSON names.
func jsonFieldName(name string) string {
	switch name {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "Username":
		return "username"
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	default:
		return name
	}
}
