package models

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	// Confirm must be true; logout is an explicit, confirmed action.
	Confirm bool `json:"confirm"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"In Progress"`
}

// ValidationError is a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
