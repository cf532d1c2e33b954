package dto

// ErrorResponse carries a user visible failure message.
type ErrorResponse struct {
	Message string `json:"message"`
}
