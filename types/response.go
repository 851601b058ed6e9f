package types

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse acknowledges a stored review.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
