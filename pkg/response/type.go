package response

// Resp is the standard JSON response body.
type Resp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Status values.
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusUnavailable = "unavailable"
)

// DefaultErrorMessage hides internal details from callers.
const DefaultErrorMessage = "internal server error"
