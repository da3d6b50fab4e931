// FILE: internal/pkg/serverutils/response.go
package serverutils

// APIResponse is the uniform envelope for every JSON endpoint.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Details carries structured context for denials (limits, prompts).
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Message: message, Data: data}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{Success: false, Code: code, Message: message}
}

func ErrorResponseWithDetails(code int, message string, details interface{}) APIError {
	return APIError{Success: false, Code: code, Message: message, Details: details}
}
