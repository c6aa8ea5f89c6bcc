package response

import "github.com/MarioTomas0209/system-order/internal/apperr"

// Response represents a standard API response format
type Response struct {
	Status     string              `json:"status"`      // "success" or "error"
	StatusCode int                 `json:"status_code"` // HTTP status code
	Data       interface{}         `json:"data,omitempty"`
	Error      string              `json:"error,omitempty"`
	Fields     []apperr.FieldError `json:"fields,omitempty"` // field-level validation messages
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ValidationFailed returns an error response carrying field-level messages
func ValidationFailed(statusCode int, ve *apperr.ValidationError) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      ve.Message,
		Fields:     ve.Fields,
	}
}
