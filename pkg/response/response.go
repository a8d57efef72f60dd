package response

// Response is the standard API envelope.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Detail     string      `json:"detail,omitempty"` // human-readable error message
}

// Success returns a standard success response wrapping the data.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response carrying a detail message.
func Error(statusCode int, detail string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Detail:     detail,
	}
}
