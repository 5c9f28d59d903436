package errors

import "net/http"

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "OTP_EXPIRED"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Detailed error information (optional)
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// NewErrorResponse maps err onto a status code and response body. Errors
// that carry no AppError are reported as INTERNAL_ERROR.
func NewErrorResponse(err error, requestID string) (int, *ErrorResponse) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = ErrInternalError
	}

	info := &ErrorInfo{
		Code:    appErr.ErrorCode(),
		Message: appErr.Message(),
	}
	if details := appErr.Details(); details != "" {
		info.Details = details
	}

	status := appErr.HTTPCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return status, &ErrorResponse{
		Error: info,
		Meta:  &MetaInfo{RequestID: requestID},
	}
}

// NewSuccessResponse wraps data with request metadata.
func NewSuccessResponse(data any, requestID string) *SuccessResponse {
	return &SuccessResponse{
		Data: data,
		Meta: &MetaInfo{RequestID: requestID},
	}
}
