package api

import (
	"errors"

	"hunterhq/relay/pkg/analysis"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/routing"
)

// ErrorResponse is the JSON envelope returned for all error conditions.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error and determines the HTTP status code.
	Type string `json:"type"`

	// Param is the name of the parameter that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeMethodNotAllowed indicates the wrong HTTP method (405).
	ErrorTypeMethodNotAllowed = "method_not_allowed"

	// ErrorTypeRateLimitExceeded indicates the daily quota is spent (429).
	ErrorTypeRateLimitExceeded = "rate_limit_exceeded"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeBadGateway indicates every backend failed (502).
	ErrorTypeBadGateway = "bad_gateway"

	// ErrorTypeServiceUnavailable indicates no backends are registered (503).
	ErrorTypeServiceUnavailable = "service_unavailable"
)

// Error code constants for common error scenarios.
const (
	// CodeMissingField indicates a required field is missing.
	CodeMissingField = "missing_field"

	// CodeInvalidValue indicates a field has an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeInvalidJSON indicates the request body is not valid JSON.
	CodeInvalidJSON = "invalid_json"

	// CodeRequestTooLarge indicates the request payload is too large.
	CodeRequestTooLarge = "request_too_large"

	// CodeStreamingNotSupported indicates the resolved backend cannot stream.
	CodeStreamingNotSupported = "streaming_not_supported"

	// CodeProviderError indicates every AI backend failed the request.
	CodeProviderError = "provider_error"

	// CodeProviderUnavailable indicates no AI backends are registered.
	CodeProviderUnavailable = "provider_unavailable"

	// CodeQuotaExceeded indicates the caller's daily budget is spent.
	CodeQuotaExceeded = "quota_exceeded"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewMethodNotAllowedError creates an error response for wrong HTTP methods (405).
func NewMethodNotAllowedError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeMethodNotAllowed, "method", "")
}

// NewRateLimitError creates an error response for spent quotas (429).
func NewRateLimitError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeRateLimitExceeded, "", CodeQuotaExceeded)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// NewBadGatewayError creates an error response for backend failures (502).
func NewBadGatewayError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeBadGateway, "", CodeProviderError)
}

// NewServiceUnavailableError creates an error response for an empty
// provider lineup (503).
func NewServiceUnavailableError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServiceUnavailable, "", CodeProviderUnavailable)
}

// HTTPStatusCode returns the HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return 400
	case ErrorTypeMethodNotAllowed:
		return 405
	case ErrorTypeRateLimitExceeded:
		return 429
	case ErrorTypeServerError:
		return 500
	case ErrorTypeBadGateway:
		return 502
	case ErrorTypeServiceUnavailable:
		return 503
	default:
		return 500
	}
}

// MapError converts an error from the routing or analysis layer into the
// response envelope. The mapping: empty registry 503, every backend failed
// 502, request validation and unsupported streaming 400, anything else 500
// with the detail withheld from the client.
func MapError(err error) *ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	var validationErr *providers.ValidationError
	if errors.As(err, &validationErr) {
		return NewInvalidRequestError(validationErr.Message, validationErr.Field, CodeInvalidValue)
	}

	var toneErr *analysis.InvalidToneError
	if errors.As(err, &toneErr) {
		return NewInvalidRequestError(toneErr.Error(), "tone", CodeInvalidValue)
	}

	var streamErr *routing.StreamingNotSupportedError
	if errors.As(err, &streamErr) {
		return NewInvalidRequestError(streamErr.Error(), "stream", CodeStreamingNotSupported)
	}

	if errors.Is(err, routing.ErrNoProvidersAvailable) {
		return NewServiceUnavailableError("no AI providers are available")
	}

	var allFailed *routing.AllProvidersFailedError
	if errors.As(err, &allFailed) {
		return NewBadGatewayError(allFailed.Error())
	}

	return NewServerError("An internal error occurred. Please try again later.")
}
