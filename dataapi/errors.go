package dataapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/kbukum/dataapi/errors"
	"github.com/kbukum/dataapi/httpclient"
)

// Parameter names reported by MissingParameterError.
const (
	ParamEndpoint = "Endpoint"
	ParamQuery    = "Query"
)

// MissingParameterError is returned before any I/O when a send
// precondition does not hold.
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return "Missing required parameter: " + e.Parameter
}

// RequestError wraps a transport failure or an undecodable response.
type RequestError struct {
	// URI is the attempted request URI.
	URI string
	// Query is the body that was sent.
	Query Query
	// Message describes the underlying failure.
	Message string
	// Err is the underlying failure.
	Err error
}

func (e *RequestError) Error() string {
	uri := e.URI
	if uri == "" {
		uri = "URI is not set!"
	}
	query, err := json.Marshal(e.Query)
	if err != nil {
		query = []byte(fmt.Sprintf("%v", map[string]any(e.Query)))
	}
	return fmt.Sprintf("Database request failed: %s\nURI: %s\nQuery: %s", e.Message, uri, query)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResultShapeError is returned by clients built WithResultCheck when the
// decoded payload lacks the fields of the endpoint's result family.
type ResultShapeError struct {
	Endpoint   Endpoint
	URI        string
	StatusCode int
	Missing    []string
}

func (e *ResultShapeError) Error() string {
	return fmt.Sprintf("unexpected %s result (status %d): missing %s",
		e.Endpoint, e.StatusCode, strings.Join(e.Missing, ", "))
}

// IsMissingParameter reports whether err is a *MissingParameterError.
func IsMissingParameter(err error) bool {
	var target *MissingParameterError
	return errors.As(err, &target)
}

// IsRequestError reports whether err is a *RequestError.
func IsRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

// IsResultShape reports whether err is a *ResultShapeError.
func IsResultShape(err error) bool {
	var target *ResultShapeError
	return errors.As(err, &target)
}

// ToAppError maps client errors onto application error codes.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var missing *MissingParameterError
	if errors.As(err, &missing) {
		return apperrors.MissingField(missing.Parameter).WithCause(err)
	}

	var shape *ResultShapeError
	if errors.As(err, &shape) {
		return apperrors.UnexpectedResult(shape.Endpoint.Operation(), err).
			WithDetail("missing", shape.Missing)
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch {
		case httpclient.IsTimeout(reqErr.Err):
			return apperrors.Timeout("dataapi request").WithCause(err)
		case httpclient.IsCanceled(reqErr.Err):
			return apperrors.Canceled("dataapi request").WithCause(err)
		case httpclient.IsValidation(reqErr.Err):
			return apperrors.Validation(reqErr.Message).WithCause(err)
		case httpclient.IsConnection(reqErr.Err):
			return apperrors.ConnectionFailed("dataapi").WithCause(err)
		default:
			return apperrors.ExternalServiceError("dataapi", err)
		}
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.Internal(err)
}
