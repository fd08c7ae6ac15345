package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_RetryableDetection(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeConnectionFailed, true},
		{ErrCodeExternalService, true},
		{ErrCodeMissingField, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg", http.StatusBadRequest)
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v for %s, got %v", tc.retryable, tc.code, err.Retryable)
			}
		})
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("Endpoint")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	if err.Details["field"] != "Endpoint" {
		t.Errorf("expected field=Endpoint, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Error(), "Endpoint") {
		t.Errorf("error string should mention the field, got %q", err.Error())
	}
}

func TestExternalServiceError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := ExternalServiceError("data-api", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !err.Retryable {
		t.Error("external service errors should be retryable")
	}
	if !strings.Contains(err.Error(), "cause: connection reset") {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestWithDetail(t *testing.T) {
	err := Internal(nil).WithDetail("uri", "https://api.example/find")
	if err.Details["uri"] != "https://api.example/find" {
		t.Errorf("expected uri detail, got %v", err.Details["uri"])
	}
}

func TestToResponse(t *testing.T) {
	err := Timeout("/find")
	data, jsonErr := json.Marshal(err.ToResponse())
	if jsonErr != nil {
		t.Fatalf("unexpected error: %v", jsonErr)
	}
	if !strings.Contains(string(data), `"code":"TIMEOUT"`) {
		t.Errorf("expected code in response body, got %s", data)
	}
	if !strings.Contains(string(data), `"status":504`) {
		t.Errorf("expected status in response body, got %s", data)
	}
	if strings.Contains(string(data), `"cause"`) {
		t.Errorf("expected no cause without one, got %s", data)
	}
}

func TestToResponse_Cause(t *testing.T) {
	resp := ExternalServiceError("dataapi", fmt.Errorf("gateway said no")).ToResponse()
	if resp.Error.Cause != "gateway said no" {
		t.Errorf("expected cause message, got %q", resp.Error.Cause)
	}
	if !resp.Error.Retryable {
		t.Error("expected retryable to be carried over")
	}
	if resp.Error.Details["service"] != "dataapi" {
		t.Errorf("expected service detail, got %v", resp.Error.Details)
	}
}

func TestCanceled(t *testing.T) {
	err := Canceled("dataapi request")
	if err.Code != ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("expected a canceled request not to be retryable")
	}
	if err.HTTPStatus != 499 {
		t.Errorf("expected status 499, got %d", err.HTTPStatus)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Validation("bad"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to fail for plain errors")
	}
}
