package httpclient

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 10 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (&Config{Timeout: -1}).Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
	bad := Config{Timeout: time.Second, TLS: &TLSConfig{MinVersion: 1}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unsupported TLS version")
	}
	if _, err := New(bad); err == nil {
		t.Error("expected New to reject invalid config")
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if got, err := nilCfg.Build(); got != nil || err != nil {
		t.Errorf("expected nil config for nil TLS settings, got %v, %v", got, err)
	}

	cfg, err := (&TLSConfig{ServerName: "gateway.example"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 default, got %#x", cfg.MinVersion)
	}
	if cfg.ServerName != "gateway.example" {
		t.Errorf("expected server name, got %q", cfg.ServerName)
	}

	if _, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		auth   *AuthConfig
		header string
		want   string
	}{
		{"api key custom header", APIKeyAuthHeader("secret", "api-key"), "api-key", "secret"},
		{"api key empty name", &AuthConfig{Type: AuthAPIKey, Key: "secret"}, "X-API-Key", "secret"},
		{"none", &AuthConfig{Type: AuthNone}, "X-API-Key", ""},
		{"nil", nil, "X-API-Key", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)
			tc.auth.apply(req)
			if got := req.Header.Get(tc.header); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeValidation, "validation"},
		{ErrCodeCanceled, "canceled"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}

	e := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	if got := e.Error(); got != "httpclient: connection: connection refused" {
		t.Errorf("unexpected error string %q", got)
	}
}
