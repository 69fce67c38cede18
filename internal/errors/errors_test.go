package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIErrorWithBody(500, "generate", "")

	expected := "HTTP error! status: 500"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if got := GetHTTPStatus(fmt.Errorf("wrapped: %w", err)); got != 500 {
		t.Errorf("GetHTTPStatus() = %d, want 500", got)
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("no candidates", "candidates.0")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsParseError should see through wrapping")
	}
	if !strings.Contains(err.Error(), "candidates.0") {
		t.Errorf("Error() should mention path, got %s", err.Error())
	}
}

func TestNetworkError_StripsURL(t *testing.T) {
	cause := &url.Error{
		Op:  "Post",
		URL: "https://example.test/v1beta/models/m:generateContent?key=SECRET",
		Err: errors.New("dial tcp: lookup example.test: no such host"),
	}

	err := NewNetworkError("generate content", "https://example.test", cause)

	if strings.Contains(err.Error(), "SECRET") {
		t.Errorf("Error() leaked the key: %s", err.Error())
	}
	if got := FailureMessage(err); got != "dial tcp: lookup example.test: no such host" {
		t.Errorf("FailureMessage() = %q", got)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork")
	}
}

func TestNetworkError_Timeout(t *testing.T) {
	err := NewNetworkError("generate content", "", context.DeadlineExceeded)

	if !IsTimeoutError(err) {
		t.Error("expected timeout to be detected through Unwrap")
	}
	if !IsNetworkError(err) {
		t.Error("expected network error")
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"http status", NewAPIErrorWithBody(404, "x", ""), "HTTP error! status: 404"},
		{"parse", NewParseError("missing text", "p"), "Invalid response format from API"},
		{"network", NewNetworkError("op", "", errors.New("connection refused")), "connection refused"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureMessage(tt.err); got != tt.want {
				t.Errorf("FailureMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingAPIKeyError(t *testing.T) {
	err := NewMissingAPIKeyError("GEMINI_API_KEY")

	if !errors.Is(err, ErrMissingAPIKey) {
		t.Error("expected ErrMissingAPIKey")
	}
	if !IsConfigError(err) {
		t.Error("expected config error")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("Error() should name the env var, got %s", err.Error())
	}
}
