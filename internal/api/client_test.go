package api

import (
	"errors"
	"testing"
	"time"

	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		opts        []ClientOption
		wantErr     bool
		wantModel   models.Model
		wantBaseURL string
	}{
		{
			name:        "defaults",
			apiKey:      "test-key",
			wantModel:   models.DefaultModel,
			wantBaseURL: models.EndpointBase,
		},
		{
			name:        "custom model",
			apiKey:      "test-key",
			opts:        []ClientOption{WithModel(models.Model25Flash)},
			wantModel:   models.Model25Flash,
			wantBaseURL: models.EndpointBase,
		},
		{
			name:        "custom base url trims slash",
			apiKey:      "test-key",
			opts:        []ClientOption{WithBaseURL("http://localhost:8080/")},
			wantModel:   models.DefaultModel,
			wantBaseURL: "http://localhost:8080",
		},
		{
			name:        "empty base url keeps default",
			apiKey:      "test-key",
			opts:        []ClientOption{WithBaseURL("")},
			wantModel:   models.DefaultModel,
			wantBaseURL: models.EndpointBase,
		},
		{
			name:    "empty key",
			apiKey:  "",
			wantErr: true,
		},
		{
			name:    "blank key",
			apiKey:  "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&mockHTTPClient{})}, tt.opts...)
			client, err := NewClient(tt.apiKey, opts...)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, apierrors.ErrMissingAPIKey) {
					t.Errorf("expected ErrMissingAPIKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.GetModel() != tt.wantModel {
				t.Errorf("model = %v, want %v", client.GetModel(), tt.wantModel)
			}
			if client.baseURL != tt.wantBaseURL {
				t.Errorf("baseURL = %q, want %q", client.baseURL, tt.wantBaseURL)
			}
			if client.formatter == nil {
				t.Error("formatter should default to markup.Format")
			}
		})
	}
}

func TestNewClient_DefaultTransport(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if client.httpClient == nil {
		t.Fatal("expected a TLS client to be created")
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient("test-key",
		WithHTTPClient(&mockHTTPClient{}),
		WithSystemInstruction("be brief"),
		WithTimeout(5*time.Second),
		WithFormatter(markup.FormatTrusted),
		WithFormatter(nil),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.SystemInstruction(); got != "be brief" {
		t.Errorf("SystemInstruction() = %q", got)
	}
	if client.timeout != 5*time.Second {
		t.Errorf("timeout = %v", client.timeout)
	}
	if got := client.formatter("a\nb"); got != "a<br />b" {
		t.Errorf("formatter output = %q", got)
	}
}

func TestClient_SetModel(t *testing.T) {
	client, _ := NewClient("test-key", WithHTTPClient(&mockHTTPClient{}))

	client.SetModel(models.Model25Pro)
	if client.GetModel() != models.Model25Pro {
		t.Errorf("GetModel() = %v, want %v", client.GetModel(), models.Model25Pro)
	}
}

func TestClient_Close(t *testing.T) {
	mock := &mockHTTPClient{}
	client, _ := NewClient("test-key", WithHTTPClient(mock))

	if client.IsClosed() {
		t.Fatal("new client should not be closed")
	}

	client.Close()
	client.Close()

	if !client.IsClosed() {
		t.Error("client should be closed")
	}
	if mock.idleClose != 1 {
		t.Errorf("CloseIdleConnections called %d times, want 1", mock.idleClose)
	}
}

func TestClient_Endpoint(t *testing.T) {
	client, _ := NewClient("secret-key", WithHTTPClient(&mockHTTPClient{}))

	got := client.endpoint(models.Model20Flash)
	want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	if got != want {
		t.Errorf("endpoint() = %q, want %q", got, want)
	}
}
