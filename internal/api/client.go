package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
)

// Doer is the part of tls_client.HttpClient the client uses
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues completions against the generative language API
type Client struct {
	httpClient        Doer
	apiKey            string
	baseURL           string
	model             models.Model
	systemInstruction string
	formatter         markup.Formatter
	timeout           time.Duration
	logger            zerolog.Logger
	mu                sync.RWMutex
	closed            bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the model used for completions
func WithModel(model models.Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the provider host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithSystemInstruction sets the instruction turn sent ahead of the history
func WithSystemInstruction(instruction string) ClientOption {
	return func(c *Client) {
		c.systemInstruction = instruction
	}
}

// WithFormatter sets the transform applied to successful replies
func WithFormatter(f markup.Formatter) ClientOption {
	return func(c *Client) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithTimeout bounds each completion. Zero leaves cancellation to the caller's context.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client. The API key is required.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apierrors.NewMissingAPIKeyError()
	}

	client := &Client{
		apiKey:    apiKey,
		baseURL:   models.EndpointBase,
		model:     models.DefaultModel,
		formatter: markup.Format,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// No client-level timeout: the request context decides
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close releases idle connections. Completions after Close fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// GetModel returns the model used for completions
func (c *Client) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the model used for completions
func (c *Client) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// SystemInstruction returns the instruction turn sent ahead of the history
func (c *Client) SystemInstruction() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.systemInstruction
}

// endpoint returns the generate URL without the key, safe for logs
func (c *Client) endpoint(model models.Model) string {
	return c.baseURL + fmt.Sprintf(models.EndpointGeneratePath, model.Name)
}
