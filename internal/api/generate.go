package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// ErrClientClosed is returned for completions issued after Close
var ErrClientClosed = fmt.Errorf("client is closed")

// Part is a single text part of a turn
type Part struct {
	Text string `json:"text"`
}

// Content is one conversation turn on the wire
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// wireRole maps a store role onto the provider's vocabulary
func wireRole(role models.Role) string {
	if role == models.RoleUser {
		return models.WireRoleUser
	}
	return models.WireRoleModel
}

// BuildContents assembles the turns for one completion: the instruction turn
// (sent with the user role, the provider has no system role on this endpoint),
// the prior history, then the new user text.
func BuildContents(systemInstruction string, history []models.Message, userText string) []Content {
	contents := make([]Content, 0, len(history)+2)

	if systemInstruction != "" {
		contents = append(contents, Content{
			Role:  models.WireRoleUser,
			Parts: []Part{{Text: systemInstruction}},
		})
	}

	for _, msg := range history {
		contents = append(contents, Content{
			Role:  wireRole(msg.Role),
			Parts: []Part{{Text: msg.Content}},
		})
	}

	contents = append(contents, Content{
		Role:  models.WireRoleUser,
		Parts: []Part{{Text: userText}},
	})

	return contents
}

// Complete runs one completion for userText on top of history and folds every
// failure into a Failure result. Successful replies are formatted.
func (c *Client) Complete(ctx context.Context, history []models.Message, userText string) models.CompletionResult {
	contents := BuildContents(c.SystemInstruction(), history, userText)

	text, err := c.GenerateContent(ctx, contents)
	if err != nil {
		return models.Failure(apierrors.FailureMessage(err)).WithCause(err)
	}

	return models.FormattedSuccess(c.formatter(text))
}

// GenerateContent sends contents to the provider and returns the raw reply text.
// Errors are *errors.NetworkError, *errors.APIError or *errors.ParseError.
func (c *Client) GenerateContent(ctx context.Context, contents []Content) (string, error) {
	if c.IsClosed() {
		return "", ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.GetModel()
	endpoint := c.endpoint(model)
	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", requestID).
		Str("model", model.Name).
		Logger()

	body, err := json.Marshal(GenerateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint+"?key="+url.QueryEscape(c.apiKey),
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug().Int("turns", len(contents)).Msg("sending completion request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		netErr := apierrors.NewNetworkError("generate content", endpoint, err)
		logger.Warn().Err(netErr).Dur("elapsed", time.Since(start)).Msg("completion request failed")
		return "", netErr
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("provider_error", gjson.GetBytes(errorBody, PathErrorMessage).String()).
			Dur("elapsed", time.Since(start)).
			Msg("completion request rejected")
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, string(errorBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read response", endpoint, err)
	}

	text, err := parseResponse(data)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("block_reason", gjson.GetBytes(data, PathBlockReason).String()).
			Msg("unexpected completion response")
		return "", err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("reply_len", len(text)).
		Str("finish_reason", gjson.GetBytes(data, PathFinishReason).String()).
		Dur("elapsed", time.Since(start)).
		Msg("completion received")

	return text, nil
}

// parseResponse extracts the first candidate's text
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	text := gjson.GetBytes(body, PathCandidateText)
	if !text.Exists() || text.Type != gjson.String {
		return "", apierrors.NewParseError("no candidate text in response", PathCandidateText)
	}

	return text.String(), nil
}
