// Package apiclient provides a client for the voice-synthesis HTTP API, used
// by the voice-client CLI and by other services that prefer Go calls over raw
// HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ngqkhai/voice-synthesis/internal/core"
)

// API endpoints and paths.
const (
	apiLanguages  = "/api/v1/voice/languages"
	apiVoices     = "/api/v1/voice/voices"
	apiSynthesize = "/api/v1/voice/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// ErrServiceUnhealthy indicates the health endpoint answered non-OK.
var ErrServiceUnhealthy = errors.New("voice-synthesis service is not healthy")

// Client is an HTTP client for the voice-synthesis service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// SynthesizeResult is the response payload of the synthesize endpoint.
type SynthesizeResult struct {
	VoiceID       string  `json:"voice_id"`
	AudioURL      string  `json:"audio_url"`
	CloudinaryURL *string `json:"cloudinary_url"`
	Duration      float64 `json:"duration"`
	Warning       string  `json:"warning,omitempty"`
}

// errorResponse is the service's uniform error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// New creates a Client. The baseURL should include the protocol and port
// (e.g. "http://localhost:8000"). The timeout applies to all requests.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Languages fetches the supported languages as code to display name.
func (c *Client) Languages(ctx context.Context) (map[string]string, error) {
	var languages map[string]string

	err := c.getJSON(ctx, c.baseURL+apiLanguages, &languages)
	if err != nil {
		return nil, err
	}

	return languages, nil
}

// Voices fetches the categorized voices for a language. Category is optional.
func (c *Client) Voices(
	ctx context.Context,
	language, category string,
) (map[string][]core.VoiceProfile, error) {
	query := url.Values{}
	query.Set("language", language)

	if category != "" {
		query.Set("category", category)
	}

	var voices map[string][]core.VoiceProfile

	err := c.getJSON(ctx, c.baseURL+apiVoices+"?"+query.Encode(), &voices)
	if err != nil {
		return nil, err
	}

	return voices, nil
}

// Synthesize submits one synthesis request and returns the artifact URLs.
func (c *Client) Synthesize(
	ctx context.Context,
	req core.SynthesisRequest,
) (*SynthesizeResult, error) {
	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiSynthesize,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var result SynthesizeResult

	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// HealthCheck verifies the service is running and answering.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed for service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", ErrServiceUnhealthy, resp.Status)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(target)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseErrorResponse decodes the service's error envelope, falling back to
// the raw body so diagnostics are never lost.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("service error (%s): <unreadable body>", resp.Status)
	}

	var errResp errorResponse

	err := json.Unmarshal(body, &errResp)
	if err == nil && errResp.Detail != "" {
		return fmt.Errorf("service error (%s): %s", resp.Status, errResp.Detail)
	}

	return fmt.Errorf("service error (%s): %s", resp.Status, string(body))
}
