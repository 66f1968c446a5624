// Package googletts implements the SpeechSynthesizer capability against the
// Google Cloud Text-to-Speech REST API.
package googletts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ngqkhai/voice-synthesis/internal/core"
	"golang.org/x/oauth2"
)

// API endpoints and paths.
const (
	// DefaultBaseURL is the production Google TTS endpoint. Tests point the
	// client at an httptest server instead.
	DefaultBaseURL = "https://texttospeech.googleapis.com"

	apiSynthesize = "/v1/text:synthesize"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// The MP3 returned by the API is 16 kHz mono 16-bit; duration is estimated
// from the byte count at that rate because the response carries no timing
// metadata.
const bytesPerSecond = 16000 * 2

// Error messages.
const (
	errFmtAPIError          = "google tts error (%s): %s"
	errFmtAPINonOKStatus    = "google tts returned non-OK status: %s, body: %s"
	errFmtAudioDecodeFailed = "failed to decode audio content: %w"
)

// Static errors.
var (
	// ErrEmptyAudioContent indicates the API answered OK with no audio.
	ErrEmptyAudioContent = errors.New("received empty audio content")
)

// Client calls the Google Cloud TTS REST API. It implements
// core.SpeechSynthesizer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client authenticating with the given token source. The
// timeout applies to every synthesis request.
func NewClient(baseURL string, timeout time.Duration, tokenSource oauth2.TokenSource) *Client {
	transport := &oauth2.Transport{
		Source: tokenSource,
		Base:   http.DefaultTransport,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// NewClientWithHTTPClient creates a Client over a caller-supplied HTTP
// client. This constructor is primarily for testing, where no OAuth token
// source is available.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// synthesizeRequest is the JSON payload for the text:synthesize call.
type synthesizeRequest struct {
	Input       synthesisInput  `json:"input"`
	Voice       voiceSelection  `json:"voice"`
	AudioConfig audioConfigSpec `json:"audioConfig"`
}

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type audioConfigSpec struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate"`
	Pitch         float64 `json:"pitch"`
}

// synthesizeResponse carries the base64-encoded audio returned by the API.
type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// apiErrorResponse is the structured error envelope Google returns on
// failure.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Synthesize sends one synthesis request and returns the decoded MP3 bytes
// plus the estimated duration. Each call is attempted once; retries are a
// deployment concern, not embedded here.
func (c *Client) Synthesize(ctx context.Context, req core.ResolvedRequest) (core.SpeechAudio, error) {
	payload := synthesizeRequest{
		Input: synthesisInput{Text: req.Text},
		Voice: voiceSelection{
			LanguageCode: req.Language,
			Name:         req.Voice.ID,
		},
		AudioConfig: audioConfigSpec{
			AudioEncoding: "MP3",
			SpeakingRate:  req.Speed,
			Pitch:         0,
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return core.SpeechAudio{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + apiSynthesize

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return core.SpeechAudio{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return core.SpeechAudio{}, fmt.Errorf("failed to send request to google tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.SpeechAudio{}, c.parseErrorResponse(resp)
	}

	return decodeAudio(resp.Body)
}

func decodeAudio(body io.Reader) (core.SpeechAudio, error) {
	var synthResp synthesizeResponse

	err := json.NewDecoder(body).Decode(&synthResp)
	if err != nil {
		return core.SpeechAudio{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if synthResp.AudioContent == "" {
		return core.SpeechAudio{}, ErrEmptyAudioContent
	}

	audioData, err := base64.StdEncoding.DecodeString(synthResp.AudioContent)
	if err != nil {
		return core.SpeechAudio{}, fmt.Errorf(errFmtAudioDecodeFailed, err)
	}

	return core.SpeechAudio{
		Data:            audioData,
		DurationSeconds: float64(len(audioData)) / bytesPerSecond,
	}, nil
}

// parseErrorResponse attempts to decode Google's structured error envelope.
// If that fails, the raw body is preserved so diagnostics are never lost.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf(errFmtAPINonOKStatus, resp.Status, "<unreadable body>")
	}

	var apiErr apiErrorResponse

	err := json.Unmarshal(body, &apiErr)
	if err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf(errFmtAPIError, resp.Status, apiErr.Error.Message)
	}

	return fmt.Errorf(errFmtAPINonOKStatus, resp.Status, string(body))
}
