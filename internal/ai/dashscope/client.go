package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://dashscope.aliyuncs.com"
	completionPath = "/api/v1/apps/completion"

	defaultTimeout = 60 * time.Second
)

// Generator calls the DashScope application-completion API. Credentials are
// injected; their absence is a configuration defect surfaced at construction,
// never a retryable failure.
type Generator struct {
	apiKey  string
	appID   string
	baseURL string

	HTTPClient *http.Client
}

// APIError is a non-success answer from DashScope, either a transport-level
// status or an error object in the response body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("dashscope request failed with status %d", e.StatusCode)
}

func New(apiKey, appID, baseURL string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	appID = strings.TrimSpace(appID)
	if apiKey == "" || appID == "" {
		return nil, errors.New("dashscope credentials are not configured")
	}

	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Generator{
		apiKey:  apiKey,
		appID:   appID,
		baseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

type completionRequest struct {
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type completionResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GenerateContent sends the prompt with stream disabled and returns the
// completion text. A body-level {code,message} pair is an error even when
// the HTTP status is 200.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+completionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("X-DashScope-AppId", g.appID)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("dashscope request: %w", err)
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode dashscope response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Code != "" {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Code:       parsed.Code,
			Message:    parsed.Message,
		}
	}

	return parsed.Output.Text, nil
}

func (g *Generator) Model() string {
	return "dashscope-app:" + g.appID
}
