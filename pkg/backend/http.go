package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

// DefaultTimeout matches the latency of the LLM calls made behind the backend.
const DefaultTimeout = 60 * time.Second

// RequestIDHeader carries a per-request UUID for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

var log = grovelogging.NewLogger("grove-sandbox.backend")

// StatusError wraps a non-2xx backend response with its body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the backend at baseURL. A zero timeout
// selects DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized backend URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// InitializeCharacters calls POST /initializeCharacters.
func (c *HTTPClient) InitializeCharacters(ctx context.Context, count int, userEngagementEnabled bool) ([]sandbox.Participant, error) {
	req := InitializeCharactersRequest{
		Count:                 count,
		UserEngagementEnabled: userEngagementEnabled,
	}
	var participants []sandbox.Participant
	if err := c.post(ctx, InitializeCharactersPath, req, &participants); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []sandbox.Participant{}
	}
	return participants, nil
}

// ContinueConversation calls POST /continueConversation. The returned
// conversation is whatever the server answered with.
func (c *HTTPClient) ContinueConversation(ctx context.Context, conversation sandbox.Conversation) (*sandbox.Conversation, error) {
	req := ContinueConversationRequest{Conversation: conversation.Normalize()}
	var result sandbox.Conversation
	if err := c.post(ctx, ContinueConversationPath, req, &result); err != nil {
		return nil, err
	}
	result = result.Normalize()
	return &result, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"request_id": requestID,
			"path":       path,
			"error":      err.Error(),
		}).Error("Backend request failed")
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	log.WithFields(map[string]interface{}{
		"request_id":  requestID,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(bodyBytes)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
