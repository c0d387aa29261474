// Package assistant wraps the external message-classifier service behind a
// typed client. The service takes free text plus optional metadata and
// returns a tagged response; everything past that contract (intent models,
// recommendation logic) is the service's concern.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type classifyRequest struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type classifyResponse struct {
	Type     string          `json:"type"`
	Response json.RawMessage `json:"response"`
}

// Classify sends the user's text to the classifier and decodes the tagged
// reply. Any transport failure, non-2xx status, or malformed payload is
// returned as an error; callers decide how to surface it.
func (c *Client) Classify(ctx context.Context, message string, metadata map[string]any) (*Reply, error) {
	body, err := json.Marshal(classifyRequest{Message: message, Metadata: metadata})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("assistant: classify transport error=%v", err)
		return nil, fmt.Errorf("classify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("assistant: classify status=%d", resp.StatusCode)
		return nil, fmt.Errorf("classify: unexpected status %d", resp.StatusCode)
	}

	var raw classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}

	reply, err := decodeReply(raw.Type, raw.Response)
	if err != nil {
		c.logger.Printf("assistant: classify decode error=%v", err)
		return nil, err
	}
	return reply, nil
}
