// Package transport implements the HTTP client for the remote chat
// backend: single-shot chat, the streamed chat variant, and document
// (blob) download for citation previews.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/panel"
)

// ChatTransport sends chat requests and consumes streamed replies.
type ChatTransport interface {
	Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
	ChatStream(ctx context.Context, req *model.ChatRequest, ch chan<- model.StreamEvent) error
}

// Client talks to the chat backend over HTTP. It implements both
// ChatTransport and panel.BlobFetcher.
type Client struct {
	client  *http.Client
	baseURL string
}

// Interface guards.
var (
	_ ChatTransport     = (*Client)(nil)
	_ panel.BlobFetcher = (*Client)(nil)
)

// NewClient builds a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Chat performs a single-shot chat request.
func (c *Client) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var chatResp model.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("could not decode chat response: %w", err)
	}
	return &chatResp, nil
}

// ChatStream performs a streaming chat request. Decoded events are sent
// to ch in arrival order; the channel is closed when the stream ends.
// Malformed events are logged and skipped, they do not abort the stream.
func (c *Client) ChatStream(ctx context.Context, req *model.ChatRequest, ch chan<- model.StreamEvent) error {
	defer close(ch)

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create stream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok || data == "" {
			continue
		}

		var ev model.StreamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			slog.Warn("Skipping malformed stream event", "error", err)
			continue
		}

		select {
		case ch <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return nil
}

// DownloadBlob fetches the raw bytes of a cited document by name.
func (c *Client) DownloadBlob(ctx context.Context, name string) (*panel.Blob, error) {
	endpoint := c.baseURL + "/blob/download/" + url.PathEscape(name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create blob request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("blob request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read blob body: %w", err)
	}
	return &panel.Blob{
		Name:        name,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func statusError(resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(excerpt))
}
