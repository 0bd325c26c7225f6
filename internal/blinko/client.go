// Package blinko is a client for the Blinko note service HTTP API.
//
// Each method performs exactly one HTTP request. Non-2xx responses are returned
// as apperr upstream errors carrying the status code and raw body; network
// failures are returned as transport errors. Nothing is retried.
package blinko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/starford/blinko-mcp/internal/apperr"
)

// API paths.
const (
	pathSearch          = "/api/v1/note/list"
	pathDailyReview     = "/api/v1/note/daily-review-list"
	pathClearRecycleBin = "/api/v1/note/clear-recycle-bin"
	pathUpsert          = "/api/v1/note/upsert"
	pathShare           = "/api/v1/note/share"

	// The REST surface only creates notes; mutation and deletion go through
	// the tRPC endpoints, called with a single-element batch.
	pathUpdateRPC = "/api/trpc/notes.upsert?batch=1"
	pathDeleteRPC = "/api/trpc/notes.deleteMany?batch=1"
)

// Client talks to one Blinko instance with one API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for domain. domain may be a bare host or a full URL.
func New(domain, apiKey string, opts ...ClientOption) (*Client, error) {
	base, err := NormalizeBaseURL(domain)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    base,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NormalizeBaseURL strips one trailing slash and prefixes https:// unless the
// value already carries an http:// or https:// scheme.
func NormalizeBaseURL(domain string) (string, error) {
	if domain == "" {
		return "", apperr.Configuration("", "blinko domain is required")
	}
	base := strings.TrimSuffix(domain, "/")
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base, nil
	}
	return "https://" + base, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchNotes lists notes matching q.
func (c *Client) SearchNotes(ctx context.Context, q SearchQuery) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, "search notes", http.MethodPost, pathSearch, q.payload(), &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// DailyReviewNotes returns the notes scheduled for today's review.
func (c *Client) DailyReviewNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, "daily review", http.MethodGet, pathDailyReview, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ClearRecycleBin permanently removes every note in the recycle bin.
// Any 2xx counts as success unless the body is an object with "success": false.
func (c *Client) ClearRecycleBin(ctx context.Context) (*Result, error) {
	var raw []byte
	if err := c.do(ctx, "clear recycle bin", http.MethodPost, pathClearRecycleBin, nil, &raw); err != nil {
		return nil, err
	}
	return acknowledgement(raw), nil
}

func acknowledgement(body []byte) *Result {
	var ack struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(body, &ack); err != nil || ack.Success == nil {
		return &Result{Success: true}
	}
	return &Result{Success: *ack.Success}
}

// UpsertNote creates a note. Empty content is rejected without a request.
func (c *Client) UpsertNote(ctx context.Context, content string, typ NoteType) (*Note, error) {
	const op = "upsert note"
	if content == "" {
		return nil, apperr.Validation(op, fmt.Errorf("content: cannot be blank"))
	}
	var note Note
	if err := c.do(ctx, op, http.MethodPost, pathUpsert, upsertPayload{Content: content, Type: typ}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote applies the non-nil fields of u to note id.
func (c *Client) UpdateNote(ctx context.Context, id int64, u NoteUpdate) (*Result, error) {
	body := singleBatch(updatePayload{ID: id, NoteUpdate: u})
	if err := c.do(ctx, "update note", http.MethodPost, pathUpdateRPC, body, nil); err != nil {
		return nil, err
	}
	return &Result{Success: true}, nil
}

// DeleteNote permanently deletes note id.
func (c *Client) DeleteNote(ctx context.Context, id int64) (*Result, error) {
	body := singleBatch(deletePayload{IDs: []int64{id}})
	if err := c.do(ctx, "delete note", http.MethodPost, pathDeleteRPC, body, nil); err != nil {
		return nil, err
	}
	return &Result{Success: true}, nil
}

// ArchiveNote marks note id as archived.
func (c *Client) ArchiveNote(ctx context.Context, id int64) (*Result, error) {
	archived := true
	return c.UpdateNote(ctx, id, NoteUpdate{IsArchived: &archived})
}

// ShareNote creates or cancels the public share link of a note.
func (c *Client) ShareNote(ctx context.Context, req ShareRequest) (*ShareResult, error) {
	var res ShareResult
	if err := c.do(ctx, "share note", http.MethodPost, pathShare, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type rpcCall struct {
	JSON any `json:"json"`
}

func singleBatch(payload any) map[string]rpcCall {
	return map[string]rpcCall{"0": {JSON: payload}}
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Configuration(op, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Transport(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Upstream(op, resp.StatusCode, string(data))
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apperr.Error{
			Kind:    apperr.KindUpstream,
			Op:      op,
			Message: "decode response",
			Status:  resp.StatusCode,
			Body:    string(data),
			Err:     err,
		}
	}
	return nil
}
