// Package testutil provides a stub Blinko HTTP server for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is a request recorded by the stub.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          []byte
}

// JSON decodes the recorded body into a generic value.
func (r Request) JSON(t *testing.T) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		t.Fatalf("decode request body %q: %v", r.Body, err)
	}
	return v
}

// BatchJSON returns the "json" payload of the single element of a batched RPC body.
func (r Request) BatchJSON(t *testing.T) map[string]any {
	t.Helper()
	body := r.JSON(t)
	first, ok := body["0"].(map[string]any)
	if !ok {
		t.Fatalf("batch body has no element 0: %s", r.Body)
	}
	payload, ok := first["json"].(map[string]any)
	if !ok {
		t.Fatalf("batch element has no json payload: %s", r.Body)
	}
	return payload
}

type response struct {
	status int
	body   string
}

// Blinko is a stub Blinko server. Unregistered routes answer 404.
type Blinko struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]response
	requests []Request
}

// NewBlinko starts a stub server that is closed when the test ends.
func NewBlinko(t *testing.T) *Blinko {
	t.Helper()
	b := &Blinko{routes: make(map[string]response)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Handle registers a canned response for method and path (without query).
func (b *Blinko) Handle(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = response{status: status, body: body}
}

// Requests returns a copy of all recorded requests.
func (b *Blinko) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns the number of requests received.
func (b *Blinko) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Last returns the most recent request.
func (b *Blinko) Last(t *testing.T) Request {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatal("stub received no requests")
	}
	return reqs[len(reqs)-1]
}

func (b *Blinko) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	resp, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
