package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest is one request received by a FakeBackend
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map
func (r RecordedRequest) JSON() map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type cannedResponse struct {
	status int
	body   string
}

// FakeBackend is an httptest server standing in for the CodeMe backend. It
// records every request and answers with the response registered for
// "METHOD path", or 404 with a FastAPI style body.
type FakeBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses map[string]cannedResponse
}

// NewFakeBackend starts a FakeBackend; call Close when done
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{responses: make(map[string]cannedResponse)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

// URL returns the base URL of the backend
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// Close shuts the server down
func (b *FakeBackend) Close() {
	b.Server.Close()
}

// Respond registers the answer for method and path
func (b *FakeBackend) Respond(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns a copy of the requests received so far
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := b.responses[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
