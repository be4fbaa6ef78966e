// Package testutil provides testing utilities for the CloudHealth client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// RecordedRequest is what the mock saw for one request.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// MockAPI is a configurable mock CloudHealth server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	token    string
	requests []RecordedRequest
}

// NewMockAPI creates a new mock API server. When token is non-empty,
// requests without "Authorization: Bearer <token>" get a 401.
func NewMockAPI(token string) *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		token:    token,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if mock.token != "" && r.Header.Get("Authorization") != "Bearer "+mock.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}

		if exists {
			handler(w, r)
			return
		}

		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
	}))

	return mock
}

// URL returns the mock server URL with a trailing slash, ready to be used
// as a base URL.
func (m *MockAPI) URL() string {
	return m.server.URL + "/"
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetCustomers serves customers from /v1/customers, honoring page and
// per_page the way the real API does: a page past the end is empty.
func (m *MockAPI) SetCustomers(customers []map[string]any) {
	m.SetHandler("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
		if err != nil || perPage < 1 {
			perPage = 30
		}

		start := (page - 1) * perPage
		if start > len(customers) {
			start = len(customers)
		}
		end := start + perPage
		if end > len(customers) {
			end = len(customers)
		}

		pageItems := append([]map[string]any{}, customers[start:end]...)
		writeJSON(w, http.StatusOK, map[string]any{"customers": pageItems})
	})
}

// SetSearchResults serves results for one entity name from /api/search.json.
// Entities without configured results get an empty array.
func (m *MockAPI) SetSearchResults(entity string, results []map[string]any) {
	m.mu.Lock()
	existing := m.handlers["/api/search.json"]
	m.mu.Unlock()

	m.SetHandler("/api/search.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == entity {
			writeJSON(w, http.StatusOK, results)
			return
		}
		if existing != nil {
			existing(w, r)
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests, in arrival order.
func (m *MockAPI) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewTextResponse creates a response with a non-JSON body.
func NewTextResponse(status int, text string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       text,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
	}
}
