// Copyright 2025 AscendedCode

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package onstest implements a scripted test double for the ONS API, for use
// in tests of the ons package and its clients. Responses are scripted per
// URL path, and every request is recorded so that tests can assert on call
// counts and query parameters.
package onstest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

type response struct {
	status int
	body   string
}

// Server is a scripted HTTP server speaking the API's JSON wire format.
type Server struct {
	mu        sync.Mutex
	srv       *httptest.Server
	responses map[string][]response
	handlers  map[string]http.HandlerFunc
	calls     map[string]int
	queries   map[string]url.Values
	total     int
}

// NewServer creates and starts a new test server. Unscripted paths respond
// with a 404 and a JSON message body, like the live API.
func NewServer() *Server {
	s := &Server{
		responses: make(map[string][]response),
		handlers:  make(map[string]http.HandlerFunc),
		calls:     make(map[string]int),
		queries:   make(map[string]url.Values),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Respond scripts a response for a path. Successive calls for the same path
// queue bodies served in order; the last one repeats for any further
// requests.
func (s *Server) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = append(s.responses[path], response{status: status, body: body})
}

// Handle registers a dynamic handler for a path, taking precedence over
// scripted responses.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[path] = h
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	path := r.URL.Path
	s.calls[path]++
	s.total++
	s.queries[path] = r.URL.Query()
	if h, ok := s.handlers[path]; ok {
		s.mu.Unlock()
		h(w, r)
		return
	}
	q := s.responses[path]
	var resp response
	switch {
	case len(q) == 0:
		resp = response{status: http.StatusNotFound, body: `{"message": "not found"}`}
	case len(q) == 1:
		resp = q[0]
	default:
		resp = q[0]
		s.responses[path] = q[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	io.WriteString(w, resp.body)
}

// Calls returns how many requests hit the given path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls returns how many requests the server received in total.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Query returns the query values of the last request to the given path.
func (s *Server) Query(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[path]
}

// URL of the server, to be assigned to ons.URL in tests.
func (s *Server) URL() string { return s.srv.URL }

// Client returns the HTTP client to reach the server with.
func (s *Server) Client() *http.Client { return s.srv.Client() }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }
