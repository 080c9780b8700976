// Package zabbixtest provides a fake Zabbix JSON-RPC server for tests.
package zabbixtest

import (
	"encoding/json"
	"net/http/httptest"
	"sync"
)

// Request is a JSON-RPC request as the fake server received it.
type Request struct {
	JsonRpc string                     `json:"jsonrpc"`
	Method  string                     `json:"method"`
	Params  map[string]json.RawMessage `json:"params"`
	Auth    string                     `json:"auth"`
	Id      int                        `json:"id"`
	// Value of the Authorization header
	Authorization string `json:"-"`
}

// Param decodes the named parameter into v. Param returns false if the
// parameter is absent or cannot be decoded into v.
func (r *Request) Param(name string, v interface{}) bool {
	raw, ok := r.Params[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Handler answers one request. A non-nil error object is sent back as the
// JSON-RPC error member; otherwise result is sent back as the result member.
type Handler func(r *Request) (result interface{}, errObj *Error)

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Server is a fake Zabbix server. Unknown methods get a "Method not found"
// error.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
	status   int
}

// NewServer starts a new fake server. Caller must call Close when done.
func NewServer() *Server {
	return newServer()
}

// Handle registers handler for method.
func (s *Server) Handle(method string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// HandleResult registers a handler that always returns result.
func (s *Server) HandleResult(method string, result interface{}) {
	s.Handle(method, func(*Request) (interface{}, *Error) {
		return result, nil
	})
}

// FailWithStatus makes every following request fail with the given HTTP
// status code. 0 restores normal operation.
func (s *Server) FailWithStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the requests received so far in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Request, len(s.requests))
	copy(result, s.requests)
	return result
}

// Methods returns the method of each request received so far in order.
func (s *Server) Methods() (result []string) {
	for _, r := range s.Requests() {
		result = append(result, r.Method)
	}
	return
}

// Url returns the endpoint URL of the fake server.
func (s *Server) Url() string {
	return s.Server.URL + "/api_jsonrpc.php"
}
