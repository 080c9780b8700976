package zabbixtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

const (
	kMethodNotFound = -32601
)

type responseType struct {
	JsonRpc string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Id      int         `json:"id"`
}

func newServer() *Server {
	result := &Server{handlers: make(map[string]Handler)}
	result.Server = httptest.NewServer(http.HandlerFunc(result.serveHTTP))
	return result
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Authorization = r.Header.Get("Authorization")
	s.mu.Lock()
	s.requests = append(s.requests, req)
	status := s.status
	handler := s.handlers[req.Method]
	s.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	response := responseType{JsonRpc: "2.0", Id: req.Id}
	if handler == nil {
		response.Error = &Error{
			Code:    kMethodNotFound,
			Message: "Method not found.",
			Data:    "Incorrect API \"" + req.Method + "\".",
		}
	} else {
		response.Result, response.Error = handler(&req)
		// An empty list must still be sent as a result.
		if response.Error == nil && response.Result == nil {
			response.Result = []interface{}{}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&response)
}
