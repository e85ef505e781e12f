package backend

import "encoding/json"

// envelope is the backend's standard response wrapper
type envelope struct {
	Code    json.RawMessage `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
