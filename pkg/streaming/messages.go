// Package streaming defines the messages pushed to browsers over the
// live-update WebSocket.
package streaming

import (
	"encoding/json"
	"fmt"
)

// Message type constants of the live-update protocol.
const (
	TypeLoading = "loading"
	TypeLoaded  = "loaded"
	TypeFailed  = "failed"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LoadingPayload announces an import that has started.
type LoadingPayload struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// LoadedPayload carries the view of a successful import. View is the
// JSON form of the render view.
type LoadedPayload struct {
	ID   string `json:"id"`
	View any    `json:"view"`
}

// FailedPayload carries the error status of a failed import.
type FailedPayload struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Status any    `json:"status"`
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
