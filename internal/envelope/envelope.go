// Package envelope defines the uniform response wrapper returned by every
// Timon API operation.
package envelope

import "encoding/json"

// Envelope is the single return shape for every public Timon operation.
// Payload is omitted on failure.
type Envelope struct {
	Status  uint16          `json:"status"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OK builds a 200 envelope, marshaling payload into the Payload field.
// A marshal failure collapses to an error envelope instead of panicking.
func OK(message string, payload any) Envelope {
	if payload == nil {
		return Envelope{Status: 200, Message: message}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Err(err)
	}
	return Envelope{Status: 200, Message: message, Payload: raw}
}

// Err builds a 400 envelope from a Go error.
func Err(err error) Envelope {
	return Envelope{Status: 400, Message: err.Error()}
}

// Errf builds a 400 envelope from a plain message, for callers with no
// underlying error value.
func Errf(message string) Envelope {
	return Envelope{Status: 400, Message: message}
}

// IsOK reports whether the envelope represents success.
func (e Envelope) IsOK() bool {
	return e.Status == 200
}

// Unmarshal decodes the payload into dst. Returns an error if the envelope
// carries no payload or the JSON does not match dst's shape.
func (e Envelope) Unmarshal(dst any) error {
	if len(e.Payload) == 0 {
		return errNoPayload
	}
	return json.Unmarshal(e.Payload, dst)
}
