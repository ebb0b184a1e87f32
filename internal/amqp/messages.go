package amqp

import (
	"encoding/json"
	"time"

	"burokasa/internal/core"
)

// Operations carried by a record change message.
const (
	OpCreate = "create"
	OpDelete = "delete"
)

// RecordChangeMessage announces that one row of a collection changed.
// It is deliberately lightweight: consumers recompute reports from the
// database, they never patch cached aggregates from message payloads.
type RecordChangeMessage struct {
	Kind      core.SourceKind `json:"kind"`
	ID        string          `json:"id"`
	Op        string          `json:"op"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewRecordChangeMessage creates a change message stamped with now.
func NewRecordChangeMessage(kind core.SourceKind, id, op string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Kind:      kind,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON parses a message from JSON bytes.
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
