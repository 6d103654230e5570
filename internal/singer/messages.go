// Package singer emits Singer protocol messages as NDJSON on a writer,
// conventionally stdout. One JSON object per line; nothing else may be
// written to the same channel.
package singer

import (
	"encoding/json"
	"io"
)

// SchemaMessage announces a stream's JSON schema before its records.
type SchemaMessage struct {
	Type          string          `json:"type"` // Always "SCHEMA"
	Stream        string          `json:"stream"`
	Schema        json.RawMessage `json:"schema"`
	KeyProperties []string        `json:"key_properties"`
}

// RecordMessage carries one extracted entity instance.
type RecordMessage struct {
	Type   string         `json:"type"` // Always "RECORD"
	Stream string         `json:"stream"`
	Record map[string]any `json:"record"`
}

// StateMessage carries the opaque replication state document.
type StateMessage struct {
	Type  string          `json:"type"` // Always "STATE"
	Value json.RawMessage `json:"value"`
}

// Emitter writes Singer messages with a single shared encoder.
type Emitter struct {
	encoder *json.Encoder
}

// NewEmitter creates an Emitter writing NDJSON to w.
func NewEmitter(w io.Writer) *Emitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep record payloads unescaped
	return &Emitter{encoder: enc}
}

// Schema emits a SCHEMA message for a stream.
func (e *Emitter) Schema(stream string, schema json.RawMessage, keyProperties []string) error {
	if keyProperties == nil {
		keyProperties = []string{}
	}
	return e.encoder.Encode(SchemaMessage{
		Type:          "SCHEMA",
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	})
}

// Record emits a RECORD message for a stream.
func (e *Emitter) Record(stream string, record map[string]any) error {
	return e.encoder.Encode(RecordMessage{
		Type:   "RECORD",
		Stream: stream,
		Record: record,
	})
}

// State emits a STATE message. A nil value is emitted as an empty document.
func (e *Emitter) State(value json.RawMessage) error {
	if len(value) == 0 {
		value = json.RawMessage("{}")
	}
	return e.encoder.Encode(StateMessage{
		Type:  "STATE",
		Value: value,
	})
}
