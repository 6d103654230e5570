// Package catalog defines the discovery catalog: the set of streams the tap
// can replicate, each with its schema and replication policy.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dbsmedya/tap-bingads/internal/schema"
)

// Replication modes. INCREMENTAL is declared for completeness; every core
// object stream replicates FULL_TABLE.
const (
	ReplicationFullTable   = "FULL_TABLE"
	ReplicationIncremental = "INCREMENTAL"
)

// Stream describes one discoverable entity kind.
type Stream struct {
	TapStreamID       string          `json:"tap_stream_id"`
	Stream            string          `json:"stream"`
	KeyProperties     []string        `json:"key_properties"`
	Schema            json.RawMessage `json:"schema"`
	ReplicationMethod string          `json:"replication_method"`
	ReplicationKey    string          `json:"replication_key,omitempty"`
	Selected          *bool           `json:"selected,omitempty"`
}

// Catalog is the complete discovery output.
type Catalog struct {
	Streams []Stream `json:"streams"`
}

// NewStream wraps a resolved entity schema into a stream definition.
// Replication is INCREMENTAL iff a replication key is supplied.
func NewStream(name string, keyProperties []string, frag *schema.Fragment, replicationKey string) (Stream, error) {
	if name == "" {
		return Stream{}, fmt.Errorf("stream name is required")
	}
	if frag == nil {
		return Stream{}, fmt.Errorf("stream %q has no schema", name)
	}

	raw, err := json.Marshal(frag)
	if err != nil {
		return Stream{}, fmt.Errorf("failed to serialize schema for stream %q: %w", name, err)
	}

	method := ReplicationFullTable
	if replicationKey != "" {
		method = ReplicationIncremental
	}

	return Stream{
		TapStreamID:       name,
		Stream:            name,
		KeyProperties:     keyProperties,
		Schema:            raw,
		ReplicationMethod: method,
		ReplicationKey:    replicationKey,
	}, nil
}

// IsSelected reports whether the stream should be synced. Streams are
// selected unless the catalog marks them "selected": false.
func (s *Stream) IsSelected() bool {
	return s.Selected == nil || *s.Selected
}

// Get returns the stream with the given tap_stream_id, or nil.
func (c *Catalog) Get(tapStreamID string) *Stream {
	for i := range c.Streams {
		if c.Streams[i].TapStreamID == tapStreamID {
			return &c.Streams[i]
		}
	}
	return nil
}

// Load reads a catalog document from a file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return &cat, nil
}
