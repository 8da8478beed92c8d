package v1

import (
	"encoding/json"
	"strings"
	"time"
)

// Envelope is the versioned event envelope every publisher emits.
// Field names are part of the wire contract; add fields, never rename them.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	EntityType    string          `json:"entity_type"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

// Subject maps the event type onto a bus subject under prefix,
// e.g. "library" + "article.published" -> "library.article.published".
func (e Envelope) Subject(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return e.EventType
	}
	return prefix + "." + e.EventType
}
