// Package docbuilder turns a resolved record into the field set stored in
// an index. Building is a chain of independent handlers invoked in
// registration order; their partial outputs are merged into one document.
package docbuilder

import (
	"context"
	"fmt"

	"searchsync/internal/record"
)

// Document is the field set produced for one record. It is transient and
// rebuilt fresh on every synchronization pass.
type Document struct {
	RecordID string                 `json:"record_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// Builder produces the document for a record. applicableTypes is the set
// of content types the target index covers, so handlers can specialize
// their output per index.
type Builder interface {
	Build(ctx context.Context, rec record.Record, applicableTypes []string) (Document, error)
}

// Handler contributes partial fields to a document.
type Handler interface {
	Build(ctx context.Context, rec record.Record, applicableTypes []string) (map[string]interface{}, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, rec record.Record, applicableTypes []string) (map[string]interface{}, error)

func (f HandlerFunc) Build(ctx context.Context, rec record.Record, applicableTypes []string) (map[string]interface{}, error) {
	return f(ctx, rec, applicableTypes)
}

// Chain runs handlers in registration order and merges their outputs.
// Later handlers overwrite fields emitted by earlier ones.
type Chain struct {
	handlers []Handler
}

// NewChain creates a builder chain from the given handlers.
func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Append registers an additional handler at the end of the chain.
func (c *Chain) Append(h Handler) {
	c.handlers = append(c.handlers, h)
}

func (c *Chain) Build(ctx context.Context, rec record.Record, applicableTypes []string) (Document, error) {
	fields := make(map[string]interface{})
	for _, h := range c.handlers {
		partial, err := h.Build(ctx, rec, applicableTypes)
		if err != nil {
			return Document{}, fmt.Errorf("build document for %q: %w", rec.ID, err)
		}
		for k, v := range partial {
			fields[k] = v
		}
	}
	return Document{RecordID: rec.ID, Fields: fields}, nil
}

// Data copies the record payload into the document verbatim.
func Data() Handler {
	return HandlerFunc(func(_ context.Context, rec record.Record, _ []string) (map[string]interface{}, error) {
		fields := make(map[string]interface{}, len(rec.Data))
		for k, v := range rec.Data {
			fields[k] = v
		}
		return fields, nil
	})
}

// Metadata emits the record's identity and bookkeeping fields.
func Metadata() Handler {
	return HandlerFunc(func(_ context.Context, rec record.Record, _ []string) (map[string]interface{}, error) {
		return map[string]interface{}{
			"_record":     rec.ID,
			"_type":       rec.Type,
			"_version":    rec.Version,
			"_updated_at": rec.UpdatedAt,
		}, nil
	})
}
