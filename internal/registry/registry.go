// Package registry holds index definitions: which indices exist, which
// content types they cover, and whether they index the latest or the
// published snapshot of a record.
package registry

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidDefinition is returned when a definition fails validation.
var ErrInvalidDefinition = errors.New("invalid index definition")

// Definition describes one index.
type Definition struct {
	// Name uniquely identifies the index.
	Name string `yaml:"name" bson:"_id"`

	// IncludedTypes lists the content types this index covers. An index
	// with no included types is inert and never receives documents.
	IncludedTypes []string `yaml:"included_types" bson:"included_types"`

	// IndexLatest selects the latest working snapshot instead of the
	// published snapshot when resolving records.
	IndexLatest bool `yaml:"index_latest" bson:"index_latest"`

	// Filter is an optional CEL expression over the record data (bound to
	// the doc variable). Records it rejects are skipped for this index.
	Filter string `yaml:"filter,omitempty" bson:"filter,omitempty"`
}

// Includes reports whether recordType is covered by this index.
func (d Definition) Includes(recordType string) bool {
	for _, t := range d.IncludedTypes {
		if t == recordType {
			return true
		}
	}
	return false
}

// Validate checks the definition for structural problems, including that
// the filter expression compiles.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if d.Filter != "" {
		if _, err := CompileFilter(d.Filter); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
	}
	return nil
}

// Registry is the durable list of index definitions.
type Registry interface {
	// List returns all definitions.
	List(ctx context.Context) ([]Definition, error)

	// Get returns the definition with the given name, or nil if absent.
	Get(ctx context.Context, name string) (*Definition, error)

	// Put creates or replaces a definition.
	Put(ctx context.Context, def Definition) error

	// Delete removes a definition. Removing an absent definition is a no-op.
	Delete(ctx context.Context, name string) error
}
