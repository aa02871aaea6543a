// Package record defines the content record model and the Store contract
// used to resolve records during index synchronization.
package record

import "context"

// Record is one content item as resolved from the record store.
type Record struct {
	// ID is the unique record identifier.
	ID string `json:"id" bson:"_id"`

	// Type is the content type of the record, matched against an index
	// definition's included types.
	Type string `json:"type" bson:"type"`

	// Data is the record payload the document builder works from.
	Data map[string]interface{} `json:"data" bson:"data"`

	// Version is the optimistic concurrency control version.
	Version int64 `json:"version" bson:"version"`

	// UpdatedAt is the timestamp of the last update (Unix milliseconds).
	UpdatedAt int64 `json:"updated_at" bson:"updated_at"`
}

// Store resolves records in bulk.
//
// Implementations must omit ids that do not resolve (deleted or
// inaccessible records) from the result instead of returning an error.
type Store interface {
	// ResolveMany resolves the given record ids. When latest is false the
	// published snapshot of each record is returned; records without a
	// published snapshot are omitted.
	ResolveMany(ctx context.Context, ids []string, latest bool) (map[string]Record, error)
}
