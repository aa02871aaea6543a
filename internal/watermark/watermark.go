// Package watermark tracks, per index, the last fully applied task id.
//
// Set calls are buffered; Commit persists everything buffered since the
// previous Commit as one unit. The synchronizer batches all Set calls for
// one pass batch and commits exactly once per batch, so a crash between
// task application and commit is recovered by re-running the pass.
package watermark

import "context"

// Store is the durable watermark mapping owned by the synchronizer.
type Store interface {
	// Get returns the watermark for an index, 0 if absent. Buffered but
	// uncommitted Set calls are visible to Get.
	Get(ctx context.Context, index string) (int64, error)

	// Set buffers a new watermark for an index until the next Commit.
	Set(index string, taskID int64)

	// Commit durably persists all buffered Set calls as one unit. When it
	// fails the buffer is discarded: the caller aborts its pass and a
	// later pass recomputes marks from the committed state, reapplying the
	// lost batch idempotently.
	Commit(ctx context.Context) error

	// Delete removes an index's watermark, buffered or committed.
	Delete(ctx context.Context, index string) error
}
