package syncer

import (
	"context"
	"errors"
	"fmt"

	"searchsync/internal/registry"
)

// ErrUnknownIndex is returned by lifecycle operations on an index that has
// no definition.
var ErrUnknownIndex = errors.New("unknown index")

// CreateIndex persists the definition, creates the physical index and
// resets its watermark so the next pass populates it from the start of the
// retained change log.
func (o *Orchestrator) CreateIndex(ctx context.Context, def registry.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := o.registry.Put(ctx, def); err != nil {
		return fmt.Errorf("persist definition %q: %w", def.Name, err)
	}
	if err := o.engine.CreateIndex(ctx, def.Name); err != nil {
		return fmt.Errorf("create index %q: %w", def.Name, err)
	}
	o.logger.Info("index created", "index", def.Name, "types", def.IncludedTypes)
	return o.ResetIndex(ctx, def.Name)
}

// EditIndex persists an updated definition. It does not force
// resynchronization: filter changes take effect on the next naturally
// triggered pass, and tasks already skipped under the old filter stay
// skipped until ResetIndex or RebuildIndex.
func (o *Orchestrator) EditIndex(ctx context.Context, def registry.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := o.registry.Put(ctx, def); err != nil {
		return fmt.Errorf("persist definition %q: %w", def.Name, err)
	}
	o.logger.Info("index definition updated", "index", def.Name)
	return nil
}

// DeleteIndex drops the physical index, then removes the definition and
// the watermark.
func (o *Orchestrator) DeleteIndex(ctx context.Context, def registry.Definition) error {
	if err := o.engine.DeleteIndex(ctx, def.Name); err != nil {
		return fmt.Errorf("drop index %q: %w", def.Name, err)
	}
	if err := o.registry.Delete(ctx, def.Name); err != nil {
		return fmt.Errorf("remove definition %q: %w", def.Name, err)
	}
	if err := o.marks.Delete(ctx, def.Name); err != nil {
		return fmt.Errorf("remove watermark %q: %w", def.Name, err)
	}
	o.logger.Info("index deleted", "index", def.Name)
	return nil
}

// ResetIndex sets the index's watermark to 0 without touching the physical
// index. The next pass reprocesses the retained change log; documents for
// content types no longer included persist until individually superseded.
func (o *Orchestrator) ResetIndex(ctx context.Context, name string) error {
	o.marks.Set(name, 0)
	if err := o.marks.Commit(ctx); err != nil {
		return fmt.Errorf("reset watermark %q: %w", name, err)
	}
	o.logger.Info("index watermark reset", "index", name)
	return nil
}

// RebuildIndex drops and recreates the physical index, then resets the
// watermark so the next pass repopulates it.
func (o *Orchestrator) RebuildIndex(ctx context.Context, name string) error {
	def, err := o.registry.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("resolve index %q: %w", name, err)
	}
	if def == nil {
		return fmt.Errorf("%w: %q", ErrUnknownIndex, name)
	}

	if err := o.engine.DeleteIndex(ctx, name); err != nil {
		return fmt.Errorf("drop index %q: %w", name, err)
	}
	if err := o.engine.CreateIndex(ctx, name); err != nil {
		return fmt.Errorf("recreate index %q: %w", name, err)
	}
	o.logger.Info("index rebuilt", "index", name)
	return o.ResetIndex(ctx, name)
}
