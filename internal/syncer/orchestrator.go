// Package syncer drives incremental synchronization of full-text indices
// against the change log. A pass selects the working set of indices,
// consumes the log in bounded pages starting after the least-advanced
// watermark, applies delete/store commands per index, and commits new
// watermarks once per page.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"searchsync/internal/docbuilder"
	"searchsync/internal/engine"
	"searchsync/internal/metrics"
	"searchsync/internal/record"
	"searchsync/internal/registry"
	"searchsync/internal/tasklog"
	"searchsync/internal/watermark"
)

// Config holds synchronizer configuration.
type Config struct {
	// PageSize is the maximum number of tasks fetched per batch.
	PageSize int `yaml:"page_size"`

	// Interval between scheduled passes.
	Interval time.Duration `yaml:"interval"`

	// LockName is the named lock held for the duration of one pass.
	LockName string `yaml:"lock_name"`

	// LockTTL bounds how long a crashed pass can hold the lock.
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// DefaultConfig returns the default synchronizer configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: 100,
		Interval: 30 * time.Second,
		LockName: "searchsync",
		LockTTL:  2 * time.Minute,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
	}
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.LockName == "" {
		c.LockName = defaults.LockName
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
}

// Orchestrator owns the synchronization algorithm and the index lifecycle
// operations. It holds no internal mutual exclusion: concurrent passes over
// overlapping index sets must be prevented by the caller (see Runner).
type Orchestrator struct {
	cfg      Config
	registry registry.Registry
	tasks    tasklog.Log
	records  record.Store
	builder  docbuilder.Builder
	engine   engine.Engine
	marks    watermark.Store
	logger   *slog.Logger
}

// NewOrchestrator wires the synchronizer against its collaborators.
func NewOrchestrator(
	cfg Config,
	reg registry.Registry,
	tasks tasklog.Log,
	records record.Store,
	builder docbuilder.Builder,
	eng engine.Engine,
	marks watermark.Store,
	logger *slog.Logger,
) *Orchestrator {
	cfg.ApplyDefaults()
	return &Orchestrator{
		cfg:      cfg,
		registry: reg,
		tasks:    tasks,
		records:  records,
		builder:  builder,
		engine:   eng,
		marks:    marks,
		logger:   logger.With("component", "syncer"),
	}
}

// indexState is one index in the working set of a pass.
type indexState struct {
	def    registry.Definition
	mark   int64
	filter *registry.Filter
}

// Synchronize brings one named index (or all indices, when indexName is
// empty) up to date with the change log. An unknown index name is a no-op.
// Any collaborator failure aborts the pass before the current batch's
// watermark commit; the next pass reprocesses the batch, which is safe
// because already-applied tasks are skipped by the watermark check.
func (o *Orchestrator) Synchronize(ctx context.Context, indexName string) error {
	set, err := o.workingSet(ctx, indexName)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return nil
	}

	cursor := set[0].mark
	for _, st := range set[1:] {
		if st.mark < cursor {
			cursor = st.mark
		}
	}

	o.logger.Debug("pass started", "indices", len(set), "cursor", cursor)

	for {
		page, err := o.tasks.Fetch(ctx, cursor, o.cfg.PageSize)
		if err != nil {
			return fmt.Errorf("fetch tasks after %d: %w", cursor, err)
		}
		if len(page) == 0 {
			break
		}

		if err := o.applyBatch(ctx, set, page); err != nil {
			return err
		}

		cursor = page[len(page)-1].ID
		for _, st := range set {
			if st.mark < cursor {
				o.marks.Set(st.def.Name, cursor)
				st.mark = cursor
			}
		}
		if err := o.marks.Commit(ctx); err != nil {
			return fmt.Errorf("commit watermarks at %d: %w", cursor, err)
		}
		metrics.WatermarkCommits.Inc()

		if len(page) < o.cfg.PageSize {
			break
		}
	}

	o.logger.Debug("pass finished", "cursor", cursor)
	return nil
}

// workingSet resolves the indices a pass operates on, paired with their
// current watermarks and compiled filters.
func (o *Orchestrator) workingSet(ctx context.Context, indexName string) ([]*indexState, error) {
	var defs []registry.Definition
	if indexName != "" {
		def, err := o.registry.Get(ctx, indexName)
		if err != nil {
			return nil, fmt.Errorf("resolve index %q: %w", indexName, err)
		}
		if def == nil {
			o.logger.Debug("unknown index, nothing to do", "index", indexName)
			return nil, nil
		}
		defs = []registry.Definition{*def}
	} else {
		var err error
		defs, err = o.registry.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list indices: %w", err)
		}
	}

	set := make([]*indexState, 0, len(defs))
	for _, def := range defs {
		// An index with no included types is inert: it neither receives
		// documents nor holds back the cursor.
		if len(def.IncludedTypes) == 0 {
			continue
		}
		mark, err := o.marks.Get(ctx, def.Name)
		if err != nil {
			return nil, fmt.Errorf("load watermark for %q: %w", def.Name, err)
		}
		st := &indexState{def: def, mark: mark}
		if def.Filter != "" {
			st.filter, err = registry.CompileFilter(def.Filter)
			if err != nil {
				return nil, fmt.Errorf("compile filter for %q: %w", def.Name, err)
			}
		}
		set = append(set, st)
	}
	return set, nil
}

// applyBatch applies one task page to every index in the working set.
func (o *Orchestrator) applyBatch(ctx context.Context, set []*indexState, page []tasklog.Task) error {
	ids := recordIDs(page)

	// Records are resolved once per snapshot mode and shared across the
	// indices using that mode.
	resolved := make(map[bool]map[string]record.Record, 2)

	for _, st := range set {
		records, ok := resolved[st.def.IndexLatest]
		if !ok {
			var err error
			records, err = o.records.ResolveMany(ctx, ids, st.def.IndexLatest)
			if err != nil {
				return fmt.Errorf("resolve records: %w", err)
			}
			resolved[st.def.IndexLatest] = records
		}

		for _, task := range page {
			rec, ok := records[task.RecordID]
			if !ok {
				continue
			}
			if !st.def.Includes(rec.Type) {
				continue
			}
			if task.ID <= st.mark {
				continue
			}
			if st.filter != nil {
				match, err := st.filter.Match(rec.Data)
				if err != nil {
					// An expression that cannot evaluate against this
					// record's data is treated as a filter miss: the task
					// is skipped for this index and the watermark still
					// advances. Aborting would wedge every index in the
					// working set on one bad record.
					o.logger.Warn("filter evaluation failed, skipping record",
						"index", st.def.Name, "record", rec.ID, "error", err)
					continue
				}
				if !match {
					continue
				}
			}

			if err := o.applyTask(ctx, st.def, task, rec); err != nil {
				return err
			}
			metrics.TasksApplied.Inc()
		}
	}
	return nil
}

// applyTask issues the engine commands for one task on one index. The
// delete is unconditional so no stale document survives, regardless of the
// task kind; delete-of-absent is a no-op at the engine boundary.
func (o *Orchestrator) applyTask(ctx context.Context, def registry.Definition, task tasklog.Task, rec record.Record) error {
	if err := o.engine.DeleteDocuments(ctx, def.Name, []string{task.RecordID}); err != nil {
		return fmt.Errorf("delete document %q from %q: %w", task.RecordID, def.Name, err)
	}
	metrics.DocumentsDeleted.Inc()

	if task.Kind != tasklog.KindUpdate {
		return nil
	}

	doc, err := o.builder.Build(ctx, rec, def.IncludedTypes)
	if err != nil {
		return fmt.Errorf("build document %q for %q: %w", task.RecordID, def.Name, err)
	}
	if err := o.engine.StoreDocuments(ctx, def.Name, []docbuilder.Document{doc}); err != nil {
		return fmt.Errorf("store document %q into %q: %w", task.RecordID, def.Name, err)
	}
	metrics.DocumentsStored.Inc()
	return nil
}

// recordIDs collects the distinct record ids of a page, in page order.
func recordIDs(page []tasklog.Task) []string {
	ids := make([]string, 0, len(page))
	seen := make(map[string]bool, len(page))
	for _, task := range page {
		if !seen[task.RecordID] {
			seen[task.RecordID] = true
			ids = append(ids, task.RecordID)
		}
	}
	return ids
}
