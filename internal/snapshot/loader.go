package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

var (
	// ErrNoData is returned when neither current.json nor the legacy documents are usable.
	ErrNoData = errors.New("no grading data available")

	// ErrStaleLoad is returned when a newer load started before this one finished.
	ErrStaleLoad = errors.New("load superseded by a newer load")
)

// Loader turns a DocumentSource into Datasets. Loads may overlap; the most recently
// started one wins and older results are discarded.
type Loader struct {
	source  contract.DocumentSource
	started atomic.Uint64
	latest  atomic.Pointer[schema.Dataset]
}

var _ contract.DatasetLoader = &Loader{} // Compile-time check

// NewLoader returns a loader reading from source.
func NewLoader(source contract.DocumentSource) *Loader {
	return &Loader{source: source}
}

// Latest returns the last committed dataset, or nil before the first successful load.
func (l *Loader) Latest() *schema.Dataset {
	return l.latest.Load()
}

// Load fetches every document and commits the result unless a newer load has started.
func (l *Loader) Load(ctx context.Context) (*schema.Dataset, error) {
	gen := l.started.Add(1)
	ds := &schema.Dataset{
		LoadID:     uuid.NewString(),
		Generation: gen,
		Source:     l.source.Describe(),
	}

	current, err := fetchDocument[schema.CurrentDocument](ctx, l.source, CurrentDocumentName)
	switch {
	case err == nil:
		ds.Current = current
		ds.Generated = current.Generated
		// The index only supplies display names here.
		if index, ierr := fetchDocument[schema.AssignmentsDocument](ctx, l.source, AssignmentsDocumentName); ierr == nil {
			ds.Assignments = index.Assignments
		}
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%s unavailable, using per-assignment documents: %v", CurrentDocumentName, err))
		if lerr := l.loadLegacy(ctx, ds); lerr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w from %s: %v; %v", ErrNoData, ds.Source, err, lerr)
		}
	}

	history, err := fetchDocument[schema.HistoryDocument](ctx, l.source, HistoryDocumentName)
	switch {
	case err == nil:
		ds.History = history
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, ErrNotFound):
		ds.Warnings = append(ds.Warnings, "No history data available yet")
	default:
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("history unavailable, trends are disabled: %v", err))
	}

	if l.started.Load() != gen || !l.commit(ds) {
		return nil, fmt.Errorf("%w (load %d)", ErrStaleLoad, gen)
	}
	return ds, nil
}

// commit publishes ds unless a dataset of the same or a later generation is already committed.
func (l *Loader) commit(ds *schema.Dataset) bool {
	for {
		cur := l.latest.Load()
		if cur != nil && cur.Generation >= ds.Generation {
			return false
		}
		if l.latest.CompareAndSwap(cur, ds) {
			return true
		}
	}
}

// loadLegacy builds the current document from assignments.json and <pattern>.json.
// Individual assignment documents may fail; at least one must load.
func (l *Loader) loadLegacy(ctx context.Context, ds *schema.Dataset) error {
	index, err := fetchDocument[schema.AssignmentsDocument](ctx, l.source, AssignmentsDocumentName)
	if err != nil {
		return err
	}
	if len(index.Assignments) == 0 {
		return fmt.Errorf("%s lists no assignments", AssignmentsDocumentName)
	}

	docs := make(map[string]*schema.AssignmentDocument, len(index.Assignments))
	for _, ref := range index.Assignments {
		doc, err := fetchDocument[schema.AssignmentDocument](ctx, l.source, AssignmentDocumentName(ref.Pattern))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("failed to load %s: %v", ref.Pattern, err))
			continue
		}
		docs[ref.Pattern] = doc
	}
	if len(docs) == 0 {
		return errors.New("no per-assignment document could be loaded")
	}

	ds.Legacy = true
	ds.Assignments = index.Assignments
	ds.Current = core.MergeAssignmentDocuments(index.Assignments, docs)
	ds.Generated = ds.Current.Generated
	return nil
}

// fetchDocument fetches and decodes one JSON document.
func fetchDocument[T any](ctx context.Context, src contract.DocumentSource, name string) (*T, error) {
	data, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &doc, nil
}
