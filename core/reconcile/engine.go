package reconcile

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Reconcile loads both sources concurrently and returns one result per key
// found in either of them, sorted by key.
func Reconcile(ctx context.Context, adapter Adapter) (*Report, error) {
	var dbIndex, docIndex map[string]Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := adapter.LoadDBIndex(gctx)
		if err != nil {
			return fmt.Errorf("%s: failed to load database index: %w", adapter.Name(), err)
		}
		dbIndex = idx
		return nil
	})
	g.Go(func() error {
		idx, err := adapter.LoadDocumentIndex(gctx)
		if err != nil {
			return fmt.Errorf("%s: failed to load document index: %w", adapter.Name(), err)
		}
		docIndex = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	union := buildUnion(dbIndex, docIndex)
	results := make([]Result, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, dbIndex, docIndex, adapter))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	return &Report{
		Adapter: adapter.Name(),
		Results: results,
		Summary: summarize(results),
	}, nil
}

// buildUnion creates a union of the keys of both indices.
func buildUnion(dbIndex, docIndex map[string]Entity) map[string]struct{} {
	union := make(map[string]struct{}, len(dbIndex)+len(docIndex))
	for key := range dbIndex {
		union[key] = struct{}{}
	}
	for key := range docIndex {
		union[key] = struct{}{}
	}
	return union
}

// buildResult creates a Result for a single key.
func buildResult(key string, dbIndex, docIndex map[string]Entity, adapter Adapter) Result {
	dbItem, dbPresent := dbIndex[key]
	docItem, docPresent := docIndex[key]

	result := Result{
		ID:              key,
		DBPresent:       dbPresent,
		DocumentPresent: docPresent,
		Name:            adapter.ResolveName(dbItem, docItem),
		Mismatch:        []string{},
	}

	if dbPresent && docPresent {
		if m := adapter.CompareFields(dbItem, docItem); len(m) > 0 {
			result.Mismatch = m
		}
	}
	return result
}

func summarize(results []Result) Summary {
	s := Summary{TotalItems: len(results)}
	for _, r := range results {
		if !r.DocumentPresent {
			s.MissingDocument++
		}
		if !r.DBPresent {
			s.MissingDB++
		}
		if len(r.Mismatch) > 0 {
			s.Mismatches++
		}
	}
	return s
}
