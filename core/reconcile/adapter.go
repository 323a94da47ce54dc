package reconcile

import "context"

// Adapter defines the model-specific reconciliation logic: how to load both
// sources and how to compare one entity across them.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "attributes").
	Name() string

	// LoadDBIndex loads the stored entities indexed by entity key.
	LoadDBIndex(ctx context.Context) (map[string]Entity, error)

	// LoadDocumentIndex loads the document entities indexed by entity key.
	LoadDocumentIndex(ctx context.Context) (map[string]Entity, error)

	// ResolveName returns the display name given the available items.
	// Either item may be nil if not present in that source.
	ResolveName(dbItem, docItem Entity) string

	// CompareFields lists the differences between both items. Both items
	// are non-nil when this is called.
	CompareFields(dbItem, docItem Entity) []string
}
