package table

import (
	"context"

	"github.com/TFMV/icecore/iceberg/catalog"
	"github.com/TFMV/icecore/iceberg/spec"
)

// Tabular is the common read surface spec.md §4.I gives every catalog
// object: an identifier, its durable metadata, the catalog that owns it,
// and a way to pick up a concurrent writer's changes. *Table implements
// it today; View and MaterializedView are named in spec.md's glossary but
// not implemented (views have no data files or manifests of their own to
// drive the commit pipeline this package builds — see DESIGN.md).
type Tabular interface {
	Identifier() string
	Metadata() *spec.TableMetadata
	Catalog() catalog.Catalog
	Reload(ctx context.Context) error
}

var _ Tabular = (*Table)(nil)
