// Package store persists tool catalogs. The file store is the default
// workflow (read a JSON catalog, write the enriched sibling); the Mongo
// store serves deployments that keep the catalog in a database.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/toolshelf/toolshelf/pkg/catalog"
)

// Store loads and saves a catalog.
type Store interface {
	Load(ctx context.Context) (catalog.Catalog, error)
	Save(ctx context.Context, c catalog.Catalog) error
}

// DerivedPath returns the default output path for an enriched catalog:
// the input path with an "_enhanced" suffix before the extension.
func DerivedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_enhanced" + ext
}
