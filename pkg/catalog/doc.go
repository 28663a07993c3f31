// Package catalog defines the tool catalog data model.
//
// A Catalog maps tool names to Tool records read from a JSON document.
// Records are treated as open documents: keys the enricher does not know
// about are preserved verbatim across a read/write round trip, so the
// catalog file can carry fields owned by other tooling.
//
// The package also implements the two normalization rules applied to
// every record before enrichment: category strings are folded through a
// synonym table into a deduplicated lowercase list, and the "latest"
// version placeholder is rewritten to the "unknown" sentinel so a fetched
// release tag can overwrite it.
package catalog
