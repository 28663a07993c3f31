// Package enrich runs the catalog enrichment pipeline: normalize each
// tool record, classify its repository URL, fetch platform metadata
// through the matching client, and merge the snapshot into the record.
//
// The pipeline never aborts a run for a single bad repository. Fetch
// failures degrade to an empty snapshot and the tool is reported as
// skipped; only context cancellation stops the run early.
package enrich
