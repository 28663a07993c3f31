package enrich

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/toolshelf/toolshelf/pkg/catalog"
	"github.com/toolshelf/toolshelf/pkg/integrations"
	"github.com/toolshelf/toolshelf/pkg/observe"
)

// Fetcher retrieves the metadata snapshot for one repository path on a
// single platform. The platform clients in pkg/integrations implement
// it; tests inject fakes.
type Fetcher interface {
	Platform() integrations.Platform
	Fetch(ctx context.Context, path string) (*integrations.RepoMeta, error)
}

// Report summarizes one enrichment run.
type Report struct {
	RunID     uuid.UUID
	Processed int
	Enriched  int
	Skipped   []string
	Duration  time.Duration
}

// Enricher walks a catalog and merges fetched metadata into its records.
type Enricher struct {
	fetchers map[integrations.Platform]Fetcher
	synonyms map[string]string
	logger   *log.Logger

	// Progress, when set, is called before each tool is processed.
	Progress func(name string, index, total int)
}

// New creates an Enricher using the given fetchers. The synonyms map is
// merged over the built-in category table; nil keeps the defaults.
func New(logger *log.Logger, synonyms map[string]string, fetchers ...Fetcher) *Enricher {
	if logger == nil {
		logger = log.Default()
	}
	byPlatform := make(map[integrations.Platform]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}
	return &Enricher{fetchers: byPlatform, synonyms: synonyms, logger: logger}
}

// Enrich processes every tool in name order. Each record is normalized
// regardless of whether metadata can be fetched for it; records whose
// URL belongs to no known platform, or whose fetch degraded, end up in
// the skipped list. The catalog is mutated in place.
func (e *Enricher) Enrich(ctx context.Context, c catalog.Catalog) (*Report, error) {
	report := &Report{RunID: uuid.New()}
	start := time.Now()

	names := c.Names()
	for i, name := range names {
		if e.Progress != nil {
			e.Progress(name, i, len(names))
		}

		tool := c[name]
		tool.Normalize(e.synonyms)
		report.Processed++

		platform, path, ok := integrations.ParseRepoURL(tool.URL)
		observe.Enrich().OnToolStart(ctx, name, string(platform))
		toolStart := time.Now()

		if !ok {
			e.logger.Debugf("skipping %s: URL %q is not a known platform", name, tool.URL)
			report.Skipped = append(report.Skipped, name)
			observe.Enrich().OnToolComplete(ctx, name, string(platform), false, time.Since(toolStart))
			continue
		}
		fetcher, found := e.fetchers[platform]
		if !found {
			e.logger.Debugf("skipping %s: no %s fetcher configured", name, platform)
			report.Skipped = append(report.Skipped, name)
			observe.Enrich().OnToolComplete(ctx, name, string(platform), false, time.Since(toolStart))
			continue
		}

		meta, err := fetcher.Fetch(ctx, path)
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if meta.Empty() {
			e.logger.Warnf("no metadata for %s (%s)", name, tool.URL)
			report.Skipped = append(report.Skipped, name)
			observe.Enrich().OnToolComplete(ctx, name, string(platform), false, time.Since(toolStart))
			continue
		}

		merge(tool, meta)
		report.Enriched++
		observe.Enrich().OnToolComplete(ctx, name, string(platform), true, time.Since(toolStart))
		e.logger.Debugf("enriched %s from %s", name, platform)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// merge copies the fetched fields onto the record. The version is only
// overwritten when the platform reported a latest release tag; the
// normalized placeholder stays otherwise.
func merge(t *catalog.Tool, meta *integrations.RepoMeta) {
	if meta.Stars != nil {
		t.Stars = meta.Stars
	}
	if meta.Forks != nil {
		t.Forks = meta.Forks
	}
	if meta.License != nil {
		t.License = meta.License
	}
	archived := meta.Archived
	t.Archived = &archived

	if meta.LatestVersion != nil && *meta.LatestVersion != "" {
		t.Version = *meta.LatestVersion
	}
}
