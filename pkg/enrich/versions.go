package enrich

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/toolshelf/toolshelf/pkg/catalog/store"
	"github.com/toolshelf/toolshelf/pkg/integrations"
)

// ReleaseFetcher looks up the latest release tag for a repository path.
// The GitHub client implements it; GitLab exposes no equivalent shortcut.
type ReleaseFetcher interface {
	LatestRelease(ctx context.Context, path string) (string, error)
}

// VersionReport summarizes one version-bump run.
type VersionReport struct {
	RunID    uuid.UUID
	Checked  int
	Updated  []string
	Duration time.Duration
}

// Changed reports whether any version was bumped.
func (r *VersionReport) Changed() bool { return len(r.Updated) > 0 }

// UpdateVersions checks every GitHub-hosted tool in the store's catalog
// against its latest release tag and bumps stale versions. The catalog
// is only written back when at least one version changed, so an
// up-to-date catalog file is left untouched.
func UpdateVersions(ctx context.Context, s store.Store, releases ReleaseFetcher, logger *log.Logger) (*VersionReport, error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &VersionReport{RunID: uuid.New()}
	start := time.Now()

	for _, name := range c.Names() {
		tool := c[name]
		platform, path, ok := integrations.ParseRepoURL(tool.URL)
		if !ok || platform != integrations.PlatformGitHub {
			continue
		}
		report.Checked++

		tag, err := releases.LatestRelease(ctx, path)
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if tag == "" || tag == tool.Version {
			continue
		}

		logger.Infof("%s: %s -> %s", name, tool.Version, tag)
		tool.Version = tag
		report.Updated = append(report.Updated, name)
	}
	report.Duration = time.Since(start)

	if report.Changed() {
		if err := s.Save(ctx, c); err != nil {
			return report, err
		}
	}
	return report, nil
}
