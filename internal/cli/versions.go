package cli

import (
	"github.com/spf13/cobra"

	"github.com/toolshelf/toolshelf/pkg/catalog/store"
	"github.com/toolshelf/toolshelf/pkg/enrich"
	"github.com/toolshelf/toolshelf/pkg/integrations/github"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <catalog.json>",
		Short: "Bump catalog versions to the latest GitHub release tags",
		Long: `Versions checks every GitHub-hosted tool in the catalog against the
latest release tag and updates stale entries in place. The file is only
rewritten when at least one version changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			backend, err := c.newCacheBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			spinner := newSpinnerWithContext(ctx, "Checking latest releases...")
			spinner.Start()

			s := store.NewFileStore(args[0], args[0])
			report, err := enrich.UpdateVersions(ctx, s, github.NewClient(cfg, backend, logger), logger)
			spinner.Stop()
			if err != nil {
				return err
			}

			if !report.Changed() {
				printInfo("All %d checked versions are current", report.Checked)
				return nil
			}

			printSuccess("Updated %d of %d versions (run %s)", len(report.Updated), report.Checked, report.RunID)
			for _, name := range report.Updated {
				printDetail("bumped %s", name)
			}
			printFile(args[0])
			return nil
		},
	}
}
