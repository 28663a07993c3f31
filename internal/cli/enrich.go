package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolshelf/toolshelf/pkg/catalog/store"
	"github.com/toolshelf/toolshelf/pkg/enrich"
	"github.com/toolshelf/toolshelf/pkg/integrations/github"
	"github.com/toolshelf/toolshelf/pkg/integrations/gitlab"
)

// enrichCommand creates the enrich command.
func (c *CLI) enrichCommand() *cobra.Command {
	var (
		output    string
		inPlace   bool
		backend   string
		mongoURI  string
		mongoDB   string
		mongoColl string
	)

	cmd := &cobra.Command{
		Use:   "enrich [catalog.json]",
		Short: "Fetch repository metadata and write the enriched catalog",
		Long: `Enrich reads a JSON tool catalog, normalizes categories and version
placeholders, fetches stars, forks, license and release information for
every GitHub or GitLab hosted tool, and writes the enriched catalog.

By default the result is written next to the input as
<catalog>_enhanced.json; use --output to choose another path or
--in-place to overwrite the input file. With --store mongo the catalog
lives in a MongoDB collection instead of a file and no path argument is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var s store.Store
			var outPath string
			switch backend {
			case "file":
				if len(args) != 1 {
					return fmt.Errorf("the file store requires a catalog path argument")
				}
				if inPlace {
					if output != "" {
						return fmt.Errorf("--output and --in-place are mutually exclusive")
					}
					output = args[0]
				}
				fs := store.NewFileStore(args[0], output)
				s, outPath = fs, fs.OutputPath()
			case "mongo":
				if len(args) != 0 || output != "" || inPlace {
					return fmt.Errorf("the mongo store takes no path arguments")
				}
				ms, err := store.NewMongoStore(ctx, store.MongoOptions{
					URI:        mongoURI,
					Database:   mongoDB,
					Collection: mongoColl,
				})
				if err != nil {
					return err
				}
				defer ms.Close(ctx)
				s = ms
			default:
				return fmt.Errorf("unknown store %q (want file or mongo)", backend)
			}

			cat, err := s.Load(ctx)
			if err != nil {
				return err
			}
			if len(cat) == 0 {
				printInfo("Catalog is empty, nothing to do")
				return nil
			}

			cacheStore, err := c.newCacheBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer cacheStore.Close()

			enricher := enrich.New(logger, cfg.Categories.Synonyms,
				github.NewClient(cfg, cacheStore, logger),
				gitlab.NewClient(cfg, cacheStore, logger),
			)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Enriching %d tools...", len(cat)))
			enricher.Progress = func(name string, index, total int) {
				spinner.SetMessage(fmt.Sprintf("[%d/%d] %s", index+1, total, name))
			}
			spinner.Start()

			prog := newProgress(logger)
			report, err := enricher.Enrich(ctx, cat)
			spinner.Stop()
			if err != nil {
				if spinner.Cancelled() {
					printWarning("Enrichment interrupted")
				}
				return err
			}

			if err := s.Save(ctx, cat); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Enriched %d of %d tools", report.Enriched, report.Processed))

			printSuccess("Catalog enriched (run %s)", report.RunID)
			printStats(report.Processed, report.Enriched, len(report.Skipped))
			for _, name := range report.Skipped {
				printDetail("skipped %s", name)
			}
			if outPath != "" {
				printFile(outPath)
				if !inPlace {
					printNextStep("Bump versions", fmt.Sprintf("toolshelf versions %s", outPath))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default <catalog>_enhanced.json)")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "overwrite the input catalog")
	cmd.Flags().StringVar(&backend, "store", "file", "catalog store backend (file or mongo)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "toolshelf", "MongoDB database name")
	cmd.Flags().StringVar(&mongoColl, "mongo-collection", "tools", "MongoDB collection name")

	return cmd
}
