// Package cli implements the toolshelf command-line interface.
//
// This package provides commands for enriching a tool catalog with
// repository metadata, bumping catalog versions against the latest
// GitHub releases, and managing the API response cache. The CLI is
// built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - enrich: Fetch repository metadata and write the enriched catalog
//   - versions: Bump catalog versions to the latest release tags
//   - cache: Manage the API response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/toolshelf/toolshelf/pkg/buildinfo"
	"github.com/toolshelf/toolshelf/pkg/cache"
	"github.com/toolshelf/toolshelf/pkg/config"
)

// appName is the application name used for directories and display.
const appName = "toolshelf"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "toolshelf",
		Short:        "Toolshelf enriches tool catalogs with repository metadata",
		Long:         `Toolshelf maintains JSON tool catalogs: it normalizes categories, fetches stars, forks, license and release information from GitHub and GitLab, and keeps recorded versions up to date.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML configuration file")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the API response cache")

	root.AddCommand(c.enrichCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for a command run.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newCacheBackend builds the cache selected by the configuration.
// --no-cache wins over any configured backend.
func (c *CLI) newCacheBackend(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	default:
		return cache.NewNullCache(), nil
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/toolshelf/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
