// Package config defines the explicit configuration value passed into the
// hosting-platform clients and the enricher.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Compiled-in defaults ([Default])
//  2. An optional TOML file (see [Load])
//  3. Environment variables for credentials (GITHUB_TOKEN, GITLAB_TOKEN)
//
// There is no package-level mutable state; callers hold a Config and hand
// it to the components that need it, which keeps tests free to inject
// fast retry delays and zero cooldowns.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/toolshelf/toolshelf/pkg/errors"
)

// Platform holds per-hosting-platform settings.
type Platform struct {
	BaseURL string // API base URL
	Token   string // API token, empty for unauthenticated requests
}

// HTTP holds transport and retry settings shared by all platform clients.
type HTTP struct {
	Timeout           time.Duration // per-request timeout
	MaxRetries        int           // attempts for transient failures
	RetryDelay        time.Duration // initial backoff delay, doubles per attempt
	RateLimitCooldown time.Duration // sleep before retrying a rate-limited fetch
	RateLimitRetries  int           // ceiling on cooldown-and-retry cycles
}

// Cache selects and configures the HTTP response cache backend.
type Cache struct {
	Backend       string        // "none" (default), "file", or "redis"
	Dir           string        // directory for the file backend ("" = default)
	TTL           time.Duration // entry lifetime, 0 = no expiry
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Categories configures category normalization.
type Categories struct {
	// Synonyms maps raw category spellings to canonical names. These are
	// merged over the compiled-in defaults.
	Synonyms map[string]string
}

// Config is the root configuration value.
type Config struct {
	GitHub     Platform
	GitLab     Platform
	HTTP       HTTP
	Cache      Cache
	Categories Categories
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		GitHub: Platform{BaseURL: "https://api.github.com"},
		GitLab: Platform{BaseURL: "https://gitlab.com/api/v4"},
		HTTP: HTTP{
			Timeout:           15 * time.Second,
			MaxRetries:        3,
			RetryDelay:        2 * time.Second,
			RateLimitCooldown: 60 * time.Second,
			RateLimitRetries:  3,
		},
		Cache: Cache{
			Backend: "none",
			TTL:     24 * time.Hour,
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file at path
// (skipped when path is empty), then credential environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// tomlConfig mirrors Config with TOML-friendly field types; durations are
// strings in time.ParseDuration syntax ("30s", "2m").
type tomlConfig struct {
	GitHub struct {
		BaseURL string `toml:"base_url"`
		Token   string `toml:"token"`
	} `toml:"github"`
	GitLab struct {
		BaseURL string `toml:"base_url"`
		Token   string `toml:"token"`
	} `toml:"gitlab"`
	HTTP struct {
		Timeout           string `toml:"timeout"`
		MaxRetries        int    `toml:"max_retries"`
		RetryDelay        string `toml:"retry_delay"`
		RateLimitCooldown string `toml:"rate_limit_cooldown"`
		RateLimitRetries  int    `toml:"rate_limit_retries"`
	} `toml:"http"`
	Cache struct {
		Backend       string `toml:"backend"`
		Dir           string `toml:"dir"`
		TTL           string `toml:"ttl"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	} `toml:"cache"`
	Categories struct {
		Synonyms map[string]string `toml:"synonyms"`
	} `toml:"categories"`
}

func loadFile(path string, cfg *Config) error {
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	setString(&cfg.GitHub.BaseURL, tc.GitHub.BaseURL)
	setString(&cfg.GitHub.Token, tc.GitHub.Token)
	setString(&cfg.GitLab.BaseURL, tc.GitLab.BaseURL)
	setString(&cfg.GitLab.Token, tc.GitLab.Token)

	if err := setDuration(&cfg.HTTP.Timeout, tc.HTTP.Timeout, path); err != nil {
		return err
	}
	if tc.HTTP.MaxRetries > 0 {
		cfg.HTTP.MaxRetries = tc.HTTP.MaxRetries
	}
	if err := setDuration(&cfg.HTTP.RetryDelay, tc.HTTP.RetryDelay, path); err != nil {
		return err
	}
	if err := setDuration(&cfg.HTTP.RateLimitCooldown, tc.HTTP.RateLimitCooldown, path); err != nil {
		return err
	}
	if tc.HTTP.RateLimitRetries > 0 {
		cfg.HTTP.RateLimitRetries = tc.HTTP.RateLimitRetries
	}

	if tc.Cache.Backend != "" {
		switch tc.Cache.Backend {
		case "none", "file", "redis":
			cfg.Cache.Backend = tc.Cache.Backend
		default:
			return errors.New(errors.ErrCodeInvalidConfig,
				"%s: unknown cache backend %q (expected none, file, or redis)", path, tc.Cache.Backend)
		}
	}
	setString(&cfg.Cache.Dir, tc.Cache.Dir)
	if err := setDuration(&cfg.Cache.TTL, tc.Cache.TTL, path); err != nil {
		return err
	}
	setString(&cfg.Cache.RedisAddr, tc.Cache.RedisAddr)
	setString(&cfg.Cache.RedisPassword, tc.Cache.RedisPassword)
	if tc.Cache.RedisDB != 0 {
		cfg.Cache.RedisDB = tc.Cache.RedisDB
	}

	if len(tc.Categories.Synonyms) > 0 {
		cfg.Categories.Synonyms = tc.Categories.Synonyms
	}
	return nil
}

func applyEnv(cfg *Config) {
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		cfg.GitHub.Token = tok
	}
	if tok := os.Getenv("GITLAB_TOKEN"); tok != "" {
		cfg.GitLab.Token = tok
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, path string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: invalid duration %q", path, v)
	}
	*dst = d
	return nil
}
