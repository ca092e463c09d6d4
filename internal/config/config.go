// Package config resolves the pipeline configuration from a YAML file and
// environment overrides into one explicit value. Nothing downstream reads
// the environment directly — the resolved Config is passed in at
// construction so the pipeline stays pure and testable.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/classify"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/docstore"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/extract"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mailbox"
)

// DefaultBodyTextLimit caps the archived body text, in characters.
const DefaultBodyTextLimit = 5000

// Environment override names.
const (
	envDBPath     = "CHIEF_DB_PATH"
	envGmailCreds = "CHIEF_GMAIL_CREDENTIALS"
	envGmailToken = "CHIEF_GMAIL_TOKEN"
	envGmailQuery = "CHIEF_GMAIL_QUERY"
	envGmailMax   = "CHIEF_GMAIL_MAX_RESULTS"
	envLogLevel   = "CHIEF_LOG_LEVEL"
)

// Gmail holds the upstream provider settings.
type Gmail struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	Query           string `yaml:"query"`
	MaxResults      int64  `yaml:"max_results"`
}

// Thresholds holds the channel-lift cutoffs for digest actions.
type Thresholds struct {
	LinkedInLiftPct float64 `yaml:"linkedin_lift_pct"`
	EmailCTRLiftPct float64 `yaml:"email_ctr_lift_pct"`
}

// Config is the fully resolved pipeline configuration.
type Config struct {
	DBPath        string              `yaml:"db_path"`
	LogLevel      string              `yaml:"log_level"`
	BodyTextLimit int                 `yaml:"body_text_limit"`
	Gmail         Gmail               `yaml:"gmail"`
	Thresholds    Thresholds          `yaml:"thresholds"`
	Categories    map[string][]string `yaml:"categories"`
}

// Default returns the built-in configuration.
func Default() Config {
	sets := classify.DefaultKeywordSets()
	categories := make(map[string][]string, len(sets))
	for cat, words := range sets {
		categories[string(cat)] = words
	}
	return Config{
		DBPath:        docstore.DefaultDBPath,
		LogLevel:      "info",
		BodyTextLimit: DefaultBodyTextLimit,
		Gmail: Gmail{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
			Query:           mailbox.DefaultQuery,
			MaxResults:      mailbox.DefaultMaxResults,
		},
		Thresholds: Thresholds{
			LinkedInLiftPct: extract.DefaultLinkedInLiftPct,
			EmailCTRLiftPct: extract.DefaultEmailCTRLiftPct,
		},
		Categories: categories,
	}
}

// Load resolves the configuration: defaults, then the YAML file (a missing
// file is fine), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file: defaults plus env.
		case err != nil:
			return cfg, fmt.Errorf("reading config %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %q: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envGmailCreds); v != "" {
		cfg.Gmail.CredentialsFile = v
	}
	if v := os.Getenv(envGmailToken); v != "" {
		cfg.Gmail.TokenFile = v
	}
	if v := os.Getenv(envGmailQuery); v != "" {
		cfg.Gmail.Query = v
	}
	if v := os.Getenv(envGmailMax); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Gmail.MaxResults = n
		}
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// KeywordSets converts the configured category lists into classifier input.
func (c Config) KeywordSets() map[classify.Category][]string {
	sets := make(map[classify.Category][]string, len(c.Categories))
	for cat, words := range c.Categories {
		sets[classify.Category(cat)] = words
	}
	return sets
}

// DigestOpts converts the configured thresholds into extractor options.
func (c Config) DigestOpts() extract.DigestOpts {
	return extract.DigestOpts{
		LinkedInLiftPct: c.Thresholds.LinkedInLiftPct,
		EmailCTRLiftPct: c.Thresholds.EmailCTRLiftPct,
	}
}
