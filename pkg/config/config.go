// Package config loads jarlens settings from a TOML file and the
// environment.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// JARLENS_* environment variables, the config file, built-in defaults.
//
// Example config.toml:
//
//	local_repository  = "~/.m2/repository"
//	remote_repository = "https://repo1.maven.org/maven2"
//	cache_dir         = "~/.cache/jarlens"
//	flush_delay       = "30s"
//	http_timeout      = "30s"
//	offline           = false
//	scanner           = "lexical"   # or "treesitter"
//	enrich_remote     = true
//	non_interactive   = false
//	default_strategy  = "skip"      # sources, main, both, skip, offline
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/maven"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "JARLENS_"

// Defaults.
const (
	DefaultFlushDelay  = 30 * time.Second
	DefaultHTTPTimeout = 30 * time.Second
	DefaultScanner     = "lexical"
	DefaultStrategy    = "skip"
)

// Config holds every setting. Durations are written as strings in the file
// ("30s", "2m").
type Config struct {
	LocalRepository  string        `toml:"local_repository"`
	RemoteRepository string        `toml:"remote_repository"`
	CacheDir         string        `toml:"cache_dir"`
	FlushDelay       time.Duration `toml:"flush_delay"`
	HTTPTimeout      time.Duration `toml:"http_timeout"`
	Offline          bool          `toml:"offline"`
	Scanner          string        `toml:"scanner"`
	EnrichRemote     bool          `toml:"enrich_remote"`
	NonInteractive   bool          `toml:"non_interactive"`
	DefaultStrategy  string        `toml:"default_strategy"`
}

// Default returns the built-in settings. LocalRepository and CacheDir stay
// empty; they are resolved by [maven.ResolveLocalRepository] and the store.
func Default() *Config {
	return &Config{
		RemoteRepository: maven.DefaultRemoteRepository,
		FlushDelay:       DefaultFlushDelay,
		HTTPTimeout:      DefaultHTTPTimeout,
		Scanner:          DefaultScanner,
		EnrichRemote:     true,
		DefaultStrategy:  DefaultStrategy,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/jarlens/config.toml, or
// ~/.config/jarlens/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jarlens", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jarlens", "config.toml"), nil
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path means [DefaultPath], which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "locate config file")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil || explicit {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidInput, "config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides fields from JARLENS_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOCAL_REPOSITORY":  &c.LocalRepository,
		"REMOTE_REPOSITORY": &c.RemoteRepository,
		"CACHE_DIR":         &c.CacheDir,
		"SCANNER":           &c.Scanner,
		"DEFAULT_STRATEGY":  &c.DefaultStrategy,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"FLUSH_DELAY":  &c.FlushDelay,
		"HTTP_TIMEOUT": &c.HTTPTimeout,
	}
	for name, dst := range durations {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, name)
		}
		*dst = d
	}

	bools := map[string]*bool{
		"OFFLINE":         &c.Offline,
		"ENRICH_REMOTE":   &c.EnrichRemote,
		"NON_INTERACTIVE": &c.NonInteractive,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, name)
		}
		*dst = b
	}
	return nil
}

// Validate rejects settings the rest of the program cannot use.
func (c *Config) Validate() error {
	switch c.Scanner {
	case "", "lexical", "treesitter":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "scanner %q: want lexical or treesitter", c.Scanner)
	}
	if c.FlushDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "flush_delay must not be negative (got %s)", c.FlushDelay)
	}
	if c.HTTPTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "http_timeout must not be negative (got %s)", c.HTTPTimeout)
	}
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if c.RemoteRepository != "" && !strings.HasPrefix(c.RemoteRepository, "http://") && !strings.HasPrefix(c.RemoteRepository, "https://") {
		return errors.New(errors.ErrCodeInvalidInput, "remote_repository %q: want an http(s) URL", c.RemoteRepository)
	}
	return nil
}

// Strategy returns the parsed default_strategy ("skip" when empty).
func (c *Config) Strategy() (acquire.Strategy, error) {
	if c.DefaultStrategy == "" {
		return acquire.StrategySkip, nil
	}
	s, err := acquire.ParseStrategy(c.DefaultStrategy)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "default_strategy")
	}
	return s, nil
}
