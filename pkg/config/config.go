// Package config loads pkgcycle settings from TOML files.
//
// Settings are layered: [Default] first, then the first file found by
// [Find] (or named explicitly), then command-line flags, which the CLI
// applies on top of the loaded [Config].
//
// A minimal file:
//
//	[analysis]
//	language = "go"
//	max_cycles = 50
//
//	[rules]
//	issue_mode = "packages"
//	disabled = ["missing-package-info"]
//
//	[rules.maximum]
//	package-cycle = 5
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/rules"
	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// FileName is the per-project config file looked up in the scanned root.
const FileName = ".pkgcycle.toml"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// Backends lists the valid cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendBadger, BackendNone}

// DefaultAddr is the address the HTTP API listens on.
const DefaultAddr = ":8080"

// Config is the complete pkgcycle configuration.
type Config struct {
	Analysis Analysis       `toml:"analysis"`
	Rules    rules.Settings `toml:"rules"`
	Cache    Cache          `toml:"cache"`
	Store    Store          `toml:"store"`
	Server   Server         `toml:"server"`
}

// Analysis holds scan and cycle detection settings.
type Analysis struct {
	Language        string `toml:"language"`
	Workers         int    `toml:"workers"`
	IncludeTests    bool   `toml:"include_tests"`
	IncludeExternal bool   `toml:"include_external"`
	Iterative       bool   `toml:"iterative"`
	ComponentScope  bool   `toml:"component_scope"`
	MaxCycles       int    `toml:"max_cycles"`
}

// Cache selects the cache backend. An empty Dir means the user cache
// directory. TTL caps the lifetime of every entry; zero keeps the
// per-stage defaults.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// Store configures report persistence. Reports are only stored when
// MongoURI is set.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: Analysis{Language: pipeline.DefaultLanguage},
		Rules:    rules.DefaultSettings(),
		Cache:    Cache{Backend: BackendFile},
		Store:    Store{Database: "pkgcycle"},
		Server:   Server{Addr: DefaultAddr},
	}
}

// Load reads the file at path on top of [Default] and validates the result.
// Keys the file sets that pkgcycle does not know are an error, so typos do
// not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the config file for root: root/.pkgcycle.toml if present,
// otherwise the user config file. It returns "" when neither exists.
func Find(root string) string {
	candidates := []string{}
	if root != "" {
		candidates = append(candidates, filepath.Join(root, FileName))
	}
	if dir := userConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "pkgcycle", "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Resolve loads path when it is set, otherwise the file [Find] locates for
// root, otherwise [Default]. It also returns the file used, if any.
func Resolve(root, path string) (*Config, string, error) {
	if path == "" {
		path = Find(root)
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// userConfigDir follows XDG: $XDG_CONFIG_HOME, else ~/.config.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// Validate checks every section and returns an INVALID_CONFIG error for
// the first problem found.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.Language != "" && !slices.Contains(scan.Languages, a.Language) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"analysis.language %q is not supported (valid: %s)", a.Language, strings.Join(scan.Languages, ", "))
	}
	if a.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.workers must not be negative")
	}
	if a.MaxCycles < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.max_cycles must not be negative")
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}

	if !slices.Contains(Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend %q is not valid (valid: %s)", c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Store.MongoURI != "" && c.Store.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.database is required with store.mongo_uri")
	}
	return nil
}

// PipelineOptions returns pipeline options for scanning root.
func (c *Config) PipelineOptions(root string) pipeline.Options {
	a := c.Analysis
	return pipeline.Options{
		Root:            root,
		Language:        a.Language,
		Workers:         a.Workers,
		IncludeTests:    a.IncludeTests,
		IncludeExternal: a.IncludeExternal,
		Iterative:       a.Iterative,
		ComponentScope:  a.ComponentScope,
		MaxCycles:       a.MaxCycles,
		Settings:        c.Rules,
	}
}
