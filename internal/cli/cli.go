package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/buildinfo"
	"github.com/matzehuels/pkgcycle/pkg/cache"
	"github.com/matzehuels/pkgcycle/pkg/config"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pkgcycle"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means search for a file.
	configPath string
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
		Use:   "pkgcycle",
		Short: "pkgcycle finds package dependency cycles",
		Long: `pkgcycle scans Java or Go source trees, builds the package dependency graph
and reports every elementary package cycle together with coupling metrics
and rule violations.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: .pkgcycle.toml in the scanned root)")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.metricsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	addPathCompletion(root)

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig resolves the configuration for a scan of root.
func (c *CLI) loadConfig(root string) (*config.Config, error) {
	cfg, path, err := config.Resolve(root, c.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be determined degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	var (
		ch  cache.Cache
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		ch = cache.NewMemoryCache(0, cfg.TTL)
	case config.BackendRedis:
		ch, err = cache.NewRedisCache(ctx, cfg.RedisURL)
	case config.BackendBadger:
		dir, derr := resolveCacheDir(cfg, "badger")
		if derr != nil {
			return cache.NewNullCache(), nil
		}
		ch, err = cache.NewBadgerCache(dir, c.Logger)
	default:
		dir, derr := resolveCacheDir(cfg, "")
		if derr != nil {
			return cache.NewNullCache(), nil
		}
		ch, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return cache.WithMaxTTL(ch, cfg.TTL), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgcycle/).
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

// resolveCacheDir returns cfg.Dir, or the default cache directory joined
// with sub.
func resolveCacheDir(cfg config.Cache, sub string) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	if sub != "" {
		dir = filepath.Join(dir, sub)
	}
	return dir, nil
}

// rootArg returns the scanned root from positional args, defaulting to ".".
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
