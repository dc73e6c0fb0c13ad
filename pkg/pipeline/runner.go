package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pkgcycle/pkg/cache"
	pkgio "github.com/matzehuels/pkgcycle/pkg/io"
	"github.com/matzehuels/pkgcycle/pkg/model"
	"github.com/matzehuels/pkgcycle/pkg/observability"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// scanEntry is the cached form of a scan.
type scanEntry struct {
	Facts pkgio.Facts `json:"facts"`
	Stats scan.Stats  `json:"stats"`
}

// Execute runs the complete scan → analyze pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForScan(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Scan
	scanStart := time.Now()
	m, stats, scanHit, err := r.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Model = m
	result.Stats.Scan = stats
	result.Stats.ScanTime = time.Since(scanStart)
	result.CacheInfo.ScanHit = scanHit

	r.Logger.Info("scanned sources",
		"files", stats.Files,
		"packages", m.PackageCount(),
		"classes", m.ClassCount(),
		"cached", scanHit,
		"duration", result.Stats.ScanTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	result.ModelHash = ModelHash(m)
	rep, analysisHit, err := r.analyzeHashed(ctx, m, result.ModelHash, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Report = rep
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.AnalysisHit = analysisHit

	r.Logger.Info("analyzed packages",
		"cycles", rep.Summary.Cycles,
		"issues", len(rep.Issues),
		"cached", analysisHit,
		"duration", result.Stats.AnalyzeTime)

	return result, nil
}

// ScanWithCacheInfo scans opts.Root with caching and returns cache hit info.
// The cache key is a digest of every file the scan reads, so any edit to
// the tree is a miss.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, opts Options) (*model.Model[model.Location], scan.Stats, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForScan(); err != nil {
		return nil, scan.Stats{}, false, err
	}

	s, err := scan.New(opts.Language, opts.ScanOptions())
	if err != nil {
		return nil, scan.Stats{}, false, err
	}
	digest, err := s.Digest(opts.Root)
	if err != nil {
		return nil, scan.Stats{}, false, err
	}
	cacheKey := r.Keyer.ScanKey(opts.Language, digest)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var entry scanEntry
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &entry); err == nil {
			if m, err := entry.Facts.Model(); err == nil {
				observability.Cache().OnCacheHit(ctx, "scan")
				return m, entry.Stats, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "scan")
	}

	hooks := observability.Pipeline()
	hooks.OnScanStart(ctx, opts.Language, opts.Root)
	start := time.Now()
	m, stats, err := s.Scan(ctx, opts.Root)
	hooks.OnScanComplete(ctx, opts.Language, stats.Files, time.Since(start), err)
	if err != nil {
		return nil, scan.Stats{}, false, err
	}

	r.store(ctx, "scan", cacheKey, scanEntry{Facts: pkgio.FromModel(m), Stats: stats}, cache.TTLScan)
	return m, stats, false, nil
}

// Scan is a convenience wrapper that calls ScanWithCacheInfo and discards the cache hit info.
func (r *Runner) Scan(ctx context.Context, opts Options) (*model.Model[model.Location], scan.Stats, error) {
	m, stats, _, err := r.ScanWithCacheInfo(ctx, opts)
	return m, stats, err
}

// AnalyzeWithCacheInfo analyzes m with caching and returns cache hit info.
// Use it for models that were not scanned, for example imported facts.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, m *model.Model[model.Location], opts Options) (*report.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, false, err
	}
	return r.analyzeHashed(ctx, m, ModelHash(m), opts)
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, m *model.Model[model.Location], opts Options) (*report.Report, error) {
	rep, _, err := r.AnalyzeWithCacheInfo(ctx, m, opts)
	return rep, err
}

func (r *Runner) analyzeHashed(ctx context.Context, m *model.Model[model.Location], modelHash string, opts Options) (*report.Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.AnalysisKey(modelHash, opts.AnalysisKeyOpts())

	if !opts.Refresh {
		var cached report.Report
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "analysis")
			// A cached analysis is a new run: it gets its own identity.
			cached.ID = uuid.NewString()
			cached.CreatedAt = time.Now().UTC()
			cached.Root = opts.Root
			return &cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, m.PackageCount())
	start := time.Now()
	rep := Analyze(m, opts, r.Logger)
	hooks.OnAnalyzeComplete(ctx, rep.Summary.Cycles, time.Since(start), nil)

	r.store(ctx, "analysis", cacheKey, rep, cache.TTLAnalysis)
	return rep, false, nil
}

// RenderWithCacheInfo renders the package graph of m with caching and
// returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *model.Model[model.Location], opts RenderOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.RenderKey(ModelHash(m), opts.KeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := Render(ctx, m, opts)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "stage", "render", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *model.Model[model.Location], opts RenderOptions) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, m, opts)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// ModelHash returns the content hash of m's facts.
func ModelHash(m *model.Model[model.Location]) string {
	return cache.HashJSON(pkgio.FromModel(m))
}

// store writes a JSON value to the cache. Cache failures are logged, not
// returned.
func (r *Runner) store(ctx context.Context, stage, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
