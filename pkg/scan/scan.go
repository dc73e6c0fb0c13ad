package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// Supported languages.
const (
	LangJava = "java"
	LangGo   = "go"
)

// Languages lists the supported languages.
var Languages = []string{LangJava, LangGo}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"build":        true,
	"target":       true,
	"node_modules": true,
}

// Options configures a Scanner.
type Options struct {
	// Workers bounds parallel parsing. Zero means runtime.NumCPU().
	Workers int

	// IncludeTests scans Go _test.go files.
	IncludeTests bool

	// IncludeExternal keeps references to classes outside the scanned tree.
	IncludeExternal bool

	// Logger receives progress output. Nil uses log.Default().
	Logger *log.Logger
}

// Stats describes one scan.
type Stats struct {
	Files       int           `json:"files"`
	Packages    int           `json:"packages"`
	Classes     int           `json:"classes"`
	References  int           `json:"references"`
	Resolved    int           `json:"resolved"`
	ParseErrors int           `json:"parse_errors"`
	Duration    time.Duration `json:"duration"`
}

// Scanner turns a source tree into a model. A Scanner holds no per-scan
// state and can be used by several goroutines.
type Scanner struct {
	lang string
	opts Options
}

// New creates a scanner for lang.
func New(lang string, opts Options) (*Scanner, error) {
	if err := errors.ValidateLanguage(lang, Languages); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Scanner{lang: lang, opts: opts}, nil
}

// Language returns the scanner language.
func (s *Scanner) Language() string { return s.lang }

// Scan parses every source file below root and returns the model.
func (s *Scanner) Scan(ctx context.Context, root string) (*model.Model[model.Location], Stats, error) {
	start := time.Now()
	var stats Stats

	if err := errors.ValidateRoot(root); err != nil {
		return nil, stats, err
	}

	fe := s.frontend()
	if err := fe.prepare(root); err != nil {
		return nil, stats, err
	}

	files, err := collectFiles(root, fe)
	if err != nil {
		return nil, stats, err
	}
	stats.Files = len(files)
	s.opts.Logger.Debug("collected source files", "language", s.lang, "files", len(files), "root", root)

	facts, err := s.extractAll(ctx, root, fe, files)
	if err != nil {
		return nil, stats, err
	}

	m := merge(facts, fe, s.opts, &stats)
	stats.Packages = m.PackageCount()
	stats.Classes = m.ClassCount()
	stats.Duration = time.Since(start)

	s.opts.Logger.Debug("scanned sources",
		"files", stats.Files,
		"packages", stats.Packages,
		"classes", stats.Classes,
		"resolved", stats.Resolved,
		"duration", stats.Duration)
	return m, stats, nil
}

// Accepts reports whether the file at rel, a slash-separated path relative
// to the scanned root, is parsed by this scanner.
func (s *Scanner) Accepts(rel string) bool {
	return s.frontend().accept(rel)
}

func (s *Scanner) frontend() frontend {
	switch s.lang {
	case LangGo:
		return &goFrontend{includeTests: s.opts.IncludeTests, logger: s.opts.Logger}
	default:
		return &javaFrontend{}
	}
}

// collectFiles returns the slash-separated paths, relative to root, of all
// files the frontend accepts, in lexical order.
func collectFiles(root string, fe frontend) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if fe.accept(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// SkipDir reports whether directories called name are left out of scans:
// hidden and underscore directories, vendored code and build output.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || skipDirs[name]
}

// extractAll parses files on a worker pool. Each task borrows a parser from
// a pool of Workers parsers, so a parser is never used concurrently.
func (s *Scanner) extractAll(ctx context.Context, root string, fe frontend, files []string) ([]*fileFacts, error) {
	workers := min(s.opts.Workers, max(len(files), 1))

	parsers := make(chan *sitter.Parser, workers)
	defer func() {
		close(parsers)
		for p := range parsers {
			p.Close()
		}
	}()
	for range workers {
		p := sitter.NewParser()
		if err := p.SetLanguage(fe.grammar()); err != nil {
			p.Close()
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load %s grammar", s.lang)
		}
		parsers <- p
	}

	facts := make([]*fileFacts, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}

			p := <-parsers
			defer func() { parsers <- p }()

			tree := p.Parse(src, nil)
			if tree == nil {
				return fmt.Errorf("parse %s: parser returned no tree", rel)
			}
			defer tree.Close()

			rootNode := tree.RootNode()
			f := fe.extract(rel, src, rootNode)
			f.hasErrors = rootNode.HasError()
			facts[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facts, nil
}

// merge registers declarations, then resolves references.
func merge(facts []*fileFacts, fe frontend, opts Options, stats *Stats) *model.Model[model.Location] {
	m := model.New[model.Location]()
	idx := newIndex(facts)

	for _, f := range facts {
		if f.hasErrors {
			stats.ParseErrors++
			opts.Logger.Debug("file has syntax errors", "file", f.path)
		}
		if f.pkgInfo {
			m.AddPackage(f.pkg, model.Location{Path: f.path, Line: f.pkgLine})
		}
		for _, c := range f.classes {
			m.AddClassName(model.Name{Package: f.pkg, Class: c.name}, c.abstract, model.Location{Path: f.path, Line: c.line})
		}
	}

	if fe.locatePackages() {
		for _, f := range facts {
			if p, ok := m.Package(f.pkg); ok {
				if _, has := p.External(); !has {
					m.AddPackage(f.pkg, model.Location{Path: f.path, Line: f.pkgLine})
				}
			}
		}
	}

	for _, f := range facts {
		for _, ref := range f.refs {
			stats.References++
			from, ok := m.Class(model.Name{Package: f.pkg, Class: ref.from})
			if !ok {
				continue
			}
			target, ok := fe.resolve(idx, f, ref, opts.IncludeExternal)
			if !ok {
				continue
			}
			stats.Resolved++
			from.AddUsageName(target)
		}
	}
	return m
}
