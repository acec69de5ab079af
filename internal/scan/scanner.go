// Package scan walks the target tree, fans file analysis out over a bounded
// worker group and aggregates findings into a stable, source-ordered report.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/parse"
	"github.com/kvasirsec/sinkhound/internal/checks"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// skipDirs are never descended into regardless of the ignore file.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Scanner runs every enabled check over a set of files or directories.
type Scanner struct {
	logger *zap.Logger
	cfg    *config.Config
	checks []engine.Check
}

// NewScanner builds a scanner with the checks enabled by the configuration.
func NewScanner(logger *zap.Logger, cfg *config.Config) *Scanner {
	return &Scanner{
		logger: logger.Named("scan"),
		cfg:    cfg,
		checks: checks.All(cfg.Analysis),
	}
}

// Run analyzes every matching file under the given roots. The returned
// findings are sorted by file, then byte offset, then check name, so repeated
// runs over unchanged input produce identical reports.
func (s *Scanner) Run(ctx context.Context, roots []string) ([]schemas.Finding, error) {
	started := time.Now()

	files, err := s.discover(roots)
	if err != nil {
		return nil, err
	}
	s.logger.Info("starting scan",
		zap.Int("files", len(files)),
		zap.Int("checks", len(s.checks)),
		zap.Int("concurrency", s.cfg.Scan.Concurrency))

	var (
		mu  sync.Mutex
		all []schemas.Finding
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scan.Concurrency)

	for _, file := range files {
		file := file
		g.Go(func() error {
			found, err := s.analyzeFile(ctx, file)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.StartByte != b.Location.StartByte {
			return a.Location.StartByte < b.Location.StartByte
		}
		return a.Check < b.Check
	})

	s.logger.Info("scan complete",
		zap.Int("findings", len(all)),
		zap.Duration("elapsed", time.Since(started)))
	return all, nil
}

// analyzeFile parses one file and runs every enabled check over its tree.
// Each worker owns its parser; tree-sitter parsers are not safe to share.
func (s *Scanner) analyzeFile(ctx context.Context, file string) ([]schemas.Finding, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	parser := parse.NewParser(s.logger)
	defer parser.Close()

	tree, err := parser.Parse(ctx, file, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	defer tree.Close()

	var found []schemas.Finding
	for _, check := range s.checks {
		found = append(found, engine.New(check, s.logger).Run(file, source, tree.RootNode())...)
	}
	return found, nil
}

// discover expands the roots into the list of files to analyze. Explicit file
// arguments are always included; directories are walked with the extension
// filter and the project ignore file applied.
func (s *Scanner) discover(roots []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		ignores, err := loadIgnore(filepath.Join(root, s.cfg.Scan.IgnoreFile))
		if err != nil {
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if skipDirs[d.Name()] || (rel != "." && ignores.Match(rel, true)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !s.matchesExtension(path) || ignores.Match(rel, false) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.cfg.Scan.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
