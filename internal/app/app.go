package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/readtable/internal/cache"
	"github.com/hyperifyio/readtable/internal/csvout"
	"github.com/hyperifyio/readtable/internal/extract"
	"github.com/hyperifyio/readtable/internal/fetch"
	"github.com/hyperifyio/readtable/internal/render"
	"github.com/hyperifyio/readtable/internal/source"
)

// App runs the load, extract and write pipeline for one source.
type App struct {
	cfg       Config
	loader    *source.Loader
	extractor extract.Extractor
	nested    extract.NestedPolicy
	selection csvout.Selection
	csvOpts   csvout.Options
	httpCache *cache.HTTPCache
	client    *http.Client
	out       io.Writer
}

// WrittenFile describes one CSV produced by Run.
type WrittenFile struct {
	Index int
	Path  string
	Rows  int
}

// Summary is the outcome of a successful Run.
type Summary struct {
	TablesFound int
	Files       []WrittenFile
}

// New validates cfg and wires the loader, extractor and writer.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	sel, _ := csvout.ParseSelection(cfg.Tables)
	nested, _ := extract.ParseNestedPolicy(cfg.Nested)
	comma, _ := delimiterRune(cfg.Delimiter)

	opts := extract.Options{Nested: nested, FragmentStrip: cfg.FragmentStrip}
	if sel.Mode == csvout.ModeFirst && cfg.ManifestPath == "" {
		// Nothing past the first table is ever looked at.
		opts.MaxTables = 1
	}

	a := &App{
		cfg:       cfg,
		extractor: extract.StreamExtractor{Options: opts},
		nested:    nested,
		selection: sel,
		csvOpts:   csvout.Options{Comma: comma, UseCRLF: cfg.CRLF},
		out:       os.Stdout,
	}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			n, err := cache.ClearDir(cfg.CacheDir)
			if err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			} else {
				log.Debug().Int("removed", n).Str("dir", cfg.CacheDir).Msg("cleared cache")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	ua := cfg.UserAgent
	if strings.TrimSpace(ua) == "" {
		ua = DefaultUserAgent()
	}
	a.client = newHTTPClient(cfg.Timeout)
	a.loader = &source.Loader{
		Fetcher: &fetch.Client{
			HTTPClient:        a.client,
			UserAgent:         ua,
			PerRequestTimeout: cfg.Timeout,
			Cache:             a.httpCache,
			BypassCache:       cfg.CacheBypass,
			RequireHTML:       cfg.RequireHTML,
		},
		Charset: cfg.Charset,
	}
	return a, nil
}

// SetOutput redirects the human-readable progress lines (stdout by default).
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// Close drops idle keep-alive connections left by the fetch.
func (a *App) Close() {
	if a.client != nil {
		a.client.CloseIdleConnections()
	}
}

// Run loads the source, extracts its tables and writes the selected ones.
func (a *App) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	// 1) Load
	start := time.Now()
	text, err := a.loader.Load(ctx, a.cfg.Source)
	if err != nil {
		return sum, fmt.Errorf("load input: %w", err)
	}
	log.Debug().Str("source", a.cfg.Source).Dur("took", time.Since(start)).Msg("loaded input")

	// 2) Extract
	tables := a.extractor.Extract(text)
	sum.TablesFound = len(tables)
	log.Info().Str("source", a.cfg.Source).Int("tables", len(tables)).Msg("extracted tables")
	if len(tables) == 0 {
		return sum, ErrNoTablesFound
	}

	// 3) Select
	selected := a.selection.Apply(tables)
	if len(selected) == 0 {
		return sum, fmt.Errorf("%w: selection %q matched none of %d table(s)", ErrNoTablesFound, a.selection.String(), len(tables))
	}

	// 4) Write
	if a.cfg.OutputDir != "" {
		if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
			return sum, &source.IOError{Op: "create", Path: a.cfg.OutputDir, Err: err}
		}
	}
	paths := a.selection.Paths(selected, a.cfg.OutputDir, a.cfg.OutputName)
	entries := make([]manifestEntry, 0, len(selected))
	for i, s := range selected {
		path := paths[i]
		if err := csvout.Write(s.Table, path, a.csvOpts); err != nil {
			return sum, fmt.Errorf("write table %d: %w", s.Index, &source.IOError{Op: "write", Path: path, Err: err})
		}
		sum.Files = append(sum.Files, WrittenFile{Index: s.Index, Path: path, Rows: len(s.Table)})
		fmt.Fprintf(a.out, "Wrote %d rows to %s\n", len(s.Table), path)
		log.Debug().Int("table", s.Index).Int("rows", len(s.Table)).Int("columns", s.Table.Width()).Str("path", path).Msg("wrote csv")

		if a.cfg.ManifestPath != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return sum, &source.IOError{Op: "read", Path: path, Err: err}
			}
			entries = append(entries, manifestEntry{
				Index:   s.Index,
				Path:    path,
				Rows:    len(s.Table),
				Columns: s.Table.Width(),
				SHA256:  computeSHA256Hex(data),
			})
		}
	}

	// 5) Optional views
	if a.cfg.Preview {
		for _, s := range selected {
			render.Preview(a.out, s.Index, s.Table, a.cfg.PreviewRows)
		}
	}
	if a.cfg.PDFPath != "" {
		sections := make([]render.Section, len(selected))
		for i, s := range selected {
			sections[i] = render.Section{Index: s.Index, Table: s.Table}
		}
		if err := render.WritePDF(a.cfg.PDFPath, filepath.Base(a.cfg.Source), sections); err != nil {
			return sum, &source.IOError{Op: "write", Path: a.cfg.PDFPath, Err: err}
		}
		fmt.Fprintf(a.out, "Wrote PDF to %s\n", a.cfg.PDFPath)
	}
	if a.cfg.ManifestPath != "" {
		if err := a.writeManifest(len(tables), entries); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (a *App) writeManifest(found int, entries []manifestEntry) error {
	meta := manifestMeta{
		Source:      a.cfg.Source,
		TablesFound: found,
		Selection:   a.selection.String(),
		Nested:      a.nested.String(),
		Version:     BuildVersion,
		GeneratedAt: time.Now().UTC(),
	}
	b, err := marshalManifestJSON(meta, entries)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(a.cfg.ManifestPath, b, 0o644); err != nil {
		return &source.IOError{Op: "write", Path: a.cfg.ManifestPath, Err: err}
	}
	log.Debug().Str("path", a.cfg.ManifestPath).Msg("wrote manifest")
	return nil
}
