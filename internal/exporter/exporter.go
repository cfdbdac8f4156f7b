package exporter

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/swatanabe/notion2md/internal/logger"
	"github.com/swatanabe/notion2md/internal/models"
)

// Config carries the full run configuration. It is assembled once in
// main from flags and environment; nothing below reads the environment.
type Config struct {
	APIKey     string
	Database   string // database id or a full Notion URL
	ViewID     string
	UseFilter  bool
	FilterName string
	ContentDir string
	AssetsDir  string
}

// ContentSource lists the pages of a database; the per-page fetches
// happen inside the converter.
type ContentSource interface {
	QueryAllPages(ctx context.Context, databaseID notionapi.DatabaseID, filter notionapi.Filter) []notionapi.Page
}

// PageConverter converts one page to Markdown with frontmatter.
type PageConverter interface {
	Convert(ctx context.Context, pageID notionapi.PageID) (*models.ExportPage, error)
}

// Exporter drives a full export run: resolve the database, paginate its
// pages, convert each one and write the Markdown files.
type Exporter struct {
	cfg       Config
	source    ContentSource
	converter PageConverter
}

// New creates an Exporter over the given source and converter.
func New(cfg Config, source ContentSource, converter PageConverter) *Exporter {
	return &Exporter{
		cfg:       cfg,
		source:    source,
		converter: converter,
	}
}

var databaseIDPattern = regexp.MustCompile(`[0-9a-f]{32}`)

// ResolveDatabaseID accepts either a bare database id or a full Notion
// URL. For URLs the 32-hex-character path segment is the database id
// and the v query parameter, when present, is the view id. A URL
// without an extractable database id is the one fatal input error of a
// run.
func ResolveDatabaseID(raw string) (databaseID, viewID string, err error) {
	if !strings.HasPrefix(raw, "http") {
		return raw, "", nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse database URL %q: %w", raw, err)
	}

	databaseID = databaseIDPattern.FindString(parsed.Path)
	if databaseID == "" {
		return "", "", fmt.Errorf("no database id found in URL %q", raw)
	}

	return databaseID, parsed.Query().Get("v"), nil
}

// Run exports every page of the configured database. Individual page
// failures are logged and skipped; the run always finishes and reports
// its counters.
func (e *Exporter) Run(ctx context.Context) error {
	databaseID, viewID, err := ResolveDatabaseID(e.cfg.Database)
	if err != nil {
		return err
	}
	if viewID == "" {
		viewID = e.cfg.ViewID
	}
	if viewID != "" {
		logger.Debug("Using database view", map[string]interface{}{
			"view_id": viewID,
		})
	}

	var filter notionapi.Filter
	if e.cfg.UseFilter {
		registered, ok := lookupFilter(e.cfg.FilterName)
		if !ok {
			logger.Warn("Unknown filter name, exporting unfiltered", map[string]interface{}{
				"filter": e.cfg.FilterName,
			})
		} else {
			filter = registered
		}
	}

	pages := e.source.QueryAllPages(ctx, notionapi.DatabaseID(databaseID), filter)
	logger.Info(fmt.Sprintf("Found %d pages to export", len(pages)), nil)

	successCount := 0
	for _, page := range pages {
		if err := e.exportPage(ctx, page); err != nil {
			logger.Error("Failed to export page", err, map[string]interface{}{
				"page_id": page.ID,
			})
			continue
		}
		successCount++
	}

	logger.Info("Export completed", map[string]interface{}{
		"total_pages":   len(pages),
		"success_count": successCount,
		"failure_count": len(pages) - successCount,
		"content_dir":   e.cfg.ContentDir,
	})

	return nil
}

// exportPage converts one page and writes <slug>.md into the content
// directory. Pages whose titles slugify identically overwrite one
// another, last write wins.
func (e *Exporter) exportPage(ctx context.Context, page notionapi.Page) error {
	export, err := e.converter.Convert(ctx, notionapi.PageID(page.ID))
	if err != nil {
		return err
	}

	frontmatter, err := export.Frontmatter.Render()
	if err != nil {
		return err
	}

	slug := Slug(export.Frontmatter.Title)
	path := filepath.Join(e.cfg.ContentDir, slug+".md")
	if err := os.WriteFile(path, []byte(frontmatter+export.Markdown), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Debug("Wrote page", map[string]interface{}{
		"page_id": page.ID,
		"file":    path,
		"images":  len(export.Images),
	})

	return nil
}
