package converter

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/swatanabe/notion2md/internal/logger"
	"github.com/swatanabe/notion2md/internal/models"
)

// PageSource provides a page's properties and its flattened block tree.
// Implemented by the notion client; faked in tests.
type PageSource interface {
	GetPage(ctx context.Context, pageID notionapi.PageID) (*notionapi.Page, error)
	FetchBlockTree(ctx context.Context, blockID notionapi.BlockID) []notionapi.Block
}

// Converter turns one Notion page into a Markdown document with
// frontmatter.
type Converter struct {
	source   PageSource
	renderer *Renderer
}

// New creates a Converter reading pages from source and delegating
// image blocks to images.
func New(source PageSource, images ImageFetcher) *Converter {
	return &Converter{
		source:   source,
		renderer: NewRenderer(images),
	}
}

// datePriority is the ordered list of property keys consulted for the
// frontmatter date after the normalized created_at key.
var datePriority = []string{"date", "published", "published at", "published_at"}

// Convert fetches the page's properties and block tree, renders the
// blocks in order, and assembles the frontmatter. Block and image
// failures degrade to missing fragments; only a failure to retrieve
// the page itself is returned as an error.
func (c *Converter) Convert(ctx context.Context, pageID notionapi.PageID) (*models.ExportPage, error) {
	page, err := c.source.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	blocks := c.source.FetchBlockTree(ctx, notionapi.BlockID(pageID))
	markdown, refs := c.renderer.RenderAll(ctx, blocks)

	props := ExtractProperties(page)

	export := &models.ExportPage{
		Frontmatter: models.Frontmatter{
			Title:       resolveTitle(page, props),
			Date:        resolveDate(props),
			LastEdited:  stringProp(props, "last_edited_at"),
			Tags:        tagsProp(props),
			Description: stringProp(props, "description"),
		},
		Markdown: markdown,
		Images:   refs,
	}

	logger.Debug("Converted page", map[string]interface{}{
		"page_id": pageID,
		"title":   export.Frontmatter.Title,
		"blocks":  len(blocks),
		"images":  len(refs),
	})

	return export, nil
}

// resolveTitle prefers the page's title-typed property whatever it is
// named, then a property literally named "name", then "Untitled".
func resolveTitle(page *notionapi.Page, props map[string]interface{}) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := ConcatRichText(title.Title); text != "" {
				return text
			}
		}
	}
	if name := stringProp(props, "name"); name != "" {
		return name
	}
	return "Untitled"
}

// resolveDate picks the frontmatter date: an explicit created_at
// property wins, then the first present publish-date property, then
// the page's own creation timestamp, then today.
func resolveDate(props map[string]interface{}) string {
	if v := stringProp(props, "created_at"); v != "" {
		return v
	}
	for _, key := range datePriority {
		if v := stringProp(props, key); v != "" {
			return v
		}
	}
	if v := stringProp(props, "system_created_at"); v != "" {
		return v
	}
	return time.Now().Format(dateLayout)
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func tagsProp(props map[string]interface{}) []string {
	if v, ok := props["tags"].([]string); ok {
		return v
	}
	return []string{}
}
