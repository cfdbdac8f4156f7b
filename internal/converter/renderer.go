package converter

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/swatanabe/notion2md/internal/logger"
)

// ImageFetcher downloads an image and returns the local relative path
// to embed in Markdown in place of the original URL.
type ImageFetcher interface {
	Materialize(ctx context.Context, url string) (string, error)
}

// Renderer maps single Notion blocks to Markdown fragments. Rendering
// is a flat dispatch on the block type; the only state shared across
// blocks is the image substitution map threaded through by the caller.
type Renderer struct {
	images ImageFetcher
}

// NewRenderer creates a Renderer delegating image blocks to images.
func NewRenderer(images ImageFetcher) *Renderer {
	return &Renderer{images: images}
}

// RenderAll renders the block sequence in order and concatenates the
// fragments, returning the body and the image substitutions made.
func (r *Renderer) RenderAll(ctx context.Context, blocks []notionapi.Block) (string, map[string]string) {
	var sb strings.Builder
	refs := make(map[string]string)
	for _, block := range blocks {
		sb.WriteString(r.Render(ctx, block, refs))
	}
	return sb.String(), refs
}

// Render produces the Markdown fragment for one block. Unhandled block
// types and failed image downloads contribute an empty string; Render
// never fails the page.
func (r *Renderer) Render(ctx context.Context, block notionapi.Block, refs map[string]string) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		text := ConcatRichText(b.Paragraph.RichText)
		if text == "" {
			return ""
		}
		return text + "\n\n"
	case *notionapi.Heading1Block:
		return "# " + ConcatRichText(b.Heading1.RichText) + "\n\n"
	case *notionapi.Heading2Block:
		return "## " + ConcatRichText(b.Heading2.RichText) + "\n\n"
	case *notionapi.Heading3Block:
		return "### " + ConcatRichText(b.Heading3.RichText) + "\n\n"
	case *notionapi.BulletedListItemBlock:
		return "- " + ConcatRichText(b.BulletedListItem.RichText) + "\n"
	case *notionapi.NumberedListItemBlock:
		// Always a literal "1." prefix; position is not tracked.
		return "1. " + ConcatRichText(b.NumberedListItem.RichText) + "\n"
	case *notionapi.CodeBlock:
		return fmt.Sprintf("```%s\n%s\n```\n\n", b.Code.Language, ConcatRichText(b.Code.RichText))
	case *notionapi.QuoteBlock:
		return "> " + ConcatRichText(b.Quote.RichText) + "\n\n"
	case *notionapi.DividerBlock:
		return "---\n\n"
	case *notionapi.ImageBlock:
		return r.renderImage(ctx, b, refs)
	default:
		return ""
	}
}

func (r *Renderer) renderImage(ctx context.Context, block *notionapi.ImageBlock, refs map[string]string) string {
	url := imageURL(block)
	if url == "" || r.images == nil {
		return ""
	}

	local, err := r.images.Materialize(ctx, url)
	if err != nil {
		logger.Error("Failed to materialize image, skipping block", err, map[string]interface{}{
			"block_id": block.ID,
			"url":      url,
		})
		return ""
	}
	refs[url] = local

	caption := ConcatRichText(block.Image.Caption)
	return fmt.Sprintf("![%s](%s)\n\n", caption, local)
}

// imageURL resolves the source URL from either the Notion-hosted file
// variant (expiring signed URL) or the external link variant.
func imageURL(block *notionapi.ImageBlock) string {
	if block.Image.File != nil {
		return block.Image.File.URL
	}
	if block.Image.External != nil {
		return block.Image.External.URL
	}
	return ""
}
