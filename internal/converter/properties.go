package converter

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

const dateLayout = "2006-01-02"

// ExtractProperties flattens a page's property bag into a map keyed by
// lowercased property name. Differently-cased property names collide
// last-write-wins in map iteration order. Supported property types are
// extracted by type; anything else is dropped. Two synthetic keys,
// system_created_at and last_edited_at, always carry the page's own
// timestamps truncated to the day.
func ExtractProperties(page *notionapi.Page) map[string]interface{} {
	props := make(map[string]interface{}, len(page.Properties)+2)

	for name, prop := range page.Properties {
		key := strings.ToLower(name)

		// Explicit creation-date properties are normalized so the
		// date resolution chain can find them under one key.
		if key == "created at" || key == "created" {
			key = "created_at"
		}

		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			props[key] = ConcatRichText(p.Title)
		case *notionapi.RichTextProperty:
			props[key] = ConcatRichText(p.RichText)
		case *notionapi.DateProperty:
			if p.Date != nil && p.Date.Start != nil {
				props[key] = time.Time(*p.Date.Start).Format(dateLayout)
			}
		case *notionapi.SelectProperty:
			if p.Select.Name != "" {
				props[key] = p.Select.Name
			}
		case *notionapi.MultiSelectProperty:
			names := make([]string, 0, len(p.MultiSelect))
			for _, option := range p.MultiSelect {
				names = append(names, option.Name)
			}
			props[key] = names
		case *notionapi.CheckboxProperty:
			props[key] = p.Checkbox
		case *notionapi.URLProperty:
			props[key] = p.URL
		}
	}

	if !page.CreatedTime.IsZero() {
		props["system_created_at"] = page.CreatedTime.Format(dateLayout)
	}
	if !page.LastEditedTime.IsZero() {
		props["last_edited_at"] = page.LastEditedTime.Format(dateLayout)
	}

	return props
}

// ConcatRichText flattens a rich-text sequence to plain text. Styling
// annotations and links are discarded.
func ConcatRichText(spans []notionapi.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.PlainText != "" {
			sb.WriteString(span.PlainText)
		} else if span.Text != nil {
			sb.WriteString(span.Text.Content)
		}
	}
	return sb.String()
}
