package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/swatanabe/notion2md/internal/converter"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "Punctuation and spaces collapse to hyphens",
			title: "Hello, World! 2024",
			want:  "hello-world-2024",
		},
		{
			name:  "Leading and trailing separators are stripped",
			title: "---Leading/Trailing---",
			want:  "leading-trailing",
		},
		{
			name:  "Uppercase is lowered",
			title: "My Note",
			want:  "my-note",
		},
		{
			name:  "Already clean",
			title: "plain",
			want:  "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestResolveDatabaseID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantID      string
		wantView    string
		expectError bool
	}{
		{
			name:   "Bare id passes through",
			input:  "0123456789abcdef0123456789abcdef",
			wantID: "0123456789abcdef0123456789abcdef",
		},
		{
			name:     "URL with view parameter",
			input:    "https://www.notion.so/workspace/0123456789abcdef0123456789abcdef?v=fedcba9876543210fedcba9876543210",
			wantID:   "0123456789abcdef0123456789abcdef",
			wantView: "fedcba9876543210fedcba9876543210",
		},
		{
			name:   "URL without view parameter",
			input:  "https://www.notion.so/0123456789abcdef0123456789abcdef",
			wantID: "0123456789abcdef0123456789abcdef",
		},
		{
			name:        "URL without a database id is fatal",
			input:       "https://www.notion.so/workspace/not-a-database",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, view, err := ResolveDatabaseID(tt.input)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("Expected id %q, got %q", tt.wantID, id)
			}
			if view != tt.wantView {
				t.Errorf("Expected view %q, got %q", tt.wantView, view)
			}
		})
	}
}

func TestLookupFilter(t *testing.T) {
	if _, ok := lookupFilter("life"); !ok {
		t.Error("Expected the life filter to be registered")
	}
	if _, ok := lookupFilter("nope"); ok {
		t.Error("Expected unknown filter names to miss")
	}
}

type fakeContentSource struct {
	pages  []notionapi.Page
	filter notionapi.Filter
}

func (f *fakeContentSource) QueryAllPages(_ context.Context, _ notionapi.DatabaseID, filter notionapi.Filter) []notionapi.Page {
	f.filter = filter
	return f.pages
}

type fakePageSource struct {
	page   *notionapi.Page
	blocks []notionapi.Block
}

func (f *fakePageSource) GetPage(_ context.Context, _ notionapi.PageID) (*notionapi.Page, error) {
	return f.page, nil
}

func (f *fakePageSource) FetchBlockTree(_ context.Context, _ notionapi.BlockID) []notionapi.Block {
	return f.blocks
}

type fakeImages struct {
	path string
}

func (f *fakeImages) Materialize(_ context.Context, _ string) (string, error) {
	return f.path, nil
}

func richText(text string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type:      "text",
		Text:      &notionapi.Text{Content: text},
		PlainText: text,
	}}
}

func TestRunEndToEnd(t *testing.T) {
	contentDir := t.TempDir()

	page := notionapi.Page{Object: "page", ID: "p1"}
	pageSource := &fakePageSource{
		page: &notionapi.Page{
			Object:         "page",
			ID:             "p1",
			CreatedTime:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			LastEditedTime: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Properties: notionapi.Properties{
				"Title":      &notionapi.TitleProperty{Type: "title", Title: richText("My Note")},
				"Created At": &notionapi.RichTextProperty{Type: "rich_text", RichText: richText("2024-01-05")},
			},
		},
		blocks: []notionapi.Block{
			&notionapi.Heading1Block{
				BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading1},
				Heading1:   notionapi.Heading{RichText: richText("Intro")},
			},
			&notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeParagraph},
				Paragraph:  notionapi.Paragraph{RichText: richText("Hello world")},
			},
			&notionapi.ImageBlock{
				BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeImage},
				Image: notionapi.Image{
					Type:     "external",
					External: &notionapi.FileObject{URL: "http://x/img.jpg"},
				},
			},
		},
	}

	conv := converter.New(pageSource, &fakeImages{path: "images/notion-image-1-abcde.png"})
	e := New(Config{
		Database:   "0123456789abcdef0123456789abcdef",
		ContentDir: contentDir,
	}, &fakeContentSource{pages: []notionapi.Page{page}}, conv)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(contentDir, "my-note.md"))
	if err != nil {
		t.Fatalf("Expected my-note.md to be written: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "title: My Note") {
		t.Errorf("Expected frontmatter title, got:\n%s", content)
	}
	if !strings.Contains(content, "2024-01-05") {
		t.Errorf("Expected frontmatter date 2024-01-05, got:\n%s", content)
	}

	_, body, found := strings.Cut(content, "---\n\n")
	if !found {
		t.Fatalf("Expected frontmatter terminator, got:\n%s", content)
	}
	wantBody := "# Intro\n\nHello world\n\n![](images/notion-image-1-abcde.png)\n\n"
	if body != wantBody {
		t.Errorf("Expected body %q, got %q", wantBody, body)
	}
}

func TestRunMalformedURLAborts(t *testing.T) {
	e := New(Config{
		Database: "https://www.notion.so/not-a-database",
	}, &fakeContentSource{}, nil)

	if err := e.Run(context.Background()); err == nil {
		t.Error("Expected malformed database URL to abort the run")
	}
}

func TestRunUnknownFilterProceedsUnfiltered(t *testing.T) {
	source := &fakeContentSource{}
	e := New(Config{
		Database:   "0123456789abcdef0123456789abcdef",
		UseFilter:  true,
		FilterName: "nope",
		ContentDir: t.TempDir(),
	}, source, nil)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if source.filter != nil {
		t.Error("Expected no filter to be applied for an unknown name")
	}
}
