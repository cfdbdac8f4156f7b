package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/swatanabe/notion2md/internal/logger"
)

// queryPageSize is the maximum page size the Notion API accepts.
const queryPageSize = 100

// Client wraps the Notion API client with the read operations the
// exporter needs: database queries, page retrieval and block listing.
type Client struct {
	client NotionClient
}

// New creates a new Notion client
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion API key is not set")
	}

	notionClient := notionapi.NewClient(notionapi.Token(apiKey))
	return &Client{
		client: newNotionClientAdapter(notionClient),
	}, nil
}

// QueryAllPages queries the database repeatedly, following the
// continuation cursor until the service reports no further pages, and
// returns all results in order. A failed request ends the loop and the
// pages accumulated so far are returned; completeness is best-effort
// and truncation is only visible in the log.
func (c *Client) QueryAllPages(ctx context.Context, databaseID notionapi.DatabaseID, filter notionapi.Filter) []notionapi.Page {
	c.describeDatabase(ctx, databaseID)

	var pages []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{
		PageSize: queryPageSize,
	}
	if filter != nil {
		req.Filter = filter
	}

	for {
		resp, err := c.client.Database().Query(ctx, databaseID, req)
		if err != nil {
			logger.Error("Failed to query database, returning pages fetched so far", err, map[string]interface{}{
				"database_id": databaseID,
				"pages":       len(pages),
			})
			return pages
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	logger.Info("Queried database", map[string]interface{}{
		"database_id": databaseID,
		"pages":       len(pages),
	})

	return pages
}

// describeDatabase logs the database schema for diagnostics. Failures
// are logged and otherwise ignored.
func (c *Client) describeDatabase(ctx context.Context, databaseID notionapi.DatabaseID) {
	db, err := c.client.Database().Get(ctx, databaseID)
	if err != nil {
		logger.Debug("Failed to retrieve database schema", map[string]interface{}{
			"database_id": databaseID,
			"error":       err.Error(),
		})
		return
	}

	schema := make(map[string]interface{}, len(db.Properties))
	for name, config := range db.Properties {
		schema[name] = string(config.GetType())
	}
	logger.Debug("Database schema", map[string]interface{}{
		"database_id": databaseID,
		"properties":  schema,
	})
}

// GetPage retrieves a single page with its properties and timestamps.
func (c *Client) GetPage(ctx context.Context, pageID notionapi.PageID) (*notionapi.Page, error) {
	page, err := c.client.Page().Get(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve page %s: %w", pageID, err)
	}
	return page, nil
}

// FetchBlockTree lists the children of the given block and flattens the
// tree depth-first: a child that has children of its own is followed by
// its whole subtree before the next sibling. Only the first page of
// children (100 blocks) is fetched per parent; longer child lists are
// truncated. An error fetching one level is logged and the blocks
// accumulated so far are returned.
func (c *Client) FetchBlockTree(ctx context.Context, blockID notionapi.BlockID) []notionapi.Block {
	var blocks []notionapi.Block

	resp, err := c.client.Block().GetChildren(ctx, blockID, &notionapi.Pagination{
		PageSize: queryPageSize,
	})
	if err != nil {
		logger.Error("Failed to list block children, returning blocks fetched so far", err, map[string]interface{}{
			"block_id": blockID,
		})
		return blocks
	}

	for _, block := range resp.Results {
		blocks = append(blocks, block)
		if block.GetHasChildren() {
			blocks = append(blocks, c.FetchBlockTree(ctx, block.GetID())...)
		}
	}

	return blocks
}
