package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/swatanabe/notion2md/internal/assets"
	"github.com/swatanabe/notion2md/internal/converter"
	"github.com/swatanabe/notion2md/internal/exporter"
	"github.com/swatanabe/notion2md/internal/logger"
	"github.com/swatanabe/notion2md/internal/notion"
)

func main() {
	// Parse command line flags
	database := flag.String("database", "", "Notion database id or full database URL")
	contentDir := flag.String("content", "", "Directory to write markdown files (optional)")
	assetsDir := flag.String("assets", "", "Directory to store downloaded images (optional)")
	useFilter := flag.Bool("use-filter", false, "Apply a named filter to the database query")
	filterName := flag.String("filter", "", "Name of the registered filter to apply")
	flag.Parse()

	// Load .env file if present
	_ = godotenv.Load()

	// Initialize logger
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if err := logger.Init(logLevel); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	// Fall back to environment for anything not passed as a flag
	if *database == "" {
		*database = os.Getenv("NOTION_DATABASE_ID")
		if *database == "" {
			fmt.Println("Error: database id is required")
			flag.Usage()
			os.Exit(1)
		}
	}
	if *contentDir == "" {
		*contentDir = os.Getenv("CONTENT_DIR")
		if *contentDir == "" {
			*contentDir = "content"
		}
	}
	if *assetsDir == "" {
		*assetsDir = os.Getenv("ASSETS_DIR")
		if *assetsDir == "" {
			*assetsDir = "content/images"
		}
	}
	if !*useFilter {
		*useFilter = os.Getenv("USE_CUSTOM_FILTER") == "true"
	}
	if *filterName == "" {
		*filterName = os.Getenv("FILTER_TYPE")
	}

	cfg := exporter.Config{
		APIKey:     os.Getenv("NOTION_API_KEY"),
		Database:   *database,
		ViewID:     os.Getenv("NOTION_VIEW_ID"),
		UseFilter:  *useFilter,
		FilterName: *filterName,
		ContentDir: *contentDir,
		AssetsDir:  *assetsDir,
	}

	// Create output directories if they don't exist
	for _, dir := range []string{cfg.ContentDir, cfg.AssetsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("Failed to create output directory", err, map[string]interface{}{
				"dir": dir,
			})
			os.Exit(1)
		}
	}

	// Initialize Notion client
	client, err := notion.New(cfg.APIKey)
	if err != nil {
		logger.Error("Failed to initialize Notion client", err, nil)
		os.Exit(1)
	}

	materializer := assets.New(cfg.AssetsDir, cfg.ContentDir)
	conv := converter.New(client, materializer)

	if err := exporter.New(cfg, client, conv).Run(context.Background()); err != nil {
		logger.Error("Export aborted", err, nil)
		os.Exit(1)
	}
}
