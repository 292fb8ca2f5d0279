package main

import (
	"context"
	"fmt"
	"os"

	"little-lemon/internal/config"
	"little-lemon/internal/menu"
	"little-lemon/internal/repository"
)

// checkCache opens the configured menu cache and prints what it holds.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(config.LoggerConfig{Level: "warn", Format: "console"})

	var opener repository.Opener
	if cfg.Cache.Driver == config.DriverPostgres {
		opener = repository.NewPostgresOpener(cfg.Database, logger)
	} else {
		opener = repository.NewSQLiteOpener(cfg.Cache.Path, logger)
	}

	ctx := context.Background()
	cache := repository.NewMenuCache(opener, logger)
	defer cache.Close()

	if err := cache.EnsureReady(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s cache: %v\n", cfg.Cache.Driver, err)
		os.Exit(1)
	}

	items := cache.GetAll(ctx)
	fmt.Printf("Successfully opened %s cache: %d menu items\n", cfg.Cache.Driver, len(items))

	for _, section := range menu.BuildSections(items) {
		fmt.Printf("\n%s:\n", section.Title)
		for _, item := range section.Data {
			fmt.Printf("  - %-30s %8s\n", item.Title, item.Price)
		}
	}
}
