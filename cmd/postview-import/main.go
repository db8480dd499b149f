package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	postview "github.com/goliatone/go-postview"
	"github.com/goliatone/go-postview/internal/markdown"
)

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("postview import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("postview-import", flag.ExitOnError)
	dir := fs.String("dir", "content", "Path to the markdown content root")
	dsn := fs.String("db", "", "SQLite DSN to persist into (omit for an in-memory dry run)")
	category := fs.String("category", "news", "Category assigned when front matter omits one")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := postview.DefaultConfig()
	if *dsn != "" {
		cfg.Storage.Driver = postview.DriverSQLite
		cfg.Storage.DSN = *dsn
	}

	module, err := postview.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()
	if err := module.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	importer := markdown.NewImporter(module.Posts(), markdown.WithDefaultCategory(*category))
	imported, err := importer.ImportDir(ctx, *dir)
	if err != nil {
		return fmt.Errorf("import directory: %w", err)
	}

	for _, post := range imported {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", post.Status, post.Slug, post.Title)
	}
	fmt.Fprintf(os.Stdout, "imported %d documents from %s\n", len(imported), *dir)

	return nil
}
