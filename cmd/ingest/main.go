// Command ingest imports conversation exports into the knowledge graph from
// the command line, sharing the same pipeline as the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"graphmem-backend/application/ingestion"
	"graphmem-backend/infrastructure/config"
	"graphmem-backend/infrastructure/di"
)

var (
	globPattern string
	dbPath      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ingest [path]",
		Short: "Import conversation exports into the knowledge graph",
		Long: `Ingest parses conversation export files, extracts atomic propositions,
deduplicates them against the existing graph and stores the unique ones
as leaf nodes with embeddings and similarity links.

The path may be a single export file or a directory; directories are
walked with the --glob pattern.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	rootCmd.Flags().StringVar(&globPattern, "glob", "**/*.md", "glob pattern for export files when path is a directory")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "database file path (overrides DATABASE_PATH)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer container.Close()

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var batch *ingestion.BatchResult
	if info.IsDir() {
		batch, err = container.Ingestion.IngestDirectory(ctx, path, globPattern)
	} else {
		var messages []ingestion.ConversationMessage
		messages, err = ingestion.ParseFile(path)
		if err == nil {
			batch, err = container.Ingestion.IngestConversation(ctx, messages)
		}
	}
	if batch != nil {
		printSummary(cmd, batch)
	}
	return err
}

func printSummary(cmd *cobra.Command, batch *ingestion.BatchResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "messages:   %d\n", batch.TotalMessages)
	fmt.Fprintf(out, "extracted:  %d\n", batch.TotalExtracted)
	fmt.Fprintf(out, "stored:     %d\n", batch.TotalStored)
	fmt.Fprintf(out, "duplicates: %d\n", batch.TotalDuplicates)
	fmt.Fprintf(out, "sessions:   %d\n", batch.SessionsProcessed)
	for _, e := range batch.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
}
