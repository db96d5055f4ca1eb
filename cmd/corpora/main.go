// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/corpus"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "corpora",
		Usage: "Paragraph corpus builder and retrieval engine for guessing games",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Extract, filter and snapshot paragraphs from PDF sources",
				ArgsUsage: "<pdf-file>...",
				Action:    buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Path for the corpus snapshot JSON",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-words",
						Usage: "Minimum paragraph length in words",
						Value: corpus.DefaultMinWords,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Load a corpus snapshot into the database and build embeddings",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "snapshot",
						Aliases:  []string{"s"},
						Usage:    "Path to the corpus snapshot JSON",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of paragraphs to embed in each batch",
						Value: index.DefaultEmbeddingBatchSize,
					},
				},
			},
			{
				Name:   "difficulty",
				Usage:  "Score indexed paragraphs by guessing difficulty",
				Action: difficultyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of paragraphs to score in each batch",
						Value: index.DefaultScoringBatchSize,
					},
					&cli.IntFlag{
						Name:  "neighbors",
						Usage: "Number of nearest neighbors per paragraph",
						Value: index.DefaultNeighborK,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Retrieve candidate paragraphs for a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source name to rank ahead of corpus-wide matches",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of candidates to retrieve",
						Value:   6,
					},
				},
			},
			{
				Name:   "sample",
				Usage:  "Draw a random paragraph within word-count and difficulty bounds",
				Action: sampleCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-words",
						Usage: "Minimum paragraph length in words",
						Value: storage.DefaultRandomMinWords,
					},
					&cli.IntFlag{
						Name:  "max-words",
						Usage: "Maximum paragraph length in words",
						Value: storage.DefaultRandomMaxWords,
					},
					&cli.Float64Flag{
						Name:  "min-difficulty",
						Usage: "Minimum difficulty score",
						Value: 0.0,
					},
					&cli.Float64Flag{
						Name:  "max-difficulty",
						Usage: "Maximum difficulty score",
						Value: 1.0,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one PDF file is required")
	}

	builder, err := corpus.NewBuilder(
		corpus.NewPDFExtractor(),
		corpus.WithMinWords(c.Int("min-words")),
	)
	if err != nil {
		return fmt.Errorf("failed to create corpus builder: %w", err)
	}

	records, err := builder.Build(ctx, paths)
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}

	snapshot := corpus.NewSnapshot(records)
	if err := corpus.WriteSnapshot(c.String("output"), snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Sources: %d\n", snapshot.Metadata.TotalSources)
	fmt.Fprintf(os.Stderr, "Paragraphs: %d\n", snapshot.Metadata.TotalParagraphs)
	fmt.Fprintf(os.Stderr, "Snapshot: %s\n", c.String("output"))

	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	snapshot, err := corpus.ReadSnapshot(c.String("snapshot"))
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(snapshot.Paragraphs) == 0 {
		return fmt.Errorf("snapshot contains no paragraphs")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Paragraphs().UpsertAll(ctx, snapshot.Paragraphs); err != nil {
		return fmt.Errorf("failed to store paragraphs: %w", err)
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	builder := db.NewEmbeddingBuilder(index.WithEmbeddingBatchSize(batchSize))
	entries, err := builder.Build(ctx, snapshot.Paragraphs)
	if err != nil {
		return fmt.Errorf("embedding build failed: %w", err)
	}

	if err := db.Vectors().Rebuild(ctx, entries); err != nil {
		return fmt.Errorf("failed to rebuild vector store: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("data"))
	fmt.Fprintf(os.Stderr, "Paragraphs stored: %d\n", len(snapshot.Paragraphs))
	fmt.Fprintf(os.Stderr, "Vectors indexed: %d\n", len(entries))

	return nil
}

func difficultyCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	neighbors := c.Int("neighbors")
	if neighbors <= 0 {
		return fmt.Errorf("neighbors must be greater than 0")
	}

	indexer := db.NewDifficultyIndexer(
		index.WithScoringBatchSize(batchSize),
		index.WithNeighborK(neighbors),
	)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("data"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := indexer.Run(ctx); err != nil {
		return fmt.Errorf("difficulty indexing failed: %w", err)
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	retriever, err := db.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	candidates, err := retriever.Search(ctx, query, c.String("source"), c.Int("count"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i, candidate := range candidates {
		printCandidate(i+1, candidate)
	}
	if len(candidates) == 0 {
		fmt.Println("No candidates found.")
	}

	return nil
}

func sampleCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := corpora.NewDatabase(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := storage.RandomQuery{
		MinWords:      c.Int("min-words"),
		MaxWords:      c.Int("max-words"),
		MinDifficulty: c.Float64("min-difficulty"),
		MaxDifficulty: c.Float64("max-difficulty"),
	}

	record, err := db.Paragraphs().GetRandom(ctx, query)
	if err != nil {
		return fmt.Errorf("sampling failed: %w", err)
	}

	fmt.Printf("ID: %s\n", record.Id)
	fmt.Printf("Source: %s (paragraph %d, %d words)\n",
		record.SourceName, record.ParagraphIndex, record.WordCount)
	if record.Difficulty != nil {
		fmt.Printf("Difficulty: %.4f\n", *record.Difficulty)
	}
	fmt.Println()
	fmt.Println(record.Text)

	return nil
}

func openDatabase(c *cli.Context) (*corpora.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := corpora.NewDatabase(c.String("data"), corpora.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func printCandidate(rank int, candidate *core.Candidate) {
	fmt.Printf("%d. %s (%s)", rank, candidate.Id, candidate.SourceName)
	if candidate.Distance != nil {
		fmt.Printf("  distance=%.4f", *candidate.Distance)
	}
	fmt.Println()
	fmt.Printf("   %s\n", candidate.OpeningSentence)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
