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

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docfind"
	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/ingestion"
)

func main() {
	app := &cli.App{
		Name:  "docfind",
		Usage: "Evidence-grounded question answering over PDF documents",
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
				Name:   "index",
				Usage:  "Build the document index and report its stats",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pdf",
						Aliases:  []string{"p"},
						Usage:    "Path to the PDF document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to BadgerDB embedding cache directory",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL for embeddings",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.BoolFlag{
						Name:  "no-embed",
						Usage: "Build the lexical index only, without embeddings",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search a document and print ranked passages",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pdf",
						Aliases:  []string{"p"},
						Usage:    "Path to the PDF document",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "hits",
						Usage: "Maximum number of passages to return",
						Value: 8,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a document",
				ArgsUsage: "QUESTION...",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pdf",
						Aliases:  []string{"p"},
						Usage:    "Path to the PDF document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to BadgerDB embedding cache directory",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL for embeddings and generation",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Answer generation model name",
					},
					&cli.BoolFlag{
						Name:  "wait-embeddings",
						Usage: "Wait for embedding backfill before searching",
					},
					&cli.BoolFlag{
						Name:  "steps",
						Usage: "Print the search step trace",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func indexCommand(c *cli.Context) error {
	var engineOpts []docfind.EngineOption
	if c.Bool("no-embed") {
		engineOpts = append(engineOpts, docfind.WithoutAI())
	} else {
		configOpts := []ai.ConfigOption{ai.WithHost(c.String("host"))}
		if model := c.String("embedding-model"); model != "" {
			configOpts = append(configOpts, ai.WithEmbeddingModel(model))
		}
		engineOpts = append(engineOpts,
			docfind.WithAIConfig(ai.NewConfig(configOpts...)),
			docfind.WithProgress(ingestion.NewProgressTracker(os.Stderr, 0, 16)),
		)
	}
	if cachePath := c.String("cache"); cachePath != "" {
		engineOpts = append(engineOpts, docfind.WithCachePath(cachePath))
	}

	engine, err := docfind.NewEngine(engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if err := engine.LoadPDF(ctx, c.String("pdf")); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	engine.WaitForEmbeddings()

	stats, err := engine.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read index stats: %w", err)
	}
	fmt.Printf("Indexed %s: %d chunks, %d embedded\n", c.String("pdf"), stats.Chunks, stats.Embedded)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := docfind.NewEngine(docfind.WithoutAI())
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if err := engine.LoadPDF(ctx, c.String("pdf")); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	result, err := engine.Search(ctx, query, nil, c.Int("hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d passages\n", len(result.Candidates))
	for i, candidate := range result.Candidates {
		fmt.Printf("%d: page %d [%s, %.0f] %s\n", i+1, candidate.Page, candidate.Match, candidate.Score, candidate.Excerpt)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	q := strings.Join(c.Args().Slice(), " ")
	if q == "" {
		return fmt.Errorf("question is required")
	}

	configOpts := []ai.ConfigOption{ai.WithHost(c.String("host"))}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("generator-model"); model != "" {
		configOpts = append(configOpts, ai.WithGeneratorModel(model))
	}

	engineOpts := []docfind.EngineOption{
		docfind.WithAIConfig(ai.NewConfig(configOpts...)),
	}
	if cachePath := c.String("cache"); cachePath != "" {
		engineOpts = append(engineOpts, docfind.WithCachePath(cachePath))
	}

	engine, err := docfind.NewEngine(engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if err := engine.LoadPDF(ctx, c.String("pdf")); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	if c.Bool("wait-embeddings") {
		fmt.Fprintln(os.Stderr, "Waiting for embedding backfill...")
		engine.WaitForEmbeddings()
	}

	answer, err := engine.Ask(ctx, q, nil)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if c.Bool("steps") {
		for _, step := range answer.Steps {
			fmt.Fprintf(os.Stderr, "- %s [%s] %s\n", step.Label, step.Status, step.Detail)
		}
		fmt.Fprintln(os.Stderr)
	}

	fmt.Println(answer.Text)
	fmt.Printf("\nPages: %v (confidence %.2f)\n", answer.Pages, answer.Confidence)
	if answer.BestOption != "" {
		fmt.Printf("Best supported option: %s\n", answer.BestOption)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
