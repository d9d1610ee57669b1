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

	"github.com/poiesic/faqtory"
	"github.com/poiesic/faqtory/chunking"
	"github.com/poiesic/faqtory/config"
	"github.com/poiesic/faqtory/storage/chromem"
	"github.com/poiesic/faqtory/storage/redis"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func chainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "chain",
		Aliases:  []string{"c"},
		Usage:    "Chain (project) the command applies to",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "faqtory",
		Usage: "Build FAQ question sets from support transcripts and answer from them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the YAML config file (default ./faqtory.yaml or ~/.config/faqtory/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "vectors",
				Usage: "Path to the chunk vector store directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "redis-addr",
				Usage: "Keep the topic catalog in Redis at this address (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest the new lines of every file in a directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					chainFlag(),
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory of documents; each file is one document named after the file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Approximate tokens per chunk (overrides config)",
					},
					&cli.IntFlag{
						Name:  "min-new-lines",
						Usage: "New lines a document needs before it is processed (overrides config)",
						Value: -1,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search ingested chunks",
				ArgsUsage: "<query>...",
				Action:    queryCommand,
				Flags: []cli.Flag{
					chainFlag(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Chunks returned per query (overrides config)",
					},
					&cli.StringFlag{
						Name:  "document",
						Usage: "Only search chunks of this document",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from ingested chunks",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					chainFlag(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Chunks given to the answerer (overrides config)",
					},
				},
			},
			{
				Name:   "questions",
				Usage:  "List the stored FAQ questions of a chain",
				Action: questionsCommand,
				Flags:  []cli.Flag{chainFlag()},
			},
			{
				Name:   "cursors",
				Usage:  "List how far each source of a chain has been ingested",
				Action: cursorsCommand,
				Flags:  []cli.Flag{chainFlag()},
			},
			{
				Name:  "topics",
				Usage: "Manage the topic catalog",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List topics",
						Action: topicsListCommand,
					},
					{
						Name:   "add",
						Usage:  "Add or rename a topic",
						Action: topicsAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "id", Usage: "Topic id", Required: true},
							&cli.StringFlag{Name: "name", Usage: "Topic name", Required: true},
						},
					},
					{
						Name:      "remove",
						Usage:     "Remove topics by id",
						ArgsUsage: "<id>...",
						Action:    topicsRemoveCommand,
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete chunks from the vector store",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "id", Usage: "Chunk id to delete (repeatable)"},
					&cli.StringFlag{Name: "document", Usage: "Delete every chunk of this document"},
					&cli.StringFlag{Name: "chain", Usage: "Delete every chunk of this chain"},
					&cli.BoolFlag{Name: "all", Usage: "Delete every chunk"},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Recompute the embeddings of a chain's stored questions",
				Action: reembedCommand,
				Flags: []cli.Flag{
					chainFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of questions to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N questions",
						Value: 100,
					},
				},
			},
		},
	}
}

// setup configures logging and loads the configuration.
func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	var (
		cfg  *config.AppConfig
		path string
		err  error
	)
	if path = c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Debug("loaded config", "path", path)

	if v := c.String("db"); v != "" {
		cfg.Storage.Path = v
	}
	if v := c.String("vectors"); v != "" {
		cfg.Storage.VectorPath = v
	}
	if v := c.String("redis-addr"); v != "" {
		cfg.Redis.Addr = v
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func appConfig(c *cli.Context) *config.AppConfig {
	if cfg, ok := c.App.Metadata[configKey].(*config.AppConfig); ok {
		return cfg
	}
	return config.Default()
}

// openFaqtory builds the Faqtory described by cfg. Tests replace it.
var openFaqtory = func(ctx context.Context, cfg *config.AppConfig) (*faqtory.Faqtory, error) {
	opts := []faqtory.Option{
		faqtory.WithAIConfig(cfg.AIServiceConfig()),
		faqtory.WithVectorPath(cfg.Storage.VectorPath,
			chromem.WithCollection(cfg.Storage.Collection),
			chromem.WithCompression(cfg.Storage.Compress)),
		faqtory.WithChunkerOptions(
			chunking.WithPoolSize(cfg.Ingestion.Workers),
			chunking.WithQuestionCount(cfg.AI.QuestionCount),
			chunking.WithChunkOverlap(cfg.Ingestion.ChunkOverlap)),
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Conn(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout())
		if err != nil {
			return nil, err
		}
		topics, err := redis.NewTopicRepository(client, redis.WithKey(cfg.Redis.Key), redis.WithOwnedClient())
		if err != nil {
			client.Close()
			return nil, err
		}
		opts = append(opts, faqtory.WithTopicRepository(topics))
	}

	return faqtory.Open(cfg.Storage.Path, opts...)
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
