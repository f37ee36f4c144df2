// Copyright 2026 Batiwork Systems
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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/batiwork/batisearch/ai"
	"github.com/batiwork/batisearch/ai/openai"
	"github.com/batiwork/batisearch/api"
	"github.com/batiwork/batisearch/catalog"
	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
	"github.com/batiwork/batisearch/search"
	"github.com/batiwork/batisearch/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "batisearch",
		Usage: "Search service for construction pricing catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"BATISEARCH_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(stackFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						Value:   ":8080",
						EnvVars: []string{"BATISEARCH_LISTEN"},
					},
					&cli.StringFlag{
						Name:  "preload",
						Usage: "Library to load at startup (optional)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a single query against a library and print the results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(stackFlags(),
					&cli.StringFlag{
						Name:     "library",
						Usage:    "Library file to search",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "price-type",
						Usage: "Price column to report (Minimum, Moyen, Maximum)",
						Value: "Moyen",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 20,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// stackFlags are the flags shared by every command that builds the full
// search stack.
func stackFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "library-dir",
			Aliases: []string{"d"},
			Usage:   "Directory containing catalog CSV files",
			Value:   "data",
			EnvVars: []string{"BATISEARCH_LIBRARY_DIR"},
		},
		&cli.StringFlag{
			Name:    "dict-dir",
			Usage:   "Directory for dictionary JSON files",
			Value:   "dictionaries",
			EnvVars: []string{"BATISEARCH_DICT_DIR"},
		},
		&cli.StringFlag{
			Name:    "vector-db",
			Usage:   "Path to the BadgerDB vector cache (empty disables caching)",
			EnvVars: []string{"BATISEARCH_VECTOR_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"BATISEARCH_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name (empty disables semantic search)",
			EnvVars: []string{"BATISEARCH_EMBEDDING_MODEL"},
		},
	}
}

// stack bundles the wired components so commands can tear them down in
// one place.
type stack struct {
	engine     *search.Engine
	manager    *catalog.Manager
	dictionary *dict.Dictionary
	headings   *dict.HeadingDictionary
	backend    *badger.Backend
}

func (s *stack) Close() {
	s.manager.Release()
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			slog.Warn("failed to close vector database", "err", err)
		}
	}
}

func buildStack(c *cli.Context) (*stack, error) {
	logger := slog.Default()

	store, err := dict.NewFileStore(c.String("dict-dir"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary store: %w", err)
	}
	corrector := dict.LoadCorrector(store, logger)
	dictionary := dict.LoadDictionary(store, logger)
	headings := dict.LoadHeadingDictionary(store, logger)

	managerOpts := []catalog.Option{catalog.WithLogger(logger)}
	engineOpts := []search.EngineOption{search.WithHeadings(headings)}

	var backend *badger.Backend
	if model := c.String("embedding-model"); model != "" {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(model),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		embedder, err := openai.NewEmbedder(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		managerOpts = append(managerOpts, catalog.WithEmbedder(embedder, model))
		engineOpts = append(engineOpts, search.WithSemanticFallback(embedder))

		if dbPath := c.String("vector-db"); dbPath != "" {
			backend, err = badger.OpenBackend(dbPath, false)
			if err != nil {
				return nil, fmt.Errorf("failed to open vector database: %w", err)
			}
			managerOpts = append(managerOpts, catalog.WithVectorCache(badger.NewVectorStore(backend, logger)))
		}
	}

	manager, err := catalog.NewManager(c.String("library-dir"), managerOpts...)
	if err != nil {
		if backend != nil {
			backend.Close()
		}
		return nil, fmt.Errorf("failed to create catalog manager: %w", err)
	}

	matcher, err := search.NewMatcher(corrector, dictionary, search.WithLogger(logger))
	if err != nil {
		manager.Release()
		if backend != nil {
			backend.Close()
		}
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	engine, err := search.NewEngine(manager, matcher, engineOpts...)
	if err != nil {
		manager.Release()
		if backend != nil {
			backend.Close()
		}
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &stack{
		engine:     engine,
		manager:    manager,
		dictionary: dictionary,
		headings:   headings,
		backend:    backend,
	}, nil
}

func serveCommand(c *cli.Context) error {
	stack, err := buildStack(c)
	if err != nil {
		return err
	}
	defer stack.Close()

	if name := c.String("preload"); name != "" {
		if _, err := stack.manager.Library(c.Context, name); err != nil {
			return fmt.Errorf("failed to preload library %q: %w", name, err)
		}
		slog.Info("library preloaded", "library", name)
	}

	server := &http.Server{
		Addr:         c.String("listen"),
		Handler:      api.NewServer(stack.engine, stack.manager, stack.dictionary, stack.headings, slog.Default()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	stack, err := buildStack(c)
	if err != nil {
		return err
	}
	defer stack.Close()

	results, err := stack.engine.Search(c.Context, search.Request{
		Library: c.String("library"),
		Query:   query,
		Price:   core.ParsePriceKind(c.String("price-type")),
		Limit:   c.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
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
