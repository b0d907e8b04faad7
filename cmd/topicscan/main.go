package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const defaultConfigPath = "topicscan.toml"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "topicscan",
		Usage: "Find which topics a text talks about",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   defaultConfigPath,
				EnvVars: []string{"TOPICSCAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the analyze endpoint over HTTP",
				Action: serveCommand,
				Flags: append(matcherFlags(),
					&cli.StringFlag{
						Name:  "bind",
						Usage: "Address to listen on (overrides server.bind)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of topics checked concurrently per request (overrides server.pool_size)",
					},
				),
			},
			{
				Name:      "match",
				Usage:     "Print the topics contained in a text",
				ArgsUsage: "[text]",
				Action:    matchCommand,
				Flags: append(matcherFlags(),
					&cli.StringSliceFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Candidate topic (repeatable)",
						Required: true,
					},
				),
			},
			{
				Name:      "import-vectors",
				Usage:     "Load a word2vec model into the word-vector store",
				ArgsUsage: "<model file>",
				Action:    importVectorsCommand,
				Flags: append(loaderFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Model format (text, binary)",
						Value: "text",
					},
					&cli.BoolFlag{
						Name:  "keep-pos",
						Usage: "Keep part-of-speech suffixes such as _NOUN in model keys",
					},
				),
			},
			{
				Name:      "embed-vocabulary",
				Usage:     "Embed a word list with the configured embedding service and store the vectors",
				ArgsUsage: "<word list file>",
				Action:    embedVocabularyCommand,
				Flags:     loaderFlags(),
			},
			{
				Name:   "init-config",
				Usage:  "Write a sample configuration file",
				Action: initConfigCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
			},
		},
	}
}

func matcherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Minimum similarity for every aligned word pair (overrides matcher.threshold)",
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "Default language as an ISO 639-3 code (overrides matcher.language)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Similarity backend: embedding, lexical or exact (overrides similarity.backend)",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (overrides storage.path)",
		},
	}
}

func loaderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (overrides storage.path)",
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "Language the words belong to (overrides matcher.language)",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of words written per transaction",
			Value: 1000,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of batches written concurrently",
			Value: 2,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N words",
			Value: 10000,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for failed operations",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

func setup(c *cli.Context) error {
	// A missing .env is fine.
	_ = godotenv.Load()
	return setupLogger(c)
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
