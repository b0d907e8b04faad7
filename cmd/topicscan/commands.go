package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/topicscan"
	"github.com/poiesic/topicscan/config"
	"github.com/poiesic/topicscan/httpapi"
	"github.com/poiesic/topicscan/loader"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// loadConfig reads the --config file and applies the command's override flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, exists, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Debug("config file not found, using defaults", "path", path)
	}

	if c.IsSet("threshold") {
		cfg.Matcher.Threshold = c.Float64("threshold")
	}
	if c.IsSet("lang") {
		cfg.Matcher.Language = strings.ToLower(strings.TrimSpace(c.String("lang")))
	}
	if c.IsSet("backend") {
		cfg.Similarity.Backend = strings.ToLower(strings.TrimSpace(c.String("backend")))
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
		cfg.Storage.InMemory = false
	}
	if c.IsSet("bind") {
		cfg.Server.Bind = c.String("bind")
	}
	if c.IsSet("pool-size") {
		cfg.Server.PoolSize = c.Int("pool-size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loaderConfig(c *cli.Context) (*loader.Config, error) {
	lc := &loader.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		StripPOSTags:   !c.Bool("keep-pos"),
	}

	if lc.BatchSize <= 0 {
		return nil, fmt.Errorf("batch-size must be greater than 0")
	}
	if lc.Workers <= 0 {
		return nil, fmt.Errorf("workers must be greater than 0")
	}
	if lc.ReportInterval <= 0 {
		return nil, fmt.Errorf("report-interval must be greater than 0")
	}
	if lc.MaxRetries <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}
	return lc, nil
}

// openStore builds a Service over the word-vector store for the loader commands.
func openStore(c *cli.Context) (*topicscan.Service, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cfg.Similarity.Backend = config.BackendEmbedding
	if cfg.Storage.InMemory {
		return nil, nil, fmt.Errorf("storage.in_memory is set: loaded vectors would be discarded")
	}

	svc, err := topicscan.NewService(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open word-vector store: %w", err)
	}
	return svc, cfg, nil
}

func openInput(c *cli.Context) (*os.File, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input file, got %d arguments", c.NArg())
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc, err := topicscan.NewService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	server := httpapi.NewServer(svc.Analyzer(),
		httpapi.WithRequestTimeout(cfg.Server.RequestTimeout.Std()),
		httpapi.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.Server.Bind)
	}()
	slog.Info("listening", "addr", cfg.Server.Bind)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}

func matchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read text: %w", err)
		}
		text = string(data)
	}

	svc, err := topicscan.NewService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	matched, err := svc.Analyze(c.Context, text, c.StringSlice("topic"))
	if err != nil {
		return err
	}
	for _, topic := range matched {
		fmt.Fprintln(c.App.Writer, topic)
	}
	return nil
}

func importVectorsCommand(c *cli.Context) error {
	format, err := loader.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	lc, err := loaderConfig(c)
	if err != nil {
		return err
	}
	f, err := openInput(c)
	if err != nil {
		return err
	}
	defer f.Close()

	svc, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(c.App.ErrWriter, "Model: %s (%s)\n", f.Name(), format)
	fmt.Fprintf(c.App.ErrWriter, "Language: %s\n", cfg.Language())
	fmt.Fprintln(c.App.ErrWriter)

	importer := loader.NewImporter(svc.VectorRepository(), svc.Normalizer(), lc, c.App.ErrWriter)
	stats, err := importer.Import(ctx, f, cfg.Language(), format)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	slog.Info("import finished",
		"read", stats.Read,
		"stored", stats.Stored,
		"duplicates", stats.Duplicates,
		"skipped", stats.Skipped)
	return nil
}

func embedVocabularyCommand(c *cli.Context) error {
	lc, err := loaderConfig(c)
	if err != nil {
		return err
	}
	f, err := openInput(c)
	if err != nil {
		return err
	}
	defer f.Close()

	svc, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.Embedder() == nil {
		return fmt.Errorf("%w: embedding.host and embedding.model are required", config.ErrInvalidConfig)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.Embedding.Host)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintln(c.App.ErrWriter)

	embedder := loader.NewVocabularyEmbedder(svc.VectorRepository(), svc.Embedder(), svc.Normalizer(), lc, c.App.ErrWriter)
	stats, err := embedder.Run(ctx, f, cfg.Language())
	if err != nil {
		return fmt.Errorf("vocabulary embedding failed: %w", err)
	}
	count, err := svc.Count(ctx, "")
	if err != nil {
		return err
	}
	slog.Info("vocabulary embedded",
		"read", stats.Read,
		"stored", stats.Stored,
		"skipped", stats.Skipped,
		"total", count)
	return nil
}

func initConfigCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote sample configuration to %s\n", path)
	return nil
}
