package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	adapterrepo "github.com/eslsoft/wordcard/internal/adapter/repository"
	"github.com/eslsoft/wordcard/internal/infrastructure/config"
	"github.com/eslsoft/wordcard/internal/infrastructure/database"
	"github.com/eslsoft/wordcard/internal/infrastructure/server"
	"github.com/eslsoft/wordcard/internal/usecase"
)

// app bundles the wired usecases every command needs. Close releases the
// database handle.
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	cleanup func()

	words   usecase.WordUsecase
	session usecase.SessionUsecase
	migrate usecase.MigrateUsecase
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	db, cleanup, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		cleanup()
		return nil, err
	}

	store := adapterrepo.NewStore(db, driver, logger)
	wordRepo := adapterrepo.NewWordRepository(store)
	reviewRepo := adapterrepo.NewReviewRepository(store)
	sessionRepo := adapterrepo.NewSessionRepository(store)

	// The session holds the only cache, so it is the invalidator for every
	// other mutation path.
	session := usecase.NewSessionUsecase(wordRepo, reviewRepo, sessionRepo)
	words := usecase.NewWordUsecase(wordRepo, reviewRepo, logger, session)
	migrate := usecase.NewMigrateUsecase(wordRepo, sessionRepo, logger, session)

	return &app{
		cfg:     cfg,
		logger:  logger,
		cleanup: cleanup,
		words:   words,
		session: session,
		migrate: migrate,
	}, nil
}

func (a *app) Close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// openInput resolves a path to a reader. "-" means stdin and names ending in
// .gz are transparently decompressed. Closers run in reverse registration
// order.
func openInput(path string, stdin io.Reader) (io.Reader, []func() error, error) {
	reader := stdin
	var closers []func() error

	if path != "-" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("open input file: %w", err)
		}
		reader = file
		closers = append(closers, file.Close)
	}
	if path != "-" && strings.HasSuffix(strings.ToLower(path), ".gz") {
		gzr, err := gzip.NewReader(reader)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		reader = gzr
		closers = append([]func() error{gzr.Close}, closers...)
	}
	return reader, closers, nil
}

// openOutput resolves a path to a writer, mirroring openInput.
func openOutput(path string, stdout io.Writer) (io.Writer, []func() error, error) {
	writer := stdout
	var closers []func() error

	if path != "-" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create output directory: %w", err)
			}
		}
		file, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		writer = file
		closers = append(closers, file.Close)
	}
	if path != "-" && strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz := gzip.NewWriter(writer)
		writer = gz
		closers = append([]func() error{gz.Close}, closers...)
	}
	return writer, closers, nil
}

func closeAll(closers []func() error) error {
	var first error
	for _, closer := range closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
