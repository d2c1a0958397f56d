package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"ner-lab/errors"
	"ner-lab/infrastructure/storage"
	"ner-lab/internal"
	"ner-lab/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

const (
	Version = "0.1.0"
	appName = "nerctl"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks mistakes in how the command was called.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// run executes one command line and maps its outcome to an exit code.
func run(args []string, stdout io.Writer) (int, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return exitUsage, err
	}

	a := &app{
		config: config,
		log:    logs.GetLoggerFromString(config.LogLevel),
		out:    stdout,
	}
	cmd := rootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	if err := cmd.Execute(); err != nil {
		return exitCode(err), err
	}
	return exitOK, nil
}

func exitCode(err error) int {
	var usage usageError
	switch {
	case stderrors.As(err, &usage),
		stderrors.Is(err, errors.ErrResourceNotFound),
		stderrors.Is(err, errors.ErrInvalidProperties),
		stderrors.Is(err, errors.ErrMissingKey),
		stderrors.Is(err, errors.ErrTypeMismatch),
		stderrors.Is(err, errors.ErrMalformedLine),
		stderrors.Is(err, errors.ErrNotText),
		stderrors.Is(err, errors.ErrEmptyQuery):
		return exitUsage
	default:
		return exitFailure
	}
}

// app carries what every command shares.
type app struct {
	config  internal.Config
	log     *slog.Logger
	out     io.Writer
	noColor bool
	closers []func() error
}

// service builds the engine wrapper, wiring the cache and the index when they are configured.
func (a *app) service(withIndex bool) (*services.NERService, error) {
	opts := []services.Option{
		services.WithWorkDir(a.config.WorkDir),
		services.WithLanguage(a.config.ModelLanguage),
	}
	if a.config.BadgerFilepath != "" {
		repo, err := a.recognitions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithCache(repo))
	}
	if withIndex {
		index, err := a.entityIndex()
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithIndex(index))
	}
	return services.NewNERServiceFromArchive(a.log, a.config.JavaOptions(), opts...)
}

func (a *app) recognitions() (*storage.RecognitionRepository, error) {
	if a.config.BadgerFilepath == "" {
		return nil, usageError{fmt.Errorf("NER_BADGER_FILEPATH is not set")}
	}
	db, err := badger.Open(badger.DefaultOptions(a.config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	return storage.NewRecognitionRepository(db, a.log), nil
}

func (a *app) entityIndex() (*storage.EntityIndex, error) {
	if a.config.BlugeFilepath == "" {
		return nil, usageError{fmt.Errorf("NER_BLUGE_FILEPATH is not set")}
	}
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(a.config.BlugeFilepath))
	if err != nil {
		return nil, fmt.Errorf("index opening failed: %w", err)
	}
	a.closers = append(a.closers, writer.Close)
	return storage.NewEntityIndex(writer, a.log), nil
}

// close releases stores in reverse opening order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Failed to close store", "error", err)
		}
	}
	a.closers = nil
}
