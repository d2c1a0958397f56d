package services

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"ner-lab/domain/mimetypes"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"ner-lab/infrastructure/storage"
	"ner-lab/runtime"
	"os"
	"path/filepath"
	"strings"
)

// Engine entry points.
const (
	TokenizerClass  = "edu.stanford.nlp.process.PTBTokenizer"
	ClassifierClass = "edu.stanford.nlp.ie.crf.CRFClassifier"
)

const defaultLanguage = "en"

type INERService interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
	TokenizeFile(ctx context.Context, inPath string, out io.Writer) error
	LabelTokens(tokenFile, outFile string, labeler ner.Labeler) error
	Train(ctx context.Context, props ner.Properties) error
	TrainFromFile(ctx context.Context, propsPath string) error
	LoadClassifier(path string) (*Classifier, error)
}

// NERService drives the engine for tokenizing, training and loading classifiers.
type NERService struct {
	log      *slog.Logger
	runner   runtime.Runner
	workDir  string
	language string
	cache    storage.IRecognitionRepository
	index    storage.IEntityIndex
}

type Option func(*NERService)

// WithWorkDir sets where per-call temporary directories are created. Empty means os.TempDir.
func WithWorkDir(dir string) Option {
	return func(s *NERService) { s.workDir = dir }
}

// WithLanguage sets the ISO 639-1 language the loaded models are trained for.
func WithLanguage(lang string) Option {
	return func(s *NERService) { s.language = lang }
}

// WithCache makes classifiers reuse earlier results for identical texts.
func WithCache(cache storage.IRecognitionRepository) Option {
	return func(s *NERService) { s.cache = cache }
}

// WithIndex lets classifiers index what they recognise.
func WithIndex(index storage.IEntityIndex) Option {
	return func(s *NERService) { s.index = index }
}

func NewNERService(log *slog.Logger, runner runtime.Runner, opts ...Option) *NERService {
	s := &NERService{
		log:      log,
		runner:   runner,
		language: defaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewNERServiceFromArchive builds the service on a JavaRunner and fails when the archive is missing.
func NewNERServiceFromArchive(log *slog.Logger, javaOpts runtime.JavaOptions, opts ...Option) (*NERService, error) {
	runner, err := runtime.NewJavaRunner(log, javaOpts)
	if err != nil {
		return nil, err
	}
	return NewNERService(log, runner, opts...), nil
}

// Tokenize returns the engine's tokens for text, one per output line.
// Tokens are trimmed and blank lines are dropped, so sentence breaks do not survive.
func (s *NERService) Tokenize(ctx context.Context, text string) ([]string, error) {
	dir, err := os.MkdirTemp(s.workDir, "ner-tokenize-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte(text), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write tokenizer input: %w", err)
	}

	var stdout bytes.Buffer
	if _, err := s.runner.Run(ctx, runtime.Invocation{
		MainClass: TokenizerClass,
		Args:      []string{input},
		Stdout:    &stdout,
	}); err != nil {
		return nil, err
	}
	return nonBlankLines(&stdout)
}

// TokenizeFile streams the tokens of a plain text file into out.
func (s *NERService) TokenizeFile(ctx context.Context, inPath string, out io.Writer) error {
	detected, text, err := mimetypes.DetectFile(inPath)
	if err != nil {
		return err
	}
	if !text {
		return fmt.Errorf("%w: %s is %s", errors.ErrNotText, inPath, detected)
	}

	_, err = s.runner.Run(ctx, runtime.Invocation{
		MainClass: TokenizerClass,
		Args:      []string{inPath},
		Stdout:    out,
	})
	return err
}

// LabelTokens turns a one-token-per-line file into the tab-separated training format.
// A nil labeler marks every token as background. Lines are trimmed and blank ones
// skipped, so the output has no sentence separators.
func (s *NERService) LabelTokens(tokenFile, outFile string, labeler ner.Labeler) error {
	in, err := os.Open(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errors.ErrResourceNotFound, tokenFile)
		}
		return err
	}
	defer in.Close()

	tokens, err := nonBlankLines(in)
	if err != nil {
		return fmt.Errorf("failed to read tokens: %w", err)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create labelled file: %w", err)
	}
	if err := ner.WriteLabeled(out, tokens, labeler); err != nil {
		_ = out.Close()
		return err
	}
	s.log.Debug("Tokens labelled", "tokens", len(tokens), "out", outFile)
	return out.Close()
}

// Train runs the CRF trainer with every property passed on the command line.
func (s *NERService) Train(ctx context.Context, props ner.Properties) error {
	if err := props.Validate(); err != nil {
		return err
	}
	if err := requireFile(props.TrainFile); err != nil {
		return err
	}
	return s.train(ctx, props.Args())
}

// TrainFromFile hands a persisted properties file to the trainer through -prop.
func (s *NERService) TrainFromFile(ctx context.Context, propsPath string) error {
	props, err := ner.LoadProperties(propsPath)
	if err != nil {
		return err
	}
	if err := props.Validate(); err != nil {
		return err
	}
	if err := requireFile(props.TrainFile); err != nil {
		return err
	}
	return s.train(ctx, []string{"-prop", propsPath})
}

func (s *NERService) train(ctx context.Context, args []string) error {
	result, err := s.runner.Run(ctx, runtime.Invocation{
		MainClass: ClassifierClass,
		Args:      args,
	})
	if err != nil {
		return err
	}
	s.log.Info("Classifier trained", "duration", result.Duration)
	return nil
}

// LoadClassifier returns a handle on a serialized classifier.
func (s *NERService) LoadClassifier(path string) (*Classifier, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		log:         s.log.With("model", filepath.Base(path)),
		runner:      s.runner,
		modelPath:   abs,
		fingerprint: fingerprint(abs, info),
		workDir:     s.workDir,
		language:    s.language,
		cache:       s.cache,
		index:       s.index,
	}, nil
}

// fingerprint changes whenever the model file is replaced.
func fingerprint(path string, info os.FileInfo) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return hex.EncodeToString(sum[:8])
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
	}
	return nil
}

// nonBlankLines returns the trimmed lines of r, without the empty ones.
func nonBlankLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
