package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"ner-lab/infrastructure/storage"
	"ner-lab/runtime"
	"os"
	"path/filepath"
	"sync"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// Classifier is a handle on one serialized model. Calls on the same handle are serialised.
type Classifier struct {
	mu          sync.Mutex
	closed      bool
	log         *slog.Logger
	runner      runtime.Runner
	modelPath   string
	fingerprint string
	workDir     string
	language    string
	cache       storage.IRecognitionRepository
	index       storage.IEntityIndex
}

func (c *Classifier) ModelPath() string {
	return c.modelPath
}

func (c *Classifier) Fingerprint() string {
	return c.fingerprint
}

// Annotate classifies text and keeps the engine's raw inline XML next to the parsed tokens.
func (c *Classifier) Annotate(ctx context.Context, text string) (ner.Annotation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ner.Annotation{}, errors.ErrClassifierClosed
	}
	return c.annotate(ctx, text)
}

// Recognize returns the tagged tokens of text.
func (c *Classifier) Recognize(ctx context.Context, text string) ([]ner.TaggedToken, error) {
	annotation, err := c.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	return annotation.Tokens, nil
}

// RecognizeAndIndex classifies text and indexes its entities under docID.
// An empty docID gets a generated one, which is returned.
func (c *Classifier) RecognizeAndIndex(ctx context.Context, docID, text string) (string, ner.Annotation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ner.Annotation{}, errors.ErrClassifierClosed
	}
	if c.index == nil {
		return "", ner.Annotation{}, errors.ErrNoIndex
	}
	if docID == "" {
		docID = uuid.NewString()
	}

	annotation, err := c.annotate(ctx, text)
	if err != nil {
		return "", ner.Annotation{}, err
	}
	if err := c.index.Index(ctx, docID, annotation.Tokens); err != nil {
		return "", ner.Annotation{}, err
	}
	return docID, annotation, nil
}

// Close releases the handle. Closing twice is a no-op.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Classifier) annotate(ctx context.Context, text string) (ner.Annotation, error) {
	language := c.detectLanguage(text)

	if c.cache != nil {
		cached, found, err := c.cache.Get(c.fingerprint, text)
		if err != nil {
			return ner.Annotation{}, err
		}
		if found {
			c.log.Debug("Recognition served from cache")
			return cached, nil
		}
	}

	dir, err := os.MkdirTemp(c.workDir, "ner-classify-*")
	if err != nil {
		return ner.Annotation{}, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte(text), 0o600); err != nil {
		return ner.Annotation{}, fmt.Errorf("failed to write classifier input: %w", err)
	}

	var stdout bytes.Buffer
	if _, err := c.runner.Run(ctx, runtime.Invocation{
		MainClass: ClassifierClass,
		Args: []string{
			"-loadClassifier", c.modelPath,
			"-textFile", input,
			"-outputFormat", "inlineXML",
		},
		Stdout: &stdout,
	}); err != nil {
		return ner.Annotation{}, err
	}

	annotation := ner.Annotation{
		Raw:      stdout.String(),
		Tokens:   ner.ParseInlineXML(stdout.String()),
		Language: language,
	}
	if c.cache != nil {
		if err := c.cache.Store(c.fingerprint, text, annotation); err != nil {
			return ner.Annotation{}, err
		}
	}
	return annotation, nil
}

// detectLanguage returns the ISO 639-1 code when detection is reliable, empty otherwise.
func (c *Classifier) detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	lang := info.Lang.Iso6391()
	if c.language != "" && lang != c.language {
		c.log.Warn("Text language differs from the model language",
			"detected", lang, "model_language", c.language, "confidence", info.Confidence)
	}
	return lang
}
