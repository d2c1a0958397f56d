//go:generate go run go.uber.org/mock/mockgen -source=recognition_repository.go -destination=../../mocks/mock_recognition_repository.go -package=mocks
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"ner-lab/domain/ner"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const recognitionPrefix = "recognition:"

type IRecognitionRepository interface {
	Get(model, text string) (ner.Annotation, bool, error)
	Store(model, text string, annotation ner.Annotation) error
}

// RecognitionRepository caches classifier output per model and input text in BadgerDB,
// so the same text is not sent to the engine twice.
type RecognitionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRecognitionRepository(db *badger.DB, log *slog.Logger) *RecognitionRepository {
	return &RecognitionRepository{
		db:  db,
		log: log,
	}
}

// recognitionKey is recognition:<model fingerprint>:<sha256 of the text>.
func recognitionKey(model, text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return []byte(fmt.Sprintf("%s%s:%s", recognitionPrefix, model, hex.EncodeToString(sum[:])))
}

// Get returns the cached annotation; found is false on a cache miss.
func (r RecognitionRepository) Get(model, text string) (ner.Annotation, bool, error) {
	var annotation ner.Annotation
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recognitionKey(model, text))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &annotation)
		})
	})
	if err != nil {
		return ner.Annotation{}, false, fmt.Errorf("failed to read cached recognition: %w", err)
	}
	return annotation, found, nil
}

// Store persists an annotation, replacing any previous one for the same model and text.
func (r RecognitionRepository) Store(model, text string, annotation ner.Annotation) error {
	data, err := json.Marshal(annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal recognition: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recognitionKey(model, text), data)
	})
}

// CachedRecognition is one cache entry as listed by List.
type CachedRecognition struct {
	Model      string
	TextHash   string
	Annotation ner.Annotation
}

// List returns up to limit cached recognitions in key order. A non-positive limit lists everything.
func (r RecognitionRepository) List(limit int) ([]CachedRecognition, error) {
	var entries []CachedRecognition
	prefix := []byte(recognitionPrefix)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			item := it.Item()
			model, hash, _ := strings.Cut(strings.TrimPrefix(string(item.Key()), recognitionPrefix), ":")
			entry := CachedRecognition{Model: model, TextHash: hash}
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &entry.Annotation)
			}); err != nil {
				r.log.Warn("Skipping unreadable cache entry", "key", string(item.Key()), "error", err)
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Count returns how many recognitions are cached, all models included.
func (r RecognitionRepository) Count() (int, error) {
	count := 0
	prefix := []byte(recognitionPrefix)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
