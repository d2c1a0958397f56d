//go:generate go run go.uber.org/mock/mockgen -source=entity_index.go -destination=../../mocks/mock_entity_index.go -package=mocks
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"ner-lab/domain/ner"
	"ner-lab/errors"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/analysis/analyzer"
)

const (
	fieldDoc  = "doc"
	fieldTag  = "tag"
	fieldText = "text"

	defaultSearchLimit = 10
)

// EntityHit is one indexed entity matching a search.
type EntityHit struct {
	DocID string
	Tag   string
	Text  string
}

type IEntityIndex interface {
	Index(ctx context.Context, docID string, tokens []ner.TaggedToken) error
	Search(ctx context.Context, tag, text string, limit int) ([]EntityHit, error)
}

// EntityIndex keeps one Bluge document per recognised entity.
type EntityIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewEntityIndex(writer *bluge.Writer, log *slog.Logger) *EntityIndex {
	return &EntityIndex{
		writer: writer,
		log:    log,
	}
}

// Index replaces every entity previously indexed under docID.
func (i *EntityIndex) Index(ctx context.Context, docID string, tokens []ner.TaggedToken) error {
	stale, err := i.entityIDs(ctx, docID)
	if err != nil {
		return err
	}

	fresh := make(map[string]bool, len(tokens))
	for n := range tokens {
		fresh[entityID(docID, n)] = true
	}

	batch := bluge.NewBatch()
	for _, id := range stale {
		// Updated IDs are replaced by the batch itself.
		if !fresh[id] {
			batch.Delete(bluge.Identifier(id))
		}
	}
	for n, token := range tokens {
		doc := bluge.NewDocument(entityID(docID, n)).
			AddField(bluge.NewKeywordField(fieldDoc, docID).StoreValue()).
			AddField(bluge.NewKeywordField(fieldTag, token.Tag).StoreValue()).
			AddField(bluge.NewTextField(fieldText, token.Text).WithAnalyzer(analyzer.NewStandardAnalyzer()).StoreValue())
		batch.Update(doc.ID(), doc)
	}

	if err := i.writer.Batch(batch); err != nil {
		return fmt.Errorf("failed to index entities of %s: %w", docID, err)
	}
	i.log.Debug("Entities indexed", "doc", docID, "count", len(tokens), "replaced", len(stale))
	return nil
}

// Search matches entities by exact tag and/or analysed text; an empty argument is a wildcard.
func (i *EntityIndex) Search(ctx context.Context, tag, text string, limit int) ([]EntityHit, error) {
	if tag == "" && text == "" {
		return nil, errors.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := bluge.NewBooleanQuery()
	if tag != "" {
		query.AddMust(bluge.NewTermQuery(tag).SetField(fieldTag))
	}
	if text != "" {
		query.AddMust(bluge.NewMatchQuery(text).SetField(fieldText).SetAnalyzer(analyzer.NewStandardAnalyzer()))
	}
	return i.search(ctx, bluge.NewTopNSearch(limit, query))
}

func entityID(docID string, n int) string {
	return fmt.Sprintf("%s#%d", docID, n)
}

func (i *EntityIndex) entityIDs(ctx context.Context, docID string) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open index reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewTermQuery(docID).SetField(fieldDoc)
	matches, err := reader.Search(ctx, bluge.NewAllMatches(query))
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		if verr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		}); verr != nil {
			return nil, verr
		}
		match, err = matches.Next()
	}
	return ids, err
}

func (i *EntityIndex) search(ctx context.Context, request bluge.SearchRequest) ([]EntityHit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open index reader: %w", err)
	}
	defer reader.Close()

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("entity search failed: %w", err)
	}

	var hits []EntityHit
	match, err := matches.Next()
	for err == nil && match != nil {
		var hit EntityHit
		if verr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldDoc:
				hit.DocID = string(value)
			case fieldTag:
				hit.Tag = string(value)
			case fieldText:
				hit.Text = string(value)
			}
			return true
		}); verr != nil {
			return nil, verr
		}
		hits = append(hits, hit)
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("entity search failed: %w", err)
	}
	return hits, nil
}
