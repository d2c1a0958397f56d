package storage

import (
	"context"
	"log/slog"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T) *EntityIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewEntityIndex(writer, slog.Default())
}

func TestEntityIndex_Index_And_Search(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := setupIndex(t)

	// Given two documents with recognised entities
	req.NoError(index.Index(ctx, "emma-ch1", ner.ParseInlineXML(
		"<PERSON>Emma Woodhouse</PERSON> of <LOCATION>Hartfield</LOCATION> met <PERSON>Miss Taylor</PERSON>")))
	req.NoError(index.Index(ctx, "emma-ch2", ner.ParseInlineXML(
		"<PERSON>Mr. Knightley</PERSON> walked to <LOCATION>Highbury</LOCATION>")))

	// When searching by tag only
	people, err := index.Search(ctx, "PERSON", "", 10)
	req.NoError(err)
	req.ElementsMatch([]EntityHit{
		{DocID: "emma-ch1", Tag: "PERSON", Text: "Emma Woodhouse"},
		{DocID: "emma-ch1", Tag: "PERSON", Text: "Miss Taylor"},
		{DocID: "emma-ch2", Tag: "PERSON", Text: "Mr. Knightley"},
	}, people)

	// When searching by text within a tag
	taylor, err := index.Search(ctx, "PERSON", "taylor", 10)
	req.NoError(err)
	req.Equal([]EntityHit{{DocID: "emma-ch1", Tag: "PERSON", Text: "Miss Taylor"}}, taylor)

	// When searching by text only
	places, err := index.Search(ctx, "", "Highbury", 10)
	req.NoError(err)
	req.Equal([]EntityHit{{DocID: "emma-ch2", Tag: "LOCATION", Text: "Highbury"}}, places)
}

func TestEntityIndex_Reindex_Replaces_Document(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := setupIndex(t)

	req.NoError(index.Index(ctx, "doc", ner.ParseInlineXML("<PERSON>Emma</PERSON> and <PERSON>Harriet</PERSON>")))

	// When the same document is indexed again with fewer entities
	req.NoError(index.Index(ctx, "doc", ner.ParseInlineXML("<LOCATION>Randalls</LOCATION>")))

	// Then the stale entities are gone
	people, err := index.Search(ctx, "PERSON", "", 10)
	req.NoError(err)
	req.Empty(people)

	places, err := index.Search(ctx, "LOCATION", "", 10)
	req.NoError(err)
	req.Len(places, 1)
}

func TestEntityIndex_Search_Needs_A_Criterion(t *testing.T) {
	index := setupIndex(t)

	_, err := index.Search(context.Background(), "", "", 10)

	require.ErrorIs(t, err, errors.ErrEmptyQuery)
}
