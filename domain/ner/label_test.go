package ner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteLabeled_Defaults_To_Background(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	req.NoError(WriteLabeled(&buf, []string{"Emma", "Woodhouse", ","}, nil))

	req.Equal("Emma\tO\nWoodhouse\tO\n,\tO\n", buf.String())
}

func TestWriteLabeled_With_LabelFunc(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	labeler := LabelFunc(func(token string) string {
		if strings.HasPrefix(token, "Emma") {
			return "PERS"
		}
		return Background
	})

	req.NoError(WriteLabeled(&buf, []string{"Emma", "was", "handsome"}, labeler))

	req.Equal("Emma\tPERS\nwas\tO\nhandsome\tO\n", buf.String())
}

type shortLabeler struct{}

func (shortLabeler) Labels([]string) []string { return []string{"O"} }

func TestWriteLabeled_Rejects_Label_Count_Mismatch(t *testing.T) {
	var buf bytes.Buffer

	err := WriteLabeled(&buf, []string{"a", "b"}, shortLabeler{})

	require.Error(t, err)
	require.Empty(t, buf.String())
}
