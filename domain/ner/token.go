package ner

import "github.com/samber/lo"

// Background is the label the engine uses for tokens outside any entity.
const Background = "O"

// TaggedToken is one recognised surface text with its entity label.
type TaggedToken struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Annotation is the full result of one classification call.
type Annotation struct {
	Raw      string        `json:"raw"`
	Tokens   []TaggedToken `json:"tokens"`
	Language string        `json:"language,omitempty"`
}

// Entities groups the token texts by tag, keeping their order of appearance.
func Entities(tokens []TaggedToken) map[string][]string {
	grouped := lo.GroupBy(tokens, func(t TaggedToken) string { return t.Tag })
	return lo.MapValues(grouped, func(ts []TaggedToken, _ string) []string {
		return lo.Map(ts, func(t TaggedToken, _ int) string { return t.Text })
	})
}
