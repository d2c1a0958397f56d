package ner

import (
	"regexp"
	"strings"
)

// inlineTag matches <tag>word</anything> where neither part holds angle brackets.
var inlineTag = regexp.MustCompile(`<([^<>]*)>([^<>]*)</[^<>]*>`)

// ParseInlineXML scrapes engine output such as "<PERSON>Taylor</PERSON> is here".
// Untagged text and blank tags are dropped; malformed input yields whatever matched.
func ParseInlineXML(s string) []TaggedToken {
	matches := inlineTag.FindAllStringSubmatch(s, -1)
	tokens := make([]TaggedToken, 0, len(matches))
	for _, m := range matches {
		tag, word := m[1], m[2]
		if strings.TrimSpace(tag) == "" {
			continue
		}
		tokens = append(tokens, TaggedToken{Text: word, Tag: tag})
	}
	return tokens
}
