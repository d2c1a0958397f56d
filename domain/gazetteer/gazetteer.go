// Package gazetteer labels token streams from a dictionary of known entity phrases.
package gazetteer

import (
	"bufio"
	"fmt"
	"io"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"os"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Gazetteer matches multi-token phrases with an Aho-Corasick automaton.
type Gazetteer struct {
	matcher *goahocorasick.Machine
	tags    map[string]string
}

// New builds a gazetteer from phrase -> tag entries. Phrases are matched case-insensitively.
func New(entries map[string]string) (*Gazetteer, error) {
	tags := make(map[string]string, len(entries))
	for phrase, tag := range entries {
		key := normalizePhrase(phrase)
		if key == "" || strings.TrimSpace(tag) == "" {
			continue
		}
		tags[key] = strings.TrimSpace(tag)
	}

	g := &Gazetteer{tags: tags}
	if len(tags) == 0 {
		return g, nil
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	patterns := make([][]rune, len(keys))
	for i, k := range keys {
		patterns[i] = []rune(k)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("failed to build gazetteer automaton: %w", err)
	}
	g.matcher = m
	return g, nil
}

// Load reads "phrase<TAB>TAG" lines; blank lines and # comments are skipped.
func Load(r io.Reader) (*Gazetteer, error) {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.LastIndex(line, "\t")
		if idx < 0 {
			return nil, fmt.Errorf("%w: gazetteer line %d: %q", errors.ErrMalformedLine, lineNo, line)
		}
		entries[line[:idx]] = line[idx+1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(entries)
}

// LoadFile opens and parses a gazetteer file.
func LoadFile(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Len is the number of distinct phrases.
func (g *Gazetteer) Len() int {
	return len(g.tags)
}

type span struct {
	first, last int
	tag         string
}

// Labels implements ner.Labeler. A phrase only counts when it starts and ends on token
// boundaries; longer phrases win over overlapping shorter ones.
func (g *Gazetteer) Labels(tokens []string) []string {
	labels := make([]string, len(tokens))
	for i := range labels {
		labels[i] = ner.Background
	}
	if g.matcher == nil || len(tokens) == 0 {
		return labels
	}

	var stream []rune
	starts := make(map[int]int, len(tokens))
	ends := make(map[int]int, len(tokens))
	for i, token := range tokens {
		if i > 0 {
			stream = append(stream, ' ')
		}
		starts[len(stream)] = i
		stream = append(stream, []rune(strings.ToLower(token))...)
		ends[len(stream)] = i
	}

	var spans []span
	for _, term := range g.matcher.MultiPatternSearch(stream, false) {
		first, okStart := starts[term.Pos]
		last, okEnd := ends[term.Pos+len(term.Word)]
		if !okStart || !okEnd || last < first {
			continue
		}
		spans = append(spans, span{first: first, last: last, tag: g.tags[string(term.Word)]})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i].last-spans[i].first, spans[j].last-spans[j].first
		if li != lj {
			return li > lj
		}
		return spans[i].first < spans[j].first
	})

	taken := make([]bool, len(tokens))
	for _, s := range spans {
		free := true
		for i := s.first; i <= s.last; i++ {
			if taken[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i := s.first; i <= s.last; i++ {
			taken[i] = true
			labels[i] = s.tag
		}
	}
	return labels
}

func normalizePhrase(phrase string) string {
	return strings.ToLower(strings.Join(strings.Fields(phrase), " "))
}
