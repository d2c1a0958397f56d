package ner

import (
	"bufio"
	"fmt"
	"io"
)

// Labeler assigns one label per token.
type Labeler interface {
	Labels(tokens []string) []string
}

// LabelFunc labels each token on its own.
type LabelFunc func(token string) string

func (f LabelFunc) Labels(tokens []string) []string {
	labels := make([]string, len(tokens))
	for i, t := range tokens {
		labels[i] = f(t)
	}
	return labels
}

// BackgroundLabeler marks every token as outside any entity.
var BackgroundLabeler Labeler = LabelFunc(func(string) string { return Background })

// WriteLabeled writes the tab-separated "token<TAB>label" training format.
func WriteLabeled(w io.Writer, tokens []string, labeler Labeler) error {
	if labeler == nil {
		labeler = BackgroundLabeler
	}
	labels := labeler.Labels(tokens)
	if len(labels) != len(tokens) {
		return fmt.Errorf("labeler returned %d labels for %d tokens", len(labels), len(tokens))
	}

	bw := bufio.NewWriter(w)
	for i, token := range tokens {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", token, labels[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
