package mimetypes

import (
	"fmt"
	"mime"
	"ner-lab/errors"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// MIME is a media type without its parameters.
type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"
)

// Matches strips the parameters of a detected type before comparing it with expected.
func Matches(detected string, expected MIME) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return mt == string(expected)
}

// DetectFile sniffs the content of path.
// Text is true for plain text and for every format mimetype derives from it (csv, html, xml...).
func DetectFile(path string) (detected MIME, text bool, err error) {
	if _, err := os.Stat(path); err != nil {
		return Unknown, false, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
	}
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, false, fmt.Errorf("failed to detect type of %s: %w", path, err)
	}

	mt, _, perr := mime.ParseMediaType(m.String())
	if perr != nil {
		mt = string(Unknown)
	}
	for p := m; p != nil; p = p.Parent() {
		if Matches(p.String(), TextPlain) {
			return MIME(mt), true, nil
		}
	}
	return MIME(mt), false, nil
}
