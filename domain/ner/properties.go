package ner

import (
	"bufio"
	"fmt"
	"io"
	"ner-lab/errors"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Properties holds the CRF training hyperparameters handed to the engine.
// Every field is bound to exactly one engine argument name in propertyFields.
type Properties struct {
	// TrainFile is the tab-separated training file.
	TrainFile string `validate:"required"`
	// SerializeTo is where the trained classifier is written; a .gz suffix makes the engine gzip it.
	SerializeTo string `validate:"required"`
	// Map describes the training file columns, e.g. "word=0,answer=1".
	Map string `validate:"required"`
	// MaxLeft is the order of the CRF.
	MaxLeft          int `validate:"min=1"`
	UseClassFeature  bool
	UseWord          bool
	UseNGrams        bool
	NoMidNGrams      bool
	MaxNGramLength   int `validate:"min=1"`
	UsePrev          bool
	UseNext          bool
	UseDisjunctive   bool
	UseSequences     bool
	UsePrevSequences bool
	// Word shape features.
	UseTypeSeqs       bool
	UseTypeSeqs2      bool
	UseTypeySequences bool
	WordShape         string `validate:"required"`
}

// DefaultProperties returns the feature set recommended for small custom models.
func DefaultProperties() Properties {
	return Properties{
		Map:               "word=0,answer=1",
		MaxLeft:           1,
		UseClassFeature:   true,
		UseWord:           true,
		UseNGrams:         true,
		NoMidNGrams:       true,
		MaxNGramLength:    6,
		UsePrev:           true,
		UseNext:           true,
		UseDisjunctive:    true,
		UseSequences:      true,
		UsePrevSequences:  true,
		UseTypeSeqs:       true,
		UseTypeSeqs2:      true,
		UseTypeySequences: true,
		WordShape:         "chris2useLC",
	}
}

type propertyField struct {
	name   string
	format func(p *Properties) string
	parse  func(p *Properties, raw string) error
}

func stringField(name string, ref func(p *Properties) *string) propertyField {
	return propertyField{
		name:   name,
		format: func(p *Properties) string { return *ref(p) },
		parse: func(p *Properties, raw string) error {
			*ref(p) = raw
			return nil
		},
	}
}

func intField(name string, ref func(p *Properties) *int) propertyField {
	return propertyField{
		name:   name,
		format: func(p *Properties) string { return strconv.Itoa(*ref(p)) },
		parse: func(p *Properties, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not an integer", errors.ErrTypeMismatch, name, raw)
			}
			*ref(p) = v
			return nil
		},
	}
}

func boolField(name string, ref func(p *Properties) *bool) propertyField {
	return propertyField{
		name:   name,
		format: func(p *Properties) string { return strconv.FormatBool(*ref(p)) },
		parse: func(p *Properties, raw string) error {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a boolean", errors.ErrTypeMismatch, name, raw)
			}
			*ref(p) = v
			return nil
		},
	}
}

// propertyFields is the declared order used for arguments and persisted files.
var propertyFields = []propertyField{
	stringField("trainFile", func(p *Properties) *string { return &p.TrainFile }),
	stringField("serializeTo", func(p *Properties) *string { return &p.SerializeTo }),
	stringField("map", func(p *Properties) *string { return &p.Map }),
	intField("maxLeft", func(p *Properties) *int { return &p.MaxLeft }),
	boolField("useClassFeature", func(p *Properties) *bool { return &p.UseClassFeature }),
	boolField("useWord", func(p *Properties) *bool { return &p.UseWord }),
	boolField("useNGrams", func(p *Properties) *bool { return &p.UseNGrams }),
	boolField("noMidNGrams", func(p *Properties) *bool { return &p.NoMidNGrams }),
	intField("maxNGramLeng", func(p *Properties) *int { return &p.MaxNGramLength }),
	boolField("usePrev", func(p *Properties) *bool { return &p.UsePrev }),
	boolField("useNext", func(p *Properties) *bool { return &p.UseNext }),
	boolField("useDisjunctive", func(p *Properties) *bool { return &p.UseDisjunctive }),
	boolField("useSequences", func(p *Properties) *bool { return &p.UseSequences }),
	boolField("usePrevSequences", func(p *Properties) *bool { return &p.UsePrevSequences }),
	boolField("useTypeSeqs", func(p *Properties) *bool { return &p.UseTypeSeqs }),
	boolField("useTypeSeqs2", func(p *Properties) *bool { return &p.UseTypeSeqs2 }),
	boolField("useTypeySequences", func(p *Properties) *bool { return &p.UseTypeySequences }),
	stringField("wordShape", func(p *Properties) *string { return &p.WordShape }),
}

var fieldsByName = func() map[string]propertyField {
	m := make(map[string]propertyField, len(propertyFields))
	for _, f := range propertyFields {
		m[f.name] = f
	}
	return m
}()

// PropertyNames lists the engine argument names in declared order.
func PropertyNames() []string {
	names := make([]string, len(propertyFields))
	for i, f := range propertyFields {
		names[i] = f.name
	}
	return names
}

// Args returns one "-name value" pair per declared field, in declared order.
func (p Properties) Args() []string {
	args := make([]string, 0, 2*len(propertyFields))
	for _, f := range propertyFields {
		args = append(args, "-"+f.name, f.format(&p))
	}
	return args
}

// ArgString joins Args with single spaces.
func (p Properties) ArgString() string {
	return strings.Join(p.Args(), " ")
}

// Validate checks that the properties are usable for training.
func (p Properties) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidProperties, err)
	}
	return nil
}

// Encode writes one name=value line per declared field.
// Nothing is written when a value would not read back unchanged.
func (p Properties) Encode(w io.Writer) error {
	if err := p.checkEncodable(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, f := range propertyFields {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", f.name, f.format(&p)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// checkEncodable rejects line breaks and surrounding whitespace, which Decode cannot restore.
func (p Properties) checkEncodable() error {
	for _, f := range propertyFields {
		v := f.format(&p)
		if strings.ContainsAny(v, "\r\n") || v != strings.TrimSpace(v) {
			return fmt.Errorf("%w: %s=%q", errors.ErrUnencodableValue, f.name, v)
		}
	}
	return nil
}

// WriteFile persists the properties in a format the engine also accepts through -prop.
func (p Properties) WriteFile(path string) error {
	if err := p.checkEncodable(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create properties file: %w", err)
	}
	if err := p.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	return f.Close()
}

// Decode applies the name=value lines of r on top of p.
// p is left untouched when any line fails.
func (p *Properties) Decode(r io.Reader) error {
	next := *p
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%w: line %d: %q", errors.ErrMalformedLine, lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		field, known := fieldsByName[key]
		if !known {
			return fmt.Errorf("%w: line %d: %q", errors.ErrMissingKey, lineNo, key)
		}
		if err := field.parse(&next, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	*p = next
	return nil
}

// LoadFile applies a persisted properties file on top of p.
func (p *Properties) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
		}
		return err
	}
	defer f.Close()
	return p.Decode(f)
}

// LoadProperties reads a persisted file; keys it does not mention keep their defaults.
func LoadProperties(path string) (Properties, error) {
	p := DefaultProperties()
	if err := p.LoadFile(path); err != nil {
		return Properties{}, err
	}
	return p, nil
}
