package transform

import (
	"go.uber.org/zap"

	"github.com/reoring/agegroup/extract"
)

// Transformer turns JSON or YAML input into classified people. It owns one
// Extractor and keeps no per-call state, so one Transformer may serve
// concurrent callers.
type Transformer struct {
	extractor *extract.Extractor
	logger    *zap.Logger
	strict    bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithExtractor sets the Extractor used for step one. By default New builds
// one sharing the Transformer's logger.
func WithExtractor(e *extract.Extractor) Option {
	return func(t *Transformer) { t.extractor = e }
}

// WithLogger sets the logger used for debug tracing. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithStrictShape validates the decoded value against Schema before binding
// it, rejecting unknown keys.
func WithStrictShape(on bool) Option {
	return func(t *Transformer) { t.strict = on }
}

// New returns a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if t.extractor == nil {
		t.extractor = extract.New(extract.WithLogger(t.logger))
	}
	return t
}

// TransformFile extracts the file at path and classifies every person in it.
// Any failure is returned as *TransformFileError wrapping the cause; no
// partial result is returned.
func (t *Transformer) TransformFile(path string, f extract.Format) ([]Person, error) {
	v, err := t.extractor.FromFile(path, f)
	if err != nil {
		return nil, &TransformFileError{Path: path, Err: err}
	}
	people, err := t.transform(v)
	if err != nil {
		return nil, &TransformFileError{Path: path, Err: err}
	}
	t.logger.Debug("transformed file", zap.String("path", path), zap.Stringer("format", f), zap.Int("people", len(people)))
	return people, nil
}

// TransformString is TransformFile for in-memory content. Failures are
// returned as *TransformStringError.
func (t *Transformer) TransformString(content string, f extract.Format) ([]Person, error) {
	v, err := t.extractor.FromString(content, f)
	if err != nil {
		return nil, &TransformStringError{Err: err}
	}
	people, err := t.transform(v)
	if err != nil {
		return nil, &TransformStringError{Err: err}
	}
	t.logger.Debug("transformed string", zap.Stringer("format", f), zap.Int("people", len(people)))
	return people, nil
}

// Convert binds an extracted value to a list of records without classifying
// them. Shape mismatches are returned as *ConversionError.
func (t *Transformer) Convert(v extract.Value) ([]Record, error) {
	if t.strict && v != nil {
		if err := validateShape(v); err != nil {
			return nil, err
		}
	}
	return convertValue(v)
}

func (t *Transformer) transform(v extract.Value) ([]Person, error) {
	records, err := t.Convert(v)
	if err != nil {
		t.logger.Debug("conversion failed", zap.Error(err))
		return nil, err
	}
	people, err := ClassifyAll(records)
	if err != nil {
		t.logger.Debug("classification failed", zap.Error(err))
		return nil, err
	}
	return people, nil
}

// ClassifyAll classifies records in order and stops at the first invalid age.
// On failure it returns nil and the *AddClassificationError for that record.
func ClassifyAll(records []Record) ([]Person, error) {
	people := make([]Person, 0, len(records))
	for _, r := range records {
		p, err := AddClassification(r)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}
