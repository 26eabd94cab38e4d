package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Extractor decodes JSON or YAML text into a Value. It holds no per-call
// state and is safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug tracing. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Extractor. Without options it logs nothing.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromFile reads the whole file at path and decodes it with f. Read failures
// and decode failures are both reported as *FileExtractionError, told apart by
// Step; a decode failure wraps the *DecodeError from FromString.
func (e *Extractor) FromFile(path string, f Format) (Value, error) {
	log := e.logger.With(zap.String("path", path), zap.Stringer("format", f))

	b, err := os.ReadFile(path)
	if err != nil {
		log.Debug("read failed", zap.Error(err))
		return nil, &FileExtractionError{Path: path, Step: StepRead, Err: err}
	}
	if !utf8.Valid(b) {
		log.Debug("read failed", zap.Error(ErrInvalidUTF8))
		return nil, &FileExtractionError{Path: path, Step: StepRead, Err: ErrInvalidUTF8}
	}
	log.Debug("file read", zap.Int("bytes", len(b)))

	v, err := e.FromString(string(b), f)
	if err != nil {
		return nil, &FileExtractionError{Path: path, Step: StepDecode, Err: err}
	}
	return v, nil
}

// FromString decodes content with the decoder selected by f. There is no
// format detection: the caller's choice decides which decoder runs.
func (e *Extractor) FromString(content string, f Format) (Value, error) {
	switch f {
	case JSON:
		tree, err := decodeJSON(content)
		if err != nil {
			e.logger.Debug("decode failed", zap.Stringer("format", f), zap.Error(err))
			return nil, &DecodeError{Format: f, Input: content, Err: err}
		}
		return JSONValue{Data: tree}, nil
	case YAML:
		node, err := decodeYAML(content)
		if err != nil {
			e.logger.Debug("decode failed", zap.Stringer("format", f), zap.Error(err))
			return nil, &DecodeError{Format: f, Input: content, Err: err}
		}
		return YAMLValue{Node: node}, nil
	default:
		return nil, &DecodeError{Format: f, Input: content, Err: fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))}
	}
}
