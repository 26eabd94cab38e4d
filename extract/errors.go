package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned for a Format outside JSON and YAML.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrInvalidUTF8 is returned when a file's contents are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")
)

// Step names the part of FromFile that failed.
type Step string

const (
	StepRead   Step = "read"
	StepDecode Step = "decode"
)

// DecodeError reports text that is not well-formed for the selected format.
// Input holds the original text.
type DecodeError struct {
	Format Format
	Input  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s content %q: %v", e.Format, e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FileExtractionError reports a failed FromFile call. Step tells whether
// reading the file or decoding its contents failed.
type FileExtractionError struct {
	Path string
	Step Step
	Err  error
}

func (e *FileExtractionError) Error() string {
	return fmt.Sprintf("extract from file %q (%s): %v", e.Path, e.Step, e.Err)
}

func (e *FileExtractionError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}
