package agegroup

import (
	"errors"
	"strings"
)

// Chain returns err followed by every error it wraps, outermost first.
// For errors wrapping several causes (errors.Join) the first one is followed.
func Chain(err error) []error {
	var out []error
	for err != nil {
		out = append(out, err)
		err = next(err)
	}
	return out
}

// Root returns the innermost error of the chain, or nil for a nil err.
func Root(err error) error {
	c := Chain(err)
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// Report renders the chain one layer per line, outermost first. Each line
// holds only that layer's own context: the wrapped cause's text is trimmed
// from the end of the message.
//
//	transform string
//	  caused by: add age group to person {name: "Jane", age: 200}
//	  caused by: invalid age: 200
func Report(err error) string {
	c := Chain(err)
	if len(c) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, e := range c {
		msg := e.Error()
		if i+1 < len(c) {
			msg = strings.TrimSuffix(msg, ": "+c[i+1].Error())
		}
		if i > 0 {
			b.WriteString("\n  caused by: ")
		}
		b.WriteString(msg)
	}
	return b.String()
}

func next(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if e != nil {
				return e
			}
		}
	}
	return nil
}

// As is errors.As with a type parameter, for callers matching one layer.
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
