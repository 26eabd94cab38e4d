package agegroup

// Package agegroup provides:
//
// - Extraction of JSON or YAML text into a generic tree (package extract)
// - Binding of that tree to a list of people with a derived AgeGroup (package transform)
// - Helpers for walking the error chain a failed call returns (Chain/Root/Report)
//
// Design policy:
// - Keep only the error helpers in the root package; the pipeline lives in extract/ and transform/.
// - Place the CLI under cmd/agegroup and its collaborators under internal/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  t := transform.New()
//  people, err := t.TransformFile("people.json", extract.JSON)
//  if err != nil {
//      fmt.Fprintln(os.Stderr, agegroup.Report(err))
//  }
//
//  if ie, ok := agegroup.As[*transform.InvalidAgeError](err); ok { ... }
//
