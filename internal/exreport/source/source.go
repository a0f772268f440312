// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package source reads the lines surrounding a fault line, detecting the
// text encoding of historical source files along the way.
//
// Every failure mode (missing file, loader failure, out-of-range line) is
// reported as "unavailable" rather than an error: source context is always
// best-effort and must never abort report generation.
package source

import (
	"bytes"
	"io/ioutil"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Loader provides source text for module names whose code is not
// file-backed, e.g. dynamically generated modules.
type Loader interface {
	// Source returns the module's full source text.
	Source(module string) (string, error)
}

// Context is a window of source lines around a fault line.
type Context struct {
	// PreLines holds the lines before the fault line, in file order.
	PreLines []string `json:"pre_context" yaml:"pre_context" toml:"pre_context" structs:"pre_context"`

	// Line is the fault line itself.
	Line string `json:"context_line" yaml:"context_line" toml:"context_line" structs:"context_line"`

	// PostLines holds the lines after the fault line, in file order.
	PostLines []string `json:"post_context" yaml:"post_context" toml:"post_context" structs:"post_context"`

	// PreStart is the 1-based line number of the first PreLines element
	// (of Line itself when PreLines is empty).
	PreStart int `json:"pre_context_lineno" yaml:"pre_context_lineno" toml:"pre_context_lineno" structs:"pre_context_lineno"`
}

// codingRe matches a file coding declaration, e.g. "# coding: latin-1".
// Pattern per PEP-263 (https://www.python.org/dev/peps/pep-0263/).
var codingRe = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// Lines returns the context window around the 0-based fault line index.
//
// The loader, when non-nil and able to produce text for the module, is
// preferred over reading the file from disk. Disk reads are decoded per the
// file's coding declaration (first two lines), defaulting to ASCII, with
// undecodable bytes replaced rather than failing.
//
// ok is false if no source was obtainable or the line is out of range for
// the recovered source.
func Lines(filename string, line, contextLines int, loader Loader, module string) (Context, bool) {
	var decoded []string

	if loader != nil {
		if text, err := loader.Source(module); err == nil && text != "" {
			decoded = splitLines([]byte(text))
		}
	}

	if decoded == nil {
		raw, err := ioutil.ReadFile(filename) // #nosec G304
		if err != nil {
			return Context{}, false
		}
		decoded = decodeLines(splitRawLines(raw))
	}

	if line < 0 || line >= len(decoded) {
		return Context{}, false
	}

	lowerBound := line - contextLines
	if lowerBound < 0 {
		lowerBound = 0
	}
	upperBound := line + 1 + contextLines
	if upperBound > len(decoded) {
		upperBound = len(decoded)
	}

	return Context{
		PreLines:  decoded[lowerBound:line],
		Line:      decoded[line],
		PostLines: decoded[line+1 : upperBound],
		PreStart:  lowerBound + 1,
	}, true
}

// decodeLines converts raw file lines to strings using the encoding named by
// a coding declaration in the first two lines, defaulting to ASCII.
func decodeLines(raw [][]byte) []string {
	name := "ascii"
	limit := len(raw)
	if limit > 2 {
		limit = 2
	}
	for _, line := range raw[:limit] {
		if m := codingRe.FindSubmatch(line); m != nil {
			name = string(m[1])
			break
		}
	}

	dec := lookupDecoder(name)

	lines := make([]string, len(raw))
	for n, line := range raw {
		if dec == nil {
			lines[n] = replaceInvalidUTF8(line)
			continue
		}
		s, err := dec.Bytes(line)
		if err != nil {
			lines[n] = replaceInvalidUTF8(line)
			continue
		}
		lines[n] = string(s)
	}
	return lines
}

// lookupDecoder resolves a declared encoding name, tolerating spelling
// variants like "latin-1" vs "latin1". nil means fall back to a permissive
// UTF-8 read with replacement.
func lookupDecoder(name string) *encoding.Decoder {
	candidates := []string{
		name,
		strings.NewReplacer("-", "", "_", "").Replace(name),
	}
	for _, c := range candidates {
		if enc, err := htmlindex.Get(c); err == nil && enc != nil {
			return enc.NewDecoder()
		}
	}
	return nil
}

func replaceInvalidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// splitRawLines splits file content on line feeds, trimming carriage returns,
// without decoding.
func splitRawLines(raw []byte) [][]byte {
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	split := bytes.Split(raw, []byte("\n"))
	for n := range split {
		split[n] = bytes.TrimSuffix(split[n], []byte("\r"))
	}
	return split
}

func splitLines(text []byte) []string {
	split := splitRawLines(text)
	lines := make([]string, len(split))
	for n, line := range split {
		lines[n] = string(line)
	}
	return lines
}
