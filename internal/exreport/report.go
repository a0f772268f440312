// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport

import (
	"fmt"
	"go/build"
	"os"
	std_runtime "runtime"
	"strings"
	"time"
	"unicode/utf8"

	cage_runtime "github.com/codeactual/exreport/internal/cage/runtime"
)

// Report is the final structured description of one exception event.
//
// It is constructed once per event, immutable after assembly, handed to
// exactly one rendering call, then discarded.
type Report struct {
	// ExceptionType is the head exception's type name, "" if no exception
	// was available.
	ExceptionType string `json:"exception_type,omitempty" yaml:"exception_type,omitempty" toml:"exception_type,omitempty" structs:"exception_type"`

	// ExceptionValue is the head exception's permissively rendered message.
	ExceptionValue string `json:"exception_value,omitempty" yaml:"exception_value,omitempty" toml:"exception_value,omitempty" structs:"exception_value"`

	// UnicodeHint is a windowed snippet of the offending buffer when the
	// exception is a text-decoding failure, "" otherwise.
	UnicodeHint string `json:"unicode_hint,omitempty" yaml:"unicode_hint,omitempty" toml:"unicode_hint,omitempty" structs:"unicode_hint"`

	// Frames is the ordered frame sequence, root-cause frames first.
	Frames []Frame `json:"frames" yaml:"frames" toml:"frames" structs:"frames"`

	// LastFrame is the final element of Frames, nil when Frames is empty.
	LastFrame *Frame `json:"last_frame,omitempty" yaml:"last_frame,omitempty" toml:"last_frame,omitempty" structs:"last_frame"`

	// Executable is the path of the running binary.
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty" toml:"executable,omitempty" structs:"executable"`

	// RuntimeVersion is the Go runtime's semver, e.g. "1.13.4".
	RuntimeVersion string `json:"runtime_version,omitempty" yaml:"runtime_version,omitempty" toml:"runtime_version,omitempty" structs:"runtime_version"`

	// GOOS and GOARCH describe the build target.
	GOOS   string `json:"goos,omitempty" yaml:"goos,omitempty" toml:"goos,omitempty" structs:"goos"`
	GOARCH string `json:"goarch,omitempty" yaml:"goarch,omitempty" toml:"goarch,omitempty" structs:"goarch"`

	// SrcDirs holds the build context's source roots.
	SrcDirs []string `json:"src_dirs,omitempty" yaml:"src_dirs,omitempty" toml:"src_dirs,omitempty" structs:"src_dirs"`

	// ServerTime is the UTC assembly timestamp.
	ServerTime time.Time `json:"server_time" yaml:"server_time" toml:"server_time" structs:"server_time,omitnested"`
}

// DecodeRanger is implemented by decode/encode failure values that can
// identify the offending byte range of their input.
type DecodeRanger interface {
	DecodeRange() (input []byte, start, end int)
}

// DecodeError is a ready-made DecodeRanger for code that detects
// encoding failures itself.
type DecodeError struct {
	Encoding string
	Input    []byte
	Start    int
	End      int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode bytes %d-%d as %s", e.Start, e.End, e.Encoding)
}

func (e *DecodeError) DecodeRange() (input []byte, start, end int) {
	return e.Input, e.Start, e.End
}

// unicodeHintSlack is the number of extra bytes shown on each side of a
// decode failure's offending range.
const unicodeHintSlack = 5

// unicodeHint extracts the windowed snippet for DecodeRanger exception
// values, decoded permissively.
func unicodeHint(v interface{}) string {
	dr, ok := v.(DecodeRanger)
	if !ok {
		return ""
	}
	input, start, end := dr.DecodeRange()
	lo := start - unicodeHintSlack
	if lo < 0 {
		lo = 0
	}
	hi := end + unicodeHintSlack
	if hi > len(input) {
		hi = len(input)
	}
	if lo > hi || lo > len(input) {
		return ""
	}
	return strings.ToValidUTF8(string(input[lo:hi]), string(utf8.RuneError))
}

// Report assembles the final report: it renders every frame's captured
// bindings in frame order, populates the summary fields, and derives the
// convenience fields.
func (r *Reporter) Report() *Report {
	frames := r.Frames()
	for n := range frames {
		frames[n].Vars = renderVars(frames[n].RawVars)
	}

	rep := &Report{
		Frames:     frames,
		GOOS:       std_runtime.GOOS,
		GOARCH:     std_runtime.GOARCH,
		SrcDirs:    build.Default.SrcDirs(),
		ServerTime: time.Now().UTC(),
	}

	if exe, err := os.Executable(); err == nil {
		rep.Executable = exe
	}
	if v, err := cage_runtime.VersionSemver(); err == nil {
		rep.RuntimeVersion = v
	}

	if r.exc != nil {
		rep.ExceptionType = r.exc.Type
		rep.ExceptionValue = r.exc.Message()
		rep.UnicodeHint = unicodeHint(r.exc.Value)
	}

	if len(frames) > 0 {
		rep.LastFrame = &frames[len(frames)-1]
	}

	return rep
}

// FormatText returns a flat, classic textual rendering: one header line, one
// location entry per frame, and the exception's own one-line description.
func (rep *Report) FormatText() []string {
	lines := []string{"Traceback (most recent call last):\n"}
	for _, f := range rep.Frames {
		entry := fmt.Sprintf("  File %q, line %d, in %s\n", f.File, f.Line, f.Func)
		if src := strings.TrimSpace(f.Context.Line); src != "" {
			entry += "    " + src + "\n"
		}
		lines = append(lines, entry)
	}
	switch {
	case rep.ExceptionType != "" && rep.ExceptionValue != "":
		lines = append(lines, rep.ExceptionType+": "+rep.ExceptionValue+"\n")
	case rep.ExceptionType != "":
		lines = append(lines, rep.ExceptionType+"\n")
	}
	return lines
}
