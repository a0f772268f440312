// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/exreport/internal/exreport"
)

func TestReport(t *testing.T) {
	t.Run("should populate the summary fields", func(t *testing.T) {
		exc := exreport.NewException("AppError", "boom", []exreport.TraceEntry{
			entry("app", "main", 0),
			entry("app", "work", 2),
		})

		rep := exreport.New(exc, nil).Report()

		require.Exactly(t, "AppError", rep.ExceptionType)
		require.Exactly(t, "boom", rep.ExceptionValue)
		require.NotEmpty(t, rep.Executable)
		require.NotEmpty(t, rep.RuntimeVersion)
		require.NotEmpty(t, rep.GOOS)
		require.NotEmpty(t, rep.GOARCH)
		require.NotEmpty(t, rep.SrcDirs)
		require.False(t, rep.ServerTime.IsZero())
	})

	t.Run("should produce an empty report without an exception", func(t *testing.T) {
		rep := exreport.New(nil, nil).Report()

		require.Exactly(t, "", rep.ExceptionType)
		require.Exactly(t, "", rep.ExceptionValue)
		require.Empty(t, rep.Frames)
		require.Nil(t, rep.LastFrame)
		require.NotEmpty(t, rep.RuntimeVersion)
	})

	t.Run("should point LastFrame at the final frame", func(t *testing.T) {
		exc := exreport.NewException("AppError", "boom", []exreport.TraceEntry{
			entry("app", "main", 0),
			entry("app", "work", 2),
		})

		rep := exreport.New(exc, nil).Report()

		require.Len(t, rep.Frames, 2)
		require.NotNil(t, rep.LastFrame)
		require.Exactly(t, "work", rep.LastFrame.Func)
		require.Exactly(t, rep.Frames[1].ID, rep.LastFrame.ID)
	})

	t.Run("should render captured bindings per frame", func(t *testing.T) {
		e := entry("app", "main", 0)
		e.Vars = []exreport.RawVar{
			{Name: "count", Value: 7},
			{Name: "tag", Value: "<script>"},
		}
		exc := exreport.NewException("AppError", "boom", []exreport.TraceEntry{e})

		rep := exreport.New(exc, nil).Report()

		require.Len(t, rep.Frames, 1)
		require.Len(t, rep.Frames[0].Vars, 2)
		require.Exactly(t, "count", rep.Frames[0].Vars[0].Name)
		require.Contains(t, rep.Frames[0].Vars[0].Value, "7")
		require.Contains(t, rep.Frames[0].Vars[1].Value, "&lt;script&gt;")
		require.NotContains(t, rep.Frames[0].Vars[1].Value, "<script>")
	})

	t.Run("should bound the rendered size of large bindings", func(t *testing.T) {
		e := entry("app", "main", 0)
		e.Vars = []exreport.RawVar{
			{Name: "blob", Value: strings.Repeat("a", 5000)},
		}
		exc := exreport.NewException("AppError", "boom", []exreport.TraceEntry{e})

		rep := exreport.New(exc, nil).Report()

		require.Len(t, rep.Frames[0].Vars, 1)
		v := rep.Frames[0].Vars[0].Value
		require.Contains(t, v, "... &lt;trimmed ")
		require.Contains(t, v, " bytes string&gt;")
		require.Less(t, len(v), 4300)
	})

	t.Run("should extract a hint window for decode failures", func(t *testing.T) {
		decodeErr := &exreport.DecodeError{
			Encoding: "ascii",
			Input:    []byte("abcdefghijklmnop"),
			Start:    7,
			End:      8,
		}
		exc := exreport.NewException("UnicodeDecodeError", decodeErr, nil)

		rep := exreport.New(exc, nil).Report()

		require.Exactly(t, "cdefghijklm", rep.UnicodeHint)
		require.Exactly(t, "cannot decode bytes 7-8 as ascii", rep.ExceptionValue)
	})

	t.Run("should clip the hint window at the buffer bounds", func(t *testing.T) {
		decodeErr := &exreport.DecodeError{
			Encoding: "ascii",
			Input:    []byte("abc"),
			Start:    0,
			End:      3,
		}
		exc := exreport.NewException("UnicodeDecodeError", decodeErr, nil)

		rep := exreport.New(exc, nil).Report()
		require.Exactly(t, "abc", rep.UnicodeHint)
	})

	t.Run("should render misbehaving exception values permissively", func(t *testing.T) {
		exc := exreport.NewException("PanicError", panicValue{}, nil)
		require.Contains(t, exc.Message(), "error formatting value")

		rep := exreport.New(exc, nil).Report()
		require.Contains(t, rep.ExceptionValue, "error formatting value")
	})

	t.Run("should assemble identical reports for the same event", func(t *testing.T) {
		e := entry("app", "main", 0)
		e.Vars = []exreport.RawVar{
			{Name: "opts", Value: map[string]int{"b": 2, "a": 1, "c": 3}},
		}
		exc := exreport.NewException("AppError", "boom", []exreport.TraceEntry{e})

		first := exreport.New(exc, nil).Report()
		second := exreport.New(exc, nil).Report()

		require.Exactly(t, first.Frames, second.Frames)
		require.Exactly(t, first.ExceptionType, second.ExceptionType)
		require.Exactly(t, first.ExceptionValue, second.ExceptionValue)
	})
}

func TestFormatText(t *testing.T) {
	t.Run("should render the flat traceback form", func(t *testing.T) {
		root := exreport.NewException("LibError", "low-level failure", []exreport.TraceEntry{
			entry("lib", "open", 0),
		})
		head := exreport.NewException("AppError", "request failed", []exreport.TraceEntry{
			entry("app", "handle", 1),
		})
		head.Cause = root

		rep := exreport.New(head, nil).Report()
		lines := rep.FormatText()

		require.Len(t, lines, 4)
		require.Exactly(t, "Traceback (most recent call last):\n", lines[0])
		require.Exactly(t, "  File \"lib.py\", line 1, in open\n    lib 1\n", lines[1])
		require.Exactly(t, "  File \"app.py\", line 2, in handle\n    app 2\n", lines[2])
		require.Exactly(t, "AppError: request failed\n", lines[3])
	})

	t.Run("should omit the final line without an exception", func(t *testing.T) {
		rep := exreport.New(nil, nil).Report()
		lines := rep.FormatText()

		require.Len(t, lines, 1)
		require.Exactly(t, "Traceback (most recent call last):\n", lines[0])
	})
}

// panicValue misbehaves in every rendering path.
type panicValue struct{}

func (panicValue) String() string {
	panic("misbehaving value")
}

var _ fmt.Stringer = panicValue{}
