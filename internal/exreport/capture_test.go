// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/codeactual/exreport/internal/exreport"
	cage_trace "github.com/codeactual/exreport/internal/cage/trace"
)

// captureHere exists so the innermost recorded entry has a known name.
func captureHere() []exreport.TraceEntry {
	return exreport.CurrentTrace(0)
}

func TestCurrentTrace(t *testing.T) {
	t.Run("should record the caller as the innermost entry", func(t *testing.T) {
		trace := captureHere()
		require.NotEmpty(t, trace)

		last := trace[len(trace)-1]
		require.Exactly(t, "captureHere", last.Func)
		require.Exactly(t, cage_trace.ThisFile(), last.File)
		require.True(t, strings.HasSuffix(last.File, "capture_test.go"))
	})

	t.Run("should store lines ready for zero-based source indexing", func(t *testing.T) {
		trace := captureHere()
		require.NotEmpty(t, trace)

		// The stored line indexes the decoded source slice directly, so the
		// walker's one-based rendering must match the runtime's line.
		last := trace[len(trace)-1]
		require.True(t, last.Line > 0)

		frames := exreport.New(exreport.NewException("T", "v", trace), nil).Frames()
		require.NotEmpty(t, frames)
		lastFrame := frames[len(frames)-1]
		require.Contains(t, lastFrame.Context.Line, "exreport.CurrentTrace(0)")
	})

	t.Run("should hide test harness entries", func(t *testing.T) {
		trace := captureHere()
		for _, e := range trace {
			if e.Module == "testing" {
				require.True(t, e.Hidden)
			}
		}
	})

	t.Run("should skip the requested number of frames", func(t *testing.T) {
		full := captureHere()
		skipped := exreport.CurrentTrace(1) // drops this function's own entry

		require.NotEmpty(t, skipped)
		require.Less(t, len(skipped), len(full))
	})
}

func libFail() error {
	return errors.New("connection refused")
}

func level1() error {
	return errors.New("level1 boom")
}

func level2() error {
	return errors.Wrap(level1(), "level2 failed")
}

func level3() error {
	return errors.Wrap(level2(), "level3 failed")
}

func appFail() error {
	return errors.Wrap(libFail(), "request failed")
}

func TestFromError(t *testing.T) {
	t.Run("should return nil for a nil error", func(t *testing.T) {
		require.Nil(t, exreport.FromError(nil))
	})

	t.Run("should convert a wrap chain into a causal chain", func(t *testing.T) {
		exc := exreport.FromError(appFail())
		require.NotNil(t, exc)
		require.Exactly(t, "request failed: connection refused", exc.Message())

		var root *exreport.Exception
		for e := exc; e != nil; e = e.Cause {
			root = e
		}
		require.NotNil(t, root)
		require.NotEqual(t, exc, root)
		require.Exactly(t, "connection refused", root.Message())
	})

	t.Run("should recover activation records from wrapped stacks", func(t *testing.T) {
		exc := exreport.FromError(appFail())

		var root *exreport.Exception
		for e := exc; e != nil; e = e.Cause {
			root = e
		}
		require.NotEmpty(t, root.Trace)

		// Oldest caller first: the fault site is the final entry.
		last := root.Trace[len(root.Trace)-1]
		require.Exactly(t, "libFail", last.Func)
		require.True(t, strings.HasSuffix(last.File, "capture_test.go"))
	})

	t.Run("should report a deeply nested chain root cause first", func(t *testing.T) {
		rep := exreport.New(exreport.FromError(level3()), nil).Report()

		require.Exactly(t, "level3 failed: level2 failed: level1 boom", rep.ExceptionValue)
		require.NotNil(t, rep.LastFrame)
		require.Exactly(t, "level3", rep.LastFrame.Func)

		// Each helper also appears as a caller in deeper stacks, so compare
		// the fault sites: the last occurrence of each function.
		lastIndexOf := func(fn string) int {
			idx := -1
			for n, f := range rep.Frames {
				if f.Func == fn {
					idx = n
				}
			}
			return idx
		}
		l1, l2, l3 := lastIndexOf("level1"), lastIndexOf("level2"), lastIndexOf("level3")
		require.True(t, l1 >= 0 && l2 >= 0 && l3 >= 0)
		require.Less(t, l1, l2)
		require.Less(t, l2, l3)

		// Wrap-layer frames carry their cause's description.
		require.NotEmpty(t, rep.Frames[l3].CauseSummary)
		require.True(t, rep.Frames[l3].CauseExplicit)
	})

	t.Run("should produce walkable frames end to end", func(t *testing.T) {
		frames := exreport.New(exreport.FromError(appFail()), nil).Frames()
		require.NotEmpty(t, frames)

		var funcs []string
		for _, f := range frames {
			funcs = append(funcs, f.Func)
		}
		require.Contains(t, funcs, "libFail")

		// The final frame is the head exception's own fault site, the wrap.
		require.Exactly(t, "appFail", frames[len(frames)-1].Func)
	})
}
