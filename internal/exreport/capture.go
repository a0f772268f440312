// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-stack/stack"
	"github.com/pkg/errors"
)

// causer is a copy of the pkg/errors interface.
type causer interface {
	Cause() error
}

// stackTracer is a copy of the pkg/errors interface.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// pkgErrsLocRe matches the '%+v' output of a pkg/errors frame in order to
// capture the package/function name and the file path/line.
//
// Aligns with:
//   https://github.com/pkg/errors/blob/30136e27e2ac8d167177e8a583aa4c3fea5be833/stack.go#L63
var pkgErrsLocRe = regexp.MustCompile(`(\S+)\n\t(.*)`)

// NewException builds an exception record from its parts. The trace entries
// must already carry the stored (decremented) line convention, as CurrentTrace
// and FromError do.
func NewException(typeName string, value interface{}, trace []TraceEntry) *Exception {
	return &Exception{Type: typeName, Value: value, Trace: trace}
}

// CurrentTrace records the active goroutine's stack as activation records,
// oldest caller first, with runtime frames trimmed.
//
// A skip of 0 makes the caller of CurrentTrace the innermost entry. Local
// variable bindings are not recoverable from native frames and are left
// empty; cooperating code attaches them separately when it has them.
func CurrentTrace(skip int) []TraceEntry {
	cs := stack.Trace().TrimRuntime()
	if skip+1 >= len(cs) {
		return nil
	}
	cs = cs[skip+1:] // drop CurrentTrace itself plus the requested frames

	entries := make([]TraceEntry, 0, len(cs))
	for n := len(cs) - 1; n >= 0; n-- { // reverse to oldest caller first
		c := cs[n]
		line, err := strconv.Atoi(fmt.Sprintf("%d", c))
		if err != nil || line < 1 {
			continue
		}
		entry := TraceEntry{
			File:   fmt.Sprintf("%#s", c), // full path to support modules
			Func:   fmt.Sprintf("%n", c),
			Module: fmt.Sprintf("%k", c),
			Line:   line - 1,
		}
		if entry.Module == "testing" {
			entry.Hidden = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// FromError converts an error and its wrap chain into an exception chain:
// each wrap layer becomes one exception whose explicit cause is the next
// layer, with traces recovered from pkg/errors-style stacks when present.
//
// It returns nil for a nil error.
func FromError(err error) *Exception {
	if err == nil {
		return nil
	}

	head := newFromError(err)

	exc := head
	seen := map[error]bool{err: true}
	for len(seen) < MaxChainLength {
		c, ok := err.(causer)
		if !ok {
			break
		}
		cause := c.Cause()
		if cause == nil || seen[cause] {
			break
		}
		seen[cause] = true

		exc.Cause = newFromError(cause)
		exc = exc.Cause
		err = cause
	}

	return head
}

func newFromError(err error) *Exception {
	exc := &Exception{
		Type:  fmt.Sprintf("%T", err),
		Value: err.Error(),
	}
	if st, ok := err.(stackTracer); ok {
		exc.Trace = traceFromFrames(st.StackTrace())
	}
	return exc
}

// traceFromFrames converts a pkg/errors stack (innermost first) into
// activation records ordered oldest caller first.
func traceFromFrames(st errors.StackTrace) []TraceEntry {
	entries := make([]TraceEntry, 0, len(st))
	for n := len(st) - 1; n >= 0; n-- {
		f := st[n]

		matches := pkgErrsLocRe.FindAllStringSubmatch(fmt.Sprintf("%+v", f), 1)
		if matches == nil {
			continue
		}

		entry := TraceEntry{Func: fmt.Sprintf("%n", f)}

		if idx := strings.LastIndex(matches[0][1], entry.Func); idx > 0 {
			entry.Module = matches[0][1][:idx-1]
		}

		if fileAndLine := strings.Split(matches[0][2], ":"); len(fileAndLine) == 2 {
			entry.File = fileAndLine[0]
			if line, err := strconv.Atoi(fileAndLine[1]); err == nil && line > 0 {
				entry.Line = line - 1
			}
		}

		if entry.File == "" {
			continue
		}

		// Runtime and test-harness frames are recorded but hidden, the same
		// default filtering the structured-log path applies.
		if entry.Module == "runtime" || entry.Module == "testing" {
			entry.Hidden = true
		}

		entries = append(entries, entry)
	}
	return entries
}
