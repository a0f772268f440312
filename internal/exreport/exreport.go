// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package exreport walks an exception's causal chain and builds a structured
// report of every stack frame, including surrounding source lines and
// captured local variable bindings.
//
// The engine only depends on explicit activation records (TraceEntry) which
// cooperating code fills in, e.g. via CurrentTrace or FromError. It never
// inspects the host runtime on its own.
package exreport

import (
	"github.com/codeactual/exreport/internal/exreport/source"
)

// RawVar is one local variable binding captured with an activation record.
//
// The value is retained as-is until report assembly so that frames dropped
// by the walker never pay the rendering cost.
type RawVar struct {
	Name  string
	Value interface{}
}

// Var is a rendered variable binding. The value is bounded in size and
// HTML-escaped, safe for direct embedding in markup.
type Var struct {
	Name  string `json:"name" yaml:"name" toml:"name" structs:"name"`
	Value string `json:"value" yaml:"value" toml:"value" structs:"value"`
}

// TraceEntry is one recorded stack activation record, oldest caller first
// within a trace.
//
// It is the explicit capability record which any stack-walking mechanism can
// produce: cooperating code sets the fields directly, CurrentTrace fills them
// from the active goroutine, FromError from a wrapped error's stack.
type TraceEntry struct {
	// File is the absolute path of the source file.
	File string

	// Func is the function name without package qualifier.
	Func string

	// Module is the package/module namespace the function belongs to.
	Module string

	// Line is the fault line MINUS ONE. Capture helpers subtract one so the
	// extractor can index the decoded source slice directly; the walker adds
	// it back for the user-facing number.
	Line int

	// Hidden suppresses the entry from reports. Cooperating code sets it on
	// internal/framework noise frames.
	Hidden bool

	// Vars holds the local variable bindings visible in this activation
	// record, in declaration/capture order.
	Vars []RawVar

	// Loader provides source text when the module is not file-backed.
	// It is preferred over reading File from disk.
	Loader source.Loader
}

// Exception is one node of a causal chain.
type Exception struct {
	// Type is the exception's type name, e.g. "*errors.fundamental".
	Type string `json:"type" yaml:"type" toml:"type" structs:"type"`

	// Value is the exception's message payload. It is rendered permissively:
	// any value is accepted and formatting never fails.
	Value interface{} `json:"-" yaml:"-" toml:"-" structs:"-"`

	// Cause is the exception this one was explicitly declared to be caused by.
	Cause *Exception `json:"-" yaml:"-" toml:"-" structs:"-"`

	// Context is the exception that was being handled when this one was
	// raised, captured incidentally rather than declared.
	Context *Exception `json:"-" yaml:"-" toml:"-" structs:"-"`

	// Trace holds the exception's own activation records, oldest caller first.
	Trace []TraceEntry `json:"-" yaml:"-" toml:"-" structs:"-"`
}

// Message returns the exception's rendered message. It never panics,
// regardless of the Value's type or behavior.
func (e *Exception) Message() string {
	if e == nil || e.Value == nil {
		return ""
	}
	return permissiveString(e.Value)
}

// causeOrContext returns the next link of the causal chain, preferring an
// explicit cause over the implicit context.
func (e *Exception) causeOrContext() *Exception {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Context
}

// Frame is one assembled entry of a report's frame sequence.
type Frame struct {
	// File is the absolute path of the source file.
	File string `json:"filename" yaml:"filename" toml:"filename" structs:"filename"`

	// Func is the function name.
	Func string `json:"function" yaml:"function" toml:"function" structs:"function"`

	// Line is the 1-based fault line, i.e. the instruction pointer's line.
	Line int `json:"lineno" yaml:"lineno" toml:"lineno" structs:"lineno"`

	// Context is the source window around the fault line.
	Context source.Context `json:"source_context" yaml:"source_context" toml:"source_context" structs:"source_context"`

	// Vars holds the rendered variable bindings. It is populated by the
	// report assembler, not the walker.
	Vars []Var `json:"vars" yaml:"vars" toml:"vars" structs:"vars"`

	// Kind groups the frame for display, e.g. KindFramework vs. KindUser.
	Kind string `json:"kind" yaml:"kind" toml:"kind" structs:"kind"`

	// Cause is the exception that caused the exception this frame belongs to,
	// nil for the root cause's frames.
	Cause *Exception `json:"-" yaml:"-" toml:"-" structs:"-"`

	// CauseSummary is Cause's one-line description, "" for root-cause frames.
	// It carries the cause across serialization boundaries, where following
	// the object link could recurse arbitrarily.
	CauseSummary string `json:"cause,omitempty" yaml:"cause,omitempty" toml:"cause,omitempty" structs:"cause"`

	// CauseExplicit is true if Cause was an explicit declaration rather than
	// an incidentally captured prior exception.
	CauseExplicit bool `json:"cause_is_explicit" yaml:"cause_is_explicit" toml:"cause_is_explicit" structs:"cause_is_explicit"`

	// ID is an opaque stable identifier, usable to deduplicate/anchor frames
	// across a render pass.
	ID string `json:"id" yaml:"id" toml:"id" structs:"id"`

	// RawVars holds the captured bindings prior to rendering.
	RawVars []RawVar `json:"-" yaml:"-" toml:"-" structs:"-"`
}

// Summary returns the exception's one-line "Type: message" description.
func (e *Exception) Summary() string {
	if e == nil {
		return ""
	}
	if e.Type == "" {
		return e.Message()
	}
	if msg := e.Message(); msg != "" {
		return e.Type + ": " + msg
	}
	return e.Type
}
