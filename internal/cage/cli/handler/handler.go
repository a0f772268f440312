// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package handler

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type Mixin interface {
	// BindCobraFlags gives each mixin the opportunity to define its own flags.
	BindCobraFlags(cmd *cobra.Command) (requiredFlags []string)

	// Name should identify the mixin for use in error/log messages.
	//
	// Ideally it is short, e.g. like a package name.
	Name() string
}

// PreRun is optionally implemented by handlers/mixins to perform tasks after flags are parsed
// but before Handler.Run.
//
// If it returns an error, Handler.Run and Handler.PostRun do not execute.
type PreRun interface {
	PreRun(ctx context.Context, args []string) error
}

// PostRun is optionally implemented by handlers/mixins to perform tasks after Handler.Run finishes.
type PostRun interface {
	PostRun(ctx context.Context)
}

// Responder defines the common response behavior expected from each sub-command implementation.
//
// Out and Err methods are intended to improve testability by expecting that terminal
// messages can be captured for assertions about their content.
type Responder interface {
	// Err returns the standard error destination.
	Err() io.Writer

	// In returns the standard input source.
	In() io.Reader

	// Out returns the standard output destination.
	Out() io.Writer

	// SetErr assigns the standard error destination.
	SetErr(io.Writer)

	// SetIn assigns the standard input source.
	SetIn(io.Reader)

	// SetOut assigns the standard error destination.
	SetOut(io.Writer)
}

// IO can be embedded in all mixins and sub-command handlers and provide a default implementation
// of the Responder interface.
type IO struct {
	err io.Writer
	out io.Writer
	in  io.Reader
}

func (h *IO) Err() io.Writer {
	return h.err
}

func (h *IO) Out() io.Writer {
	return h.out
}

func (h *IO) In() io.Reader {
	if h.in != nil {
		return h.in
	}
	return os.Stdin
}

func (h *IO) SetErr(w io.Writer) {
	h.err = w
}

func (h *IO) SetOut(w io.Writer) {
	h.out = w
}

func (h *IO) SetIn(r io.Reader) {
	h.in = r
}

func (h *IO) Exitf(code int, format string, a ...interface{}) {
	w := os.Stdout
	if code != 0 {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", a...)
	os.Exit(code)
}

// WriteErrList prints a numbered list of errors, one per line.
func WriteErrList(w io.Writer, errs ...error) {
	errsLen := len(errs)
	if errsLen > 0 {
		fmt.Fprintf(w, "\n") // in case the cursor is at the end of a "starting X ..." line
		for n, err := range errs {
			fmt.Fprintf(w, "Error (%d/%d): %s\n", n+1, errsLen, err)
		}
	}
}

var _ Responder = (*IO)(nil)
