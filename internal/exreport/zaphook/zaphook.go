// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package zaphook decorates a zapcore.Core so that qualifying log entries
// produce a stored exception report, with the report's location appended to
// the entry as a field.
package zaphook

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codeactual/exreport/internal/exreport"
	"github.com/codeactual/exreport/internal/exreport/render"
	"github.com/codeactual/exreport/internal/exreport/storage"
)

// LocationKey is the field key added to hooked entries.
const LocationKey = "exceptionReport"

// ErrorKey is the field key added when report creation itself fails.
const ErrorKey = "exceptionReportError"

// Config selects how hooked entries become stored reports.
type Config struct {
	// Renderer serializes each report. Defaults to render.HTML.
	Renderer render.Renderer

	// Storage persists each rendered report.
	Storage storage.Storage

	// Classifier optionally labels frames, e.g. first-party vs. dependency.
	Classifier *exreport.Classifier

	// Min is the minimum entry level which triggers a report.
	// Defaults to zapcore.ErrorLevel.
	Min zapcore.LevelEnabler
}

type core struct {
	zapcore.Core

	cfg Config

	// with accumulates fields from With calls so error fields bound to a
	// child logger are still found at write time.
	with []zapcore.Field
}

// NewCore decorates base. Entries below cfg.Min pass through untouched.
func NewCore(base zapcore.Core, cfg Config) zapcore.Core {
	if cfg.Renderer == nil {
		cfg.Renderer = render.HTML{}
	}
	if cfg.Min == nil {
		cfg.Min = zapcore.ErrorLevel
	}
	return &core{Core: base, cfg: cfg}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := &core{
		Core: c.Core.With(fields),
		cfg:  c.cfg,
		with: append(append([]zapcore.Field{}, c.with...), fields...),
	}
	return clone
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if c.cfg.Min.Enabled(ent.Level) && c.cfg.Storage != nil {
		if loc, err := c.report(ent, fields); err == nil {
			fields = append(fields, zap.String(LocationKey, loc))
		} else {
			// A failed report must not also fail the log write.
			fields = append(fields, zap.String(ErrorKey, err.Error()))
		}
	}
	return c.Core.Write(ent, fields)
}

// report assembles, renders, and stores one report for the entry.
func (c *core) report(ent zapcore.Entry, fields []zapcore.Field) (string, error) {
	var exc *exreport.Exception
	if err := firstError(c.with, fields); err != nil {
		exc = exreport.FromError(err)
	}

	// A hooked entry without an error field still yields a report so the
	// entry and its summary metadata are preserved at the storage backend.
	rep := exreport.New(exc, nil).SetClassifier(c.cfg.Classifier).Report()

	data, err := c.cfg.Renderer.Render(rep)
	if err != nil {
		return "", err
	}

	name, err := storage.ReportName(c.cfg.Renderer.Ext())
	if err != nil {
		return "", err
	}

	return c.cfg.Storage.Put(context.Background(), name, data)
}

// firstError returns the first error-typed field value, preferring the
// write-time fields over those bound earlier via With.
func firstError(with, fields []zapcore.Field) error {
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				return err
			}
		}
	}
	for _, f := range with {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				return err
			}
		}
	}
	return nil
}

var _ zapcore.Core = (*core)(nil)
