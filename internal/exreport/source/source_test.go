// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package source_test

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/codeactual/exreport/internal/exreport/source"
)

func fixturePath(name string) string {
	return filepath.Join("testdata", name)
}

type mapLoader map[string]string

func (l mapLoader) Source(module string) (string, error) {
	if text, ok := l[module]; ok {
		return text, nil
	}
	return "", errors.Errorf("module [%s] not found", module)
}

func TestLines(t *testing.T) {
	t.Run("should window around a middle line", func(t *testing.T) {
		ctx, ok := source.Lines(fixturePath("plain.txt"), 4, 2, nil, "")
		require.True(t, ok)
		require.Exactly(t, []string{"line 3", "line 4"}, ctx.PreLines)
		require.Exactly(t, "line 5", ctx.Line)
		require.Exactly(t, []string{"line 6", "line 7"}, ctx.PostLines)
		require.Exactly(t, 3, ctx.PreStart)
	})

	t.Run("should clamp the window at the start of the file", func(t *testing.T) {
		ctx, ok := source.Lines(fixturePath("plain.txt"), 1, 5, nil, "")
		require.True(t, ok)
		require.Exactly(t, []string{"line 1"}, ctx.PreLines)
		require.Exactly(t, "line 2", ctx.Line)
		require.Exactly(t, []string{"line 3", "line 4", "line 5", "line 6", "line 7"}, ctx.PostLines)
		require.Exactly(t, 1, ctx.PreStart)
	})

	t.Run("should clamp the window at the end of the file", func(t *testing.T) {
		ctx, ok := source.Lines(fixturePath("plain.txt"), 9, 3, nil, "")
		require.True(t, ok)
		require.Exactly(t, []string{"line 7", "line 8", "line 9"}, ctx.PreLines)
		require.Exactly(t, "line 10", ctx.Line)
		require.Empty(t, ctx.PostLines)
		require.Exactly(t, 7, ctx.PreStart)
	})

	t.Run("should report missing files as unavailable", func(t *testing.T) {
		_, ok := source.Lines(fixturePath("does-not-exist.txt"), 0, 7, nil, "")
		require.False(t, ok)
	})

	t.Run("should report out-of-range lines as unavailable", func(t *testing.T) {
		_, ok := source.Lines(fixturePath("plain.txt"), 10, 7, nil, "")
		require.False(t, ok)

		_, ok = source.Lines(fixturePath("plain.txt"), -1, 7, nil, "")
		require.False(t, ok)
	})

	t.Run("should decode per the file coding declaration", func(t *testing.T) {
		ctx, ok := source.Lines(fixturePath("latin1.py"), 1, 7, nil, "")
		require.True(t, ok)
		require.Exactly(t, `café = "résumé"`, ctx.Line)
		require.Exactly(t, []string{"# coding: latin-1"}, ctx.PreLines)
		require.Exactly(t, []string{"print(café)"}, ctx.PostLines)
	})

	t.Run("should split carriage return line endings", func(t *testing.T) {
		ctx, ok := source.Lines(fixturePath("crlf.txt"), 1, 7, nil, "")
		require.True(t, ok)
		require.Exactly(t, []string{"alpha"}, ctx.PreLines)
		require.Exactly(t, "beta", ctx.Line)
		require.Exactly(t, []string{"gamma"}, ctx.PostLines)
	})

	t.Run("should prefer the loader over the filesystem", func(t *testing.T) {
		loader := mapLoader{"mod.dynamic": "gen 1\ngen 2\ngen 3\n"}

		ctx, ok := source.Lines(fixturePath("plain.txt"), 1, 7, loader, "mod.dynamic")
		require.True(t, ok)
		require.Exactly(t, "gen 2", ctx.Line)
	})

	t.Run("should fall back to the filesystem when the loader fails", func(t *testing.T) {
		loader := mapLoader{}

		ctx, ok := source.Lines(fixturePath("plain.txt"), 1, 7, loader, "mod.unknown")
		require.True(t, ok)
		require.Exactly(t, "line 2", ctx.Line)
	})
}
