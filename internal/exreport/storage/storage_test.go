// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storage_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cage_testkit "github.com/codeactual/exreport/internal/cage/testkit"
	"github.com/codeactual/exreport/internal/exreport/storage"
)

func TestReportName(t *testing.T) {
	t.Run("should append the extension to a fixed-length hex name", func(t *testing.T) {
		name, err := storage.ReportName(".html")
		require.NoError(t, err)
		require.Len(t, name, 64+len(".html"))
		require.True(t, strings.HasSuffix(name, ".html"))

		hexPart := strings.TrimSuffix(name, ".html")
		require.Regexp(t, "^[0-9a-f]{64}$", hexPart)
	})

	t.Run("should not collide across calls", func(t *testing.T) {
		seen := map[string]bool{}
		for n := 0; n < 50; n++ {
			name, err := storage.ReportName(".json")
			require.NoError(t, err)
			require.False(t, seen[name])
			seen[name] = true
		}
	})
}

func TestLocal(t *testing.T) {
	t.Run("should write the report under the output path", func(t *testing.T) {
		dir, err := ioutil.TempDir("", "exreport-storage-test-")
		cage_testkit.FatalErrf(t, err, "failed to create temp dir")
		defer func() {
			require.NoError(t, os.RemoveAll(dir))
		}()

		store := storage.Local{OutputPath: filepath.Join(dir, "reports")}

		loc, err := store.Put(context.Background(), "abc.html", []byte("<html></html>"))
		require.NoError(t, err)
		require.Exactly(t, filepath.Join(dir, "reports", "abc.html"), loc)

		content, err := ioutil.ReadFile(loc)
		require.NoError(t, err)
		require.Exactly(t, "<html></html>", string(content))
	})
}
