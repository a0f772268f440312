// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/exreport/internal/exreport"
)

func TestClassifier(t *testing.T) {
	t.Run("should default to user code", func(t *testing.T) {
		var c *exreport.Classifier
		require.Exactly(t, exreport.KindUser, c.Kind("any/module", "/any/file.go"))
		require.Exactly(t, exreport.KindUser, exreport.NewClassifier().Kind("any/module", "/any/file.go"))
	})

	t.Run("should match module namespace prefixes", func(t *testing.T) {
		c := exreport.NewClassifier().AddPrefix("github.com/spf13", "go.uber.org")

		require.Exactly(t, exreport.KindFramework, c.Kind("github.com/spf13/cobra", "/x/cobra.go"))
		require.Exactly(t, exreport.KindFramework, c.Kind("go.uber.org/zap", "/x/zap.go"))
		require.Exactly(t, exreport.KindUser, c.Kind("github.com/example/app", "/x/app.go"))
	})

	t.Run("should match file path globs", func(t *testing.T) {
		c := exreport.NewClassifier().AddFileGlob("**/vendor/**")

		require.Exactly(t, exreport.KindFramework, c.Kind("app", "/repo/vendor/dep/dep.go"))
		require.Exactly(t, exreport.KindUser, c.Kind("app", "/repo/internal/app.go"))
	})
}
