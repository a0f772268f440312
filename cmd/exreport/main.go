// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeactual/exreport/cmd/exreport/render"
	"github.com/codeactual/exreport/internal/ldflags"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "exreport",
		Short: "Convert exception/error reports between rendered formats and storage backends",
	}

	rootCmd.Version = ldflags.Version
	rootCmd.AddCommand(render.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
