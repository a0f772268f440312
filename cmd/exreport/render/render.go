// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codeactual/exreport/internal/cage/cli/handler"
	handler_cobra "github.com/codeactual/exreport/internal/cage/cli/handler/cobra"
	log_zap "github.com/codeactual/exreport/internal/cage/cli/handler/mixin/log/zap"
	cage_reflect "github.com/codeactual/exreport/internal/cage/reflect"
	cage_strings "github.com/codeactual/exreport/internal/cage/strings"
	"github.com/codeactual/exreport/internal/exreport"
	exreport_render "github.com/codeactual/exreport/internal/exreport/render"
	"github.com/codeactual/exreport/internal/exreport/storage"
)

// Handler defines the sub-command flags and logic.
type Handler struct {
	handler.IO

	InputFile string `usage:"JSON report file to render (use \"-\" for stdin)"`
	Format    string `usage:"(comma-separated) Output format(s): html,json,text,toml,yaml"`
	OutputDir string `usage:"Destination directory for rendered reports"`
	Bucket    string `usage:"Store rendered reports in this object storage bucket instead of a directory"`
	Prefix    string `usage:"Object name prefix used with --bucket, e.g. \"reports/\""`

	Log *log_zap.Mixin

	formats *cage_strings.Set
}

// Init defines the command, its environment variable prefix, etc.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) Init() handler_cobra.Init {
	h.Log = &log_zap.Mixin{}

	return handler_cobra.Init{
		Cmd: &cobra.Command{
			Use:   "render",
			Short: "Render a JSON report into one or more formats",
		},
		EnvPrefix: "EXREPORT",
		Mixins: []handler.Mixin{
			h.Log,
		},
	}
}

// BindFlags binds the flags to Handler fields.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) BindFlags(cmd *cobra.Command) []string {
	cmd.Flags().StringVarP(&h.InputFile, "input", "", "", cage_reflect.GetFieldTag(*h, "InputFile", "usage"))
	cmd.Flags().StringVarP(&h.Format, "format", "", "html", cage_reflect.GetFieldTag(*h, "Format", "usage"))
	cmd.Flags().StringVarP(&h.OutputDir, "output", "", ".", cage_reflect.GetFieldTag(*h, "OutputDir", "usage"))
	cmd.Flags().StringVarP(&h.Bucket, "bucket", "", "", cage_reflect.GetFieldTag(*h, "Bucket", "usage"))
	cmd.Flags().StringVarP(&h.Prefix, "prefix", "", "", cage_reflect.GetFieldTag(*h, "Prefix", "usage"))
	return []string{"input"}
}

// PreRun executes after flag parsing and before Run.
//
// It implements cli/handler.PreRun
func (h *Handler) PreRun(ctx context.Context, args []string) error {
	h.formats = cage_strings.NewSet()
	for _, f := range cage_strings.SplitTrimmed(h.Format, ",") {
		if _, err := exreport_render.New(f); err != nil {
			return errors.WithStack(err)
		}
		h.formats.Add(f)
	}

	if h.formats.Len() == 0 {
		return errors.New("no output format selected")
	}

	return nil
}

// Run performs the sub-command logic.
//
// It implements cli/handler/cobra.Handler.
func (h *Handler) Run(ctx context.Context, args []string) {
	rep, err := h.readReport()
	h.Log.ExitOnErr(1, err)

	var store storage.Storage
	if h.Bucket == "" {
		store = storage.Local{OutputPath: h.OutputDir}
	} else {
		store = storage.Object{Bucket: h.Bucket, Prefix: h.Prefix}
	}

	var mu sync.Mutex
	locations := make(map[string]string)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, f := range h.formats.SortedSlice() {
		format := f
		group.Go(func() error {
			renderer, err := exreport_render.New(format)
			if err != nil {
				return errors.WithStack(err)
			}

			data, err := renderer.Render(rep)
			if err != nil {
				return errors.Wrapf(err, "failed to render report as [%s]", format)
			}

			name, err := storage.ReportName(renderer.Ext())
			if err != nil {
				return errors.WithStack(err)
			}

			loc, err := store.Put(groupCtx, name, data)
			if err != nil {
				return errors.Wrapf(err, "failed to store [%s] report", format)
			}

			mu.Lock()
			locations[format] = loc
			mu.Unlock()

			return nil
		})
	}
	h.Log.ExitOnErr(1, group.Wait())

	for _, format := range h.formats.SortedSlice() {
		fmt.Fprintf(h.Out(), "%s: %s\n", format, locations[format])
	}
}

func (h *Handler) readReport() (*exreport.Report, error) {
	var fileBytes []byte
	var err error

	if h.InputFile == "-" {
		fileBytes, err = ioutil.ReadAll(h.In())
	} else {
		fileBytes, err = ioutil.ReadFile(h.InputFile)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read report [%s]", h.InputFile)
	}

	rep := exreport.Report{}
	if err := json.Unmarshal(fileBytes, &rep); err != nil {
		return nil, errors.Wrapf(err, "failed to parse report [%s]", h.InputFile)
	}

	return &rep, nil
}

// NewCommand returns a cobra command instance based on Handler.
func NewCommand() *cobra.Command {
	return handler_cobra.NewHandler(&Handler{})
}

var _ handler_cobra.Handler = (*Handler)(nil)
var _ handler.PreRun = (*Handler)(nil)
