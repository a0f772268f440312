// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package render serializes assembled reports. The HTML renderer produces a
// self-contained technical page; the others are structured formats for
// machine consumption.
package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fatih/structs"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/codeactual/exreport/internal/exreport"
)

// Renderer converts one report into its serialized form.
type Renderer interface {
	Render(rep *exreport.Report) ([]byte, error)

	// Ext returns the file extension of the rendered form, e.g. ".html".
	Ext() string
}

// Formats lists the supported format names accepted by New.
func Formats() []string {
	return []string{"html", "json", "text", "toml", "yaml"}
}

// New returns the Renderer for a format name.
func New(format string) (Renderer, error) {
	switch format {
	case "html":
		return HTML{}, nil
	case "json":
		return JSON{}, nil
	case "text":
		return Text{}, nil
	case "toml":
		return TOML{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	}
	return nil, errors.Errorf("format [%s] not found in available formats %v", format, Formats())
}

// HTML renders the self-contained technical report page.
type HTML struct{}

func (HTML) Ext() string { return ".html" }

func (HTML) Render(rep *exreport.Report) ([]byte, error) {
	var b bytes.Buffer
	if err := reportTmpl.Execute(&b, rep); err != nil {
		return nil, errors.Wrap(err, "failed to execute report template")
	}
	return b.Bytes(), nil
}

// JSON renders the report structure as indented JSON.
type JSON struct{}

func (JSON) Ext() string { return ".json" }

func (JSON) Render(rep *exreport.Report) ([]byte, error) {
	fileBytes, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal report as JSON")
	}
	return fileBytes, nil
}

// Text renders the flat, classic traceback form.
type Text struct{}

func (Text) Ext() string { return ".txt" }

func (Text) Render(rep *exreport.Report) ([]byte, error) {
	return []byte(strings.Join(rep.FormatText(), "")), nil
}

// TOML renders the report structure as TOML.
type TOML struct{}

func (TOML) Ext() string { return ".toml" }

func (TOML) Render(rep *exreport.Report) ([]byte, error) {
	// TOML has no null; rebuild the one nullable field only when present.
	m := structs.Map(rep)
	delete(m, "last_frame")
	if rep.LastFrame != nil {
		m["last_frame"] = structs.Map(rep.LastFrame)
	}

	tree, err := toml.TreeFromMap(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert report to TOML tree")
	}
	s, err := tree.ToTomlString()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal report as TOML")
	}
	return []byte(s), nil
}

// YAML renders the report structure as YAML.
type YAML struct{}

func (YAML) Ext() string { return ".yaml" }

func (YAML) Render(rep *exreport.Report) ([]byte, error) {
	fileBytes, err := yaml.Marshal(rep)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal report as YAML")
	}
	return fileBytes, nil
}
