// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// maxVarLen caps a rendered variable value's length in characters. Longer
// values are cut and suffixed with a marker noting the original length so a
// single binding cannot make a report unbounded in size.
const maxVarLen = 4096

// varSpew renders variable values. SortKeys keeps map output stable across
// report generations of the same exception.
var varSpew = &spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// formatValue returns a structured pretty-print of any value. It never
// panics: an internal formatting failure is converted into the failure's own
// description.
func formatValue(v interface{}) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<error formatting value: %v>", r)
		}
	}()
	return strings.TrimSuffix(varSpew.Sdump(v), "\n")
}

// permissiveString renders an exception value as a one-line message,
// tolerant of non-text and misbehaving values.
func permissiveString(v interface{}) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<error formatting value: %v>", r)
		}
	}()

	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case error:
		s = t.Error()
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprintf("%v", v)
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// renderVars converts captured bindings into display form: pretty-printed,
// valid UTF-8, bounded, and HTML-escaped exactly once.
func renderVars(raw []RawVar) []Var {
	if raw == nil {
		return nil
	}
	rendered := make([]Var, 0, len(raw))
	for _, rv := range raw {
		v := formatValue(rv.Value)
		v = strings.ToValidUTF8(v, string(utf8.RuneError))
		if runes := []rune(v); len(runes) > maxVarLen {
			v = fmt.Sprintf("%s... <trimmed %d bytes string>", string(runes[:maxVarLen]), len(runes))
		}
		rendered = append(rendered, Var{Name: rv.Name, Value: html.EscapeString(v)})
	}
	return rendered
}
