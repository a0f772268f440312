// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport

import (
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Frame kinds used for display grouping only.
const (
	KindFramework = "framework"
	KindUser      = "user"
)

// Classifier tags frames as framework or user code for display grouping.
//
// A frame is framework code if its module matches a registered namespace
// prefix or its file path matches a registered doublestar glob pattern.
type Classifier struct {
	prefixes []string
	globs    []string
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// AddPrefix registers module namespace prefixes, e.g. "github.com/spf13".
func (c *Classifier) AddPrefix(p ...string) *Classifier {
	c.prefixes = append(c.prefixes, p...)
	return c
}

// AddFileGlob registers github.com/bmatcuk/doublestar patterns matched
// against frame file paths, e.g. "**/vendor/**".
func (c *Classifier) AddFileGlob(g ...string) *Classifier {
	c.globs = append(c.globs, g...)
	return c
}

// Kind classifies one frame by its module namespace and file path.
//
// A nil Classifier classifies everything as user code.
func (c *Classifier) Kind(module, file string) string {
	if c == nil {
		return KindUser
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(module, p) {
			return KindFramework
		}
	}
	for _, g := range c.globs {
		if ok, err := doublestar.Match(g, file); err == nil && ok {
			return KindFramework
		}
	}
	return KindUser
}
