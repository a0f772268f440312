// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package runtime

import (
	"regexp"
	std_runtime "runtime"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// versionSemverRe matches the semver part of runtime.Version() output.
// Requires FindString or other function that only returns the leftmost match.
var versionSemverRe *regexp.Regexp

func init() {
	versionSemverRe = regexp.MustCompile("[0-9.]+")
}

// VersionSemver returns the Go runtime version in normalized semver form,
// e.g. "1.13.4" (with "1.13" normalized to "1.13.0").
func VersionSemver() (string, error) {
	full := std_runtime.Version()
	raw := versionSemverRe.FindString(full)
	if raw == "" {
		return "", errors.Errorf("failed to find runtime version in [%s]", full)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse runtime version [%s]", raw)
	}
	return v.String(), nil
}
