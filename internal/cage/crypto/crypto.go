// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

func RandBytes(c int) ([]byte, error) {
	b := make([]byte, c)
	_, err := rand.Read(b)
	if err != nil {
		return []byte{}, errors.Wrapf(err, "failed to generate [%d] random bytes", c)
	}
	return b, nil
}

func RandHexString(bytesLen int) (string, error) {
	input, err := RandBytes(bytesLen)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return hex.EncodeToString(input[:]), nil
}
