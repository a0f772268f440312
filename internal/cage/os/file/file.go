// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package file

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Exists checks if a file/directory exists.
func Exists(name string) (bool, os.FileInfo, error) {
	fi, err := os.Stat(name)
	if err == nil {
		return true, fi, nil
	}
	if os.IsNotExist(err) {
		return false, nil, nil
	}
	return false, nil, errors.Wrapf(err, "failed to stat [%s]", name)
}

// CreateFileAll calls MkdirAll to ensure all intermediate directories exist prior to creation.
func CreateFileAll(name string, fileFlag int, filePerm, dirPerm os.FileMode) (*os.File, error) {
	dirPath := filepath.Dir(name)
	if err := os.MkdirAll(dirPath, dirPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to make dir [%s] for new file [%s]", dirPath, name)
	}

	f, err := os.OpenFile(name, os.O_CREATE|fileFlag, filePerm)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create file [%s]", name)
	}

	return f, nil
}

// WriteFileAll writes the content to the named file, creating intermediate
// directories as needed and syncing before close.
func WriteFileAll(name string, content []byte, filePerm, dirPerm os.FileMode) error {
	f, err := CreateFileAll(name, os.O_WRONLY|os.O_TRUNC, filePerm, dirPerm)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err = f.Write(content); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write file [%s]", name)
	}

	if err = f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to sync file [%s]", name)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close file [%s]", name)
	}

	return nil
}
