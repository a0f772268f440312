// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storage persists rendered reports and returns a retrieval location
// for each one.
package storage

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	std_storage "google.golang.org/api/storage/v1"

	cage_crypto "github.com/codeactual/exreport/internal/cage/crypto"
	cage_file "github.com/codeactual/exreport/internal/cage/os/file"
)

// Storage accepts one rendered report and returns where it can be retrieved.
type Storage interface {
	// Put writes the rendered report under the given name.
	//
	// The returned location is backend specific, e.g. an absolute path or URL.
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// ReportName returns a new collision-resistant object/file name with the
// given extension, e.g. ".html".
func ReportName(ext string) (string, error) {
	first, err := cage_crypto.RandHexString(16)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate report name")
	}
	second, err := cage_crypto.RandHexString(16)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate report name")
	}
	return first + second + ext, nil
}

// Local stores reports as files under one output directory.
type Local struct {
	// OutputPath is the destination directory, created on demand.
	OutputPath string
}

// Put implements Storage.
func (l Local) Put(ctx context.Context, name string, data []byte) (string, error) {
	absName, err := filepath.Abs(filepath.Join(l.OutputPath, name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve report path [%s]", name)
	}
	if err := cage_file.WriteFileAll(absName, data, 0644, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to write report file [%s]", absName)
	}
	return absName, nil
}

// Object stores reports in an object storage bucket.
type Object struct {
	// Bucket is the destination bucket name.
	Bucket string

	// Prefix is prepended to every object name, e.g. "reports/".
	Prefix string

	// Service optionally overrides the client, e.g. in tests.
	Service *std_storage.Service
}

// Put implements Storage.
func (o Object) Put(ctx context.Context, name string, data []byte) (string, error) {
	svc := o.Service
	if svc == nil {
		var err error
		svc, err = std_storage.NewService(ctx)
		if err != nil {
			return "", errors.Wrap(err, "failed to create object storage client")
		}
	}

	obj := &std_storage.Object{Name: o.Prefix + name}
	if _, err := svc.Objects.Insert(o.Bucket, obj).Media(bytes.NewReader(data)).Context(ctx).Do(); err != nil {
		return "", errors.Wrapf(err, "failed to store report object [%s] in bucket [%s]", obj.Name, o.Bucket)
	}

	return "gs://" + o.Bucket + "/" + obj.Name, nil
}

var _ Storage = (*Local)(nil)
var _ Storage = (*Object)(nil)
