// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package file

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// IO writes public files to a storage bucket.
type IO struct {
	storage *storage.Client
	bucket  string
}

func NewIO(storage *storage.Client, bucket string) *IO {
	return &IO{
		storage: storage,
		bucket:  bucket,
	}
}

// WriteFile writes data to path in the bucket and returns its public URL.
func (io *IO) WriteFile(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	wc := io.storage.Bucket(io.bucket).Object(path).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("file: writing file: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("file: closing writer: %w", err)
	}
	return PublicURL(io.bucket, path), nil
}

// PublicURL returns the public URL of path in bucket.
func PublicURL(bucket string, path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path)
}
