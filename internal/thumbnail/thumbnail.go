// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package thumbnail copies preview images into our own storage. Provider
// thumbnail URLs are often signed and expire, so saved recipes keep a copy.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
)

// maxImageSize is the largest image that will be copied.
const maxImageSize = 5 << 20

var (
	errNotImage      = errors.New("thumbnail: response is not an image")
	errImageTooLarge = errors.New("thumbnail: image too large")
)

// extensions are the file extensions of the image types that are copied.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// FileWriter writes a file and returns its public URL.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

func NewMirror(client *http.Client, files FileWriter, userAgent string) *Mirror {
	if client == nil {
		client = http.DefaultClient
	}
	return &Mirror{
		client:    client,
		files:     files,
		userAgent: userAgent,
	}
}

type Mirror struct {
	client    *http.Client
	files     FileWriter
	userAgent string
}

// Mirror downloads imageURL and writes it to pathNoExt with an extension for
// its content type, returning the URL of the copy.
func (m *Mirror) Mirror(ctx context.Context, pathNoExt string, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("thumbnail: creating request: %w", err)
	}
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}

	res, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("thumbnail: fetching image: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("thumbnail: unexpected status %d", res.StatusCode)
	}

	ct, _, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("thumbnail: parsing content type: %w", err)
	}
	ext, ok := extensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %s", errNotImage, ct)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("thumbnail: reading image: %w", err)
	}
	if len(data) > maxImageSize {
		return "", errImageTooLarge
	}

	// PNG copies are stored as JPEG.
	if ct == "image/png" {
		data, err = pngToJPEG(data)
		if err != nil {
			return "", err
		}
		ct = "image/jpeg"
		ext = "jpg"
	}

	url, err := m.files.WriteFile(ctx, pathNoExt+"."+ext, ct, data)
	if err != nil {
		return "", fmt.Errorf("thumbnail: writing image: %w", err)
	}
	return url, nil
}

func pngToJPEG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail: decoding png image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("thumbnail: encoding png to jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
