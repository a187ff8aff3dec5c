// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Window sizes supported by Deflate, as base 2 logarithms.
const (
	MinWindowBits = 8
	MaxWindowBits = 15
)

const deflateCompressionLevel = 9

// Deflate implements Compressor for raw deflate streams (no zlib or gzip
// framing).
//
// The encoder always uses the largest window; devices decode with
// WindowBits so a stream must not reference data further back than that.
type Deflate struct {
	WindowBits uint8
}

// Name returns the type of compression employed.
func (c *Deflate) Name() string {
	return "DEFLATE"
}

// Decode decodes a byte slice of deflate data.
func (c *Deflate) Decode(encodedData []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(encodedData))
	defer r.Close()
	decodedData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to inflate: %w", err)
	}
	return decodedData, nil
}

// Encode encodes a byte slice with deflate.
func (c *Deflate) Encode(decodedData []byte) ([]byte, error) {
	var encodedData bytes.Buffer
	w, err := flate.NewWriter(&encodedData, deflateCompressionLevel)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(decodedData); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return encodedData.Bytes(), nil
}
