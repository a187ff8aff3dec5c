// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression implements the compression schemes of compressed
// module payloads.
package compression

import (
	"fmt"
)

// Compressor defines a single compression scheme (such as Deflate).
type Compressor interface {
	// Name is typically the name of a class.
	Name() string

	// Decode and Encode obey "x == Decode(Encode(x))".
	Decode(encodedData []byte) ([]byte, error)
	Encode(decodedData []byte) ([]byte, error)
}

// Method identifies the compression scheme of a compressed module.
type Method uint8

// Known methods.
const (
	MethodDeflate Method = 0
)

func (m Method) String() string {
	switch m {
	case MethodDeflate:
		return "deflate"
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// CompressorFromMethod returns a Compressor for the method and window size
// (as a base 2 logarithm), or nil if the method is unknown.
func CompressorFromMethod(m Method, windowBits uint8) Compressor {
	switch m {
	case MethodDeflate:
		if windowBits < MinWindowBits || windowBits > MaxWindowBits {
			return nil
		}
		return &Deflate{WindowBits: windowBits}
	}
	return nil
}
