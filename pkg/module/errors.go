// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/compression"
)

// ErrShortBuffer means there are not enough bytes to decode a structure.
type ErrShortBuffer struct {
	What     string
	Length   int
	Expected int
}

func (err *ErrShortBuffer) Error() string {
	return fmt.Sprintf("short %s: %d bytes; want at least %d", err.What, err.Length, err.Expected)
}

// ErrImageTooLarge means an image does not fit into the 32-bit address space.
type ErrImageTooLarge struct {
	StartAddress uint32
	Length       uint64
}

func (err *ErrImageTooLarge) Error() string {
	return fmt.Sprintf("image of %d bytes at 0x%x does not fit into the address space", err.Length, err.StartAddress)
}

// ErrUnknownCompression means a compressed payload uses an unsupported
// method or window size.
type ErrUnknownCompression struct {
	Method     compression.Method
	WindowBits uint8
}

func (err *ErrUnknownCompression) Error() string {
	return fmt.Sprintf("unsupported compression %s with a %d bits window", err.Method, err.WindowBits)
}
