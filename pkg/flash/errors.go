// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
)

// ErrNotMapped means no window of the storage contains the address.
type ErrNotMapped struct {
	Storage Storage
	Address uint32
}

func (err *ErrNotMapped) Error() string {
	return fmt.Sprintf("address 0x%x is not mapped in %s flash", err.Address, err.Storage)
}

// ErrOverlap means a new window intersects an already mapped one.
type ErrOverlap struct {
	Range    bytes.Range
	Existing bytes.Range
}

func (err *ErrOverlap) Error() string {
	return fmt.Sprintf("window %s overlaps mapped window %s", err.Range, err.Existing)
}
