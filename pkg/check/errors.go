// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
)

// ErrStartBeforeWindow means the range starts below the window.
type ErrStartBeforeWindow struct {
	Address     uint32
	WindowStart uint32
}

func (err *ErrStartBeforeWindow) Error() string {
	return fmt.Sprintf("start address is below the window: 0x%x < 0x%x",
		err.Address, err.WindowStart)
}

// ErrEndAfterWindow means the range ends beyond the window.
type ErrEndAfterWindow struct {
	End       uint64
	WindowEnd uint64
}

func (err *ErrEndAfterWindow) Error() string {
	return fmt.Sprintf("end address is outside of the window: 0x%x > 0x%x",
		err.End, err.WindowEnd)
}

// ErrAddressOverflow means the range wraps around the 32-bit address space.
type ErrAddressOverflow struct {
	Range bytes.Range
}

func (err *ErrAddressOverflow) Error() string {
	return fmt.Sprintf("range %s wraps around the address space", err.Range)
}
