// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/module"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// ErrEmptySlot means a slot has no room for a module.
type ErrEmptySlot struct {
	Bounds module.Bounds
}

func (err *ErrEmptySlot) Error() string {
	return fmt.Sprintf("slot %s has zero size", err.Bounds)
}

// ErrEndOutsideSlot means the maximum end address of a slot is not
// within the slot.
type ErrEndOutsideSlot struct {
	Bounds module.Bounds
}

func (err *ErrEndOutsideSlot) Error() string {
	return fmt.Sprintf("slot %s: end address is outside of [0x%x, 0x%x]",
		err.Bounds, err.Bounds.StartAddress, err.Bounds.Range().End())
}

// ErrDuplicateSlot means there are two main slots for the same coordinates.
type ErrDuplicateSlot struct {
	Bounds module.Bounds
}

func (err *ErrDuplicateSlot) Error() string {
	return fmt.Sprintf("duplicate main slot for %s/%d (mcu %s)",
		err.Bounds.Function, err.Bounds.Index, err.Bounds.MCUTarget)
}

// ErrOverlap means two slots share flash.
type ErrOverlap struct {
	First  module.Bounds
	Second module.Bounds
}

func (err *ErrOverlap) Error() string {
	return fmt.Sprintf("slots %s and %s overlap", err.First, err.Second)
}

// ErrUnknownPlatform means there is no default layout for the platform.
type ErrUnknownPlatform struct {
	PlatformID platform.ID
}

func (err *ErrUnknownPlatform) Error() string {
	return fmt.Sprintf("no default layout for platform %s", err.PlatformID)
}
