// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout describes the flash slots modules are expected to reside
// in.
package layout

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/check"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// Table is a partition layout: the list of slots of a device.
//
// A Table is never modified once built, so it is safe for concurrent use.
type Table []module.Bounds

var _ module.BoundsResolver = Table(nil)

// FindBounds returns the Main store slot for the coordinates.
func (t Table) FindBounds(fn module.Function, index uint8, mcu platform.MCU) (module.Bounds, bool) {
	for _, b := range t {
		if b.Matches(fn, index, mcu) {
			return b, true
		}
	}
	return module.Bounds{}, false
}

// Store returns the slots of the store, in table order.
func (t Table) Store(store module.Store) Table {
	var result Table
	for _, b := range t {
		if b.Store == store {
			result = append(result, b)
		}
	}
	return result
}

// Ranges returns the flash occupied by each slot.
func (t Table) Ranges() bytes.Ranges {
	result := make(bytes.Ranges, 0, len(t))
	for _, b := range t {
		result = append(result, b.Range())
	}
	return result
}

// addressSpaceEnd is the exclusive end of the 32-bit address space.
const addressSpaceEnd = uint64(1) << 32

// Validate checks the table is consistent:
// * every slot fits into the address space;
// * the end address of every slot is within the slot;
// * slots do not overlap;
// * there is at most one Main slot per coordinates.
func (t Table) Validate() error {
	var result *multierror.Error
	for idx, b := range t {
		if b.MaximumSize == 0 {
			result = multierror.Append(result, &ErrEmptySlot{Bounds: b})
			continue
		}
		end := b.Range().End()
		if end > addressSpaceEnd {
			result = multierror.Append(result, fmt.Errorf("slot %s: %w", b, &check.ErrAddressOverflow{Range: b.Range()}))
			continue
		}
		if b.EndAddress < b.StartAddress || uint64(b.EndAddress) > end {
			result = multierror.Append(result, &ErrEndOutsideSlot{Bounds: b})
		}
		if b.Store != module.StoreMain {
			continue
		}
		for _, other := range t[:idx] {
			if other.Matches(b.Function, b.Index, b.MCUTarget) {
				result = multierror.Append(result, &ErrDuplicateSlot{Bounds: b})
				break
			}
		}
	}
	for _, pair := range t.Ranges().Overlaps() {
		result = multierror.Append(result, &ErrOverlap{First: t[pair[0]], Second: t[pair[1]]})
	}
	return result.ErrorOrNil()
}

// Render writes the table as text to w.
func (t Table) Render(w io.Writer, title string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if title != "" {
		tw.SetTitle("%s", title)
	}
	tw.AppendHeader(table.Row{"Function", "Index", "MCU", "Store", "Location", "Start", "End", "Size"})
	for _, b := range t {
		size := fmt.Sprintf("0x%x (%s)", b.MaximumSize, humanize.IBytes(uint64(b.MaximumSize)))
		tw.AppendRow(table.Row{
			b.Function, b.Index, b.MCUTarget, b.Store, b.Location,
			fmt.Sprintf("0x%08x", b.StartAddress),
			fmt.Sprintf("0x%08x", b.EndAddress),
			size,
		})
	}
	tw.Render()
}
