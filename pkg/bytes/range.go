// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytes implements helpers for address ranges and raw flash contents.
package bytes

import (
	"fmt"
	"sort"
)

// InRange returns true if start <= value <= end.
//
// Both ends are inclusive: module bounds tables store the address of the
// last byte of a slot, not one past it.
func InRange(value, start, end uint32) bool {
	return value >= start && value <= end
}

// Range is a span of the flash address space.
type Range struct {
	Address uint32
	Length  uint32
}

func (r Range) String() string {
	return fmt.Sprintf(`{"Address":"0x%x", "Length":"0x%x"}`, r.Address, r.Length)
}

// End returns the first address after the range. It is uint64 since a range
// may reach the top of the 32-bit address space.
func (r Range) End() uint64 {
	return uint64(r.Address) + uint64(r.Length)
}

// Contains returns true if the address belongs to the range.
func (r Range) Contains(address uint32) bool {
	// `Address` is inclusive, while `End()` is exclusive.
	return r.Address <= address && uint64(address) < r.End()
}

// Covers returns true if every byte of "cmp" belongs to "r".
func (r Range) Covers(cmp Range) bool {
	return cmp.Address >= r.Address && cmp.End() <= r.End()
}

// Intersect returns True if ranges "r" and "cmp" has at least
// one byte with the same address.
func (r Range) Intersect(cmp Range) bool {
	if r.Length == 0 || cmp.Length == 0 {
		return false
	}
	if r.End() <= uint64(cmp.Address) {
		return false
	}
	if uint64(r.Address) >= cmp.End() {
		return false
	}
	return true
}

// Ranges is a helper to manipulate multiple `Range`-s at once
type Ranges []Range

// Sort sorts the slice by field Address
func (s Ranges) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Address < s[j].Address
	})
}

// Overlaps returns the pairs of indexes of intersecting ranges.
func (s Ranges) Overlaps() [][2]int {
	var result [][2]int
	for i := range s {
		for j := i + 1; j < len(s); j++ {
			if s[i].Intersect(s[j]) {
				result = append(result, [2]int{i, j})
			}
		}
	}
	return result
}
