// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInRange(t *testing.T) {
	const start, end = uint32(0x08020000), uint32(0x0803ffff)

	assert.True(t, InRange(start, start, end))
	assert.True(t, InRange(end, start, end))
	assert.True(t, InRange(0x08030000, start, end))
	assert.False(t, InRange(start-1, start, end))
	assert.False(t, InRange(end+1, start, end))

	t.Run("single_address", func(t *testing.T) {
		assert.True(t, InRange(5, 5, 5))
		assert.False(t, InRange(4, 5, 5))
		assert.False(t, InRange(6, 5, 5))
	})
	t.Run("inverted", func(t *testing.T) {
		assert.False(t, InRange(5, 6, 4))
	})
	t.Run("address_space_edges", func(t *testing.T) {
		assert.True(t, InRange(0, 0, 0))
		assert.True(t, InRange(math.MaxUint32, 0, math.MaxUint32))
	})
}

func TestRangeContains(t *testing.T) {
	r := Range{Address: 0x1000, Length: 0x100}
	assert.True(t, r.Contains(0x1000))
	assert.True(t, r.Contains(0x10ff))
	assert.False(t, r.Contains(0x1100))
	assert.False(t, r.Contains(0xfff))

	top := Range{Address: 0xffffff00, Length: 0x100}
	assert.Equal(t, uint64(1)<<32, top.End())
	assert.True(t, top.Contains(math.MaxUint32))
}

func TestRangeCovers(t *testing.T) {
	r := Range{Address: 0x1000, Length: 0x100}
	assert.True(t, r.Covers(Range{Address: 0x1000, Length: 0x100}))
	assert.True(t, r.Covers(Range{Address: 0x1010, Length: 0x10}))
	assert.True(t, r.Covers(Range{Address: 0x1100, Length: 0}))
	assert.False(t, r.Covers(Range{Address: 0x10f0, Length: 0x11}))
	assert.False(t, r.Covers(Range{Address: 0xff0, Length: 0x20}))
}

func TestRangeIntersect(t *testing.T) {
	a := Range{Address: 0, Length: 10}
	assert.True(t, a.Intersect(Range{Address: 9, Length: 1}))
	assert.False(t, a.Intersect(Range{Address: 10, Length: 1}))
	assert.False(t, a.Intersect(Range{Address: 5, Length: 0}))
	assert.True(t, Range{Address: 5, Length: 1}.Intersect(a))
}

func TestRangesOverlaps(t *testing.T) {
	s := Ranges{
		{Address: 0x30, Length: 0x10},
		{Address: 0x00, Length: 0x10},
		{Address: 0x38, Length: 0x10},
	}
	assert.Equal(t, [][2]int{{0, 2}}, s.Overlaps())

	s.Sort()
	assert.Equal(t, uint32(0), s[0].Address)
	assert.Equal(t, [][2]int{{1, 2}}, s.Overlaps())
}

func TestIsErased(t *testing.T) {
	assert.True(t, IsErased(nil))
	assert.True(t, IsErased([]byte{0xff, 0xff}))
	assert.False(t, IsErased([]byte{0xff, 0x00}))
	assert.True(t, IsFilled([]byte{0, 0, 0}, 0))
}
