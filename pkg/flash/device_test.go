// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
)

const (
	internalBase = 0x00000000
	internalSize = 0x00100000
	externalBase = 0x12000000
	externalSize = 0x00400000
)

func newTestDevice(t *testing.T) *Device {
	d := NewDevice()
	require.NoError(t, d.MapErased(Internal, internalBase, internalSize))
	require.NoError(t, d.MapErased(External, externalBase, externalSize))
	return d
}

func TestMapOverlap(t *testing.T) {
	d := newTestDevice(t)
	err := d.MapErased(Internal, internalSize-0x10, 0x20)
	var target *ErrOverlap
	require.True(t, errors.As(err, &target))
	assert.Equal(t, uint32(internalBase), target.Existing.Address)

	assert.Error(t, d.MapErased(Internal, 0xfffff000, 0x2000))
}

func TestReadAt(t *testing.T) {
	d := newTestDevice(t)
	require.NoError(t, d.Program(0x30000, []byte{1, 2, 3, 4}))

	b, err := d.ReadAt(Internal, 0x30000, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0xff, 0xff}, b)

	t.Run("returns_a_copy", func(t *testing.T) {
		b[0] = 0x55
		again, err := d.ReadAt(Internal, 0x30000, 1)
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, again)
	})
	t.Run("unmapped", func(t *testing.T) {
		_, err := d.ReadAt(Internal, 0x20000000, 4)
		var target *ErrNotMapped
		require.True(t, errors.As(err, &target))
		assert.Equal(t, uint32(0x20000000), target.Address)
	})
	t.Run("crosses_window_end", func(t *testing.T) {
		_, err := d.ReadAt(Internal, internalSize-2, 4)
		assert.Error(t, err)
	})
	t.Run("external_through_xip", func(t *testing.T) {
		b, err := d.ReadAt(Internal, externalBase, 2)
		require.NoError(t, err)
		assert.True(t, bytes.IsErased(b))
	})
	t.Run("external_only", func(t *testing.T) {
		_, err := d.ReadAt(External, 0x30000, 2)
		assert.Error(t, err)
	})
}

func TestProgramIsNOR(t *testing.T) {
	d := newTestDevice(t)
	require.NoError(t, d.Program(0x100, []byte{0xf0}))
	require.NoError(t, d.Program(0x100, []byte{0x3c}))
	b, err := d.ReadAt(Internal, 0x100, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30}, b)

	require.NoError(t, d.Erase(0x100, 1))
	b, err = d.ReadAt(Internal, 0x100, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, b)
}

func TestVerifyCRC32(t *testing.T) {
	d := newTestDevice(t)
	payload := []byte("module payload")
	crc := make([]byte, CRCSize)
	binary.BigEndian.PutUint32(crc, crc32.ChecksumIEEE(payload))

	const address = externalBase + 0x1000
	require.NoError(t, d.Program(address, append(append([]byte{}, payload...), crc...)))
	assert.True(t, d.VerifyCRC32(Internal, address, uint32(len(payload))))
	assert.True(t, d.VerifyCRC32(External, address, uint32(len(payload))))

	t.Run("corrupted", func(t *testing.T) {
		require.NoError(t, d.Program(address, []byte{0x00}))
		assert.False(t, d.VerifyCRC32(Internal, address, uint32(len(payload))))
	})
	t.Run("out_of_window", func(t *testing.T) {
		assert.False(t, d.VerifyCRC32(Internal, internalSize-8, 8))
		assert.False(t, d.VerifyCRC32(Internal, 0, 0xfffffffe))
	})
}

func TestConcurrentReads(t *testing.T) {
	d := newTestDevice(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = d.Program(uint32(0x1000+i), []byte{0})
				return
			}
			_, err := d.ReadAt(Internal, 0x1000, 16)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
