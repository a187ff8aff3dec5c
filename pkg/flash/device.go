// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flash implements a flash device made of memory-mapped windows.
//
// Both internal flash and external flash are accessed by address, the way a
// MCU accesses external flash mapped into its address space for
// execute-in-place (XIP).
package flash

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sort"
	"sync"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/check"
)

// Storage selects the flash device an address refers to.
type Storage uint8

const (
	// Internal is the MCU address space. External flash mapped for XIP is
	// reachable through it as well.
	Internal Storage = iota
	// External is the external flash only.
	External
)

func (s Storage) String() string {
	switch s {
	case Internal:
		return "internal"
	case External:
		return "external"
	}
	return fmt.Sprintf("storage(%d)", uint8(s))
}

// CRCSize is the size of the CRC-32 stored after a CRC-protected area.
const CRCSize = 4

type window struct {
	storage Storage
	base    uint32
	data    []byte
}

func (w *window) Range() bytes.Range {
	return bytes.Range{Address: w.base, Length: uint32(len(w.data))}
}

// Device is a set of non-overlapping mapped flash windows.
//
// Reads copy the requested bytes out under a read lock, so a caller always
// observes a consistent snapshot even while another goroutine programs or
// erases the device.
type Device struct {
	locker  sync.RWMutex
	windows []*window
}

// NewDevice returns a Device with no mapped windows.
func NewDevice() *Device {
	return &Device{}
}

// Map maps a copy of data at address base.
func (d *Device) Map(storage Storage, base uint32, data []byte) error {
	r := bytes.Range{Address: base, Length: uint32(len(data))}
	if uint64(len(data)) != uint64(r.Length) || r.End() > uint64(1)<<32 {
		return fmt.Errorf("window %s does not fit into the address space", r)
	}

	d.locker.Lock()
	defer d.locker.Unlock()
	for _, w := range d.windows {
		if w.Range().Intersect(r) {
			return &ErrOverlap{Range: r, Existing: w.Range()}
		}
	}
	d.windows = append(d.windows, &window{
		storage: storage,
		base:    base,
		data:    append([]byte(nil), data...),
	})
	sort.Slice(d.windows, func(i, j int) bool {
		return d.windows[i].base < d.windows[j].base
	})
	return nil
}

// MapErased maps size bytes of erased flash at address base.
func (d *Device) MapErased(storage Storage, base, size uint32) error {
	data := make([]byte, size)
	for i := range data {
		data[i] = bytes.ErasedByte
	}
	return d.Map(storage, base, data)
}

// Windows returns the mapped address ranges of the storage.
func (d *Device) Windows(storage Storage) []bytes.Range {
	d.locker.RLock()
	defer d.locker.RUnlock()
	var result []bytes.Range
	for _, w := range d.windows {
		if d.visible(w, storage) {
			result = append(result, w.Range())
		}
	}
	return result
}

func (d *Device) visible(w *window, storage Storage) bool {
	return storage == Internal || w.storage == storage
}

// find returns the window containing address; callers hold the lock.
func (d *Device) find(storage Storage, address uint32) (*window, error) {
	for _, w := range d.windows {
		if d.visible(w, storage) && w.Range().Contains(address) {
			return w, nil
		}
	}
	return nil, &ErrNotMapped{Storage: storage, Address: address}
}

// span returns the slice of window memory backing [address, address+length).
func (d *Device) span(storage Storage, address, length uint32) ([]byte, error) {
	w, err := d.find(storage, address)
	if err != nil {
		return nil, err
	}
	r := bytes.Range{Address: address, Length: length}
	if err := check.AddressRange(w.Range(), r); err != nil {
		return nil, fmt.Errorf("invalid range %s in %s flash: %w", r, storage, err)
	}
	offset := address - w.base
	return w.data[offset : offset+length], nil
}

// ReadAt returns a copy of length bytes at address.
func (d *Device) ReadAt(storage Storage, address, length uint32) ([]byte, error) {
	d.locker.RLock()
	defer d.locker.RUnlock()

	b, err := d.span(storage, address, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// Program writes data at address with NOR flash semantics: bits may only be
// cleared, so the area is expected to be erased beforehand.
func (d *Device) Program(address uint32, data []byte) error {
	d.locker.Lock()
	defer d.locker.Unlock()

	b, err := d.span(Internal, address, uint32(len(data)))
	if err != nil {
		return fmt.Errorf("unable to program %d bytes at 0x%x: %w", len(data), address, err)
	}
	for i, v := range data {
		b[i] &= v
	}
	return nil
}

// Erase sets length bytes at address to the erased value.
func (d *Device) Erase(address, length uint32) error {
	d.locker.Lock()
	defer d.locker.Unlock()

	b, err := d.span(Internal, address, length)
	if err != nil {
		return fmt.Errorf("unable to erase %d bytes at 0x%x: %w", length, address, err)
	}
	for i := range b {
		b[i] = bytes.ErasedByte
	}
	return nil
}

// VerifyCRC32 returns true if the CRC-32 (IEEE) of length bytes at address
// equals the big endian value stored right after them.
func (d *Device) VerifyCRC32(storage Storage, address, length uint32) bool {
	if uint64(length)+CRCSize > uint64(^uint32(0)) {
		return false
	}
	d.locker.RLock()
	defer d.locker.RUnlock()

	b, err := d.span(storage, address, length+CRCSize)
	if err != nil {
		return false
	}
	expected := binary.BigEndian.Uint32(b[length:])
	return crc32.ChecksumIEEE(b[:length]) == expected
}
