// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"encoding/binary"

	"github.com/antoniovazquezblanco/device-os/pkg/flash"
)

// Flash is the flash access a Locator and a Validator need.
type Flash interface {
	// ReadAt returns a copy of length bytes at address.
	ReadAt(storage flash.Storage, address, length uint32) ([]byte, error)

	// VerifyCRC32 returns true if the CRC-32 of length bytes at address
	// equals the big endian value stored right after them.
	VerifyCRC32(storage flash.Storage, address, length uint32) bool
}

var _ Flash = (*flash.Device)(nil)

// Defaults of the nRF52840 module layout.
const (
	DefaultVectorTableSize  = 0x200
	DefaultStackPointerMask = 0x2ff00000
	DefaultRAMBase          = 0x20000000
)

// Locator finds module info headers in flash. It never validates them.
//
// Modules which start with an interrupt vector table carry their info
// header right after it. Such a module is recognized by its first word:
// the initial stack pointer, which points into RAM.
type Locator struct {
	Flash Flash

	// VectorTableSize is the offset of the info header in modules starting
	// with a vector table.
	VectorTableSize uint32

	// StackPointerMask and RAMBase recognize an initial stack pointer:
	// word & StackPointerMask == RAMBase.
	StackPointerMask uint32
	RAMBase          uint32
}

// NewLocator returns a Locator with the default nRF52840 layout.
func NewLocator(f Flash) *Locator {
	return &Locator{
		Flash:            f,
		VectorTableSize:  DefaultVectorTableSize,
		StackPointerMask: DefaultStackPointerMask,
		RAMBase:          DefaultRAMBase,
	}
}

// Locate returns the module info found at the start of the bounds.
//
// No validation is done so the returned data should not be trusted. It is
// nil only if the flash there cannot be read at all.
func (l *Locator) Locate(bounds Bounds) *Info {
	info, _ := l.LocateWithOffset(bounds)
	return info
}

// LocateWithOffset is the same as Locate, but also returns the offset of
// the header within the bounds.
func (l *Locator) LocateWithOffset(bounds Bounds) (*Info, uint32) {
	// Always through flash.Internal: external flash is mapped for XIP.
	offset := uint32(0)
	word, err := l.Flash.ReadAt(flash.Internal, bounds.StartAddress, 4)
	if err != nil {
		return nil, 0
	}
	if binary.LittleEndian.Uint32(word)&l.StackPointerMask == l.RAMBase {
		offset = l.VectorTableSize
	}

	address := uint64(bounds.StartAddress) + uint64(offset)
	if address+InfoSize > uint64(1)<<32 {
		return nil, 0
	}
	b, err := l.Flash.ReadAt(flash.Internal, uint32(address), InfoSize)
	if err != nil {
		return nil, 0
	}
	info, err := NewInfo(b)
	if err != nil {
		return nil, 0
	}
	return info, offset
}
