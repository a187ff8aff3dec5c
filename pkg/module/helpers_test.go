// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antoniovazquezblanco/device-os/pkg/flash"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

const (
	internalBase = 0x08000000
	internalSize = 0x00100000
	externalBase = 0x12000000
	externalSize = 0x00100000
)

var (
	systemBounds = Bounds{
		MaximumSize:  0x20000,
		StartAddress: 0x08000000,
		EndAddress:   0x0801ffff,
		Function:     FunctionSystemPart,
		Index:        1,
		Store:        StoreMain,
	}
	userBounds = Bounds{
		MaximumSize:  0x20000,
		StartAddress: 0x08020000,
		EndAddress:   0x0803ffff,
		Function:     FunctionUserPart,
		Index:        0,
		Store:        StoreMain,
	}
	scratchpadBounds = Bounds{
		MaximumSize:  0x40000,
		StartAddress: externalBase,
		EndAddress:   externalBase + 0x40000,
		Function:     FunctionNone,
		Store:        StoreScratchpad,
		Location:     LocationExternalFlash,
	}
)

type testTable []Bounds

func (table testTable) FindBounds(fn Function, index uint8, mcu platform.MCU) (Bounds, bool) {
	for _, b := range table {
		if b.Matches(fn, index, mcu) {
			return b, true
		}
	}
	return Bounds{}, false
}

var acceptDependencies = DependencyValidatorFunc(func(Bounds, bool, bool) bool { return true })

func newTestDevice(t *testing.T) *flash.Device {
	d := flash.NewDevice()
	require.NoError(t, d.MapErased(flash.Internal, internalBase, internalSize))
	require.NoError(t, d.MapErased(flash.External, externalBase, externalSize))
	return d
}

func newTestValidator(t *testing.T) (*flash.Device, *Validator) {
	d := newTestDevice(t)
	v := NewValidator(d, testTable{systemBounds, userBounds, scratchpadBounds}, acceptDependencies)
	v.PlatformID = platform.Argon
	return d, v
}

// userImage returns a sealed user part for the user slot ending at 0x08030000.
func userImage(t *testing.T) *Image {
	img := &Image{
		Info: Info{
			StartAddress: userBounds.StartAddress,
			Version:      6,
			PlatformID:   platform.Argon,
			Function:     FunctionUserPart,
			Dependency:   Dependency{Function: FunctionSystemPart, Index: 1, Version: 3000},
		},
		Payload: make([]byte, 0x10000-InfoSize-SuffixSize),
	}
	for i := range img.Payload {
		img.Payload[i] = byte(i)
	}
	require.NoError(t, img.Seal())
	require.Equal(t, uint32(0x08030000), img.Info.EndAddress)
	return img
}

func program(t *testing.T, d *flash.Device, address uint32, img *Image) {
	b, err := img.Bytes()
	require.NoError(t, err)
	require.NoError(t, d.Program(address, b))
}
