// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"github.com/antoniovazquezblanco/device-os/pkg/module"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// nRF52840 flash map. The external QSPI flash is mapped for XIP at
// ExternalFlashBase.
const (
	InternalFlashBase = 0x00000000
	InternalFlashSize = 0x00100000
	ExternalFlashBase = 0x12000000
	ExternalFlashSize = 0x00800000

	radioStackAddress = 0x00001000
	systemPartAddress = 0x00030000
	bootloaderAddress = 0x000f4000

	// external flash offsets
	factoryOffset    = 0x00200000
	scratchpadOffset = 0x00289000
	scratchpadSize   = 0x000ff000
	ncpOffset        = 0x00400000
	ncpSize          = 0x00180000
)

// slot returns the bounds of a slot of size bytes at start. Modules may
// end exactly at the end of their slot.
func slot(fn module.Function, index uint8, store module.Store, location module.Location, start, size uint32) module.Bounds {
	return module.Bounds{
		MaximumSize:  size,
		StartAddress: start,
		EndAddress:   start + size,
		Function:     fn,
		Index:        index,
		Store:        store,
		MCUTarget:    platform.MCUPrimary,
		Location:     location,
	}
}

// nrf52840 returns the layout shared by all nRF52840 platforms, with a
// user part of userPartSize bytes placed right below the bootloader.
func nrf52840(userPartSize uint32) Table {
	userPartAddress := uint32(bootloaderAddress) - userPartSize
	internal := module.LocationInternalFlash
	external := module.LocationExternalFlash
	return Table{
		slot(module.FunctionRadioStack, 0, module.StoreMain, internal, radioStackAddress, systemPartAddress-radioStackAddress),
		slot(module.FunctionSystemPart, 1, module.StoreMain, internal, systemPartAddress, userPartAddress-systemPartAddress),
		slot(module.FunctionUserPart, 1, module.StoreMain, internal, userPartAddress, userPartSize),
		slot(module.FunctionBootloader, 0, module.StoreMain, internal, bootloaderAddress, InternalFlashSize-bootloaderAddress),
		slot(module.FunctionUserPart, 1, module.StoreFactory, external, ExternalFlashBase+factoryOffset, userPartSize),
		slot(module.FunctionNone, 0, module.StoreScratchpad, external, ExternalFlashBase+scratchpadOffset, scratchpadSize),
	}
}

// Default returns the default layout of the platform.
func Default(id platform.ID) (Table, error) {
	switch id {
	case platform.Argon, platform.Boron, platform.Xenon,
		platform.ASOM, platform.BSOM, platform.XSOM:
		return nrf52840(0x20000), nil
	case platform.B5SOM, platform.ESOMX:
		return nrf52840(0x40000), nil
	case platform.Tracker:
		t := nrf52840(0x40000)
		// the Wi-Fi co-processor firmware is kept in external flash
		ncp := slot(module.FunctionNCPFirmware, 0, module.StoreMain, module.LocationExternalFlash, ExternalFlashBase+ncpOffset, ncpSize)
		ncp.MCUTarget = platform.MCUESP32
		return append(t, ncp), nil
	}
	return nil, &ErrUnknownPlatform{PlatformID: id}
}
