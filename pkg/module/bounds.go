// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"
	"strings"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// Store is the purpose of a flash slot.
type Store uint8

// Known stores.
const (
	StoreMain Store = iota
	StoreFactory
	StoreBackup
	StoreScratchpad
)

var storeNames = map[Store]string{
	StoreMain:       "main",
	StoreFactory:    "factory",
	StoreBackup:     "backup",
	StoreScratchpad: "scratchpad",
}

func (s Store) String() string {
	if name, ok := storeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("store(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Store) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Store) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for store, storeName := range storeNames {
		if storeName == name {
			*s = store
			return nil
		}
	}
	return fmt.Errorf("unknown store '%s'", name)
}

// Location is the flash device a slot lives in.
type Location uint8

// Known locations.
const (
	LocationInternalFlash Location = iota
	LocationExternalFlash
)

func (l Location) String() string {
	switch l {
	case LocationInternalFlash:
		return "internal"
	case LocationExternalFlash:
		return "external"
	}
	return fmt.Sprintf("location(%d)", uint8(l))
}

// MarshalText implements encoding.TextMarshaler
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Location) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "internal":
		*l = LocationInternalFlash
	case "external":
		*l = LocationExternalFlash
	default:
		return fmt.Errorf("unknown location '%s'", b)
	}
	return nil
}

// Bounds describes a slot of flash where a module of a given role may
// reside.
type Bounds struct {
	MaximumSize  uint32
	StartAddress uint32
	// EndAddress is the highest value the end address of a module
	// (Info.EndAddress) may take in this slot.
	EndAddress uint32
	Function   Function
	Index      uint8
	Store      Store
	MCUTarget  platform.MCU
	Location   Location
}

// Range returns the flash occupied by the slot.
func (b Bounds) Range() bytes.Range {
	return bytes.Range{Address: b.StartAddress, Length: b.MaximumSize}
}

// Matches returns true if the slot is the main slot for the coordinates.
func (b Bounds) Matches(fn Function, index uint8, mcu platform.MCU) bool {
	return b.Store == StoreMain && b.Function == fn && b.Index == index && b.MCUTarget == mcu
}

func (b Bounds) String() string {
	return fmt.Sprintf("%s/%d@%s[0x%08x-0x%08x]", b.Function, b.Index, b.Store, b.StartAddress, b.EndAddress)
}
