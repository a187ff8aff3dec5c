// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module implements inspection and validation of firmware modules
// resident in flash.
//
// A module is laid out as:
//
//	[vector table (optional)] [Info] [code/data ...] [Suffix] [CRC]
//	^ Info.StartAddress                              ^ Info.EndAddress
//
// The suffix ends exactly at Info.EndAddress and the big endian CRC-32 of
// [StartAddress, EndAddress) begins exactly there.
package module

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// InfoSize is the size of the module info header on flash.
const InfoSize = 24

// Function is the role of a module.
type Function uint8

// Module functions. All the other values are reserved.
const (
	FunctionNone         Function = 0
	FunctionResource     Function = 1
	FunctionBootloader   Function = 2
	FunctionMonoFirmware Function = 3
	FunctionSystemPart   Function = 4
	FunctionUserPart     Function = 5
	FunctionSettings     Function = 6
	FunctionNCPFirmware  Function = 7
	FunctionRadioStack   Function = 8
)

var functionNames = map[Function]string{
	FunctionNone:         "none",
	FunctionResource:     "resource",
	FunctionBootloader:   "bootloader",
	FunctionMonoFirmware: "monolithic",
	FunctionSystemPart:   "system-part",
	FunctionUserPart:     "user-part",
	FunctionSettings:     "settings",
	FunctionNCPFirmware:  "ncp-firmware",
	FunctionRadioStack:   "radio-stack",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("function(%d)", uint8(f))
}

// MarshalText implements encoding.TextMarshaler
func (f Function) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Function) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for fn, name := range functionNames {
		if name == s {
			*f = fn
			return nil
		}
	}
	var v uint8
	if _, err := fmt.Sscanf(s, "function(%d)", &v); err == nil {
		*f = Function(v)
		return nil
	}
	return fmt.Errorf("unknown module function '%s'", s)
}

// Flags are the module info flags.
type Flags uint8

// Flags which can be applied to Info.Flags.
const (
	FlagDropModuleInfo Flags = 1 << iota
	FlagCompressed
	FlagCombined
)

func (flags Flags) String() string {
	names := []string{}
	m := []struct {
		val  Flags
		name string
	}{
		{FlagDropModuleInfo, "DROP_MODULE_INFO"},
		{FlagCompressed, "COMPRESSED"},
		{FlagCombined, "COMBINED"},
	}
	for _, v := range m {
		if v.val&flags != 0 {
			names = append(names, v.name)
			flags &^= v.val
		}
	}
	// Write a hex value for unknown flags.
	if flags != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("%#x", uint8(flags)))
	}
	return strings.Join(names, "|")
}

// Dependency references another module by its coordinates and the minimum
// version required.
type Dependency struct {
	Function Function
	Index    uint8
	Version  uint16
}

// IsNone returns true if the dependency slot is unused.
func (dep Dependency) IsNone() bool {
	return dep.Function == FunctionNone
}

func (dep Dependency) String() string {
	if dep.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s/%d >= v%d", dep.Function, dep.Index, dep.Version)
}

// Info is the module info header. It is decoded from untrusted flash
// contents and no field may be relied upon before validation.
type Info struct {
	// StartAddress is the first byte of the module in flash.
	StartAddress uint32
	// EndAddress is one past the last byte of the module. The CRC starts here.
	EndAddress uint32
	MCUTarget  platform.MCU
	Flags      Flags
	Version    uint16
	PlatformID platform.ID
	Function   Function
	Index      uint8

	Dependency  Dependency
	Dependency2 Dependency
}

// NewInfo decodes a module info header from b.
func NewInfo(b []byte) (*Info, error) {
	if len(b) < InfoSize {
		return nil, &ErrShortBuffer{What: "module info", Length: len(b), Expected: InfoSize}
	}
	var info Info
	if err := binary.Read(bytes.NewReader(b[:InfoSize]), binary.LittleEndian, &info); err != nil {
		return nil, fmt.Errorf("unable to parse module info: %w", err)
	}
	return &info, nil
}

// Bytes returns the on-flash representation of the header.
func (info *Info) Bytes() []byte {
	var buf bytes.Buffer
	// cannot fail: Info consists of fixed-size fields only
	_ = binary.Write(&buf, binary.LittleEndian, info)
	return buf.Bytes()
}

// Length returns the declared length of the module, excluding the CRC.
// It is zero if the declared addresses are inverted.
func (info *Info) Length() uint32 {
	if info.EndAddress < info.StartAddress {
		return 0
	}
	return info.EndAddress - info.StartAddress
}

// Coordinates returns a short "function/index" description.
func (info *Info) Coordinates() string {
	return fmt.Sprintf("%s/%d", info.Function, info.Index)
}

// Summary prints a multi-line summary of the header's content.
func (info *Info) Summary() string {
	var s strings.Builder
	fmt.Fprintf(&s, "Start Address   : %#08x\n", info.StartAddress)
	fmt.Fprintf(&s, "End Address     : %#08x\n", info.EndAddress)
	fmt.Fprintf(&s, "Length          : %#x (%s)\n", info.Length(), humanize.IBytes(uint64(info.Length())))
	fmt.Fprintf(&s, "MCU Target      : %s\n", info.MCUTarget)
	fmt.Fprintf(&s, "Flags           : %s\n", info.Flags)
	fmt.Fprintf(&s, "Version         : %d\n", info.Version)
	fmt.Fprintf(&s, "Platform        : %s (%d)\n", info.PlatformID, uint16(info.PlatformID))
	fmt.Fprintf(&s, "Function        : %s\n", info.Function)
	fmt.Fprintf(&s, "Index           : %d\n", info.Index)
	fmt.Fprintf(&s, "Dependency      : %s\n", info.Dependency)
	fmt.Fprintf(&s, "Dependency 2    : %s\n", info.Dependency2)
	return s.String()
}
