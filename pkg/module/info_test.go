// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// a system part 1 v3000 for Argon depending on the bootloader v1000 and
// the radio stack v202
const argonSystemPart = "00000300" + "c8d40d00" + "00" + "01" + "b80b" + "0c00" + "04" + "01" + "02" + "00" + "e803" + "08" + "00" + "ca00"

func TestNewInfo(t *testing.T) {
	b, err := hex.DecodeString(argonSystemPart)
	require.NoError(t, err)
	require.Len(t, b, InfoSize)

	info, err := NewInfo(b)
	require.NoError(t, err)
	assert.Equal(t, Info{
		StartAddress: 0x00030000,
		EndAddress:   0x000dd4c8,
		MCUTarget:    platform.MCUPrimary,
		Flags:        FlagDropModuleInfo,
		Version:      3000,
		PlatformID:   platform.Argon,
		Function:     FunctionSystemPart,
		Index:        1,
		Dependency:   Dependency{Function: FunctionBootloader, Index: 0, Version: 1000},
		Dependency2:  Dependency{Function: FunctionRadioStack, Index: 0, Version: 202},
	}, *info)
	assert.Equal(t, b, info.Bytes())
	assert.Equal(t, uint32(0xad4c8), info.Length())
	assert.Equal(t, "system-part/1", info.Coordinates())

	summary := info.Summary()
	assert.Contains(t, summary, "Platform        : argon (12)")
	assert.Contains(t, summary, "Dependency      : bootloader/0 >= v1000")
	assert.Contains(t, summary, "Flags           : DROP_MODULE_INFO")
	assert.Contains(t, summary, "693 KiB")
}

func TestNewInfoShortBuffer(t *testing.T) {
	_, err := NewInfo(make([]byte, InfoSize-1))
	var errShort *ErrShortBuffer
	require.True(t, errors.As(err, &errShort))
	assert.Equal(t, InfoSize-1, errShort.Length)
	assert.Equal(t, InfoSize, errShort.Expected)
}

func TestInfoLengthInverted(t *testing.T) {
	info := Info{StartAddress: 0x1000, EndAddress: 0x0fff}
	assert.Equal(t, uint32(0), info.Length())
}

func TestFunctionText(t *testing.T) {
	var fn Function
	require.NoError(t, fn.UnmarshalText([]byte("User-Part")))
	assert.Equal(t, FunctionUserPart, fn)

	require.NoError(t, fn.UnmarshalText([]byte("function(42)")))
	assert.Equal(t, Function(42), fn)
	assert.Equal(t, "function(42)", fn.String())

	assert.Error(t, fn.UnmarshalText([]byte("kernel")))
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "0x0", Flags(0).String())
	assert.Equal(t, "COMPRESSED|COMBINED", (FlagCompressed | FlagCombined).String())
	assert.Equal(t, "DROP_MODULE_INFO|0x80", (FlagDropModuleInfo | 0x80).String())
}

func TestSuffixAndCRC(t *testing.T) {
	_, err := NewSuffix(make([]byte, SuffixSize-1))
	assert.Error(t, err)

	suffix := Suffix{Size: SuffixSize}
	suffix.SHA[0] = 0xab
	decoded, err := NewSuffix(suffix.Bytes())
	require.NoError(t, err)
	assert.Equal(t, suffix, *decoded)
	assert.Len(t, suffix.Bytes(), SuffixSize)

	// the CRC is the only big endian field
	b := AppendCRC([]byte("123456789"))
	assert.Equal(t, []byte{0xcb, 0xf4, 0x39, 0x26}, b[9:])
	crc, err := NewCRC(b[9:])
	require.NoError(t, err)
	assert.True(t, crc.Matches([]byte("123456789")))
	assert.Equal(t, "0xcbf43926", crc.String())
}
