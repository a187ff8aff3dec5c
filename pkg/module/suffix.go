// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/crc32"
)

const (
	// SuffixSize is the size of the module suffix; it ends at Info.EndAddress.
	SuffixSize = 36
	// CRCSize is the size of the CRC-32 stored at Info.EndAddress.
	CRCSize = 4
)

// SHA256 is a SHA-256 digest.
type SHA256 [32]byte

func (sha SHA256) String() string {
	return hex.EncodeToString(sha[:])
}

// MarshalJSON just implements encoding/json.Marshaler
func (sha SHA256) MarshalJSON() ([]byte, error) {
	return json.Marshal(sha.String())
}

// Suffix is the trailer structure located right before Info.EndAddress.
type Suffix struct {
	Reserved uint16 `json:",omitempty"`
	// SHA is the SHA-256 of the module from its start to the suffix.
	SHA SHA256
	// Size is the size of the suffix itself.
	Size uint16
}

// NewSuffix decodes a module suffix from b.
func NewSuffix(b []byte) (*Suffix, error) {
	if len(b) < SuffixSize {
		return nil, &ErrShortBuffer{What: "module suffix", Length: len(b), Expected: SuffixSize}
	}
	var suffix Suffix
	if err := binary.Read(bytes.NewReader(b[:SuffixSize]), binary.LittleEndian, &suffix); err != nil {
		return nil, fmt.Errorf("unable to parse module suffix: %w", err)
	}
	return &suffix, nil
}

// Bytes returns the on-flash representation of the suffix.
func (suffix *Suffix) Bytes() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, suffix)
	return buf.Bytes()
}

// CRC is the CRC-32 (IEEE) of the module stored right at Info.EndAddress.
// Unlike the rest of the module metadata it is stored big endian.
type CRC struct {
	Value uint32
}

// NewCRC decodes a module CRC from b.
func NewCRC(b []byte) (*CRC, error) {
	if len(b) < CRCSize {
		return nil, &ErrShortBuffer{What: "module CRC", Length: len(b), Expected: CRCSize}
	}
	return &CRC{Value: binary.BigEndian.Uint32(b)}, nil
}

func (crc CRC) String() string {
	return fmt.Sprintf("0x%08x", crc.Value)
}

// Matches returns true if the CRC is the checksum of b.
func (crc CRC) Matches(b []byte) bool {
	return crc32.ChecksumIEEE(b) == crc.Value
}

// AppendCRC appends the CRC-32 of module to it in the on-flash format.
func AppendCRC(module []byte) []byte {
	var crc [CRCSize]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(module))
	return append(module, crc[:]...)
}
