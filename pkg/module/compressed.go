// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/compression"
	"github.com/antoniovazquezblanco/device-os/pkg/flash"
)

// CompressedHeaderSize is the size of the header which starts the payload
// of a module flagged FlagCompressed.
const CompressedHeaderSize = 8

// CompressedHeader describes the compressed payload following it.
type CompressedHeader struct {
	// Size is the size of this header.
	Size         uint16
	Method       compression.Method
	WindowBits   uint8
	OriginalSize uint32
}

// NewCompressedHeader decodes a compressed payload header from b.
func NewCompressedHeader(b []byte) (*CompressedHeader, error) {
	if len(b) < CompressedHeaderSize {
		return nil, &ErrShortBuffer{What: "compressed header", Length: len(b), Expected: CompressedHeaderSize}
	}
	var hdr CompressedHeader
	if err := binary.Read(bytes.NewReader(b[:CompressedHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("unable to parse compressed header: %w", err)
	}
	if hdr.Size < CompressedHeaderSize || int(hdr.Size) > len(b) {
		return nil, fmt.Errorf("invalid compressed header size %d", hdr.Size)
	}
	return &hdr, nil
}

// Decompress decodes a compressed payload: a CompressedHeader followed by
// the compressed data.
func Decompress(payload []byte) ([]byte, *CompressedHeader, error) {
	hdr, err := NewCompressedHeader(payload)
	if err != nil {
		return nil, nil, err
	}
	c := compression.CompressorFromMethod(hdr.Method, hdr.WindowBits)
	if c == nil {
		return nil, hdr, &ErrUnknownCompression{Method: hdr.Method, WindowBits: hdr.WindowBits}
	}
	data, err := c.Decode(payload[hdr.Size:])
	if err != nil {
		return nil, hdr, err
	}
	if uint64(len(data)) != uint64(hdr.OriginalSize) {
		return nil, hdr, fmt.Errorf("decompressed %d bytes, header declares %d", len(data), hdr.OriginalSize)
	}
	return data, hdr, nil
}

// Compress returns data compressed with the method, prefixed with its
// CompressedHeader.
func Compress(data []byte, method compression.Method) ([]byte, error) {
	hdr := CompressedHeader{
		Size:         CompressedHeaderSize,
		Method:       method,
		WindowBits:   compression.MaxWindowBits,
		OriginalSize: uint32(len(data)),
	}
	c := compression.CompressorFromMethod(hdr.Method, hdr.WindowBits)
	if c == nil {
		return nil, &ErrUnknownCompression{Method: hdr.Method, WindowBits: hdr.WindowBits}
	}
	encoded, err := c.Encode(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, &hdr)
	buf.Write(encoded)
	return buf.Bytes(), nil
}

// Payload returns the bytes between the module info header and the suffix
// of the module at bounds, as declared by info.
func (l *Locator) Payload(bounds Bounds, info *Info, offset uint32) ([]byte, error) {
	start := uint64(offset) + InfoSize
	end := uint64(info.Length())
	if end < start+SuffixSize {
		return nil, fmt.Errorf("module of %d bytes has no payload", end)
	}
	end -= SuffixSize
	if uint64(bounds.StartAddress)+end > uint64(1)<<32 {
		return nil, fmt.Errorf("module at 0x%x does not fit into the address space", bounds.StartAddress)
	}
	return l.Flash.ReadAt(flash.Internal, bounds.StartAddress+uint32(start), uint32(end-start))
}
