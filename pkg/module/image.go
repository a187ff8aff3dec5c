// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// Image composes a module exactly as it is stored in flash:
//
//	VectorTable | Info | Payload | Suffix | CRC
type Image struct {
	// VectorTable is written before the info header; its first word
	// should be the initial stack pointer.
	VectorTable []byte
	Info        Info
	Payload     []byte
	Suffix      Suffix
}

// Length returns the module length, excluding the CRC.
func (img *Image) Length() uint64 {
	return uint64(len(img.VectorTable)) + InfoSize + uint64(len(img.Payload)) + SuffixSize
}

// Seal sets the fields derived from the contents: the end address, the
// suffix size and the suffix SHA-256. Info.StartAddress must be set.
func (img *Image) Seal() error {
	length := img.Length()
	if uint64(img.Info.StartAddress)+length+CRCSize > uint64(1)<<32 {
		return &ErrImageTooLarge{StartAddress: img.Info.StartAddress, Length: length}
	}
	img.Info.EndAddress = img.Info.StartAddress + uint32(length)
	img.Suffix.Size = SuffixSize

	h := sha256.New()
	h.Write(img.VectorTable)
	h.Write(img.Info.Bytes())
	h.Write(img.Payload)
	copy(img.Suffix.SHA[:], h.Sum(nil))
	return nil
}

// Bytes returns the module followed by its CRC. The image is not sealed
// implicitly, so fixtures may carry inconsistent fields on purpose.
func (img *Image) Bytes() ([]byte, error) {
	buf := make([]byte, img.Length())
	w := bytesextra.NewReadWriteSeeker(buf)
	if _, err := w.Write(img.VectorTable); err != nil {
		return nil, fmt.Errorf("unable to write the vector table: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &img.Info); err != nil {
		return nil, fmt.Errorf("unable to write the module info: %w", err)
	}
	if _, err := w.Write(img.Payload); err != nil {
		return nil, fmt.Errorf("unable to write the payload: %w", err)
	}
	// the suffix ends exactly at the end of the module
	if _, err := w.Seek(-SuffixSize, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("unable to seek to the suffix: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &img.Suffix); err != nil {
		return nil, fmt.Errorf("unable to write the suffix: %w", err)
	}
	return AppendCRC(buf), nil
}
