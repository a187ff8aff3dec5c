// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"

	"github.com/antoniovazquezblanco/device-os/pkg/flash"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
)

// rawImage is a module image file mapped at the address it is linked at.
type rawImage struct {
	device  *flash.Device
	address uint32
	info    *module.Info
	data    []byte
}

// load maps data at address, or at the start address its header declares
// if address is 0, and locates the module header.
func load(data []byte, address uint32) (*rawImage, error) {
	if address == 0 {
		probe, err := locate(data, 0)
		if err != nil {
			return nil, err
		}
		address = probe.info.StartAddress
		log.Debugf("using the header start address 0x%08x", address)
	}
	return locate(data, address)
}

func locate(data []byte, address uint32) (*rawImage, error) {
	d := flash.NewDevice()
	if err := d.Map(flash.Internal, address, data); err != nil {
		return nil, fmt.Errorf("unable to map the image at 0x%08x: %w", address, err)
	}
	bounds := module.Bounds{StartAddress: address, MaximumSize: uint32(len(data))}
	info, offset := module.NewLocator(d).LocateWithOffset(bounds)
	if info == nil {
		return nil, fmt.Errorf("no module info header in a %d bytes image", len(data))
	}
	log.Debugf("module info header at +%#x", offset)
	if info.StartAddress != address && address != 0 {
		log.Warnf("the image is mapped at 0x%08x but declares 0x%08x", address, info.StartAddress)
	}
	return &rawImage{device: d, address: address, info: info, data: data}, nil
}

// length returns the module length the header declares, checked against
// the image.
func (img *rawImage) length() (uint32, error) {
	length := img.info.Length()
	if length < module.InfoSize+module.SuffixSize {
		return 0, fmt.Errorf("declared module length %d is too short", length)
	}
	if uint64(length) > uint64(len(img.data)) {
		return 0, fmt.Errorf("declared module length %d exceeds the image size %d", length, len(img.data))
	}
	return length, nil
}

// seal returns the module with the suffix size and SHA-256 set and the CRC
// appended. Bytes past the declared end are dropped.
func (img *rawImage) seal() ([]byte, error) {
	length, err := img.length()
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, length)
	copy(sealed, img.data)

	suffix, err := module.NewSuffix(sealed[length-module.SuffixSize:])
	if err != nil {
		return nil, err
	}
	suffix.Size = module.SuffixSize
	suffix.SHA = sha256.Sum256(sealed[:length-module.SuffixSize])

	w := bytesextra.NewReadWriteSeeker(sealed)
	if _, err := w.Seek(-module.SuffixSize, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("unable to seek to the suffix: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, suffix); err != nil {
		return nil, fmt.Errorf("unable to write the suffix: %w", err)
	}
	return module.AppendCRC(sealed), nil
}

// verify checks the suffix and the CRC of a sealed module.
func (img *rawImage) verify() error {
	length, err := img.length()
	if err != nil {
		return err
	}
	if uint64(length)+module.CRCSize > uint64(len(img.data)) {
		return fmt.Errorf("the image has no CRC")
	}
	suffix, err := module.NewSuffix(img.data[length-module.SuffixSize:])
	if err != nil {
		return err
	}
	if suffix.Size != module.SuffixSize {
		return fmt.Errorf("unexpected suffix size %d, want %d", suffix.Size, module.SuffixSize)
	}
	if sha := module.SHA256(sha256.Sum256(img.data[:length-module.SuffixSize])); sha != suffix.SHA {
		return fmt.Errorf("SHA-256 mismatch: computed %s, stored %s", sha, suffix.SHA)
	}
	if !img.device.VerifyCRC32(flash.Internal, img.address, length) {
		return fmt.Errorf("CRC mismatch: stored %s", img.crc())
	}
	return nil
}

// crc returns the stored CRC.
func (img *rawImage) crc() module.CRC {
	b, err := img.device.ReadAt(flash.Internal, img.address+img.info.Length(), module.CRCSize)
	if err != nil {
		return module.CRC{}
	}
	crc, err := module.NewCRC(b)
	if err != nil {
		return module.CRC{}
	}
	return *crc
}
