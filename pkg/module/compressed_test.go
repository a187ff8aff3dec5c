// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniovazquezblanco/device-os/pkg/compression"
)

func TestCompressedPayload(t *testing.T) {
	d, v := newTestValidator(t)
	original := bytes.Repeat([]byte("system firmware "), 0x400)
	payload, err := Compress(original, compression.MethodDeflate)
	require.NoError(t, err)

	img := userImage(t)
	img.Info.Flags = FlagCompressed
	img.Payload = payload
	require.NoError(t, img.Seal())
	program(t, d, userBounds.StartAddress, img)

	m, found := v.Fetch(userBounds, false, NewChecks(CheckIntegrity))
	require.True(t, found)
	assert.True(t, m.Validity.Valid(m.Validity.Checked()))

	b, err := v.Locator.Payload(userBounds, m.Info, m.InfoOffset)
	require.NoError(t, err)
	assert.Equal(t, payload, b)

	data, hdr, err := Decompress(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(len(original)), hdr.OriginalSize)
	assert.Equal(t, uint16(CompressedHeaderSize), hdr.Size)
	assert.True(t, bytes.Equal(original, data))
}

func TestDecompressErrors(t *testing.T) {
	payload, err := Compress([]byte("user firmware"), compression.MethodDeflate)
	require.NoError(t, err)

	_, _, err = Decompress(payload[:CompressedHeaderSize-1])
	var errShort *ErrShortBuffer
	assert.True(t, errors.As(err, &errShort))

	unknown := append([]byte(nil), payload...)
	unknown[2] = 9
	_, _, err = Decompress(unknown)
	var errUnknown *ErrUnknownCompression
	assert.True(t, errors.As(err, &errUnknown))

	// original size is the last header field
	wrongSize := append([]byte(nil), payload...)
	wrongSize[4]++
	_, _, err = Decompress(wrongSize)
	assert.Error(t, err)

	_, err = Compress(nil, compression.Method(9))
	assert.Error(t, err)
}

func TestPayloadTooShort(t *testing.T) {
	_, v := newTestValidator(t)
	info := &Info{StartAddress: userBounds.StartAddress, EndAddress: userBounds.StartAddress + InfoSize}
	_, err := v.Locator.Payload(userBounds, info, 0)
	assert.Error(t, err)
}
