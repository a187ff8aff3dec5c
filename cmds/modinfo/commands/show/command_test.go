// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands"
	"github.com/antoniovazquezblanco/device-os/pkg/compression"
	"github.com/antoniovazquezblanco/device-os/pkg/flash"
	"github.com/antoniovazquezblanco/device-os/pkg/layout"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

func TestInflate(t *testing.T) {
	table, err := layout.Default(platform.Xenon)
	require.NoError(t, err)
	b, ok := table.FindBounds(module.FunctionUserPart, 1, platform.MCUPrimary)
	require.True(t, ok)

	original := bytes.Repeat([]byte{0xaa, 0x55}, 0x2000)
	payload, err := module.Compress(original, compression.MethodDeflate)
	require.NoError(t, err)
	img := &module.Image{
		Info: module.Info{
			StartAddress: b.StartAddress,
			Flags:        module.FlagCompressed,
			PlatformID:   platform.Xenon,
			Function:     module.FunctionUserPart,
			Index:        1,
		},
		Payload: payload,
	}
	require.NoError(t, img.Seal())
	raw, err := img.Bytes()
	require.NoError(t, err)

	d := flash.NewDevice()
	require.NoError(t, d.MapErased(flash.Internal, layout.InternalFlashBase, layout.InternalFlashSize))
	require.NoError(t, d.Program(b.StartAddress, raw))

	l := located{Bounds: b, Info: &img.Info}
	hdr, errString := inflate(module.NewLocator(d), l)
	assert.Empty(t, errString)
	require.NotNil(t, hdr)
	assert.Equal(t, uint32(len(original)), hdr.OriginalSize)

	// damage the compressed stream
	require.NoError(t, d.Program(b.StartAddress+module.InfoSize+module.CompressedHeaderSize, []byte{0x00, 0x00}))
	_, errString = inflate(module.NewLocator(d), l)
	assert.NotEmpty(t, errString)
}

func TestExecute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "internal.bin")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xff}, layout.InternalFlashSize), 0o644))

	cmd := &Command{Inflate: true, All: true}
	cmd.Platform = "xenon"
	cmd.Internal = path
	require.NoError(t, cmd.Execute(nil))

	format := "xml"
	cmd.Format = &format
	assert.True(t, errors.As(cmd.Execute(nil), &commands.ErrArgs{}))
}
