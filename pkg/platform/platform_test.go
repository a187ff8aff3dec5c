// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("Boron")
	require.NoError(t, err)
	assert.Equal(t, Boron, id)

	id, err = ParseID("0x0c")
	require.NoError(t, err)
	assert.Equal(t, Argon, id)

	id, err = ParseID("1000")
	require.NoError(t, err)
	assert.Equal(t, "platform(1000)", id.String())

	_, err = ParseID("toaster")
	assert.Error(t, err)
}

func TestRunning(t *testing.T) {
	saved := RunningName
	defer func() { RunningName = saved }()

	assert.Equal(t, Argon, Running())
	RunningName = "tracker"
	assert.Equal(t, Tracker, Running())
	RunningName = "toaster"
	assert.Equal(t, Unknown, Running())
}

func TestMCUString(t *testing.T) {
	assert.Equal(t, "primary", MCUPrimary.String())
	assert.Equal(t, "mcu(7)", MCU(7).String())
}
