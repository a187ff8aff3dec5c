// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform defines device platform and MCU identifiers.
package platform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ID identifies the hardware platform a module was compiled for.
type ID uint16

// Known platforms. All the other values are reserved.
const (
	Unknown  ID = 0
	GCC      ID = 3
	Photon   ID = 6
	P1       ID = 8
	Electron ID = 10
	Argon    ID = 12
	Boron    ID = 13
	Xenon    ID = 14
	ESOMX    ID = 15
	ASOM     ID = 22
	BSOM     ID = 23
	XSOM     ID = 24
	B5SOM    ID = 25
	Tracker  ID = 26
	TrackerM ID = 28
	P2       ID = 32
	MSOM     ID = 35
)

var idNames = map[ID]string{
	GCC:      "gcc",
	Photon:   "photon",
	P1:       "p1",
	Electron: "electron",
	Argon:    "argon",
	Boron:    "boron",
	Xenon:    "xenon",
	ESOMX:    "esomx",
	ASOM:     "asom",
	BSOM:     "bsom",
	XSOM:     "xsom",
	B5SOM:    "b5som",
	Tracker:  "tracker",
	TrackerM: "trackerm",
	P2:       "p2",
	MSOM:     "msom",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("platform(%d)", uint16(id))
}

// MarshalJSON just implements encoding/json.Marshaler
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint16(id))
}

// ParseID parses either a platform name ("boron") or a numeric identifier.
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for id, name := range idNames {
		if name == s {
			return id, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return Unknown, fmt.Errorf("unknown platform '%s' (known: %s)", s, strings.Join(Names(), ", "))
	}
	return ID(v), nil
}

// Names returns the names of the known platforms in alphabetical order.
func Names() []string {
	result := make([]string, 0, len(idNames))
	for _, name := range idNames {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// RunningName is the platform this build runs on. It is the equivalent of a
// compile-time constant and may be set with
//
//	-ldflags "-X github.com/antoniovazquezblanco/device-os/pkg/platform.RunningName=boron"
var RunningName = "argon"

// Running returns the identifier of the platform this build runs on.
func Running() ID {
	id, err := ParseID(RunningName)
	if err != nil {
		return Unknown
	}
	return id
}

// MCU identifies which microcontroller of a device a module targets.
type MCU uint8

const (
	// MCUPrimary is the application MCU; modules with no explicit target use it.
	MCUPrimary MCU = 0
	// MCUESP32 is the network co-processor of Wi-Fi devices.
	MCUESP32 MCU = 1
)

func (mcu MCU) String() string {
	switch mcu {
	case MCUPrimary:
		return "primary"
	case MCUESP32:
		return "esp32"
	}
	return fmt.Sprintf("mcu(%d)", uint8(mcu))
}
