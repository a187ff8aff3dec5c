// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

// ErasedByte is the value NOR flash cells read back as after an erase.
const ErasedByte = 0xff

// IsFilled returns true if b consists of value only.
func IsFilled(b []byte, value byte) bool {
	for _, v := range b {
		if v != value {
			return false
		}
	}
	return true
}

// IsErased returns true if b looks like erased flash.
func IsErased(b []byte) bool {
	return IsFilled(b, ErasedByte)
}
