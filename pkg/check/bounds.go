// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check implements sanity checks of address ranges derived from
// untrusted data.
package check

import (
	"github.com/hashicorp/go-multierror"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
)

// AddressRange checks if the range `r` passes sanity checks against
// the window `window`:
// * window.Address <= r.Address
// * r.End() <= window.End()
// * r.End() fits into the 32-bit address space
func AddressRange(window, r bytes.Range) error {
	var result *multierror.Error
	if r.Address < window.Address {
		result = multierror.Append(result, &ErrStartBeforeWindow{Address: r.Address, WindowStart: window.Address})
	}
	if r.End() > uint64(1)<<32 {
		result = multierror.Append(result, &ErrAddressOverflow{Range: r})
	}
	if r.End() > window.End() {
		result = multierror.Append(result, &ErrEndAfterWindow{End: r.End(), WindowEnd: window.End()})
	}

	return result.ErrorOrNil()
}
