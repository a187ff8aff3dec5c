// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"

	"github.com/antoniovazquezblanco/device-os/pkg/flash"
	"github.com/antoniovazquezblanco/device-os/pkg/layout"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// PlatformOptions selects the platform and its partition layout.
type PlatformOptions struct {
	Platform string `short:"p" long:"platform" description:"platform name or ID" default:"argon"`
	Layout   string `long:"layout" description:"path to a JSON layout, the default layout of the platform is used otherwise" value-name:"FILE"`
}

// Load returns the platform and its layout.
func (opts *PlatformOptions) Load() (platform.ID, layout.Table, error) {
	id, err := platform.ParseID(opts.Platform)
	if err != nil {
		return platform.Unknown, nil, ErrArgs{Err: err}
	}
	if opts.Layout == "" {
		table, err := layout.Default(id)
		if err != nil {
			return platform.Unknown, nil, ErrArgs{Err: fmt.Errorf("%w; use --layout", err)}
		}
		return id, table, nil
	}
	table, err := layout.LoadFile(opts.Layout)
	if err != nil {
		return platform.Unknown, nil, err
	}
	return id, table, nil
}

// FlashOptions selects the flash dumps to inspect.
type FlashOptions struct {
	PlatformOptions

	Internal     string `short:"i" long:"internal" description:"path to a dump of the internal flash" value-name:"FILE"`
	InternalBase uint32 `long:"internal-base" base:"16" description:"address of the internal flash dump (hex)" default:"0"`
	External     string `short:"e" long:"external" description:"path to a dump of the external flash" value-name:"FILE"`
	ExternalBase uint32 `long:"external-base" base:"16" description:"address the external flash is mapped at (hex)" default:"12000000"`
}

// Device returns a flash device with the dumps mapped.
func (opts *FlashOptions) Device() (*flash.Device, error) {
	if opts.Internal == "" && opts.External == "" {
		return nil, ErrArgs{Err: fmt.Errorf("no flash dump given, use --internal and/or --external")}
	}

	d := flash.NewDevice()
	for _, dump := range []struct {
		storage flash.Storage
		path    string
		base    uint32
	}{
		{flash.Internal, opts.Internal, opts.InternalBase},
		{flash.External, opts.External, opts.ExternalBase},
	} {
		if dump.path == "" {
			continue
		}
		data, err := os.ReadFile(dump.path)
		if err != nil {
			return nil, fmt.Errorf("unable to read the %s flash dump '%s': %w", dump.storage, dump.path, err)
		}
		if err := d.Map(dump.storage, dump.base, data); err != nil {
			return nil, fmt.Errorf("unable to map '%s': %w", dump.path, err)
		}
		log.Debugf("mapped %s flash '%s' at 0x%08x (%d bytes)", dump.storage, dump.path, dump.base, len(data))
	}
	return d, nil
}
