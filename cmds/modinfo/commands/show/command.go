// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands"
	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
)

var _ commands.Command = (*Command)(nil)

// Command prints the module info headers found in the slots of a layout.
type Command struct {
	commands.FlashOptions

	Format  *string `long:"format" description:"output format [text, json]"`
	All     bool    `short:"a" long:"all" description:"print also the slots which look erased"`
	Inflate bool    `long:"inflate" description:"decompress the payload of compressed modules and report its size"`
}

type located struct {
	Bounds     module.Bounds
	Info       *module.Info
	InfoOffset uint32
	Compressed *module.CompressedHeader `json:",omitempty"`
	Error      string                   `json:",omitempty"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints module info headers without validating them"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Prints the module info header found at the start of every slot of the layout.\n" +
		"Nothing is validated: the printed values are exactly what the flash contains."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("there are extra arguments")}
	}
	format, err := commands.ParseFormat(cmd.Format)
	if err != nil {
		return err
	}
	_, table, err := cmd.Load()
	if err != nil {
		return err
	}
	device, err := cmd.Device()
	if err != nil {
		return err
	}

	locator := module.NewLocator(device)
	var result []located
	for _, b := range table {
		info, offset := locator.LocateWithOffset(b)
		if info == nil {
			continue
		}
		if !cmd.All && bytes.IsErased(info.Bytes()) {
			continue
		}
		l := located{Bounds: b, Info: info, InfoOffset: offset}
		if cmd.Inflate && info.Flags&module.FlagCompressed != 0 {
			l.Compressed, l.Error = inflate(locator, l)
		}
		result = append(result, l)
	}

	switch format {
	case commands.FormatText:
		for _, l := range result {
			fmt.Printf("%s (header at +%#x)\n%s", l.Bounds, l.InfoOffset, l.Info.Summary())
			if l.Compressed != nil {
				fmt.Printf("Compression     : %s, %s inflated\n", l.Compressed.Method, humanize.IBytes(uint64(l.Compressed.OriginalSize)))
			}
			if l.Error != "" {
				fmt.Printf("Error           : %s\n", l.Error)
			}
			fmt.Println()
		}
	case commands.FormatJSON:
		b, err := json.MarshalIndent(result, "", "\t")
		if err != nil {
			return fmt.Errorf("unable to encode the result: %w", err)
		}
		fmt.Printf("%s\n", b)
	}
	return nil
}

func inflate(locator *module.Locator, l located) (*module.CompressedHeader, string) {
	payload, err := locator.Payload(l.Bounds, l.Info, l.InfoOffset)
	if err != nil {
		return nil, err.Error()
	}
	data, hdr, err := module.Decompress(payload)
	if err != nil {
		return hdr, err.Error()
	}
	log.Debugf("%s: inflated %d bytes to %d", l.Bounds, len(payload), len(data))
	return hdr, ""
}
