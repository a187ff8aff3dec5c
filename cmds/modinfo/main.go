// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// modinfo inspects and validates the firmware modules found in flash dumps.
//
// External flash is accessed through its XIP mapping, so pass its dump with
// the address it is mapped at.
//
// Synopsis:
//
//	modinfo layout [-p PLATFORM] [--layout FILE] [--format text|json]
//	modinfo show -i INTERNAL_DUMP [-e EXTERNAL_DUMP] [options]
//	modinfo validate -i INTERNAL_DUMP [-e EXTERNAL_DUMP] [-c CHECKS] [options]
//
// An example:
//
//	modinfo layout -p boron --format json > boron.json
//	modinfo validate -p boron --layout boron.json -i internal.bin -e external.bin -c integrity,full
//	modinfo show -i internal.bin --format json | jq -r '.[] | select(.Info.Function == "system-part") | .Info.Version'
//
// Description:
//
//	layout:   Print the slots modules are expected to reside in
//	show:     Print module info headers without validating them
//	validate: Fetch and validate the module of every slot
package main

import (
	"github.com/jessevdk/go-flags"

	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands"
	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands/layout"
	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands/show"
	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands/validate"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
)

var (
	knownCommands = map[string]commands.Command{
		"layout":   &layout.Command{},
		"show":     &show.Command{},
		"validate": &validate.Command{},
	}
)

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"print debug messages"`
}

func main() {
	var opts options
	flagsParser := flags.NewParser(&opts, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}
	flagsParser.CommandHandler = func(command flags.Commander, args []string) error {
		log.SetVerbose(opts.Verbose)
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	// parse arguments and execute the appropriate command
	if _, err := flagsParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("%v", err)
	}
}
