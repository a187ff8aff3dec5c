// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"os"

	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands"
)

var _ commands.Command = (*Command)(nil)

// Command prints a partition layout.
type Command struct {
	commands.PlatformOptions

	Format *string `long:"format" description:"output format [text, json]"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the partition layout"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Prints the slots modules are expected to reside in. The JSON output may be edited\n" +
		"and passed back with --layout."
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
	id, table, err := cmd.Load()
	if err != nil {
		return err
	}

	switch format {
	case commands.FormatText:
		table.Render(os.Stdout, fmt.Sprintf("Layout of %s", id))
	case commands.FormatJSON:
		if err := table.Save(os.Stdout); err != nil {
			return fmt.Errorf("unable to encode the layout: %w", err)
		}
	}
	return nil
}
