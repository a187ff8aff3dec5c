// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/antoniovazquezblanco/device-os/cmds/modinfo/commands"
	"github.com/antoniovazquezblanco/device-os/pkg/dependency"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
)

var _ commands.Command = (*Command)(nil)

// Command fetches and validates the modules of every slot of a layout.
type Command struct {
	commands.FlashOptions

	Format           *string `long:"format" description:"output format [text, json]"`
	Checks           string  `short:"c" long:"checks" description:"extra checks, e.g. 'integrity,dependencies_full'" default:"integrity"`
	AllowMissingUser bool    `long:"allow-missing-user" description:"accept a missing user part dependency"`
	NoDependencies   bool    `long:"no-dependencies" description:"do not look up the installed dependencies"`
	Describe         bool    `long:"describe" description:"describe every module in detail"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "validates modules"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Fetches the module of every slot of the layout and validates it.\n" +
		"The range, platform and dependency checks are always performed; --checks requests more.\n" +
		"Exits with an error if a found module fails a check."
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
	extra, err := module.ParseChecks(cmd.Checks)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}
	platformID, layout, err := cmd.Load()
	if err != nil {
		return err
	}
	device, err := cmd.Device()
	if err != nil {
		return err
	}

	var deps module.DependencyValidator = dependency.NewValidator(device, layout)
	if cmd.NoDependencies {
		deps = dependency.None
	}
	validator := module.NewValidator(device, layout, deps)
	validator.PlatformID = platformID

	result := validator.FetchAll(layout, cmd.AllowMissingUser, extra)
	invalid := 0
	for _, m := range result {
		if m.Found() && !m.Validity.Valid(m.Validity.Checked()) {
			invalid++
		}
	}

	switch format {
	case commands.FormatText:
		if cmd.Describe {
			for _, m := range result {
				fmt.Println(m.Describe())
			}
		}
		render(result)
	case commands.FormatJSON:
		b, err := json.MarshalIndent(result, "", "\t")
		if err != nil {
			return fmt.Errorf("unable to encode the result: %w", err)
		}
		fmt.Printf("%s\n", b)
	}

	if invalid > 0 {
		return commands.ErrInvalidModules{Count: invalid}
	}
	return nil
}

func render(result []module.Fetched) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Modules")
	t.AppendHeader(table.Row{"Slot", "Module", "Version", "Platform", "Failed", "Result"})
	for _, m := range result {
		if !m.Found() {
			t.AppendRow(table.Row{m.Bounds, "-", "-", "-", "-", "not found"})
			continue
		}
		status := "valid"
		if !m.Validity.Valid(m.Validity.Checked()) {
			status = "INVALID"
		}
		failed := "-"
		if f := m.Validity.Failed(); !f.IsEmpty() {
			failed = f.String()
		}
		t.AppendRow(table.Row{m.Bounds, m.Info.Coordinates(), m.Info.Version, m.Info.PlatformID, failed, status})
	}
	t.Render()
}
