// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dependency validates the dependencies between installed modules.
package dependency

import (
	"github.com/hashicorp/go-multierror"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/layout"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// None accepts any module.
var None = module.DependencyValidatorFunc(func(module.Bounds, bool, bool) bool { return true })

// Validator checks module dependencies against the modules installed in
// the Main slots of a layout.
type Validator struct {
	Locator *module.Locator
	Layout  layout.Table
}

var _ module.DependencyValidator = (*Validator)(nil)

// NewValidator returns a Validator of the modules in f laid out as table.
func NewValidator(f module.Flash, table layout.Table) *Validator {
	return &Validator{
		Locator: module.NewLocator(f),
		Layout:  table,
	}
}

// ValidateDependencies implements module.DependencyValidator.
func (v *Validator) ValidateDependencies(bounds module.Bounds, allowMissingUser, full bool) bool {
	err := v.Check(bounds, allowMissingUser, full)
	if err != nil {
		log.Debugf("module at 0x%08x: %v", bounds.StartAddress, err)
	}
	return err == nil
}

// Check returns every unmet dependency of the module at bounds.
//
// Both dependency slots are always checked, and each dependency must be
// installed in its Main slot with at least the required version.
//
// The flags differ from Device OS, where a user part skips its dependency
// checks when the user part is optional and full only adds the check of the
// second dependency. Here allowMissingUser only tolerates a missing user part
// in the first dependency slot, the dependencies of a user part are still
// checked. If full is set, every installed module depending on this one must
// be satisfied by its version too.
func (v *Validator) Check(bounds module.Bounds, allowMissingUser, full bool) error {
	info := v.Locator.Locate(bounds)
	if info == nil {
		return &ErrModuleNotFound{Bounds: bounds}
	}

	var result *multierror.Error
	for slot, dep := range []module.Dependency{info.Dependency, info.Dependency2} {
		if dep.IsNone() || isModule(info, dep.Function, dep.Index) {
			continue
		}
		installed := v.installed(dep.Function, dep.Index, info.MCUTarget)
		switch {
		case installed == nil:
			if allowMissingUser && slot == 0 && dep.Function == module.FunctionUserPart {
				continue
			}
			result = multierror.Append(result, &ErrMissing{Module: *info, Dependency: dep})
		case installed.Version < dep.Version:
			result = multierror.Append(result, &ErrVersion{Module: *info, Dependency: dep, Installed: installed.Version})
		}
	}

	if full {
		if err := v.checkDependents(bounds, info); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// checkDependents checks the installed modules which depend on info.
func (v *Validator) checkDependents(bounds module.Bounds, info *module.Info) error {
	var result *multierror.Error
	for _, b := range v.Layout.Store(module.StoreMain) {
		if b.StartAddress == bounds.StartAddress || b.MCUTarget != info.MCUTarget {
			continue
		}
		other := v.installed(b.Function, b.Index, b.MCUTarget)
		if other == nil {
			continue
		}
		for _, dep := range []module.Dependency{other.Dependency, other.Dependency2} {
			if isModule(info, dep.Function, dep.Index) && info.Version < dep.Version {
				result = multierror.Append(result, &ErrVersion{Module: *other, Dependency: dep, Installed: info.Version})
			}
		}
	}
	return result.ErrorOrNil()
}

// installed returns the header of the module installed in the Main slot
// for the coordinates, or nil if there is no such module.
//
// The module is only located, not fetched, so validating modules which
// depend on each other terminates.
func (v *Validator) installed(fn module.Function, index uint8, mcu platform.MCU) *module.Info {
	bounds, ok := v.Layout.FindBounds(fn, index, mcu)
	if !ok {
		return nil
	}
	info := v.Locator.Locate(bounds)
	if info == nil || !isModule(info, fn, index) {
		return nil
	}
	if !bytes.InRange(info.EndAddress, bounds.StartAddress, bounds.EndAddress) {
		return nil
	}
	return info
}

func isModule(info *module.Info, fn module.Function, index uint8) bool {
	return info.Function == fn && info.Index == index
}
