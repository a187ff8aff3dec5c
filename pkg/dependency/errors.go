// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dependency

import (
	"fmt"

	"github.com/antoniovazquezblanco/device-os/pkg/module"
)

// ErrModuleNotFound means there is no readable module at the bounds.
type ErrModuleNotFound struct {
	Bounds module.Bounds
}

func (err *ErrModuleNotFound) Error() string {
	return fmt.Sprintf("no module at %s", err.Bounds)
}

// ErrMissing means a dependency of Module is not installed.
type ErrMissing struct {
	Module     module.Info
	Dependency module.Dependency
}

func (err *ErrMissing) Error() string {
	return fmt.Sprintf("%s v%d requires %s: not installed",
		err.Module.Coordinates(), err.Module.Version, err.Dependency)
}

// ErrVersion means the installed version of a dependency of Module is too
// old.
type ErrVersion struct {
	Module     module.Info
	Dependency module.Dependency
	Installed  uint16
}

func (err *ErrVersion) Error() string {
	return fmt.Sprintf("%s v%d requires %s: v%d is installed",
		err.Module.Coordinates(), err.Module.Version, err.Dependency, err.Installed)
}
