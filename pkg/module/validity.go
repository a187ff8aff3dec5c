// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Check is a kind of module validation. The values match the validation
// flags used by device firmware, so Checks can be exchanged as plain masks.
type Check uint16

// Known checks.
const (
	CheckIntegrity        Check = 1 << 1
	CheckDependencies     Check = 1 << 2
	CheckRange            Check = 1 << 3
	CheckPlatform         Check = 1 << 4
	CheckProduct          Check = 1 << 5
	CheckDependenciesFull Check = 1 << 6
)

var allChecks = []Check{
	CheckIntegrity,
	CheckDependencies,
	CheckRange,
	CheckPlatform,
	CheckProduct,
	CheckDependenciesFull,
}

var checkNames = map[Check]string{
	CheckIntegrity:        "INTEGRITY",
	CheckDependencies:     "DEPENDENCIES",
	CheckRange:            "RANGE",
	CheckPlatform:         "PLATFORM",
	CheckProduct:          "PRODUCT",
	CheckDependenciesFull: "DEPENDENCIES_FULL",
}

func (c Check) String() string {
	if name, ok := checkNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CHECK(%#x)", uint16(c))
}

// Checks is a set of checks.
type Checks uint16

// NewChecks returns the set of the given checks.
func NewChecks(checks ...Check) Checks {
	return Checks(0).With(checks...)
}

// ParseChecks parses a comma or "|" separated list of check names, for
// example "integrity,dependencies_full".
func ParseChecks(s string) (Checks, error) {
	var result Checks
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		name := strings.ToUpper(strings.TrimSpace(field))
		found := false
		for _, c := range allChecks {
			if c.String() == name || (name == "FULL" && c == CheckDependenciesFull) {
				result = result.With(c)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown check '%s'", field)
		}
	}
	return result, nil
}

// Has returns true if the check is in the set.
func (s Checks) Has(c Check) bool {
	return c != 0 && uint16(s)&uint16(c) == uint16(c)
}

// With returns the set with the checks added.
func (s Checks) With(checks ...Check) Checks {
	for _, c := range checks {
		s |= Checks(c)
	}
	return s
}

// Union returns the checks present in either set.
func (s Checks) Union(other Checks) Checks { return s | other }

// Intersect returns the checks present in both sets.
func (s Checks) Intersect(other Checks) Checks { return s & other }

// Without returns the checks of s not present in other.
func (s Checks) Without(other Checks) Checks { return s &^ other }

// IsEmpty returns true if no check is in the set.
func (s Checks) IsEmpty() bool { return s == 0 }

// IsSubsetOf returns true if every check of s is present in other.
func (s Checks) IsSubsetOf(other Checks) bool { return s.Without(other).IsEmpty() }

// Slice returns the checks of the set in ascending order. Unknown bits
// are returned as checks too.
func (s Checks) Slice() []Check {
	var result []Check
	for bit := 0; bit < 16; bit++ {
		c := Check(1 << bit)
		if s.Has(c) {
			result = append(result, c)
		}
	}
	return result
}

func (s Checks) String() string {
	if s.IsEmpty() {
		return "NONE"
	}
	var names []string
	for _, c := range s.Slice() {
		names = append(names, c.String())
	}
	return strings.Join(names, "|")
}

// MarshalJSON just implements encoding/json.Marshaler
func (s Checks) MarshalJSON() ([]byte, error) {
	names := []string{}
	for _, c := range s.Slice() {
		names = append(names, c.String())
	}
	return json.Marshal(names)
}

// Validity is the outcome of validating a module: which checks were
// requested and which of them passed.
//
// A check can only be recorded as passed if it was requested, so Passed()
// is always a subset of Checked(). A check in Checked() but not in Passed()
// failed; a check absent from Checked() was never attempted.
type Validity struct {
	checked Checks
	passed  Checks
}

func newValidity(checked Checks) Validity {
	return Validity{checked: checked}
}

// pass records c as passed if it was requested.
func (v *Validity) pass(c Check) {
	if v.checked.Has(c) {
		v.passed = v.passed.With(c)
	}
}

// Checked returns the requested checks.
func (v Validity) Checked() Checks { return v.checked }

// Passed returns the requested checks that passed.
func (v Validity) Passed() Checks { return v.passed }

// Failed returns the requested checks that did not pass.
func (v Validity) Failed() Checks { return v.checked.Without(v.passed) }

// Valid returns true if every check in mask that was requested passed.
// Checks of mask that were not requested are ignored.
func (v Validity) Valid(mask Checks) bool {
	return v.Failed().Intersect(mask).IsEmpty()
}

func (v Validity) String() string {
	return fmt.Sprintf("checked=%s passed=%s", v.checked, v.passed)
}

type validityStruct struct {
	Checked Checks `json:"checked"`
	Passed  Checks `json:"passed"`
}

// MarshalJSON just implements encoding/json.Marshaler
func (v Validity) MarshalJSON() ([]byte, error) {
	return json.Marshal(&validityStruct{Checked: v.checked, Passed: v.passed})
}
