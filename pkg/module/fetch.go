// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"
	"strings"

	"github.com/antoniovazquezblanco/device-os/pkg/bytes"
	"github.com/antoniovazquezblanco/device-os/pkg/flash"
	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/platform"
)

// BoundsResolver finds the slot a module belongs to by the coordinates the
// module declares.
type BoundsResolver interface {
	FindBounds(fn Function, index uint8, mcu platform.MCU) (Bounds, bool)
}

// DependencyValidator validates the dependencies of the module at bounds.
type DependencyValidator interface {
	ValidateDependencies(bounds Bounds, allowMissingUser, full bool) bool
}

// DependencyValidatorFunc is an adapter to use ordinary functions as
// DependencyValidator.
type DependencyValidatorFunc func(bounds Bounds, allowMissingUser, full bool) bool

// ValidateDependencies implements DependencyValidator.
func (f DependencyValidatorFunc) ValidateDependencies(bounds Bounds, allowMissingUser, full bool) bool {
	return f(bounds, allowMissingUser, full)
}

// Fetched is a module found and validated at some bounds.
//
// If Info is nil the module was not found and no field but Bounds has a
// meaning.
type Fetched struct {
	Bounds Bounds
	Info   *Info
	// InfoOffset is the offset of the header within Bounds.
	InfoOffset uint32

	// SuffixAddress and CRCAddress are derived from Info.EndAddress.
	SuffixAddress uint32
	CRCAddress    uint32
	// Suffix and CRC are decoded from the module image at Bounds, nil if
	// they cannot be read.
	Suffix *Suffix `json:",omitempty"`
	CRC    *CRC    `json:",omitempty"`

	Validity Validity
}

// Found returns true if a module was found at the bounds.
func (m Fetched) Found() bool {
	return m.Info != nil
}

// String implements fmt.Stringer.
func (m Fetched) String() string {
	if !m.Found() {
		return fmt.Sprintf("%s: not found", m.Bounds)
	}
	return fmt.Sprintf("%s: %s v%d for %s, %s", m.Bounds, m.Info.Coordinates(), m.Info.Version, m.Info.PlatformID, m.Validity)
}

// Validator fetches and validates modules.
//
// It keeps no state between calls: concurrent calls are safe if the
// collaborators are safe for concurrent reads.
type Validator struct {
	Locator      *Locator
	Bounds       BoundsResolver
	Dependencies DependencyValidator
	// PlatformID is the platform modules must be compiled for.
	PlatformID platform.ID
}

// NewValidator returns a Validator for the running platform.
func NewValidator(f Flash, bounds BoundsResolver, dependencies DependencyValidator) *Validator {
	return &Validator{
		Locator:      NewLocator(f),
		Bounds:       bounds,
		Dependencies: dependencies,
		PlatformID:   platform.Running(),
	}
}

// Locate returns the module info found at the start of bounds without
// validating it. See Locator.Locate.
func (v *Validator) Locate(bounds Bounds) *Info {
	return v.Locator.Locate(bounds)
}

// LocateWithOffset is the same as Locate, but also returns the offset of
// the header within bounds.
func (v *Validator) LocateWithOffset(bounds Bounds) (*Info, uint32) {
	return v.Locator.LocateWithOffset(bounds)
}

// Fetch fetches and validates the module found at bounds.
//
// The range, platform and dependency checks are always requested; extra
// may request more (CheckIntegrity, CheckDependenciesFull). The result is
// false if no module is found or if its declared end address is outside
// the slot its coordinates point to. Any other failed check is reported
// by the Validity only.
func (v *Validator) Fetch(bounds Bounds, allowMissingUserDependencies bool, extra Checks) (Fetched, bool) {
	result := Fetched{Bounds: bounds}

	info, offset := v.LocateWithOffset(bounds)
	if info == nil {
		log.Debugf("no module info at 0x%08x: flash is not readable", bounds.StartAddress)
		return result, false
	}
	result.InfoOffset = offset

	validity := newValidity(NewChecks(CheckRange, CheckDependencies, CheckPlatform).Union(extra))
	moduleEnd := info.EndAddress

	// The module must fit the slot its own coordinates point to.
	expected, ok := v.findBounds(info)
	if !ok || !bytes.InRange(moduleEnd, expected.StartAddress, expected.EndAddress) {
		v.logDiscarded(bounds, info, expected, ok)
		result.Validity = validity
		return result, false
	}
	validity.pass(CheckRange)
	if info.PlatformID == v.PlatformID {
		validity.pass(CheckPlatform)
	}

	// The suffix ends at moduleEnd, and the CRC starts there.
	result.CRCAddress = moduleEnd
	result.SuffixAddress = moduleEnd - SuffixSize
	result.Suffix, result.CRC = v.readTrailer(bounds, info)

	full := validity.Checked().Has(CheckDependenciesFull)
	if v.Dependencies != nil && v.Dependencies.ValidateDependencies(bounds, allowMissingUserDependencies, full) {
		validity.pass(CheckDependencies)
		validity.pass(CheckDependenciesFull)
	}
	if validity.Checked().Has(CheckIntegrity) && v.Locator.Flash.VerifyCRC32(flash.Internal, bounds.StartAddress, info.Length()) {
		validity.pass(CheckIntegrity)
	}

	result.Info = info
	result.Validity = validity
	return result, true
}

func (v *Validator) findBounds(info *Info) (Bounds, bool) {
	if v.Bounds == nil {
		return Bounds{}, false
	}
	return v.Bounds.FindBounds(info.Function, info.Index, info.MCUTarget)
}

// readTrailer decodes the suffix and the CRC of the module image located
// at bounds. A module outside of its own slot (e.g. an update waiting in a
// scratchpad) declares the addresses it will have once installed, so the
// trailer is looked up relative to the bounds.
func (v *Validator) readTrailer(bounds Bounds, info *Info) (*Suffix, *CRC) {
	length := info.Length()
	if length < InfoSize+SuffixSize {
		return nil, nil
	}
	end := uint64(bounds.StartAddress) + uint64(length)
	if end+CRCSize > uint64(1)<<32 {
		return nil, nil
	}

	var suffix *Suffix
	if b, err := v.Locator.Flash.ReadAt(flash.Internal, uint32(end-SuffixSize), SuffixSize); err == nil {
		suffix, _ = NewSuffix(b)
	}
	var crc *CRC
	if b, err := v.Locator.Flash.ReadAt(flash.Internal, uint32(end), CRCSize); err == nil {
		crc, _ = NewCRC(b)
	}
	return suffix, crc
}

func (v *Validator) logDiscarded(bounds Bounds, info *Info, expected Bounds, found bool) {
	switch {
	case bytes.IsErased(info.Bytes()):
		log.Debugf("no module at 0x%08x: flash is erased", bounds.StartAddress)
	case !found:
		log.Debugf("module at 0x%08x declares unknown slot %s (mcu %s)", bounds.StartAddress, info.Coordinates(), info.MCUTarget)
	default:
		log.Debugf("module at 0x%08x ends at 0x%08x, outside of its slot %s", bounds.StartAddress, info.EndAddress, expected)
	}
}

// FetchAll fetches every slot of bounds.
func (v *Validator) FetchAll(bounds []Bounds, allowMissingUserDependencies bool, extra Checks) []Fetched {
	result := make([]Fetched, 0, len(bounds))
	for _, b := range bounds {
		m, _ := v.Fetch(b, allowMissingUserDependencies, extra)
		result = append(result, m)
	}
	return result
}

// Describe returns a multi-line description of the fetched module.
func (m Fetched) Describe() string {
	var s strings.Builder
	fmt.Fprintf(&s, "Bounds          : %s\n", m.Bounds)
	if !m.Found() {
		s.WriteString("Module          : not found\n")
		return s.String()
	}
	fmt.Fprintf(&s, "Info Offset     : %#x\n", m.InfoOffset)
	s.WriteString(m.Info.Summary())
	fmt.Fprintf(&s, "Suffix Address  : %#08x\n", m.SuffixAddress)
	if m.Suffix != nil {
		fmt.Fprintf(&s, "SHA-256         : %s\n", m.Suffix.SHA)
	}
	fmt.Fprintf(&s, "CRC Address     : %#08x\n", m.CRCAddress)
	if m.CRC != nil {
		fmt.Fprintf(&s, "CRC             : %s\n", m.CRC)
	}
	fmt.Fprintf(&s, "Checked         : %s\n", m.Validity.Checked())
	fmt.Fprintf(&s, "Passed          : %s\n", m.Validity.Passed())
	return s.String()
}
