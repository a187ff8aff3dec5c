// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a JSON encoded table from r and validates it.
func Load(r io.Reader) (Table, error) {
	var t Table
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&t); err != nil {
		return nil, fmt.Errorf("unable to decode the layout: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return t, nil
}

// LoadFile is the same as Load, but reads the file at path.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the layout: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Save writes the table to w as indented JSON.
func (t Table) Save(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	return encoder.Encode(t)
}
