// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// modcrc seals a raw module image: it fills the suffix size and SHA-256 and
// appends the big endian CRC-32. With --verify it checks a sealed image
// instead.
//
// Synopsis:
//
//	modcrc [-a ADDRESS] [-o OUTPUT] MODULE_FILE
//	modcrc --verify [-a ADDRESS] MODULE_FILE
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/antoniovazquezblanco/device-os/pkg/log"
	"github.com/antoniovazquezblanco/device-os/pkg/module"
)

var (
	flagAddress = flag.Uint32P("address", "a", 0, "address the image is linked at; the header start address is used if 0")
	flagOutput  = flag.StringP("output", "o", "", "path of the sealed image; the input is overwritten if empty")
	flagVerify  = flag.Bool("verify", false, "verify the suffix and the CRC instead of sealing")
	flagVerbose = flag.BoolP("verbose", "v", false, "print debug messages")
)

func main() {
	flag.Parse()
	log.SetVerbose(*flagVerbose)

	a := flag.Args()
	if len(a) != 1 {
		log.Fatalf("Usage: modcrc [options] <module-file>")
	}
	data, err := os.ReadFile(a[0])
	if err != nil {
		log.Fatalf("cannot read input file: %v", err)
	}

	image, err := load(data, *flagAddress)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *flagVerify {
		if err := image.verify(); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("%s v%d: CRC %s ok\n", image.info.Coordinates(), image.info.Version, image.crc())
		return
	}

	sealed, err := image.seal()
	if err != nil {
		log.Fatalf("%v", err)
	}
	output := *flagOutput
	if output == "" {
		output = a[0]
	}
	if err := os.WriteFile(output, sealed, 0o644); err != nil {
		log.Fatalf("cannot write the sealed image: %v", err)
	}
	fmt.Printf("%s v%d: %d bytes, CRC %s\n", image.info.Coordinates(), image.info.Version, len(sealed), module.CRC{Value: crcOf(sealed)})
}

// crcOf returns the CRC stored at the end of a sealed image.
func crcOf(sealed []byte) uint32 {
	crc, err := module.NewCRC(sealed[len(sealed)-module.CRCSize:])
	if err != nil {
		return 0
	}
	return crc.Value
}
