package main

import (
	"fmt"
	"os"

	"github.com/wippyai/valuebox/boundary"
	"github.com/wippyai/valuebox/pixel"
)

// convertFile converts a raw pixel file through a byte buffer handle.
func convertFile(b *boundary.Boundary, format pixel.Format, in, out string) error {
	if in == "" {
		return fmt.Errorf("-convert needs -in")
	}
	if out == "" {
		out = in
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(data)%4 != 0 {
		return fmt.Errorf("%s: %d bytes is not a whole number of 32-bit pixels", in, len(data))
	}

	u8 := b.U8()
	addr := u8.CreateFromSlice(data)
	defer u8.Drop(addr)

	if !b.ConvertPixels(addr, format) {
		return fmt.Errorf("convert %s failed", format)
	}

	info, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if err := os.WriteFile(out, u8.Take(addr), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Converted %d pixels (%s) to %s\n", len(data)/4, format, out)
	return nil
}
