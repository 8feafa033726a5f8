package main

import (
	"fmt"
	"os"

	"golang.org/x/arch/arm64/arm64asm"
)

// disassembleFile prints the AArch64 instruction stream decoded from path,
// one instruction per 4-byte-aligned word, in the style of the teacher's
// own build tooling (biscuit's misc/depgraph walks compiled output rather
// than disassembling it, but the rest of the pack — the gokvm machine
// monitor's golang.org/x/arch/x86/x86asm use — establishes the same
// "decode raw instruction bytes with x/arch before trusting them" idiom
// this applies to the AArch64 image mkimage is about to embed).
//
// This core's own ELF loader is explicitly out of scope (§1), so the
// input is treated as a flat instruction stream starting at offset 0,
// matching SpawnFromFile's own "raw binary image" loading model.
func disassembleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for pc := 0; pc+4 <= len(data); pc += 4 {
		word := data[pc : pc+4]
		inst, err := arm64asm.Decode(word)
		if err != nil {
			fmt.Printf("%8x:\t%02x %02x %02x %02x\t(undecodable: %v)\n",
				pc, word[0], word[1], word[2], word[3], err)
			continue
		}
		fmt.Printf("%8x:\t%02x %02x %02x %02x\t%s\n",
			pc, word[0], word[1], word[2], word[3], inst.String())
	}
	return nil
}
