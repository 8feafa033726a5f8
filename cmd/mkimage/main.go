// Command mkimage builds a flat FAT32 disk image from a set of host files,
// for use as a test/boot image by the fat32 package and SpawnFromFile.
//
// The original toolchain built its disk images with mkfs (biscuit's own
// ufs-format builder, src/mkfs/mkfs.go) and patched ELF entry points with
// chentry (src/kernel/chentry.go). This is that tool's FAT32 counterpart:
// same plain os.Args CLI, same "walk host inputs, write a superblock, write
// file data" shape, aimed at this core's read-only FAT32 layout instead of
// biscuit's ufs.
package main

import (
	"fmt"
	"log"
	"os"
)

func usage(me string) {
	fmt.Printf("%s [-disasm] <outimage> <file>...\n\n"+
		"Build a single-partition FAT32 image at <outimage> whose root\n"+
		"directory holds one entry per <file>, named after its base name.\n"+
		"-disasm additionally prints the AArch64 instruction stream decoded\n"+
		"from the first <file>, before it is written into the image.\n", me)
	os.Exit(1)
}

func main() {
	args := os.Args[1:]
	disasm := false
	if len(args) > 0 && args[0] == "-disasm" {
		disasm = true
		args = args[1:]
	}
	if len(args) < 2 {
		usage(os.Args[0])
	}

	outimage := args[0]
	inputs := args[1:]

	if disasm {
		if err := disassembleFile(inputs[0]); err != nil {
			log.Fatalf("mkimage: disasm %s: %v", inputs[0], err)
		}
	}

	img, err := buildImage(inputs)
	if err != nil {
		log.Fatalf("mkimage: %v", err)
	}

	if err := writeImage(outimage, img); err != nil {
		log.Fatalf("mkimage: writing %s: %v", outimage, err)
	}
	fmt.Printf("mkimage: wrote %s (%d bytes, %d files)\n", outimage, len(img), len(inputs))
}
