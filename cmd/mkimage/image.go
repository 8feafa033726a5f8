package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Geometry mirrors the one-partition, 512-byte-sector, 1-sector-per-cluster
// layout fat32.Open expects: the smallest legal FAT32 shape, adequate for a
// handful of small process images. Root directory is a single cluster, so
// at most maxRootEntries files may be embedded.
const (
	sectorSize      = 512
	rootDirCluster  = 2
	maxRootEntries  = sectorSize / 32
	dirEntrySize    = 32
	fatEntrySize    = 4
	fatEntriesPerSc = sectorSize / fatEntrySize
)

// buildImage lays out: MBR (sector 0), eBPB (sector 1), FAT (sector 2..),
// root directory (one cluster), then one data cluster per input file.
// Grounded on fat32/vfat_test.go's buildImage fixture, generalized from one
// fixed file to an arbitrary list.
func buildImage(inputs []string) ([]byte, error) {
	if len(inputs) > maxRootEntries {
		return nil, fmt.Errorf("%d files exceed the %d-entry single-cluster root directory", len(inputs), maxRootEntries)
	}

	contents := make([][]byte, len(inputs))
	clustersPerFile := make([]uint32, len(inputs))
	totalDataClusters := uint32(0)
	for i, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		contents[i] = data
		n := uint32((len(data) + sectorSize - 1) / sectorSize)
		if n == 0 {
			n = 1
		}
		clustersPerFile[i] = n
		totalDataClusters += n
	}

	// Cluster 0 and 1 are reserved, cluster 2 is the root directory; data
	// clusters for files start at 3.
	highestCluster := 2 + totalDataClusters
	sectorsPerFAT := (highestCluster + fatEntriesPerSc - 1) / fatEntriesPerSc
	if sectorsPerFAT == 0 {
		sectorsPerFAT = 1
	}

	reservedSectors := uint32(1)
	numFATs := uint32(1)
	fatStartSector := 1 + reservedSectors // the partition starts at sector 1
	dataStartSector := fatStartSector + numFATs*sectorsPerFAT
	rootSector := dataStartSector // cluster 2 is the first data-region cluster

	totalSectors := dataStartSector + 1 + totalDataClusters // root cluster + file clusters
	img := make([]byte, int(totalSectors)*sectorSize)

	writeSector := func(n uint32, data []byte) {
		copy(img[int(n)*sectorSize:], data)
	}

	// Sector 0: MBR, single partition starting at sector 1.
	mbr := make([]byte, sectorSize)
	mbr[0] = 0x00
	binary.LittleEndian.PutUint32(mbr[446+8:], 1) // relative sector
	binary.LittleEndian.PutUint32(mbr[446+12:], totalSectors-1)
	mbr[510], mbr[511] = 0x55, 0xAA
	writeSector(0, mbr)

	// Sector 1 (partition-relative sector 0): eBPB.
	bpb := make([]byte, sectorSize)
	binary.LittleEndian.PutUint16(bpb[11:], sectorSize)
	bpb[13] = 1 // sectors per cluster
	binary.LittleEndian.PutUint16(bpb[14:], uint16(reservedSectors))
	bpb[16] = uint8(numFATs)
	binary.LittleEndian.PutUint32(bpb[36:], sectorsPerFAT)
	binary.LittleEndian.PutUint32(bpb[44:], rootDirCluster)
	bpb[510], bpb[511] = 0x55, 0xAA
	writeSector(1, bpb)

	// FAT: cluster 0/1 reserved markers, root dir cluster is end-of-chain
	// (it never spans multiple clusters here), file clusters chain
	// sequentially and terminate with 0x0FFFFFFF.
	fat := make([]byte, int(sectorsPerFAT)*sectorSize)
	binary.LittleEndian.PutUint32(fat[fatEntrySize*0:], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(fat[fatEntrySize*1:], 0x0FFFFFFF)
	binary.LittleEndian.PutUint32(fat[fatEntrySize*rootDirCluster:], 0x0FFFFFFF)

	next := uint32(rootDirCluster + 1)
	root := make([]byte, sectorSize)
	for i, data := range contents {
		start := next
		for c := uint32(0); c < clustersPerFile[i]; c++ {
			cluster := next
			next++
			if c+1 < clustersPerFile[i] {
				binary.LittleEndian.PutUint32(fat[fatEntrySize*cluster:], next)
			} else {
				binary.LittleEndian.PutUint32(fat[fatEntrySize*cluster:], 0x0FFFFFFF)
			}
			lo := int(c) * sectorSize
			hi := min(len(data), lo+sectorSize)
			writeSector(dataStartSector+(cluster-rootDirCluster), data[lo:hi])
		}
		writeDirEntry(root[i*dirEntrySize:], filepath.Base(inputs[i]), start, uint32(len(data)))
	}
	for n := 0; n < int(sectorsPerFAT); n++ {
		writeSector(fatStartSector+uint32(n), fat[n*sectorSize:(n+1)*sectorSize])
	}
	writeSector(rootSector, root)

	return img, nil
}

// writeImage writes img to path, truncating any existing file.
func writeImage(path string, img []byte) error {
	return os.WriteFile(path, img, 0644)
}

// writeDirEntry encodes name as an 8.3 directory record at Cluster start
// holding size bytes. Long names are truncated to 8.3; this tool targets
// short kernel-image filenames (e.g. init.bin), not general host paths.
func writeDirEntry(rec []byte, name string, start, size uint32) {
	base, ext, _ := strings.Cut(strings.ToUpper(name), ".")
	for i := 0; i < 8; i++ {
		rec[i] = ' '
	}
	for i := 0; i < 3; i++ {
		rec[8+i] = ' '
	}
	copy(rec[0:8], base)
	copy(rec[8:11], ext)
	rec[11] = 0x20 // ARCHIVE
	binary.LittleEndian.PutUint16(rec[26:], uint16(start))
	binary.LittleEndian.PutUint16(rec[20:], uint16(start>>16))
	binary.LittleEndian.PutUint32(rec[28:], size)
}
