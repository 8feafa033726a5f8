package fat32

import (
	"encoding/binary"
	"testing"

	"lainkern/block"
	"lainkern/ustr"
)

// buildImage constructs a minimal one-file FAT32 image:
//
//	sector 0: MBR, partition 0 starts at sector 1
//	sector 1: eBPB (512 B/sector, 1 sector/cluster, 1 reserved sector, 1 FAT)
//	sector 2: the FAT (cluster 2 and cluster 4 both EOC)
//	sector 3: the root directory, cluster 2, holding one file entry
//	sector 5: the file's data, cluster 4
func buildImage(t *testing.T) *block.MemDisk {
	t.Helper()
	disk := block.NewMemDisk(512)

	mbr := sector512()
	mbr[510], mbr[511] = 0x55, 0xAA
	binary.LittleEndian.PutUint32(mbr[mbrPartitionTableOffset+8:], 1) // relative_sector
	disk.Seed(0, mbr)

	bpb := sector512()
	binary.LittleEndian.PutUint16(bpb[ebpbBytesPerSectorOffset:], 512)
	bpb[ebpbSectorsPerClusterOffset] = 1
	binary.LittleEndian.PutUint16(bpb[ebpbReservedSectorsOffset:], 1)
	bpb[ebpbNumFATsOffset] = 1
	binary.LittleEndian.PutUint32(bpb[ebpbSectorsPerFATOffset:], 1)
	binary.LittleEndian.PutUint32(bpb[ebpbRootDirClusterOffset:], 2)
	bpb[ebpbSignatureOffset], bpb[ebpbSignatureOffset+1] = 0x55, 0xAA
	disk.Seed(1, bpb)

	fat := sector512()
	binary.LittleEndian.PutUint32(fat[4*2:], 0x0FFFFFFF) // cluster 2 (root dir)
	binary.LittleEndian.PutUint32(fat[4*4:], 0x0FFFFFFF) // cluster 4 (file data)
	disk.Seed(2, fat)

	root := sector512()
	copy(root[direntNameOffset:], "HELLO   ")
	copy(root[direntExtOffset:], "TXT")
	root[direntAttrOffset] = 0x20 // archive
	binary.LittleEndian.PutUint16(root[direntClusterLoOffset:], 4)
	binary.LittleEndian.PutUint32(root[direntSizeOffset:], 5)
	disk.Seed(3, root)

	data := sector512()
	copy(data, "hello")
	disk.Seed(5, data)

	return disk
}

func TestOpenResolvesFile(t *testing.T) {
	fs, errv := Open(buildImage(t))
	if !errv.Ok() {
		t.Fatalf("Open error: %v", errv)
	}

	entry, errv := fs.Open(ustr.Ustr("hello.txt"))
	if !errv.Ok() {
		t.Fatalf("Open(hello.txt) error: %v", errv)
	}
	if entry.IsDir() {
		t.Fatal("hello.txt must not resolve as a directory")
	}
	if entry.Name() != "HELLO.TXT" {
		t.Fatalf("Name() = %q, want HELLO.TXT", entry.Name())
	}
}

func TestFileReadAndSize(t *testing.T) {
	fs, _ := Open(buildImage(t))
	entry, errv := fs.Open(ustr.Ustr("HELLO.TXT"))
	if !errv.Ok() {
		t.Fatalf("Open error: %v", errv)
	}
	file := entry.(File)
	if file.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", file.Size())
	}

	buf := make([]byte, 5)
	n, errv := file.Read(buf)
	if !errv.Ok() || n != 5 {
		t.Fatalf("Read() = %d, %v", n, errv)
	}
	if string(buf) != "hello" {
		t.Fatalf("Read() = %q, want hello", buf)
	}
}

func TestFileSeekEndAndPastEnd(t *testing.T) {
	fs, _ := Open(buildImage(t))
	entry, _ := fs.Open(ustr.Ustr("HELLO.TXT"))
	file := entry.(File)

	pos, errv := file.Seek(0, 2)
	if !errv.Ok() || pos != file.Size() {
		t.Fatalf("Seek(End) = %d, %v; want %d", pos, errv, file.Size())
	}

	if _, errv := file.Seek(int64(file.Size()+1), 0); errv.Ok() {
		t.Fatal("Seek past end of file must fail")
	}
}

func TestFindIsCaseInsensitive(t *testing.T) {
	fs, _ := Open(buildImage(t))
	root := fs.Root()
	if _, errv := root.Find("HeLLo.TxT"); !errv.Ok() {
		t.Fatalf("Find must be case-insensitive: %v", errv)
	}
	if _, errv := root.Find("nope.txt"); errv.Ok() {
		t.Fatal("Find must fail for a missing name")
	}
}

func TestEntriesListsRootDirectory(t *testing.T) {
	fs, _ := Open(buildImage(t))
	entries, errv := fs.Root().Entries()
	if !errv.Ok() {
		t.Fatalf("Entries error: %v", errv)
	}
	if len(entries) != 1 || entries[0].Name() != "HELLO.TXT" {
		t.Fatalf("Entries() = %v", entries)
	}
}

func TestReadChainFillsExactlyThreeSectors(t *testing.T) {
	disk := block.NewMemDisk(512)
	fs := &FS{
		device:            block.NewCache(disk, block.Partition{Start: 0, SectorSize: 512}),
		bytesPerSector:    512,
		sectorsPerCluster: 1,
		dataStartSector:   0,
		fatStartSector:    10,
	}

	fat := sector512()
	binary.LittleEndian.PutUint32(fat[4*2:], 3)
	binary.LittleEndian.PutUint32(fat[4*3:], 4)
	binary.LittleEndian.PutUint32(fat[4*4:], 0x0FFFFFFF)
	disk.Seed(10, fat)

	buf, errv := fs.readChain(newCluster(2))
	if !errv.Ok() {
		t.Fatalf("readChain error: %v", errv)
	}
	if len(buf) != 3*512 {
		t.Fatalf("readChain filled %d bytes, want %d", len(buf), 3*512)
	}
}
