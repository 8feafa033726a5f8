package block

import "lainkern/defs"

/// MemDisk is an in-memory fake implementing Device, grounded on the
/// teacher's ahci_disk_t testing pattern (biscuit's AHCI test double)
/// adapted to this core's test tooling convention of an in-package fake
/// standing in for the SD card.
type MemDisk struct {
	sectorSize uint64
	sectors    map[uint64][]byte
}

/// NewMemDisk creates an empty disk with the given sector size.
func NewMemDisk(sectorSize uint64) *MemDisk {
	return &MemDisk{sectorSize: sectorSize, sectors: make(map[uint64][]byte)}
}

func (d *MemDisk) SectorSize() uint64 { return d.sectorSize }

func (d *MemDisk) ReadSector(n uint64, buf []byte) (int, defs.Err_t) {
	sector, ok := d.sectors[n]
	if !ok {
		sector = make([]byte, d.sectorSize)
	}
	return copy(buf, sector), 0
}

func (d *MemDisk) WriteSector(n uint64, buf []byte) (int, defs.Err_t) {
	sector := make([]byte, d.sectorSize)
	got := copy(sector, buf)
	d.sectors[n] = sector
	return got, 0
}

/// Seed installs data as the full contents of sector n, for tests that
/// need to preload an on-disk layout (an MBR, an eBPB, a FAT, ...).
func (d *MemDisk) Seed(n uint64, data []byte) {
	sector := make([]byte, d.sectorSize)
	copy(sector, data)
	d.sectors[n] = sector
}
