package fat32

import (
	"encoding/binary"

	"lainkern/block"
	"lainkern/defs"
)

/// PartitionEntry is one of the four MBR partition table slots.
type PartitionEntry struct {
	BootIndicator  uint8
	Type           uint8
	RelativeSector uint32
	TotalSectors   uint32
}

/// MasterBootRecord is the first sector of the device: a 436-byte
/// bootstrap region (ignored), a 10-byte disk id/reserved region
/// (ignored), four 16-byte partition entries, and a 2-byte 0x55 0xAA
/// signature.
type MasterBootRecord struct {
	Table [4]PartitionEntry
}

const (
	mbrPartitionTableOffset = 446
	mbrPartitionEntrySize   = 16
	mbrSignatureOffset      = 510
)

/// ReadMBR reads and validates the master boot record from sector 0 of
/// device: the trailing signature must be 0x55 0xAA and every partition
/// entry's boot indicator must be 0x00 or 0x80.
func ReadMBR(device block.Device) (MasterBootRecord, defs.Err_t) {
	buf := make([]byte, sectorSize512)
	if _, errv := device.ReadSector(0, buf); !errv.Ok() {
		return MasterBootRecord{}, errv
	}

	if buf[mbrSignatureOffset] != 0x55 || buf[mbrSignatureOffset+1] != 0xAA {
		return MasterBootRecord{}, defs.EBADF
	}

	var mbr MasterBootRecord
	for i := range mbr.Table {
		off := mbrPartitionTableOffset + i*mbrPartitionEntrySize
		entry := buf[off : off+mbrPartitionEntrySize]

		boot := entry[0]
		if boot != 0x00 && boot != 0x80 {
			return MasterBootRecord{}, defs.EBADF
		}

		mbr.Table[i] = PartitionEntry{
			BootIndicator:  boot,
			Type:           entry[4],
			RelativeSector: binary.LittleEndian.Uint32(entry[8:12]),
			TotalSectors:   binary.LittleEndian.Uint32(entry[12:16]),
		}
	}
	return mbr, 0
}
