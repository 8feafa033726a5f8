package fat32

import (
	"encoding/binary"

	"lainkern/block"
	"lainkern/defs"
)

/// BiosParameterBlock is the subset of the extended BIOS parameter block
/// the read path needs, per §4.7/§7's offset table.
type BiosParameterBlock struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	SectorsPerFAT     uint32
	RootDirCluster    uint32
}

const (
	ebpbBytesPerSectorOffset    = 11
	ebpbSectorsPerClusterOffset = 13
	ebpbReservedSectorsOffset   = 14
	ebpbNumFATsOffset           = 16
	ebpbSectorsPerFATOffset     = 36
	ebpbRootDirClusterOffset    = 44
	ebpbSignatureOffset         = 510
)

/// ReadEBPB reads and validates the eBPB at sector start of device.
func ReadEBPB(device block.Device, start uint64) (BiosParameterBlock, defs.Err_t) {
	buf := make([]byte, sectorSize512)
	if _, errv := device.ReadSector(start, buf); !errv.Ok() {
		return BiosParameterBlock{}, errv
	}

	if buf[ebpbSignatureOffset] != 0x55 || buf[ebpbSignatureOffset+1] != 0xAA {
		return BiosParameterBlock{}, defs.EBADF
	}

	return BiosParameterBlock{
		BytesPerSector:    binary.LittleEndian.Uint16(buf[ebpbBytesPerSectorOffset:]),
		SectorsPerCluster: buf[ebpbSectorsPerClusterOffset],
		ReservedSectors:   binary.LittleEndian.Uint16(buf[ebpbReservedSectorsOffset:]),
		NumFATs:           buf[ebpbNumFATsOffset],
		SectorsPerFAT:     binary.LittleEndian.Uint32(buf[ebpbSectorsPerFATOffset:]),
		RootDirCluster:    binary.LittleEndian.Uint32(buf[ebpbRootDirClusterOffset:]),
	}, 0
}
