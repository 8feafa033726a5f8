// Package block implements the block-device contract and write-back
// sector cache described in §4.6, grounded on
// original_source/sys_fs/src/vfat/cache.rs's Partition/CachedDevice
// (the corrected variant of fat32/src/vfat/cache.rs that actually models
// a partition offset, rather than the unpartitioned version) and
// sys_fs/src/mbr.rs for the on-disk MBR this layer ultimately serves.
package block

import "lainkern/defs"

/// Device is the block-device contract: sector size, and read/write of
/// exactly one sector at a time by 64-bit sector number.
type Device interface {
	SectorSize() uint64
	ReadSector(n uint64, buf []byte) (int, defs.Err_t)
	WriteSector(n uint64, buf []byte) (int, defs.Err_t)
}

/// ReadAllSector is the convenience described in §4.6: it extends buf
/// with one full sector's worth of bytes read from n.
func ReadAllSector(d Device, n uint64, buf *[]byte) defs.Err_t {
	start := len(*buf)
	*buf = append(*buf, make([]byte, d.SectorSize())...)
	got, errv := d.ReadSector(n, (*buf)[start:])
	*buf = (*buf)[:start+got]
	return errv
}
