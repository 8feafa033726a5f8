// Package fat32 implements the read-only FAT32 layer described in §4.7:
// an on-disk MBR and extended BIOS parameter block, cluster/FAT-entry
// arithmetic, chain traversal, directory iteration with long-filename
// folding, and a thin File/Dir view over the result.
//
// Grounded on original_source/sys_fs/src/{mbr.rs,vfat/*.rs} (the
// partition-aware variant, preferred over original_source/fat32/src/vfat
// which has no Partition concept), adapted to the block.Device/Cache
// abstraction instead of the original's own BlockDevice trait.
package fat32

// sectorSize512 is the fixed size of the MBR and the eBPB; both are
// always exactly one 512-byte sector regardless of the device's own
// sector size.
const sectorSize512 = 512
