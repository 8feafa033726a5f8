package block

import "lainkern/defs"

/// Partition records where a logical partition begins on the underlying
/// device and the logical sector size callers of Cache see, per §4.6.
/// SectorSize must be an integer multiple of the device's physical
/// sector size.
type Partition struct {
	Start      uint64 // physical starting sector
	SectorSize uint64 // logical sector size, bytes
}

type cacheEntry struct {
	data  []byte
	dirty bool
}

/// Cache is the write-back sector cache described in §4.6: it sits on
/// top of one Device and one Partition, keyed by physical sector
/// number, each entry an owned buffer plus a dirty flag.
type Cache struct {
	device    Device
	partition Partition
	entries   map[uint64]*cacheEntry
}

/// NewCache creates a cache over device, windowed by partition.
/// SectorSize must be at least the device's physical sector size.
func NewCache(device Device, partition Partition) *Cache {
	if partition.SectorSize < device.SectorSize() {
		panic("block: partition sector size smaller than device sector size")
	}
	return &Cache{device: device, partition: partition, entries: make(map[uint64]*cacheEntry)}
}

// toPhysical maps a logical sector number to its physical sector number
// and the count of physical sectors it spans, per §4.6's mapping rule:
// sectors before the partition start pass through unchanged; sectors at
// or after it scale by sector_size ratio.
func (c *Cache) toPhysical(logical uint64) (physical uint64, factor uint64) {
	if c.device.SectorSize() == c.partition.SectorSize {
		return logical, 1
	}
	if logical < c.partition.Start {
		return logical, 1
	}
	factor = c.partition.SectorSize / c.device.SectorSize()
	offset := logical - c.partition.Start
	return c.partition.Start + offset*factor, factor
}

func (c *Cache) sectorSize() uint64 {
	if c.device.SectorSize() == c.partition.SectorSize {
		return c.device.SectorSize()
	}
	return c.partition.SectorSize
}

func (c *Cache) fill(physical, factor uint64) ([]byte, defs.Err_t) {
	data := make([]byte, 0, c.sectorSize())
	for i := uint64(0); i < factor; i++ {
		if errv := ReadAllSector(c.device, physical+i, &data); !errv.Ok() {
			return nil, errv
		}
	}
	return data, 0
}

/// Get returns a read-only view of the cached logical sector n, reading
/// through to the device and inserting on miss. It never marks the
/// entry dirty.
func (c *Cache) Get(n uint64) ([]byte, defs.Err_t) {
	physical, factor := c.toPhysical(n)
	entry, ok := c.entries[physical]
	if !ok {
		data, errv := c.fill(physical, factor)
		if !errv.Ok() {
			return nil, errv
		}
		entry = &cacheEntry{data: data}
		c.entries[physical] = entry
	}
	return entry.data, 0
}

/// GetMut is like Get but marks the entry dirty; the caller is presumed
/// to modify the returned slice in place.
func (c *Cache) GetMut(n uint64) ([]byte, defs.Err_t) {
	physical, factor := c.toPhysical(n)
	entry, ok := c.entries[physical]
	if !ok {
		data, errv := c.fill(physical, factor)
		if !errv.Ok() {
			return nil, errv
		}
		entry = &cacheEntry{data: data}
		c.entries[physical] = entry
	}
	entry.dirty = true
	return entry.data, 0
}

/// SyncSector writes back sector n if dirty, clearing the dirty flag; if
/// remove is true the entry is also evicted, dirty or not.
func (c *Cache) SyncSector(n uint64, remove bool) defs.Err_t {
	physical, _ := c.toPhysical(n)
	entry, ok := c.entries[physical]
	if !ok {
		return 0
	}

	if entry.dirty {
		chunk := int(c.device.SectorSize())
		for i := 0; i*chunk < len(entry.data); i++ {
			lo, hi := i*chunk, (i+1)*chunk
			if hi > len(entry.data) {
				hi = len(entry.data)
			}
			if _, errv := c.device.WriteSector(physical+uint64(i), entry.data[lo:hi]); !errv.Ok() {
				return errv
			}
		}
		entry.dirty = false
	}

	if remove {
		delete(c.entries, physical)
	}
	return 0
}

/// DropReadCache evicts every non-dirty entry, keeping all dirty ones in
/// place so no pending write is ever lost.
func (c *Cache) DropReadCache() {
	for k, e := range c.entries {
		if !e.dirty {
			delete(c.entries, k)
		}
	}
}

// The Cache itself also satisfies Device, so callers that only need
// single-sector read/write (the FAT32 layer) can treat it as one.

func (c *Cache) SectorSize() uint64 { return c.sectorSize() }

func (c *Cache) ReadSector(n uint64, buf []byte) (int, defs.Err_t) {
	sector, errv := c.Get(n)
	if !errv.Ok() {
		return 0, errv
	}
	return copy(buf, sector), 0
}

func (c *Cache) WriteSector(n uint64, buf []byte) (int, defs.Err_t) {
	sector, errv := c.GetMut(n)
	if !errv.Ok() {
		return 0, errv
	}
	return copy(sector, buf), 0
}
