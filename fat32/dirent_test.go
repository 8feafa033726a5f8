package fat32

import (
	"encoding/binary"
	"testing"
)

func TestAttributesIsLFNRequiresExactMatch(t *testing.T) {
	if !Attributes(0x0F).isLFN() {
		t.Fatal("0x0F must be recognized as a long-filename fragment")
	}
	// A teacher variant treats any one of the four low bits as enough;
	// the specification requires the exact value.
	if Attributes(0x01).isLFN() || Attributes(0x02|0x04).isLFN() {
		t.Fatal("isLFN must require all four low bits, not any single one")
	}
}

func TestAttributesBitDecode(t *testing.T) {
	a := Attributes(1<<0 | 1<<2 | 1<<4)
	if !a.ReadOnly() || a.Hidden() || !a.System() || a.VolumeID() || !a.Directory() || a.Archive() {
		t.Fatalf("attribute decode mismatch for %#x", uint8(a))
	}
}

func TestDecodeDateAndTime(t *testing.T) {
	// 2023-06-15: year field = 43 (1980+43=2023), month=6, day=15
	date := uint16(43<<9 | 6<<5 | 15)
	year, month, day := decodeDate(date)
	if year != 2023 || month != 6 || day != 15 {
		t.Fatalf("decodeDate = %d-%d-%d, want 2023-6-15", year, month, day)
	}

	// 13:45:30: hour=13, minute=45, second/2=15
	tm := uint16(13<<11 | 45<<5 | 15)
	hour, minute, second := decodeTime(tm)
	if hour != 13 || minute != 45 || second != 30 {
		t.Fatalf("decodeTime = %d:%d:%d, want 13:45:30", hour, minute, second)
	}
}

func TestShortNameJoinsExtensionWithDot(t *testing.T) {
	raw := make([]byte, direntSize)
	copy(raw[direntNameOffset:], "README  ")
	copy(raw[direntExtOffset:], "MD ")
	if got := shortName(raw); got != "README.MD" {
		t.Fatalf("shortName() = %q, want README.MD", got)
	}
}

func TestShortNameWithNoExtension(t *testing.T) {
	raw := make([]byte, direntSize)
	copy(raw[direntNameOffset:], "NOEXT   ")
	copy(raw[direntExtOffset:], "   ")
	if got := shortName(raw); got != "NOEXT" {
		t.Fatalf("shortName() = %q, want NOEXT", got)
	}
}

func lfnRecord(seq uint8, name string) []byte {
	raw := make([]byte, direntSize)
	raw[lfnSeqOffset] = seq
	raw[direntAttrOffset] = uint8(attrLFN)

	units := make([]uint16, 13)
	for i := range units {
		units[i] = 0xFFFF
	}
	runes := []rune(name)
	for i, r := range runes {
		units[i] = uint16(r)
	}
	if len(runes) < 13 {
		units[len(runes)] = 0x0000
	}

	put := func(off int, u uint16) {
		binary.LittleEndian.PutUint16(raw[off:], u)
	}
	for i := 0; i < 5; i++ {
		put(lfnFrag1Offset+i*2, units[i])
	}
	for i := 0; i < 6; i++ {
		put(lfnFrag2Offset+i*2, units[5+i])
	}
	for i := 0; i < 2; i++ {
		put(lfnFrag3Offset+i*2, units[11+i])
	}
	return raw
}

func TestParseDirEntriesFoldsLongFilename(t *testing.T) {
	var chain []byte
	chain = append(chain, lfnRecord(0x42, "name")...) // seq 2 | end bit, last 4 chars
	chain = append(chain, lfnRecord(0x01, "averyverylong")...)

	short := make([]byte, direntSize)
	copy(short[direntNameOffset:], "AVERYV~1")
	copy(short[direntExtOffset:], "TXT")
	short[direntAttrOffset] = 0x20
	chain = append(chain, short...)

	entries := parseDirEntries(chain)
	if len(entries) != 1 {
		t.Fatalf("parseDirEntries returned %d entries, want 1", len(entries))
	}
}

func TestParseDirEntriesStopsAtZeroByte(t *testing.T) {
	chain := make([]byte, direntSize*2)
	copy(chain[direntNameOffset:], "FIRST   ")
	copy(chain[direntExtOffset:], "TXT")
	// second entry left all-zero: byte 0 == 0x00 ends iteration.
	entries := parseDirEntries(chain)
	if len(entries) != 1 {
		t.Fatalf("parseDirEntries returned %d entries, want 1", len(entries))
	}
}

func TestParseDirEntriesSkipsUnusedSlot(t *testing.T) {
	unused := make([]byte, direntSize)
	unused[0] = 0xE5

	used := make([]byte, direntSize)
	copy(used[direntNameOffset:], "KEPT    ")
	used[direntAttrOffset] = 0x20

	chain := append(append([]byte{}, unused...), used...)
	entries := parseDirEntries(chain)
	if len(entries) != 1 || entries[0].Name != "KEPT" {
		t.Fatalf("parseDirEntries = %v, want [KEPT]", entries)
	}
}
