package fat32

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Attributes is the directory-entry attribute byte, per §4.7/§7.
type Attributes uint8

const (
	attrReadOnly Attributes = 1 << 0
	attrHidden   Attributes = 1 << 1
	attrSystem   Attributes = 1 << 2
	attrVolumeID Attributes = 1 << 3
	attrDir      Attributes = 1 << 4
	attrArchive  Attributes = 1 << 5
	// attrLFN is the exact four-low-bits-set match that identifies a
	// long-filename fragment. §9 flags a teacher variant that instead
	// ORs the individual bits, matching any single one of them; this
	// implementation requires the exact value per the specification.
	attrLFN Attributes = 0x0F
)

func (a Attributes) ReadOnly() bool { return a&attrReadOnly != 0 }
func (a Attributes) Hidden() bool   { return a&attrHidden != 0 }
func (a Attributes) System() bool   { return a&attrSystem != 0 }
func (a Attributes) VolumeID() bool { return a&attrVolumeID != 0 }
func (a Attributes) Directory() bool {
	return a&attrDir != 0
}
func (a Attributes) Archive() bool { return a&attrArchive != 0 }
func (a Attributes) isLFN() bool   { return a == attrLFN }

// Timestamp is a decoded FAT32 date/time pair.
type Timestamp struct {
	Year, Month, Day        int
	Hour, Minute, Second    int
}

// decodeDate and decodeTime follow the specification's bit layout, not
// the inconsistent variant noted in §9 (one of the original decoders
// shifted by 8/4/0 instead of 9/5/0 and would have disagreed with its
// own sibling decoder in the same tree).
func decodeDate(d uint16) (year, month, day int) {
	return 1980 + int(d>>9&0x7F), int(d >> 5 & 0x0F), int(d & 0x1F)
}

func decodeTime(t uint16) (hour, minute, second int) {
	return int(t >> 11), int(t >> 5 & 0x3F), 2 * int(t&0x1F)
}

// Metadata is a directory entry's attributes and timestamps.
type Metadata struct {
	Attributes Attributes
	Created    Timestamp
	Accessed   Timestamp
	Modified   Timestamp
}

const (
	direntNameOffset       = 0
	direntExtOffset        = 8
	direntAttrOffset       = 11
	direntCreateTimeOffset = 14
	direntCreateDateOffset = 16
	direntAccessDateOffset = 18
	direntClusterHiOffset  = 20
	direntModifyTimeOffset = 22
	direntModifyDateOffset = 24
	direntClusterLoOffset  = 26
	direntSizeOffset       = 28
	direntSize             = 32

	lfnSeqOffset   = 0
	lfnSeqEndMask  = 0x40
	lfnNameMask    = 0x1F
	lfnFrag1Offset = 1  // 5 UTF-16 code units
	lfnFrag2Offset = 14 // 6 UTF-16 code units
	lfnFrag3Offset = 28 // 2 UTF-16 code units
)

// dirEntry is one resolved (LFN-folded) directory entry: a name, its
// metadata, starting cluster and byte size, and whether it is a
// subdirectory.
type dirEntry struct {
	Name    string
	Meta    Metadata
	Start   Cluster
	Size    uint32
	IsDir   bool
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// lfnFragment decodes the three UTF-16LE name fragments of one
// long-filename directory record, trimming the 0xFFFF padding and
// terminating 0x0000 that pad a fragment shorter than its slot.
func lfnFragment(raw []byte) string {
	units := make([]byte, 0, 26)
	for _, off := range []struct{ start, codeUnits int }{
		{lfnFrag1Offset, 5},
		{lfnFrag2Offset, 6},
		{lfnFrag3Offset, 2},
	} {
		for i := 0; i < off.codeUnits; i++ {
			lo := off.start + i*2
			u := binary.LittleEndian.Uint16(raw[lo : lo+2])
			if u == 0x0000 || u == 0xFFFF {
				return decodeUTF16LE(units)
			}
			units = append(units, raw[lo], raw[lo+1])
		}
	}
	return decodeUTF16LE(units)
}

func decodeUTF16LE(units []byte) string {
	out, err := utf16le.NewDecoder().Bytes(units)
	if err != nil {
		return ""
	}
	return string(out)
}

// shortName decodes the 8.3 short name: 8 bytes of name, 3 of
// extension, both space-padded, joined with a dot when an extension is
// present.
func shortName(raw []byte) string {
	name := strings.TrimRight(string(raw[direntNameOffset:direntNameOffset+8]), " ")
	ext := strings.TrimRight(string(raw[direntExtOffset:direntExtOffset+3]), " ")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func decodeMetadata(raw []byte) Metadata {
	attr := Attributes(raw[direntAttrOffset])
	cy, cm, cd := decodeDate(binary.LittleEndian.Uint16(raw[direntCreateDateOffset:]))
	ch, cmin, cs := decodeTime(binary.LittleEndian.Uint16(raw[direntCreateTimeOffset:]))
	ay, am, ad := decodeDate(binary.LittleEndian.Uint16(raw[direntAccessDateOffset:]))
	my, mm, md := decodeDate(binary.LittleEndian.Uint16(raw[direntModifyDateOffset:]))
	mh, mmin, ms := decodeTime(binary.LittleEndian.Uint16(raw[direntModifyTimeOffset:]))
	return Metadata{
		Attributes: attr,
		Created:    Timestamp{cy, cm, cd, ch, cmin, cs},
		Accessed:   Timestamp{ay, am, ad, 0, 0, 0},
		Modified:   Timestamp{my, mm, md, mh, mmin, ms},
	}
}

func decodeRegularEntry(raw []byte, longName string) dirEntry {
	meta := decodeMetadata(raw)
	lo := binary.LittleEndian.Uint16(raw[direntClusterLoOffset:])
	hi := binary.LittleEndian.Uint16(raw[direntClusterHiOffset:])
	cluster := newCluster(uint32(hi)<<16 | uint32(lo))
	name := longName
	if name == "" {
		name = shortName(raw)
	}
	return dirEntry{
		Name:  name,
		Meta:  meta,
		Start: cluster,
		Size:  binary.LittleEndian.Uint32(raw[direntSizeOffset:]),
		IsDir: meta.Attributes.Directory(),
	}
}
