package mem

import (
	"runtime"
	"testing"
	"unsafe"
)

// buildATags writes a firmware-style ATAGS list into a host buffer and
// returns the Pa a caller should pass to WalkATags: base + KernelBase
// round-trips back to the buffer's real address via P2V, the same trick
// page_test.go uses for the page allocator.
func buildATags(t *testing.T, tags []rawAtag, words [][]uint32) (Pa, []byte) {
	t.Helper()
	var size int
	for i, tag := range tags {
		size += int(unsafe.Sizeof(rawAtag{})) + len(words[i])*4
		_ = tag
	}
	size += int(unsafe.Sizeof(rawAtag{})) // trailing ATAG_NONE

	buf := make([]byte, size)
	off := 0
	for i, tag := range tags {
		hdr := (*rawAtag)(unsafe.Pointer(&buf[off]))
		hdr.sizeWords = uint32(unsafe.Sizeof(rawAtag{})/4) + uint32(len(words[i]))
		hdr.tag = tag.tag
		off += int(unsafe.Sizeof(rawAtag{}))
		for _, w := range words[i] {
			*(*uint32)(unsafe.Pointer(&buf[off])) = w
			off += 4
		}
	}
	none := (*rawAtag)(unsafe.Pointer(&buf[off]))
	none.sizeWords = 0
	none.tag = atagNone

	base := Pa(uintptr(unsafe.Pointer(&buf[0])) - KernelBase)
	return base, buf
}

func TestWalkATagsVisitsEveryMemTag(t *testing.T) {
	base, buf := buildATags(t, []rawAtag{
		{tag: atagCore},
		{tag: atagMem},
		{tag: atagMem},
	}, [][]uint32{
		{0, 0},
		{0x1000_0000, 0},      // 256 MiB at physical 0
		{0x1000_0000, 0x1000_0000}, // 256 MiB at physical 256 MiB
	})
	defer runtime.KeepAlive(buf)

	var seen []MemTag
	WalkATags(base, func(m MemTag) { seen = append(seen, m) })

	if len(seen) != 2 {
		t.Fatalf("WalkATags visited %d MEM tags, want 2", len(seen))
	}
	if seen[0].Size != 0x1000_0000 || seen[0].Start != 0 {
		t.Fatalf("first MEM tag = %+v", seen[0])
	}
	if seen[1].Start != 0x1000_0000 {
		t.Fatalf("second MEM tag start = %#x, want 0x1000_0000", seen[1].Start)
	}
}

func TestHighestRAMEndPicksTheTopmostRegion(t *testing.T) {
	base, buf := buildATags(t, []rawAtag{
		{tag: atagMem},
		{tag: atagMem},
	}, [][]uint32{
		{0x1000_0000, 0},
		{0x1000_0000, 0x2000_0000},
	})
	defer runtime.KeepAlive(buf)

	end := HighestRAMEnd(base, 0xDEAD)
	want := Pa(0x2000_0000 + 0x1000_0000)
	if end != want {
		t.Fatalf("HighestRAMEnd = %#x, want %#x", end, want)
	}
}

func TestHighestRAMEndFallsBackWithNoMemTag(t *testing.T) {
	base, buf := buildATags(t, []rawAtag{{tag: atagCore}}, [][]uint32{{0, 0}})
	defer runtime.KeepAlive(buf)

	if end := HighestRAMEnd(base, Pa(42)); end != 42 {
		t.Fatalf("HighestRAMEnd = %#x, want fallback 42", end)
	}
}
