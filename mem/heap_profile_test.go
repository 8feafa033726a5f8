package mem

import (
	"runtime"
	"strings"
	"testing"
)

func TestDebugProfileListsOccupiedBins(t *testing.T) {
	h, buf := newTestHeap(1 << 16)
	defer runtime.KeepAlive(buf)

	addr, ok := h.Alloc(32, 0)
	if !ok {
		t.Fatal("Alloc failed")
	}
	h.Free(addr, 32)

	out := h.DebugProfile()
	if !strings.Contains(out, "bin2^") {
		t.Fatalf("DebugProfile output missing a bin label: %q", out)
	}
}

func TestDebugProfileOnEmptyHeap(t *testing.T) {
	h, buf := newTestHeap(1 << 12)
	defer runtime.KeepAlive(buf)

	if out := h.DebugProfile(); out == "" {
		t.Fatal("DebugProfile must still emit a well-formed (if empty) profile")
	}
}
