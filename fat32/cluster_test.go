package fat32

import "testing"

func TestClusterMasksReservedBits(t *testing.T) {
	c := newCluster(0xF0000005)
	if uint32(c) != 5 {
		t.Fatalf("newCluster masked value = %#x, want 5", uint32(c))
	}
}

func TestFatEntryStatusClassification(t *testing.T) {
	cases := []struct {
		raw    uint32
		status Status
	}{
		{0x00000000, Free},
		{0x00000001, Reserved},
		{0x0FFFFFF7, Bad},
		{0x0FFFFFF8, Eoc},
		{0x0FFFFFFF, Eoc},
		{0x00000005, Data},
	}
	for _, c := range cases {
		status, _ := newFatEntry(c.raw).Status()
		if status != c.status {
			t.Fatalf("Status(%#x) = %v, want %v", c.raw, status, c.status)
		}
	}
}

func TestFatEntryDataCarriesNextCluster(t *testing.T) {
	status, next := newFatEntry(5).Status()
	if status != Data {
		t.Fatalf("status = %v, want Data", status)
	}
	if next != 5 || next < 2 || uint32(next) >= 0x0FFFFFF0 {
		t.Fatalf("next cluster = %v, out of the valid Data(C') range", next)
	}
}

func TestClusterAndFatOffsetMath(t *testing.T) {
	c := newCluster(2)
	if got := c.sector(1); got != 0 {
		t.Fatalf("sector(1) = %d, want 0", got)
	}
	if got := newCluster(4).sector(1); got != 2 {
		t.Fatalf("sector(1) for cluster 4 = %d, want 2", got)
	}
	if got := c.fatOffset(); got != 8 {
		t.Fatalf("fatOffset() = %d, want 8", got)
	}
}
