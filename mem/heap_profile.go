package mem

import (
	"bytes"

	"github.com/google/pprof/profile"
)

// DebugProfile renders the heap's live bin occupancy as a pprof profile,
// one location and one sample per non-empty bin (empty bins are omitted),
// and returns its string form for the console to print. This repoints
// the teacher's own github.com/google/pprof dependency (originally wired
// to net/http profiling, unavailable on bare metal) at the bin
// allocator it ships beside, per SPEC_FULL.md's DOMAIN STACK section.
// It is reachable only from kernel diagnostic/panic code, never from a
// supervisor call.
func (h *Heap) DebugProfile() string {
	h.mu.Lock()
	occupied := make(map[int]int64, numBins)
	for bin, head := range h.bins {
		if head != 0 {
			occupied[bin] = int64(binSize(bin))
		}
	}
	h.mu.Unlock()

	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "bytes", Unit: "bytes"}},
		PeriodType: &profile.ValueType{Type: "space", Unit: "bytes"},
		Period:     1,
	}

	locID := uint64(1)
	fnID := uint64(1)
	for bin, sz := range occupied {
		fn := &profile.Function{ID: fnID, Name: binLabel(bin)}
		loc := &profile.Location{ID: locID, Line: []profile.Line{{Function: fn}}}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{sz},
		})
		locID++
		fnID++
	}

	var buf bytes.Buffer
	if err := p.WriteUncompressed(&buf); err != nil {
		return "heap profile encode error: " + err.Error()
	}
	return buf.String()
}

func binLabel(bin int) string {
	shift := bin + MinBinShift
	out := make([]byte, 0, 8)
	out = append(out, "bin2^"...)
	out = appendInt(out, shift)
	return string(out)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	var tmp [8]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(b, tmp[i:]...)
}
