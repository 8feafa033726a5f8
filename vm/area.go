package vm

import "lainkern/mem"

/// Area describes one contiguous virtual region of a process's address
/// space: a (start, end, attributes, optional backing PA) record, per
/// §3. Areas do not overlap within one Memory and are kept in insertion
/// order.
type Area struct {
	Start mem.Va
	End   mem.Va
	Attrs Attrs

	// Backing is the optional physical address this area is eagerly
	// mapped to. A zero value with BackingSet false means the area is
	// lazily populated by page faults.
	Backing    mem.Pa
	BackingSet bool
}

/// NewArea describes a lazily-populated region [start, end) with the
/// given attributes and no backing physical address.
func NewArea(start, end mem.Va, a Attrs) Area {
	return Area{Start: start, End: end, Attrs: a}
}

/// NewBackedArea describes a region eagerly mapped to the physical range
/// starting at backing.
func NewBackedArea(start, end mem.Va, a Attrs, backing mem.Pa) Area {
	return Area{Start: start, End: end, Attrs: a, Backing: backing, BackingSet: true}
}

/// Contains reports whether va falls in this area's half-open range.
func (a Area) Contains(va mem.Va) bool {
	return a.Start <= va && va < a.End
}

/// Len returns the area's span in bytes.
func (a Area) Len() mem.Va {
	return a.End - a.Start
}
