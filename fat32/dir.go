package fat32

// parseDirEntries reinterprets chain as a sequence of 32-byte directory
// records and folds long-filename fragments into the regular entry they
// precede, per §4.7's "Directory iteration" paragraph.
//
// Long-filename records are stored on disk in descending sequence order
// immediately before the short entry they annotate; each fragment is
// prepended to the name accumulated so far, so that by the time the
// terminal regular entry is reached the fragments have assembled in
// forward reading order.
func parseDirEntries(chain []byte) []dirEntry {
	var entries []dirEntry
	var longName string

	for off := 0; off+direntSize <= len(chain); off += direntSize {
		raw := chain[off : off+direntSize]

		switch raw[0] {
		case 0x00:
			return entries
		case 0xE5:
			longName = ""
			continue
		}

		if Attributes(raw[direntAttrOffset]).isLFN() {
			longName = lfnFragment(raw) + longName
			continue
		}

		entries = append(entries, decodeRegularEntry(raw, longName))
		longName = ""
	}
	return entries
}
