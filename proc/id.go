package proc

import "fmt"

/// Id is a non-zero 64-bit process sequence number; the zero value means
/// "no process" and is never handed out by Next.
type Id uint64

/// Next returns the successor id, or false if the sequence is exhausted
/// (practically unreachable, but checked per the original's checked_add).
func (id Id) Next() (Id, bool) {
	if id == ^Id(0) {
		return 0, false
	}
	return id + 1, true
}

func (id Id) String() string { return fmt.Sprintf("Id(%d)", uint64(id)) }

/// Valid reports whether id is non-zero.
func (id Id) Valid() bool { return id != 0 }
