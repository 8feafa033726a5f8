package proc

import (
	"time"

	"lainkern/util"
)

/// Accnt holds per-process CPU-time accounting, grounded on the
/// teacher's accnt.Accnt_t. The scheduler bumps Sys or User on every
/// switch; nothing else in this core reads these counters, but they are
/// exposed read-only for the (out-of-scope) shell.
type Accnt struct {
	User time.Duration
	Sys  time.Duration
}

/// AddUser and AddSys accumulate time spent running this process's own
/// code versus time spent on its behalf inside the kernel.
func (a *Accnt) AddUser(d time.Duration) { a.User += d }
func (a *Accnt) AddSys(d time.Duration)  { a.Sys += d }

/// Total returns the sum of both counters.
func (a *Accnt) Total() time.Duration { return a.User + a.Sys }

// ToRusage encodes a as two {seconds, microseconds} timeval pairs (user,
// then sys) in a flat byte buffer, the layout the (out-of-scope) getrusage
// supervisor call would copy to userspace. Grounded on the teacher's
// Accnt_t.To_rusage, field for field.
func (a *Accnt) ToRusage() []uint8 {
	ret := make([]uint8, 4*8)
	totv := func(d time.Duration) (int, int) {
		return int(d / time.Second), int((d % time.Second) / time.Microsecond)
	}
	off := 0
	s, us := totv(a.User)
	util.Writen(ret, 8, off, s)
	off += 8
	util.Writen(ret, 8, off, us)
	off += 8
	s, us = totv(a.Sys)
	util.Writen(ret, 8, off, s)
	off += 8
	util.Writen(ret, 8, off, us)
	return ret
}
