// Package sched implements the single global round-robin scheduler
// described in §4.3: a mutex-guarded FIFO queue of processes, the id of
// the process currently running, and the last-allocated id. Grounded on
// original_source/kernel/src/process/scheduler.rs's GlobalScheduler
// wrapping Mutex<Option<Scheduler>>, adapted to the teacher's
// package-level-singleton idiom (tinfo.Threadinfo_t) rather than a
// lazily-constructed Option.
package sched

import (
	"sync"
	"time"

	"lainkern/proc"
)

/// Scheduler holds the FIFO run queue plus bookkeeping. The zero value is
/// a usable, empty scheduler.
type Scheduler struct {
	mu sync.Mutex

	queue   []*proc.Process
	byId    map[proc.Id]*proc.Process
	current proc.Id
	lastId  proc.Id

	lastSwitch time.Time // zero until the first Switch or Start

	// reapPending holds processes whose Memory must be destroyed, drained
	// at the top of the *next* Switch so a process's own final Switch
	// call never frees memory out from under its own stack.
	reapPending []*proc.Process
}

var global Scheduler

// WFI halts the CPU until the next interrupt; implemented in
// scheduler_arm64.s. Switch calls it once per full pass over the queue
// when every process is non-ready, per §4.3's "optionally executing a
// wait-for-interrupt instruction between passes when all are blocked."
func wfi()

// contextRestore loads tf's general registers, SP and ELR/SPSR and
// issues an exception return into EL0; implemented in
// scheduler_arm64.s. It never returns to its caller.
func contextRestore(tf *proc.TrapFrame)

/// Reset discards all scheduler state: empty queue, no current process,
/// id sequence restarted. Grounded on original_source's
/// GlobalScheduler::start() reinitializing its inner Scheduler each
/// boot; this module exposes that reinitialization as its own operation
/// so board boot code (and tests) can call it explicitly rather than
/// folding it invisibly into Start.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.queue = nil
	global.byId = nil
	global.current = 0
	global.lastId = 0
	global.lastSwitch = time.Time{}
	global.reapPending = nil
}

/// Add enqueues process, allocating and stamping its id, per §4.3's
/// add(process). The first process ever added becomes current.
func Add(p *proc.Process) (proc.Id, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	var id proc.Id
	if global.lastId == 0 {
		id = proc.Id(1)
	} else {
		next, ok := global.lastId.Next()
		if !ok {
			return 0, false
		}
		id = next
	}
	global.lastId = id
	p.SetId(id)

	if global.byId == nil {
		global.byId = make(map[proc.Id]*proc.Process)
	}
	global.byId[id] = p
	global.queue = append(global.queue, p)

	if !global.current.Valid() {
		global.current = id
	}
	return id, true
}

/// Switch performs a context switch per §4.3: the outgoing process
/// (global.current) has tf saved into its own trap frame and its state
/// set to newState; it is re-queued unless newState is Exit. The queue
/// is then scanned, in FIFO order, for the first process whose IsReady
/// returns true; that process's trap frame is copied into tf, its state
/// set to Running, and its id returned as the new current. If every
/// process in the queue is non-ready, Switch executes wfi and scans
/// again. Switch returns false only if the queue is empty.
func Switch(newState proc.State, tf *proc.TrapFrame) (proc.Id, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	for _, p := range global.reapPending {
		p.Memory.Destroy()
	}
	global.reapPending = global.reapPending[:0]

	now := time.Now()
	if out, ok := global.byId[global.current]; ok {
		*out.TrapFrame = *tf
		out.State = newState
		if !global.lastSwitch.IsZero() {
			elapsed := now.Sub(global.lastSwitch)
			// A Ready transition only ever comes from the timer tick
			// preempting a still-running process (trap/dispatch.go), so
			// the whole interval was spent executing its own code; any
			// other transition (Waiting, Exit) is reached from inside a
			// supervisor call or fault handler, so the interval counts
			// against system time.
			if newState.Kind == proc.Ready {
				out.Accnt.AddUser(elapsed)
			} else {
				out.Accnt.AddSys(elapsed)
			}
		}
		if newState.Kind != proc.Exit {
			global.requeue(out)
		} else {
			global.forget(out)
		}
	}
	global.lastSwitch = now

	for {
		if len(global.queue) == 0 {
			return 0, false
		}
		for _, p := range global.queue {
			if p.IsReady() {
				*tf = *p.TrapFrame
				p.State = proc.RunningState()
				id, _ := p.Id()
				global.current = id
				return id, true
			}
		}
		wfi()
	}
}

// requeue moves p to the back of the FIFO queue.
func (s *Scheduler) requeue(p *proc.Process) {
	s.remove(p)
	s.queue = append(s.queue, p)
}

// forget drops p from the queue and the id index so it is never
// scheduled again, and queues its Memory for destruction on the next
// Switch call (§4.3 supplement: reap on exit).
func (s *Scheduler) forget(p *proc.Process) {
	s.remove(p)
	id, ok := p.Id()
	if ok {
		delete(s.byId, id)
	}
	s.reapPending = append(s.reapPending, p)
}

func (s *Scheduler) remove(p *proc.Process) {
	for i, q := range s.queue {
		if q == p {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

/// Start takes the first queued process (leaving it in the queue, so the
/// first Switch re-queues it at the back), marks it Running, hands its
/// trap frame to the
/// exception-return slot, and issues the exception return per §4.3's
/// start(). Does not return.
func Start() {
	global.mu.Lock()
	p := global.queue[0]
	p.State = proc.RunningState()
	id, _ := p.Id()
	global.current = id
	global.lastSwitch = time.Now()
	tf := p.TrapFrame
	global.mu.Unlock()

	contextRestore(tf)
	panic("sched: contextRestore returned")
}
