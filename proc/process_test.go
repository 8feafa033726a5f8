package proc

import (
	"testing"

	"lainkern/mem"
)

func TestIdSequence(t *testing.T) {
	id := Id(1)
	if !id.Valid() {
		t.Fatal("Id(1) should be valid")
	}
	if Id(0).Valid() {
		t.Fatal("Id(0) must never be valid")
	}
	next, ok := id.Next()
	if !ok || next != 2 {
		t.Fatalf("Next() = %v, %v; want 2, true", next, ok)
	}
	if _, ok := Id(^uint64(0)).Next(); ok {
		t.Fatal("Next() at the top of the range must report exhaustion")
	}
}

func TestTrapFrameSetELRAlignment(t *testing.T) {
	tf := &TrapFrame{}
	tf.SetELR(0x1000)
	if tf.ELR != 0x1000 {
		t.Fatalf("ELR = %#x, want 0x1000", tf.ELR)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("SetELR should panic on a misaligned entry point")
		}
	}()
	tf.SetELR(0x1001)
}

func TestTrapFrameSetTTBR(t *testing.T) {
	tf := &TrapFrame{}
	tf.SetTTBR(7, mem.Pa(0x2000))
	if tf.TTBR&1 == 0 {
		t.Fatal("TTBR valid bit must be set")
	}
	if tf.TTBR>>48 != 7 {
		t.Fatalf("ASID field = %d, want 7", tf.TTBR>>48)
	}
	if mem.Pa(tf.TTBR&0x0000_FFFF_FFFF_FFFE) != 0x2000 {
		t.Fatalf("address field wrong: %#x", tf.TTBR)
	}
}

func TestIsReadyTransitions(t *testing.T) {
	p := &Process{State: ReadyState()}
	if !p.IsReady() {
		t.Fatal("Ready state must be ready")
	}

	p.State = RunningState()
	if p.IsReady() {
		t.Fatal("Running state must not be ready")
	}

	fired := false
	p.State = WaitingState(func(*Process) bool { return fired })
	if p.IsReady() {
		t.Fatal("predicate not yet satisfied")
	}
	fired = true
	if !p.IsReady() {
		t.Fatal("predicate now satisfied, should become ready")
	}
	if p.State.Kind != Ready {
		t.Fatal("IsReady must transition Waiting to Ready once satisfied")
	}

	p.State = ExitState(7)
	if p.IsReady() {
		t.Fatal("Exit state must never be ready")
	}
}

func TestSetIdAndId(t *testing.T) {
	p := &Process{TrapFrame: &TrapFrame{}}
	if _, ok := p.Id(); ok {
		t.Fatal("fresh process must have no id")
	}
	p.SetId(Id(42))
	id, ok := p.Id()
	if !ok || id != 42 {
		t.Fatalf("Id() = %v, %v; want 42, true", id, ok)
	}
}
