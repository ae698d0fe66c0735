package c64

import (
	"testing"
	"time"
)

func TestCIATimerUnderflowRaisesIRQWhenMasked(t *testing.T) {
	var asserted bool
	cia := NewCIA(1, SystemClock{}, func(assert bool) { asserted = assert })

	cia.WriteRegister(ciaTALo, 0x05)
	cia.WriteRegister(ciaTAHi, 0x00)
	cia.WriteRegister(ciaICR, icrSet|icrTA) // unmask timer A
	cia.WriteRegister(ciaCRA, crStart)

	cia.Execute(6) // 5 counts down to 0, underflow on the 6th tick
	if !asserted {
		t.Fatalf("expected IRQ to be raised on masked timer A underflow")
	}
	status := cia.ReadRegister(ciaICR)
	if status&icrTA == 0 {
		t.Fatalf("ICR status bit for timer A not set: %02X", status)
	}
}

func TestCIATimerUnderflowSetsStatusEvenWhenUnmasked(t *testing.T) {
	var asserted bool
	cia := NewCIA(1, SystemClock{}, func(assert bool) { asserted = assert })
	cia.WriteRegister(ciaTALo, 0x02)
	cia.WriteRegister(ciaTAHi, 0x00)
	cia.WriteRegister(ciaCRA, crStart) // mask left at 0: no IRQ should fire

	cia.Execute(3)
	if asserted {
		t.Fatalf("IRQ should not fire when timer A is unmasked")
	}
	status := cia.ReadRegister(ciaICR)
	if status&icrTA == 0 {
		t.Fatalf("status bit must be set on every underflow regardless of mask, got %02X", status)
	}
}

func TestCIATODReadsFixedClock(t *testing.T) {
	fixed := FixedClock{At: time.Date(2026, 1, 1, 13, 30, 45, 0, time.UTC)}
	cia := NewCIA(2, fixed, nil)
	hr := cia.ReadRegister(ciaTODHr)
	if hr != 0x81 {
		t.Fatalf("TOD hour for 13:30 = %02X, want 81 (01 BCD | PM bit)", hr)
	}
	min := cia.ReadRegister(ciaTODMin)
	if min != 0x30 {
		t.Fatalf("TOD minute = %02X, want 30", min)
	}
}
