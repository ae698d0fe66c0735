package c64

import "fmt"

// traceCapacity bounds the ring buffer so --trace mode has bounded memory
// even across a long-running session.
const traceCapacity = 4096

// TraceEntry records the machine state immediately before one instruction
// executed.
type TraceEntry struct {
	PC     uint16
	Opcode uint8
	A, X, Y, SP, SR uint8
	Cycles uint64
}

// Tracer is a ring buffer of recent instruction executions, used by the
// CLI's --trace flag to print the last instructions a run executed.
type Tracer struct {
	entries [traceCapacity]TraceEntry
	next    int
	count   int
}

// NewTracer returns an empty Tracer.
func NewTracer() *Tracer { return &Tracer{} }

// Record appends a snapshot of cpu's state before it executes the
// instruction at cpu.PC.
func (t *Tracer) Record(cpu *CPU) {
	t.entries[t.next] = TraceEntry{
		PC: cpu.PC, Opcode: cpu.mem.ReadByte(cpu.PC),
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, SR: cpu.SR,
		Cycles: cpu.Cycles,
	}
	t.next = (t.next + 1) % traceCapacity
	if t.count < traceCapacity {
		t.count++
	}
}

// Recent returns up to n of the most recently recorded entries, oldest
// first.
func (t *Tracer) Recent(n int) []TraceEntry {
	if n > t.count {
		n = t.count
	}
	out := make([]TraceEntry, n)
	start := (t.next - n + traceCapacity) % traceCapacity
	for i := 0; i < n; i++ {
		out[i] = t.entries[(start+i)%traceCapacity]
	}
	return out
}

// Disassemble renders a single TraceEntry as a one-line mnemonic trace,
// e.g. "0400 A9      LDA  A=00 X=00 Y=00 SP=FD SR=24 CYC=7".
func Disassemble(e TraceEntry) string {
	entry := opcodeTable[e.Opcode]
	return fmt.Sprintf("%04X %02X      %-4s A=%02X X=%02X Y=%02X SP=%02X SR=%02X CYC=%d",
		e.PC, e.Opcode, entry.mnemonic, e.A, e.X, e.Y, e.SP, e.SR, e.Cycles)
}
