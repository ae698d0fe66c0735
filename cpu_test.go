package c64

import "testing"

func newTestCPU() (*CPU, *Memory) {
	mem := NewMemory()
	mem.WriteByte(0x0001, 0) // plain RAM everywhere, vectors included
	cpu := NewCPU(mem)
	return cpu, mem
}

func loadAndRun(t *testing.T, cpu *CPU, mem *Memory, addr uint16, program []byte, steps int) {
	t.Helper()
	for i, b := range program {
		mem.WriteByte(addr+uint16(i), b)
	}
	cpu.PC = addr
	for i := 0; i < steps; i++ {
		cpu.Step()
	}
}

func TestResetLoadsVector(t *testing.T) {
	mem := NewMemory()
	mem.WriteByte(0x0001, 0)
	mem.WriteWord(vectorReset, 0x1234)
	cpu := NewCPU(mem)
	if cpu.PC != 0x1234 {
		t.Fatalf("PC after reset = %04X, want 1234", cpu.PC)
	}
	if cpu.SP != 0xFD {
		t.Fatalf("SP after reset = %02X, want FD", cpu.SP)
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	cpu, mem := newTestCPU()
	loadAndRun(t, cpu, mem, 0x0800, []byte{0xA9, 0x00}, 1)
	if cpu.A != 0 || !cpu.getFlag(FlagZero) {
		t.Fatalf("LDA #$00: A=%02X SR=%02X, want A=0 Z set", cpu.A, cpu.SR)
	}

	cpu, mem = newTestCPU()
	loadAndRun(t, cpu, mem, 0x0800, []byte{0xA9, 0x80}, 1)
	if cpu.A != 0x80 || !cpu.getFlag(FlagNegative) {
		t.Fatalf("LDA #$80: A=%02X SR=%02X, want A=80 N set", cpu.A, cpu.SR)
	}
}

func TestADCBinaryCarry(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.A = 0xFF
	loadAndRun(t, cpu, mem, 0x0800, []byte{0x69, 0x01}, 1) // ADC #$01
	if cpu.A != 0x00 || !cpu.getFlag(FlagCarry) || !cpu.getFlag(FlagZero) {
		t.Fatalf("ADC overflow: A=%02X SR=%02X, want A=0 C,Z set", cpu.A, cpu.SR)
	}
}

func TestADCDecimalMode(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.A = 0x58
	cpu.setFlag(FlagDecimal, true)
	cpu.setFlag(FlagCarry, false)
	loadAndRun(t, cpu, mem, 0x0800, []byte{0x69, 0x46}, 1) // ADC #$46 BCD
	if cpu.A != 0x04 || !cpu.getFlag(FlagCarry) {
		t.Fatalf("BCD 58+46: A=%02X SR=%02X, want A=04 C set", cpu.A, cpu.SR)
	}
}

func TestSBCBinaryBorrow(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.A = 0x00
	cpu.setFlag(FlagCarry, true)
	loadAndRun(t, cpu, mem, 0x0800, []byte{0xE9, 0x01}, 1) // SBC #$01
	if cpu.A != 0xFF || cpu.getFlag(FlagCarry) {
		t.Fatalf("SBC underflow: A=%02X SR=%02X, want A=FF C clear", cpu.A, cpu.SR)
	}
}

func TestStackPushPullRoundTrip(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.A = 0x42
	loadAndRun(t, cpu, mem, 0x0800, []byte{0x48, 0xA9, 0x00, 0x68}, 3) // PHA; LDA #0; PLA
	if cpu.A != 0x42 {
		t.Fatalf("PHA/PLA round trip: A=%02X, want 42", cpu.A)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	cpu, mem := newTestCPU()
	mem.WriteByte(0x0900, 0x60) // RTS
	loadAndRun(t, cpu, mem, 0x0800, []byte{0x20, 0x00, 0x09}, 2)
	if cpu.PC != 0x0803 {
		t.Fatalf("JSR/RTS round trip: PC=%04X, want 0803", cpu.PC)
	}
}

func TestBCSPageCrossCycles(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.setFlag(FlagCarry, true)
	mem.WriteByte(0x08FE, 0xB0) // BCS
	mem.WriteByte(0x08FF, 0xF0) // -16 -> crosses into the previous page
	cpu.PC = 0x08FE
	before := cpu.Cycles
	cpu.Step()
	if cpu.Cycles-before != 4 {
		t.Fatalf("BCS page-cross cycles = %d, want 4", cpu.Cycles-before)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	cpu, mem := newTestCPU()
	mem.WriteByte(0x02FF, 0x34)
	mem.WriteByte(0x0200, 0x12) // should be read, not 0x0300
	mem.WriteByte(0x0300, 0xFF)
	loadAndRun(t, cpu, mem, 0x0800, []byte{0x6C, 0xFF, 0x02}, 1)
	if cpu.PC != 0x1234 {
		t.Fatalf("JMP ($02FF) = %04X, want 1234 (page-wrap bug)", cpu.PC)
	}
}

func TestTrapOpcodeIntercept(t *testing.T) {
	cpu, mem := newTestCPU()
	called := false
	cpu.TrapOpcode(0x02, func(opcode byte, c *CPU, m *Memory) bool {
		called = true
		c.PC++
		return true
	})
	mem.WriteByte(0x0800, 0x02)
	cpu.PC = 0x0800
	cpu.Step()
	if !called {
		t.Fatalf("trap handler for opcode $02 was not invoked")
	}
}

func TestOpcodeTableComplete(t *testing.T) {
	for i := 0; i < 256; i++ {
		if opcodeTable[i].exec == nil {
			t.Fatalf("opcode %02X has no exec function", i)
		}
	}
}
