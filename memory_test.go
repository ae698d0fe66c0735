package c64

import (
	"os"
	"testing"
)

func TestBankSwitchingRegions(t *testing.T) {
	mem := NewMemory()
	mem.rom[0xA000] = 0xAA
	mem.rom[0xE000] = 0xEE
	mem.ram[0xA000] = 0x11
	mem.ram[0xE000] = 0x22

	mem.WriteByte(0x0001, bankLORAM|bankHIRAM|bankCHAREN)
	if v := mem.ReadByte(0xA000); v != 0xAA {
		t.Fatalf("BASIC ROM window: got %02X, want AA", v)
	}
	if v := mem.ReadByte(0xE000); v != 0xEE {
		t.Fatalf("KERNAL ROM window: got %02X, want EE", v)
	}

	mem.WriteByte(0x0001, 0)
	if v := mem.ReadByte(0xA000); v != 0x11 {
		t.Fatalf("RAM visible at A000 with banks off: got %02X, want 11", v)
	}
	if v := mem.ReadByte(0xE000); v != 0x22 {
		t.Fatalf("RAM visible at E000 with banks off: got %02X, want 22", v)
	}
}

func TestIOWindowRequiresCHAREN(t *testing.T) {
	mem := NewMemory()
	cia := NewCIA(1, SystemClock{}, nil)
	mem.AttachCIA1(cia)
	mem.rom[0xDC00] = 0x99

	mem.WriteByte(0x0001, bankLORAM|bankHIRAM) // CHAREN clear -> char ROM, not I/O
	if v := mem.ReadByte(0xDC00); v != 0x99 {
		t.Fatalf("expected char ROM fallthrough, got %02X", v)
	}

	mem.WriteByte(0x0001, bankLORAM|bankHIRAM|bankCHAREN)
	cia.WriteRegister(ciaDDRA, 0xFF)
	cia.WriteRegister(ciaPRA, 0x42)
	if v := mem.ReadByte(0xDC00); v != 0x42 {
		t.Fatalf("expected CIA#1 port A via I/O window, got %02X", v)
	}
}

func TestPRGLoadSetsVariablesPointer(t *testing.T) {
	mem := NewMemory()
	dir := t.TempDir()
	path := dir + "/test.prg"
	data := []byte{0x01, 0x08, 0xAA, 0xBB, 0xCC}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := mem.LoadPRG(path); err != nil {
		t.Fatal(err)
	}
	if mem.ram[0x0801] != 0xAA || mem.ram[0x0803] != 0xCC {
		t.Fatalf("PRG payload not loaded at 0x0801")
	}
	if end := mem.ReadWord(0x2D); end != 0x0804 {
		t.Fatalf("variables pointer = %04X, want 0804", end)
	}
}
