package c64

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ROM load addresses in the C64 memory map.
const (
	KernalROMAddress = 0xE000
	BasicROMAddress  = 0xA000
	CharROMAddress   = 0xD000
)

// ROMSet names the three ROM images a machine needs to boot.
type ROMSet struct {
	Kernal string
	Basic  string
	Char   string
}

// Machine wires together the CPU, memory fabric, two CIA chips, the
// minimal VIC-II, the serial bus and up to four D64 disk devices into a
// runnable C64. It owns every peripheral as plain struct fields rather
// than the CPU holding back-pointers to them, per the capability-passing
// design used throughout this engine.
type Machine struct {
	Mem    *Memory
	CPU    *CPU
	CIA1   *CIA
	CIA2   *CIA
	VIC    *VIC
	Serial *SerialBus
	Disks  [diskDeviceMax]*D64Disk

	clock Clock
}

// NewMachine constructs a fully wired, reset machine using clock as the
// CIA TOD time source (SystemClock{} in production, a FixedClock in test
// harnesses).
func NewMachine(clock Clock) *Machine {
	m := &Machine{clock: clock}
	m.Mem = NewMemory()
	m.CPU = NewCPU(m.Mem)

	m.CIA1 = NewCIA(1, clock, func(assert bool) { m.CPU.SetIRQLine(assert) })
	m.CIA2 = NewCIA(2, clock, func(assert bool) { m.CPU.SetNMILine(assert) })
	m.VIC = NewVIC(func(assert bool) { m.CPU.SetIRQLine(assert) })
	m.Serial = NewSerialBus()

	m.Mem.AttachCIA1(m.CIA1)
	m.Mem.AttachCIA2(m.CIA2)
	m.Mem.AttachVIC(m.VIC)

	for i := range m.Disks {
		m.Disks[i] = NewD64Disk()
		m.Serial.Attach(diskDeviceFirst+i, m.Disks[i])
	}

	return m
}

// LoadROMs loads the KERNAL, BASIC and character ROM images, and an
// optional D64 image into drive 8, concurrently via errgroup, failing
// fast on the first error.
func (m *Machine) LoadROMs(roms ROMSet, diskImage string) error {
	var g errgroup.Group
	if roms.Kernal != "" {
		g.Go(func() error { return m.Mem.LoadROM(roms.Kernal, KernalROMAddress) })
	}
	if roms.Basic != "" {
		g.Go(func() error { return m.Mem.LoadROM(roms.Basic, BasicROMAddress) })
	}
	if roms.Char != "" {
		g.Go(func() error { return m.Mem.LoadROM(roms.Char, CharROMAddress) })
	}
	if diskImage != "" {
		g.Go(func() error { return m.Disks[0].Load(diskImage) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load roms: %w", err)
	}
	return nil
}

// Reset hard-resets the CPU, both CIAs and the VIC-II. Memory, the serial
// bus and the disk devices keep their current state.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.CIA1.Reset()
	m.CIA2.Reset()
	m.VIC.Reset()
}

// Step executes exactly one CPU instruction (or interrupt service) and
// drains the resulting cycle count into the peripherals in the fixed
// order CIA#1, CIA#2, VIC-II, then the serial bus (stepped once per
// elapsed cycle), matching the strict ordering required for
// deterministic interrupt timing.
func (m *Machine) Step() uint8 {
	cycles := m.CPU.Step()
	n := int(cycles)

	m.CIA1.Execute(n)
	m.CIA2.Execute(n)
	m.VIC.SetBankSelect(^m.CIA2.PortA() & 0x3)
	m.VIC.Execute(n)

	// The bus's handshake timing (EOI/workaround windows, bit hold times)
	// is specified in real clock cycles, so it must be ticked once per
	// elapsed cycle rather than once per instruction.
	portOut := m.CIA2.PortA()
	var portIn uint8
	for i := 0; i < n; i++ {
		portIn = m.Serial.Execute(portOut)
	}
	m.CIA2.SetPortAInputs(portIn)

	return cycles
}
