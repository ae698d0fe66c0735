// Package testharness implements the Dormann functional-test and Lorenz
// test-suite entry points used to validate the CPU core against the
// well-known 6502/6510 test ROM corpora.
package testharness

import (
	"fmt"
	"os"

	c64 "github.com/sixtyfour/c64core"
)

const (
	dormannTrapOpcode = 0x02
	dormannSuccessPC  = 0x3469
	dormannEntry      = 0x0400
)

// DormannResult reports the outcome of a Dormann functional-test run.
type DormannResult struct {
	Success bool
	TrapPC  uint16
}

// LoadDormann loads the Klaus Dormann functional-test binary into RAM at
// address 0 (wrapping on overflow, matching the original loader) and
// disables bank switching so the test ROM image is visible as plain RAM
// across the full 64KB.
func LoadDormann(mem *c64.Memory, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load dormann test: %w", err)
	}
	mem.WriteByte(0x0001, 0x00)
	addr := uint16(0)
	for _, b := range data {
		mem.WriteByte(addr, b)
		addr++
	}
	mem.WriteByte(0x0001, 0x00)
	return nil
}

// Run executes cpu against mem until the trap opcode fires at the known
// success address or maxSteps is exceeded.
func Run(cpu *c64.CPU, mem *c64.Memory, maxSteps int) DormannResult {
	mem.WriteByte(dormannSuccessPC, dormannTrapOpcode)
	cpu.Reset()
	cpu.PC = dormannEntry

	result := DormannResult{}
	cpu.TrapOpcode(dormannTrapOpcode, func(opcode byte, cpu *c64.CPU, mem *c64.Memory) bool {
		result.TrapPC = cpu.PC
		result.Success = result.TrapPC == dormannSuccessPC
		return true
	})
	defer cpu.TrapOpcode(dormannTrapOpcode, nil)

	for i := 0; i < maxSteps; i++ {
		cpu.Step()
		if result.TrapPC != 0 {
			break
		}
	}
	return result
}
