package testharness

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	c64 "github.com/sixtyfour/c64core"
)

const (
	lorenzTrapOpcode = 0xFF

	kernalCHROUT   = 0xFFD2
	kernalLOAD     = 0xE16F
	kernalSCNKEY   = 0xFFE4
	exitSuccessA   = 0x8000
	exitSuccessB   = 0xA474

	zpFileNameLen = 0xB7
	zpFileNamePtr = 0xBB
)

// petsciiToASCII mirrors the translation table from the original Lorenz
// harness: most codes print as '.', with the printable ASCII ranges
// (space, digits, punctuation, upper-case letters) passed through.
var petsciiToASCII = buildPetsciiTable()

func buildPetsciiTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = '.'
	}
	for i := 0x20; i <= 0x5F; i++ {
		t[i] = byte(i)
	}
	return t
}

// LorenzOutcome reports the outcome of a Lorenz test-suite program run.
type LorenzOutcome struct {
	Success bool
	Output  []byte
}

// LorenzDir is the directory Lorenz test binaries are loaded from,
// mirroring the original harness's LORENZ_TEST_DIRECTORY convention.
var LorenzDir = "testdata/6502/lorenz"

// LoadLorenz loads a Lorenz test binary by name: "trap17" is a built-in
// early-success sentinel used by the suite itself, anything else is read
// from LorenzDir as a 2-byte-load-address .prg-style file.
func LoadLorenz(mem *c64.Memory, name string) (bool, error) {
	if name == "trap17" {
		return true, nil
	}
	data, err := os.ReadFile(filepath.Join(LorenzDir, name))
	if err != nil {
		return false, fmt.Errorf("load lorenz test %s: %w", name, err)
	}
	if len(data) < 2 {
		return false, fmt.Errorf("load lorenz test %s: file too short", name)
	}
	addr := binary.LittleEndian.Uint16(data[:2])
	for _, b := range data[2:] {
		mem.WriteByte(addr, b)
		addr++
	}
	return false, nil
}

// RunLorenz installs the trap handler the Lorenz suite needs at KERNAL
// entry points and executes until success, failure or maxSteps.
func RunLorenz(cpu *c64.CPU, mem *c64.Memory, maxSteps int) LorenzOutcome {
	mem.WriteByte(0x0001, 0x00)
	var out LorenzOutcome

	cpu.TrapOpcode(lorenzTrapOpcode, func(opcode byte, cpu *c64.CPU, mem *c64.Memory) bool {
		pc := cpu.PC
		switch pc {
		case kernalCHROUT:
			ch := cpu.A
			out.Output = append(out.Output, petsciiToASCII[ch])
			returnFromTrap(cpu, mem)
			return true
		case kernalLOAD:
			nameLen := mem.ReadByte(zpFileNameLen)
			ptr := mem.ReadWord(zpFileNamePtr)
			name := make([]byte, nameLen)
			for i := range name {
				name[i] = petsciiToASCII[mem.ReadByte(ptr+uint16(i))]
			}
			success, err := LoadLorenz(mem, string(name))
			if err != nil || success {
				out.Success = success
			}
			cpu.PC = 0x0816
			return true
		case kernalSCNKEY:
			cpu.A = 3
			returnFromTrap(cpu, mem)
			return true
		case exitSuccessA, exitSuccessB:
			out.Success = true
			return true
		}
		return false
	})
	defer cpu.TrapOpcode(lorenzTrapOpcode, nil)

	for i := 0; i < maxSteps && !out.Success; i++ {
		cpu.Step()
	}
	return out
}

// returnFromTrap pops the return address the JSR to the trapped KERNAL
// entry point pushed, and resumes just after it, since the trap handler
// stands in for the routine body rather than executing it.
func returnFromTrap(cpu *c64.CPU, mem *c64.Memory) {
	lo := uint16(mem.ReadByte(0x0100 + uint16(cpu.SP) + 1))
	hi := uint16(mem.ReadByte(0x0100 + uint16(cpu.SP) + 2))
	cpu.SP += 2
	cpu.PC = (hi<<8 | lo) + 1
}
