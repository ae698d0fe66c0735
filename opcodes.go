package c64

// opcodeEntry is the tagged (operation, addressing-mode) dispatch record
// for a single opcode byte. Building the 256-entry table this way, instead
// of one function per (operation, mode) pair, keeps the addressing-mode
// logic in one place (addressing.go) and the operation logic in one place
// per mnemonic, rather than duplicated across every mode it supports.
type opcodeEntry struct {
	mnemonic         string
	mode             addrMode
	cycles           uint8
	pageCrossPenalty bool
	exec             func(cpu *CPU, op *operand)
}

var opcodeTable [256]opcodeEntry

func def(code byte, mnemonic string, mode addrMode, cycles uint8, pageCross bool, exec func(*CPU, *operand)) {
	opcodeTable[code] = opcodeEntry{mnemonic: mnemonic, mode: mode, cycles: cycles, pageCrossPenalty: pageCross, exec: exec}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeEntry{mnemonic: "JAM", mode: modeImplied, cycles: 2, exec: opJAM}
	}

	// Load/store.
	def(0xA9, "LDA", modeImmediate, 2, false, opLDA)
	def(0xA5, "LDA", modeZeroPage, 3, false, opLDA)
	def(0xB5, "LDA", modeZeroPageX, 4, false, opLDA)
	def(0xAD, "LDA", modeAbsolute, 4, false, opLDA)
	def(0xBD, "LDA", modeAbsoluteX, 4, true, opLDA)
	def(0xB9, "LDA", modeAbsoluteY, 4, true, opLDA)
	def(0xA1, "LDA", modeIndexedIndirect, 6, false, opLDA)
	def(0xB1, "LDA", modeIndirectIndexed, 5, true, opLDA)

	def(0xA2, "LDX", modeImmediate, 2, false, opLDX)
	def(0xA6, "LDX", modeZeroPage, 3, false, opLDX)
	def(0xB6, "LDX", modeZeroPageY, 4, false, opLDX)
	def(0xAE, "LDX", modeAbsolute, 4, false, opLDX)
	def(0xBE, "LDX", modeAbsoluteY, 4, true, opLDX)

	def(0xA0, "LDY", modeImmediate, 2, false, opLDY)
	def(0xA4, "LDY", modeZeroPage, 3, false, opLDY)
	def(0xB4, "LDY", modeZeroPageX, 4, false, opLDY)
	def(0xAC, "LDY", modeAbsolute, 4, false, opLDY)
	def(0xBC, "LDY", modeAbsoluteX, 4, true, opLDY)

	def(0x85, "STA", modeZeroPage, 3, false, opSTA)
	def(0x95, "STA", modeZeroPageX, 4, false, opSTA)
	def(0x8D, "STA", modeAbsolute, 4, false, opSTA)
	def(0x9D, "STA", modeAbsoluteX, 5, false, opSTA)
	def(0x99, "STA", modeAbsoluteY, 5, false, opSTA)
	def(0x81, "STA", modeIndexedIndirect, 6, false, opSTA)
	def(0x91, "STA", modeIndirectIndexed, 6, false, opSTA)

	def(0x86, "STX", modeZeroPage, 3, false, opSTX)
	def(0x96, "STX", modeZeroPageY, 4, false, opSTX)
	def(0x8E, "STX", modeAbsolute, 4, false, opSTX)

	def(0x84, "STY", modeZeroPage, 3, false, opSTY)
	def(0x94, "STY", modeZeroPageX, 4, false, opSTY)
	def(0x8C, "STY", modeAbsolute, 4, false, opSTY)

	// Transfers.
	def(0xAA, "TAX", modeImplied, 2, false, func(c *CPU, _ *operand) { c.X = c.A; c.setNZ(c.X) })
	def(0x8A, "TXA", modeImplied, 2, false, func(c *CPU, _ *operand) { c.A = c.X; c.setNZ(c.A) })
	def(0xA8, "TAY", modeImplied, 2, false, func(c *CPU, _ *operand) { c.Y = c.A; c.setNZ(c.Y) })
	def(0x98, "TYA", modeImplied, 2, false, func(c *CPU, _ *operand) { c.A = c.Y; c.setNZ(c.A) })
	def(0xBA, "TSX", modeImplied, 2, false, func(c *CPU, _ *operand) { c.X = c.SP; c.setNZ(c.X) })
	def(0x9A, "TXS", modeImplied, 2, false, func(c *CPU, _ *operand) { c.SP = c.X })

	// Stack.
	def(0x48, "PHA", modeImplied, 3, false, func(c *CPU, _ *operand) { c.push(c.A) })
	def(0x68, "PLA", modeImplied, 4, false, func(c *CPU, _ *operand) { c.A = c.pull(); c.setNZ(c.A) })
	def(0x08, "PHP", modeImplied, 3, false, func(c *CPU, _ *operand) { c.push(c.statusForPush(true)) })
	def(0x28, "PLP", modeImplied, 4, false, func(c *CPU, _ *operand) {
		c.SR = (c.pull() &^ FlagBreak) | FlagUnused
	})

	// Arithmetic.
	def(0x69, "ADC", modeImmediate, 2, false, opADC)
	def(0x65, "ADC", modeZeroPage, 3, false, opADC)
	def(0x75, "ADC", modeZeroPageX, 4, false, opADC)
	def(0x6D, "ADC", modeAbsolute, 4, false, opADC)
	def(0x7D, "ADC", modeAbsoluteX, 4, true, opADC)
	def(0x79, "ADC", modeAbsoluteY, 4, true, opADC)
	def(0x61, "ADC", modeIndexedIndirect, 6, false, opADC)
	def(0x71, "ADC", modeIndirectIndexed, 5, true, opADC)

	def(0xE9, "SBC", modeImmediate, 2, false, opSBC)
	def(0xEB, "SBC", modeImmediate, 2, false, opSBC) // USBC, undocumented duplicate
	def(0xE5, "SBC", modeZeroPage, 3, false, opSBC)
	def(0xF5, "SBC", modeZeroPageX, 4, false, opSBC)
	def(0xED, "SBC", modeAbsolute, 4, false, opSBC)
	def(0xFD, "SBC", modeAbsoluteX, 4, true, opSBC)
	def(0xF9, "SBC", modeAbsoluteY, 4, true, opSBC)
	def(0xE1, "SBC", modeIndexedIndirect, 6, false, opSBC)
	def(0xF1, "SBC", modeIndirectIndexed, 5, true, opSBC)

	// Increments/decrements.
	def(0xE6, "INC", modeZeroPage, 5, false, opINC)
	def(0xF6, "INC", modeZeroPageX, 6, false, opINC)
	def(0xEE, "INC", modeAbsolute, 6, false, opINC)
	def(0xFE, "INC", modeAbsoluteX, 7, false, opINC)
	def(0xC6, "DEC", modeZeroPage, 5, false, opDEC)
	def(0xD6, "DEC", modeZeroPageX, 6, false, opDEC)
	def(0xCE, "DEC", modeAbsolute, 6, false, opDEC)
	def(0xDE, "DEC", modeAbsoluteX, 7, false, opDEC)
	def(0xE8, "INX", modeImplied, 2, false, func(c *CPU, _ *operand) { c.X++; c.setNZ(c.X) })
	def(0xC8, "INY", modeImplied, 2, false, func(c *CPU, _ *operand) { c.Y++; c.setNZ(c.Y) })
	def(0xCA, "DEX", modeImplied, 2, false, func(c *CPU, _ *operand) { c.X--; c.setNZ(c.X) })
	def(0x88, "DEY", modeImplied, 2, false, func(c *CPU, _ *operand) { c.Y--; c.setNZ(c.Y) })

	// Logic.
	def(0x29, "AND", modeImmediate, 2, false, opAND)
	def(0x25, "AND", modeZeroPage, 3, false, opAND)
	def(0x35, "AND", modeZeroPageX, 4, false, opAND)
	def(0x2D, "AND", modeAbsolute, 4, false, opAND)
	def(0x3D, "AND", modeAbsoluteX, 4, true, opAND)
	def(0x39, "AND", modeAbsoluteY, 4, true, opAND)
	def(0x21, "AND", modeIndexedIndirect, 6, false, opAND)
	def(0x31, "AND", modeIndirectIndexed, 5, true, opAND)

	def(0x49, "EOR", modeImmediate, 2, false, opEOR)
	def(0x45, "EOR", modeZeroPage, 3, false, opEOR)
	def(0x55, "EOR", modeZeroPageX, 4, false, opEOR)
	def(0x4D, "EOR", modeAbsolute, 4, false, opEOR)
	def(0x5D, "EOR", modeAbsoluteX, 4, true, opEOR)
	def(0x59, "EOR", modeAbsoluteY, 4, true, opEOR)
	def(0x41, "EOR", modeIndexedIndirect, 6, false, opEOR)
	def(0x51, "EOR", modeIndirectIndexed, 5, true, opEOR)

	def(0x09, "ORA", modeImmediate, 2, false, opORA)
	def(0x05, "ORA", modeZeroPage, 3, false, opORA)
	def(0x15, "ORA", modeZeroPageX, 4, false, opORA)
	def(0x0D, "ORA", modeAbsolute, 4, false, opORA)
	def(0x1D, "ORA", modeAbsoluteX, 4, true, opORA)
	def(0x19, "ORA", modeAbsoluteY, 4, true, opORA)
	def(0x01, "ORA", modeIndexedIndirect, 6, false, opORA)
	def(0x11, "ORA", modeIndirectIndexed, 5, true, opORA)

	def(0x24, "BIT", modeZeroPage, 3, false, opBIT)
	def(0x2C, "BIT", modeAbsolute, 4, false, opBIT)

	// Shifts/rotates.
	def(0x0A, "ASL", modeAccumulator, 2, false, opASL)
	def(0x06, "ASL", modeZeroPage, 5, false, opASL)
	def(0x16, "ASL", modeZeroPageX, 6, false, opASL)
	def(0x0E, "ASL", modeAbsolute, 6, false, opASL)
	def(0x1E, "ASL", modeAbsoluteX, 7, false, opASL)

	def(0x4A, "LSR", modeAccumulator, 2, false, opLSR)
	def(0x46, "LSR", modeZeroPage, 5, false, opLSR)
	def(0x56, "LSR", modeZeroPageX, 6, false, opLSR)
	def(0x4E, "LSR", modeAbsolute, 6, false, opLSR)
	def(0x5E, "LSR", modeAbsoluteX, 7, false, opLSR)

	def(0x2A, "ROL", modeAccumulator, 2, false, opROL)
	def(0x26, "ROL", modeZeroPage, 5, false, opROL)
	def(0x36, "ROL", modeZeroPageX, 6, false, opROL)
	def(0x2E, "ROL", modeAbsolute, 6, false, opROL)
	def(0x3E, "ROL", modeAbsoluteX, 7, false, opROL)

	def(0x6A, "ROR", modeAccumulator, 2, false, opROR)
	def(0x66, "ROR", modeZeroPage, 5, false, opROR)
	def(0x76, "ROR", modeZeroPageX, 6, false, opROR)
	def(0x6E, "ROR", modeAbsolute, 6, false, opROR)
	def(0x7E, "ROR", modeAbsoluteX, 7, false, opROR)

	// Compares.
	def(0xC9, "CMP", modeImmediate, 2, false, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xC5, "CMP", modeZeroPage, 3, false, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xD5, "CMP", modeZeroPageX, 4, false, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xCD, "CMP", modeAbsolute, 4, false, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xDD, "CMP", modeAbsoluteX, 4, true, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xD9, "CMP", modeAbsoluteY, 4, true, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xC1, "CMP", modeIndexedIndirect, 6, false, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xD1, "CMP", modeIndirectIndexed, 5, true, func(c *CPU, o *operand) { opCompare(c, c.A, o) })
	def(0xE0, "CPX", modeImmediate, 2, false, func(c *CPU, o *operand) { opCompare(c, c.X, o) })
	def(0xE4, "CPX", modeZeroPage, 3, false, func(c *CPU, o *operand) { opCompare(c, c.X, o) })
	def(0xEC, "CPX", modeAbsolute, 4, false, func(c *CPU, o *operand) { opCompare(c, c.X, o) })
	def(0xC0, "CPY", modeImmediate, 2, false, func(c *CPU, o *operand) { opCompare(c, c.Y, o) })
	def(0xC4, "CPY", modeZeroPage, 3, false, func(c *CPU, o *operand) { opCompare(c, c.Y, o) })
	def(0xCC, "CPY", modeAbsolute, 4, false, func(c *CPU, o *operand) { opCompare(c, c.Y, o) })

	// Branches.
	def(0x90, "BCC", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.getFlag(FlagCarry) }))
	def(0xB0, "BCS", modeRelative, 2, false, branch(func(c *CPU) bool { return c.getFlag(FlagCarry) }))
	def(0xF0, "BEQ", modeRelative, 2, false, branch(func(c *CPU) bool { return c.getFlag(FlagZero) }))
	def(0xD0, "BNE", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.getFlag(FlagZero) }))
	def(0x30, "BMI", modeRelative, 2, false, branch(func(c *CPU) bool { return c.getFlag(FlagNegative) }))
	def(0x10, "BPL", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.getFlag(FlagNegative) }))
	def(0x50, "BVC", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.getFlag(FlagOverflow) }))
	def(0x70, "BVS", modeRelative, 2, false, branch(func(c *CPU) bool { return c.getFlag(FlagOverflow) }))

	// Jumps/calls/returns.
	def(0x4C, "JMP", modeAbsolute, 3, false, func(c *CPU, o *operand) { c.PC = o.addr })
	def(0x6C, "JMP", modeIndirect, 5, false, func(c *CPU, o *operand) { c.PC = o.addr })
	def(0x20, "JSR", modeAbsolute, 6, false, func(c *CPU, o *operand) { c.pushWord(c.PC - 1); c.PC = o.addr })
	def(0x60, "RTS", modeImplied, 6, false, func(c *CPU, _ *operand) { c.PC = c.pullWord() + 1 })
	def(0x40, "RTI", modeImplied, 6, false, func(c *CPU, _ *operand) {
		c.SR = (c.pull() &^ FlagBreak) | FlagUnused
		c.PC = c.pullWord()
	})
	def(0x00, "BRK", modeImplied, 7, false, func(c *CPU, _ *operand) {
		c.PC++
		c.pushWord(c.PC)
		c.push(c.statusForPush(true))
		c.setFlag(FlagInterrupt, true)
		c.PC = c.mem.ReadWord(vectorIRQ)
	})

	// Flags.
	def(0x18, "CLC", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagCarry, false) })
	def(0x38, "SEC", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagCarry, true) })
	def(0x58, "CLI", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagInterrupt, false) })
	def(0x78, "SEI", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagInterrupt, true) })
	def(0xB8, "CLV", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagOverflow, false) })
	def(0xD8, "CLD", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagDecimal, false) })
	def(0xF8, "SED", modeImplied, 2, false, func(c *CPU, _ *operand) { c.setFlag(FlagDecimal, true) })

	def(0xEA, "NOP", modeImplied, 2, false, func(*CPU, *operand) {})

	defineUndocumentedOpcodes()
}

func opLDA(c *CPU, o *operand) { c.A = o.value; c.setNZ(c.A) }
func opLDX(c *CPU, o *operand) { c.X = o.value; c.setNZ(c.X) }
func opLDY(c *CPU, o *operand) { c.Y = o.value; c.setNZ(c.Y) }
func opSTA(c *CPU, o *operand) { c.mem.WriteByte(o.addr, c.A) }
func opSTX(c *CPU, o *operand) { c.mem.WriteByte(o.addr, c.X) }
func opSTY(c *CPU, o *operand) { c.mem.WriteByte(o.addr, c.Y) }

func opAND(c *CPU, o *operand) { c.A &= o.value; c.setNZ(c.A) }
func opEOR(c *CPU, o *operand) { c.A ^= o.value; c.setNZ(c.A) }
func opORA(c *CPU, o *operand) { c.A |= o.value; c.setNZ(c.A) }

func opBIT(c *CPU, o *operand) {
	c.setFlag(FlagZero, c.A&o.value == 0)
	c.setFlag(FlagNegative, o.value&FlagNegative != 0)
	c.setFlag(FlagOverflow, o.value&FlagOverflow != 0)
}

func opINC(c *CPU, o *operand) {
	v := o.value + 1
	c.mem.WriteByte(o.addr, v)
	c.setNZ(v)
}

func opDEC(c *CPU, o *operand) {
	v := o.value - 1
	c.mem.WriteByte(o.addr, v)
	c.setNZ(v)
}

func opASL(c *CPU, o *operand) {
	carry := o.value&0x80 != 0
	v := o.value << 1
	c.storeShifted(o, v)
	c.setFlag(FlagCarry, carry)
	c.setNZ(v)
}

func opLSR(c *CPU, o *operand) {
	carry := o.value&0x01 != 0
	v := o.value >> 1
	c.storeShifted(o, v)
	c.setFlag(FlagCarry, carry)
	c.setNZ(v)
}

func opROL(c *CPU, o *operand) {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	carryOut := o.value&0x80 != 0
	v := o.value<<1 | carryIn
	c.storeShifted(o, v)
	c.setFlag(FlagCarry, carryOut)
	c.setNZ(v)
}

func opROR(c *CPU, o *operand) {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	carryOut := o.value&0x01 != 0
	v := o.value>>1 | carryIn
	c.storeShifted(o, v)
	c.setFlag(FlagCarry, carryOut)
	c.setNZ(v)
}

// storeShifted writes a shift/rotate result back to the accumulator or
// the resolved memory address, depending on addressing mode.
func (cpu *CPU) storeShifted(o *operand, v uint8) {
	if o.accumulator {
		cpu.A = v
		return
	}
	cpu.mem.WriteByte(o.addr, v)
}

func opCompare(c *CPU, reg uint8, o *operand) {
	result := reg - o.value
	c.setFlag(FlagCarry, reg >= o.value)
	c.setNZ(result)
}

func branch(taken func(*CPU) bool) func(*CPU, *operand) {
	return func(c *CPU, o *operand) {
		if !taken(c) {
			return
		}
		oldPC := c.PC
		c.PC = o.addr
		c.Cycles++
		if !samePage(oldPC, c.PC) {
			c.Cycles++
		}
	}
}

// opADC implements decimal-mode-aware addition, following the
// documented behaviour of the 6510 in both binary and BCD mode.
func opADC(c *CPU, o *operand) {
	if c.getFlag(FlagDecimal) {
		adcDecimal(c, o.value)
		return
	}
	adcBinary(c, o.value)
}

func adcBinary(c *CPU, value uint8) {
	carryIn := uint16(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(value) + carryIn
	result := uint8(sum)
	c.setFlag(FlagOverflow, (c.A^value)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.setFlag(FlagCarry, sum > 0xFF)
	c.A = result
	c.setNZ(c.A)
}

// adcDecimal performs BCD addition the way the original nibble-correction
// algorithm does it: add in binary, then correct each nibble if it is out
// of BCD range or a nibble carry occurred, matching the silicon's
// behaviour for invalid (non-BCD) operands too.
func adcDecimal(c *CPU, value uint8) {
	carryIn := uint16(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	binSum := uint16(c.A) + uint16(value) + carryIn
	c.setFlag(FlagOverflow, (c.A^value)&0x80 == 0 && (c.A^uint8(binSum))&0x80 != 0)

	lo := (c.A & 0x0F) + (value & 0x0F) + uint8(carryIn)
	hi := (c.A >> 4) + (value >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}
	if hi > 9 {
		hi += 6
	}
	c.setFlag(FlagCarry, hi > 15)
	c.A = (hi << 4) | (lo & 0x0F)
	c.setNZ(c.A)
}

func opSBC(c *CPU, o *operand) {
	if c.getFlag(FlagDecimal) {
		sbcDecimal(c, o.value)
		return
	}
	sbcBinary(c, o.value)
}

func sbcBinary(c *CPU, value uint8) {
	borrowIn := uint16(0)
	if !c.getFlag(FlagCarry) {
		borrowIn = 1
	}
	diff := uint16(c.A) - uint16(value) - borrowIn
	result := uint8(diff)
	c.setFlag(FlagOverflow, (c.A^value)&0x80 != 0 && (c.A^result)&0x80 != 0)
	c.setFlag(FlagCarry, diff < 0x100)
	c.A = result
	c.setNZ(c.A)
}

func sbcDecimal(c *CPU, value uint8) {
	borrowIn := uint16(0)
	if !c.getFlag(FlagCarry) {
		borrowIn = 1
	}
	binDiff := int16(c.A) - int16(value) - int16(borrowIn)
	c.setFlag(FlagOverflow, (c.A^value)&0x80 != 0 && (c.A^uint8(binDiff))&0x80 != 0)
	c.setFlag(FlagCarry, binDiff >= 0)

	lo := int16(c.A&0x0F) - int16(value&0x0F) - int16(borrowIn)
	hi := int16(c.A>>4) - int16(value>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = uint8(hi<<4) | uint8(lo&0x0F)
	c.setNZ(c.A)
}

func opJAM(c *CPU, _ *operand) {
	// Undocumented halt opcodes lock the bus on real silicon. We treat
	// them as a permanent stall: PC does not advance further.
	c.PC--
}
