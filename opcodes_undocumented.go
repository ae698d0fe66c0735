package c64

// defineUndocumentedOpcodes wires up the illegal/undocumented 6510 opcodes
// exercised by the Lorenz test suite: the combined read-modify-write
// opcodes (SLO/RLA/SRE/RRA/DCP/ISC), the combined store/load opcodes
// (SAX/LAX), the immediate-mode combos (ALR/ANC/ARR/LXA/SBX) and the
// multi-byte NOP family. ANE/LAS/SHA/TAS/SHX/SHY are genuinely unstable on
// real silicon (their result depends on bus capacitance); they are
// implemented with the commonly-documented approximation rather than
// faithfully reproducing hardware non-determinism.
func defineUndocumentedOpcodes() {
	def(0x07, "SLO", modeZeroPage, 5, false, opSLO)
	def(0x17, "SLO", modeZeroPageX, 6, false, opSLO)
	def(0x0F, "SLO", modeAbsolute, 6, false, opSLO)
	def(0x1F, "SLO", modeAbsoluteX, 7, false, opSLO)
	def(0x1B, "SLO", modeAbsoluteY, 7, false, opSLO)
	def(0x03, "SLO", modeIndexedIndirect, 8, false, opSLO)
	def(0x13, "SLO", modeIndirectIndexed, 8, false, opSLO)

	def(0x27, "RLA", modeZeroPage, 5, false, opRLA)
	def(0x37, "RLA", modeZeroPageX, 6, false, opRLA)
	def(0x2F, "RLA", modeAbsolute, 6, false, opRLA)
	def(0x3F, "RLA", modeAbsoluteX, 7, false, opRLA)
	def(0x3B, "RLA", modeAbsoluteY, 7, false, opRLA)
	def(0x23, "RLA", modeIndexedIndirect, 8, false, opRLA)
	def(0x33, "RLA", modeIndirectIndexed, 8, false, opRLA)

	def(0x47, "SRE", modeZeroPage, 5, false, opSRE)
	def(0x57, "SRE", modeZeroPageX, 6, false, opSRE)
	def(0x4F, "SRE", modeAbsolute, 6, false, opSRE)
	def(0x5F, "SRE", modeAbsoluteX, 7, false, opSRE)
	def(0x5B, "SRE", modeAbsoluteY, 7, false, opSRE)
	def(0x43, "SRE", modeIndexedIndirect, 8, false, opSRE)
	def(0x53, "SRE", modeIndirectIndexed, 8, false, opSRE)

	def(0x67, "RRA", modeZeroPage, 5, false, opRRA)
	def(0x77, "RRA", modeZeroPageX, 6, false, opRRA)
	def(0x6F, "RRA", modeAbsolute, 6, false, opRRA)
	def(0x7F, "RRA", modeAbsoluteX, 7, false, opRRA)
	def(0x7B, "RRA", modeAbsoluteY, 7, false, opRRA)
	def(0x63, "RRA", modeIndexedIndirect, 8, false, opRRA)
	def(0x73, "RRA", modeIndirectIndexed, 8, false, opRRA)

	def(0x87, "SAX", modeZeroPage, 3, false, opSAX)
	def(0x97, "SAX", modeZeroPageY, 4, false, opSAX)
	def(0x8F, "SAX", modeAbsolute, 4, false, opSAX)
	def(0x83, "SAX", modeIndexedIndirect, 6, false, opSAX)

	def(0xA7, "LAX", modeZeroPage, 3, false, opLAX)
	def(0xB7, "LAX", modeZeroPageY, 4, false, opLAX)
	def(0xAF, "LAX", modeAbsolute, 4, false, opLAX)
	def(0xBF, "LAX", modeAbsoluteY, 4, true, opLAX)
	def(0xA3, "LAX", modeIndexedIndirect, 6, false, opLAX)
	def(0xB3, "LAX", modeIndirectIndexed, 5, true, opLAX)

	def(0xC7, "DCP", modeZeroPage, 5, false, opDCP)
	def(0xD7, "DCP", modeZeroPageX, 6, false, opDCP)
	def(0xCF, "DCP", modeAbsolute, 6, false, opDCP)
	def(0xDF, "DCP", modeAbsoluteX, 7, false, opDCP)
	def(0xDB, "DCP", modeAbsoluteY, 7, false, opDCP)
	def(0xC3, "DCP", modeIndexedIndirect, 8, false, opDCP)
	def(0xD3, "DCP", modeIndirectIndexed, 8, false, opDCP)

	def(0xE7, "ISC", modeZeroPage, 5, false, opISC)
	def(0xF7, "ISC", modeZeroPageX, 6, false, opISC)
	def(0xEF, "ISC", modeAbsolute, 6, false, opISC)
	def(0xFF, "ISC", modeAbsoluteX, 7, false, opISC)
	def(0xFB, "ISC", modeAbsoluteY, 7, false, opISC)
	def(0xE3, "ISC", modeIndexedIndirect, 8, false, opISC)
	def(0xF3, "ISC", modeIndirectIndexed, 8, false, opISC)

	def(0x4B, "ALR", modeImmediate, 2, false, opALR)
	def(0x0B, "ANC", modeImmediate, 2, false, opANC)
	def(0x2B, "ANC", modeImmediate, 2, false, opANC)
	def(0x6B, "ARR", modeImmediate, 2, false, opARR)
	def(0xAB, "LXA", modeImmediate, 2, false, opLXA)
	def(0xCB, "SBX", modeImmediate, 2, false, opSBX)

	def(0x8B, "ANE", modeImmediate, 2, false, func(c *CPU, o *operand) {
		c.A = (c.A | 0xEE) & c.X & o.value
		c.setNZ(c.A)
	})
	def(0xBB, "LAS", modeAbsoluteY, 4, true, func(c *CPU, o *operand) {
		v := o.value & c.SP
		c.A, c.X, c.SP = v, v, v
		c.setNZ(v)
	})
	def(0x9F, "SHA", modeAbsoluteY, 5, false, opSHA)
	def(0x93, "SHA", modeIndirectIndexed, 6, false, opSHA)
	def(0x9B, "TAS", modeAbsoluteY, 5, false, func(c *CPU, o *operand) {
		c.SP = c.A & c.X
		c.mem.WriteByte(o.addr, c.SP&uint8(o.addr>>8+1))
	})
	def(0x9E, "SHX", modeAbsoluteY, 5, false, func(c *CPU, o *operand) {
		c.mem.WriteByte(o.addr, c.X&uint8(o.addr>>8+1))
	})
	def(0x9C, "SHY", modeAbsoluteX, 5, false, func(c *CPU, o *operand) {
		c.mem.WriteByte(o.addr, c.Y&uint8(o.addr>>8+1))
	})

	// Multi-mode NOPs that still consume operand bytes/cycles.
	nop1 := func(*CPU, *operand) {}
	def(0x1A, "NOP", modeImplied, 2, false, nop1)
	def(0x3A, "NOP", modeImplied, 2, false, nop1)
	def(0x5A, "NOP", modeImplied, 2, false, nop1)
	def(0x7A, "NOP", modeImplied, 2, false, nop1)
	def(0xDA, "NOP", modeImplied, 2, false, nop1)
	def(0xFA, "NOP", modeImplied, 2, false, nop1)
	def(0x80, "NOP", modeImmediate, 2, false, nop1)
	def(0x82, "NOP", modeImmediate, 2, false, nop1)
	def(0x89, "NOP", modeImmediate, 2, false, nop1)
	def(0xC2, "NOP", modeImmediate, 2, false, nop1)
	def(0xE2, "NOP", modeImmediate, 2, false, nop1)
	def(0x04, "NOP", modeZeroPage, 3, false, nop1)
	def(0x44, "NOP", modeZeroPage, 3, false, nop1)
	def(0x64, "NOP", modeZeroPage, 3, false, nop1)
	def(0x14, "NOP", modeZeroPageX, 4, false, nop1)
	def(0x34, "NOP", modeZeroPageX, 4, false, nop1)
	def(0x54, "NOP", modeZeroPageX, 4, false, nop1)
	def(0x74, "NOP", modeZeroPageX, 4, false, nop1)
	def(0xD4, "NOP", modeZeroPageX, 4, false, nop1)
	def(0xF4, "NOP", modeZeroPageX, 4, false, nop1)
	def(0x0C, "NOP", modeAbsolute, 4, false, nop1)
	def(0x1C, "NOP", modeAbsoluteX, 4, true, nop1)
	def(0x3C, "NOP", modeAbsoluteX, 4, true, nop1)
	def(0x5C, "NOP", modeAbsoluteX, 4, true, nop1)
	def(0x7C, "NOP", modeAbsoluteX, 4, true, nop1)
	def(0xDC, "NOP", modeAbsoluteX, 4, true, nop1)
	def(0xFC, "NOP", modeAbsoluteX, 4, true, nop1)
}

func opSLO(c *CPU, o *operand) {
	carry := o.value&0x80 != 0
	v := o.value << 1
	c.mem.WriteByte(o.addr, v)
	c.setFlag(FlagCarry, carry)
	c.A |= v
	c.setNZ(c.A)
}

func opRLA(c *CPU, o *operand) {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	carryOut := o.value&0x80 != 0
	v := o.value<<1 | carryIn
	c.mem.WriteByte(o.addr, v)
	c.setFlag(FlagCarry, carryOut)
	c.A &= v
	c.setNZ(c.A)
}

func opSRE(c *CPU, o *operand) {
	carry := o.value&0x01 != 0
	v := o.value >> 1
	c.mem.WriteByte(o.addr, v)
	c.setFlag(FlagCarry, carry)
	c.A ^= v
	c.setNZ(c.A)
}

func opRRA(c *CPU, o *operand) {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	carryOut := o.value&0x01 != 0
	v := o.value>>1 | carryIn
	c.mem.WriteByte(o.addr, v)
	c.setFlag(FlagCarry, carryOut)
	opADC(c, &operand{value: v})
}

func opSAX(c *CPU, o *operand) { c.mem.WriteByte(o.addr, c.A&c.X) }

func opLAX(c *CPU, o *operand) {
	c.A = o.value
	c.X = o.value
	c.setNZ(c.A)
}

func opDCP(c *CPU, o *operand) {
	v := o.value - 1
	c.mem.WriteByte(o.addr, v)
	c.setFlag(FlagCarry, c.A >= v)
	c.setNZ(c.A - v)
}

func opISC(c *CPU, o *operand) {
	v := o.value + 1
	c.mem.WriteByte(o.addr, v)
	opSBC(c, &operand{value: v})
}

func opALR(c *CPU, o *operand) {
	c.A &= o.value
	carry := c.A&0x01 != 0
	c.A >>= 1
	c.setFlag(FlagCarry, carry)
	c.setNZ(c.A)
}

func opANC(c *CPU, o *operand) {
	c.A &= o.value
	c.setNZ(c.A)
	c.setFlag(FlagCarry, c.A&0x80 != 0)
}

func opARR(c *CPU, o *operand) {
	c.A &= o.value
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.A = c.A>>1 | carryIn
	c.setNZ(c.A)
	c.setFlag(FlagCarry, c.A&0x40 != 0)
	c.setFlag(FlagOverflow, (c.A>>6)&1 != (c.A>>5)&1)
}

func opLXA(c *CPU, o *operand) {
	c.A = (c.A | 0xEE) & o.value
	c.X = c.A
	c.setNZ(c.A)
}

func opSBX(c *CPU, o *operand) {
	v := (c.A & c.X) - o.value
	c.setFlag(FlagCarry, c.A&c.X >= o.value)
	c.X = v
	c.setNZ(c.X)
}

func opSHA(c *CPU, o *operand) {
	c.mem.WriteByte(o.addr, c.A&c.X&uint8(o.addr>>8+1))
}
