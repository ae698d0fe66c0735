package c64

type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndexedIndirect // (zp,X)
	modeIndirectIndexed // (zp),Y
	modeRelative
)

// operand carries the resolved address/value for the instruction currently
// executing. Read-modify-write and store operations use addr; accumulator
// mode operations use the accumulator flag instead of addr.
type operand struct {
	addr        uint16
	value       uint8
	pageCrossed bool
	accumulator bool
}

func (cpu *CPU) fetch() uint8 {
	v := cpu.mem.ReadByte(cpu.PC)
	cpu.PC++
	return v
}

func (cpu *CPU) fetchWord() uint16 {
	lo := uint16(cpu.fetch())
	hi := uint16(cpu.fetch())
	return hi<<8 | lo
}

func samePage(a, b uint16) bool { return a&0xFF00 == b&0xFF00 }

// resolveOperand decodes the addressing mode for the instruction whose
// opcode byte has already been consumed, advancing PC past its operand
// bytes and returning the effective address/value.
func (cpu *CPU) resolveOperand(mode addrMode) operand {
	switch mode {
	case modeImplied:
		return operand{}
	case modeAccumulator:
		return operand{accumulator: true, value: cpu.A}
	case modeImmediate:
		addr := cpu.PC
		return operand{addr: addr, value: cpu.fetch()}
	case modeZeroPage:
		addr := uint16(cpu.fetch())
		return operand{addr: addr, value: cpu.mem.ReadByte(addr)}
	case modeZeroPageX:
		addr := uint16(uint8(cpu.fetch() + cpu.X))
		return operand{addr: addr, value: cpu.mem.ReadByte(addr)}
	case modeZeroPageY:
		addr := uint16(uint8(cpu.fetch() + cpu.Y))
		return operand{addr: addr, value: cpu.mem.ReadByte(addr)}
	case modeAbsolute:
		addr := cpu.fetchWord()
		return operand{addr: addr, value: cpu.mem.ReadByte(addr)}
	case modeAbsoluteX:
		base := cpu.fetchWord()
		addr := base + uint16(cpu.X)
		return operand{addr: addr, value: cpu.mem.ReadByte(addr), pageCrossed: !samePage(base, addr)}
	case modeAbsoluteY:
		base := cpu.fetchWord()
		addr := base + uint16(cpu.Y)
		return operand{addr: addr, value: cpu.mem.ReadByte(addr), pageCrossed: !samePage(base, addr)}
	case modeIndirect:
		ptr := cpu.fetchWord()
		// Faithful reproduction of the 6502/6510 JMP-indirect page-wrap
		// bug: if the low byte of ptr is 0xFF, the high byte of the
		// target is fetched from the start of the same page, not the
		// next page.
		lo := cpu.mem.ReadByte(ptr)
		var hiAddr uint16
		if ptr&0x00FF == 0x00FF {
			hiAddr = ptr & 0xFF00
		} else {
			hiAddr = ptr + 1
		}
		hi := cpu.mem.ReadByte(hiAddr)
		return operand{addr: uint16(hi)<<8 | uint16(lo)}
	case modeIndexedIndirect:
		zp := uint8(cpu.fetch() + cpu.X)
		lo := uint16(cpu.mem.ReadByte(uint16(zp)))
		hi := uint16(cpu.mem.ReadByte(uint16(uint8(zp + 1))))
		addr := hi<<8 | lo
		return operand{addr: addr, value: cpu.mem.ReadByte(addr)}
	case modeIndirectIndexed:
		zp := cpu.fetch()
		lo := uint16(cpu.mem.ReadByte(uint16(zp)))
		hi := uint16(cpu.mem.ReadByte(uint16(uint8(zp + 1))))
		base := hi<<8 | lo
		addr := base + uint16(cpu.Y)
		return operand{addr: addr, value: cpu.mem.ReadByte(addr), pageCrossed: !samePage(base, addr)}
	case modeRelative:
		offset := int8(cpu.fetch())
		target := uint16(int32(cpu.PC) + int32(offset))
		return operand{addr: target}
	default:
		return operand{}
	}
}
