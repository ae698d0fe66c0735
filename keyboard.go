package c64

// KERNAL keyboard buffer: a 10-byte PETSCII queue at $0277-$0280, with
// the pending character count at $C6. BASIC/KERNAL drain it a byte at a
// time as the user types; software (and this type-ahead injector) can
// fill it directly to simulate keystrokes without driving the keyboard
// matrix scan.
const (
	keyboardBufferAddr  = 0x0277
	keyboardBufferSize  = 10
	keyboardBufferCount = 0xC6
)

// TypeAhead writes text (already PETSCII-encoded) into the KERNAL
// keyboard buffer, truncating to the buffer's 10-byte capacity minus
// whatever is already pending. It is used by the CLI's clipboard-paste
// utility to inject host clipboard contents as simulated keystrokes.
func (m *Memory) TypeAhead(text []byte) int {
	pending := int(m.ReadByte(keyboardBufferCount))
	room := keyboardBufferSize - pending
	if room <= 0 {
		return 0
	}
	if len(text) > room {
		text = text[:room]
	}
	for i, b := range text {
		m.WriteByte(uint16(keyboardBufferAddr+pending+i), b)
	}
	m.WriteByte(keyboardBufferCount, uint8(pending+len(text)))
	return len(text)
}

// ASCIIToPETSCII translates a host ASCII string into the PETSCII byte
// values the KERNAL keyboard buffer expects: lowercase letters map to
// the unshifted PETSCII letters $41-$5A (shown as capitals in the C64's
// default upper-case/graphics mode), uppercase letters map to the
// shifted letters $C1-$DA, other ASCII characters pass through
// unchanged, and non-ASCII characters become '.'.
func ASCIIToPETSCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, byte(r-'a')+0x41)
		case r >= 'A' && r <= 'Z':
			out = append(out, byte(r-'A')+0xC1)
		case r >= 0 && r < 128:
			out = append(out, byte(r))
		default:
			out = append(out, '.')
		}
	}
	return out
}
