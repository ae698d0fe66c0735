package c64

// IEC bus wire bit positions as presented on CIA#2 port A.
const (
	wireATNOut   = 0x08
	wireClockOut = 0x10
	wireDataOut  = 0x20
	wireClockIn  = 0x40
	wireDataIn   = 0x80
)

// Bus protocol bytes.
const (
	cmdListenBase   = 0x20
	cmdListenMax    = 0x3E
	cmdUnlisten     = 0x3F
	cmdTalkBase     = 0x40
	cmdTalkMax      = 0x5E
	cmdUntalk       = 0x5F
	cmdOpenChanBase = 0x60
	cmdOpenChanMax  = 0x6F
	cmdCloseBase    = 0xE0
	cmdCloseMax     = 0xEF
	cmdOpenBase     = 0xF0
)

// Bit-banging timing constants, carried as heuristics (not derived from
// 6526/VIA electrical timing) from the source this bus is grounded on.
const (
	eoiResponseTime     = 300
	eoiResponseHoldTime = 100
	workaroundTime      = 500
	talkerBecomeAckTime = 100
	writeBitHoldTime    = 30
)

// busState enumerates the IEC bus's bit-level handshake states: a listener
// samples DATA as CLOCK toggles (busReady/busReadBit/busReadDone), a talker
// drives both lines to shift a byte out one bit at a time
// (busTalkerWriteBitLow/High) with an EOI handshake either side.
type busState int

const (
	busIdle busState = iota
	busWorkaround
	busWaitTalker
	busReady
	busReadBit
	busReadDone
	busReleaseData
	busEOIHandshake
	busTalkerBecome
	busTalkerBecomeAck
	busTalkerPrepare
	busTalkerWaitListenerReady
	busTalkerWriteBitLow
	busTalkerWriteBitHigh
	busTalkerWaitListenerAck
	busTalkerEOIWaitLow
	busTalkerEOIWaitHigh
)

// busControl tracks which addressing phase the bus is in once a device has
// been addressed: listening for a command/data byte, talking, or relaying
// bytes written to the currently open channel.
type busControl int

const (
	controlIdle busControl = iota
	controlListen
	controlTalk
	controlWrite
)

// SerialDevice is implemented by anything attachable to the bus as a
// device number 0-30 (the D64 disk device implements it for 8-11).
type SerialDevice interface {
	// ReadByte returns the next byte the device would send as a talker,
	// and whether it is the last byte of the current file/listing.
	ReadByte() (value uint8, last bool)
	// WriteByte delivers a byte sent to the device as a listener on the
	// given secondary channel. The device is responsible for recognizing
	// its own command/filename framing within the byte stream (the D64
	// device does this via its write command buffer).
	WriteByte(channel uint8, value uint8) error
	// Open begins a new channel addressed by the given command's
	// low nibble, with name as the filename/command string collected
	// over the OPEN data phase.
	Open(channel uint8, name string) error
	// Close ends a channel.
	Close(channel uint8)
}

// SerialBus models the three-wire (DATA/CLOCK/ATN) IEC bus that connects
// the C64 to disk and printer devices, bit-banging the real handshake:
// a listener samples DATA on a CLOCK release and acknowledges by holding
// DATA low, a talker shifts a byte out over eight low/high DATA pulses
// bracketed by CLOCK holds, and EOI (end of a file) is signalled by the
// listener stretching its response beyond the normal window. It is driven
// once per scheduler tick with the current level of CIA#2 port A and
// returns the input bits (CLOCK_IN/DATA_IN) that should be read back
// through that same port.
type SerialBus struct {
	devices [32]SerialDevice

	state   busState
	control busControl

	deviceNo  int
	channelNo uint8

	bitCount int
	byteVal  uint8

	listenerHoldData  bool
	listenerHoldClock bool

	waitCycles        int
	eoiFlag           bool
	fileNotFoundError bool
}

// NewSerialBus returns an idle bus with no devices attached, DATA held
// (the listener side announcing its presence) as on power-up.
func NewSerialBus() *SerialBus {
	return &SerialBus{deviceNo: -1, listenerHoldData: true}
}

// Attach registers dev at deviceNo (0-30).
func (b *SerialBus) Attach(deviceNo int, dev SerialDevice) {
	if deviceNo < 0 || deviceNo > 30 {
		return
	}
	b.devices[deviceNo] = dev
}

// Execute steps the bus by one PAL clock cycle given the current output
// level of the port driving it (ATN/CLOCK/DATA out bits), returning the
// input bits (CLOCK_IN/DATA_IN) to be read back. DATA/CLOCK read back as
// held low whenever this side (listener or talker) is asserting them,
// overriding whatever the CPU is currently driving out, exactly as the
// open-collector bus itself would.
func (b *SerialBus) Execute(portOut uint8) (portIn uint8) {
	var data, clock bool
	if b.listenerHoldData {
		data = false
	} else {
		data = portOut&wireDataOut != 0
	}
	if b.listenerHoldClock {
		clock = false
	} else {
		clock = portOut&wireClockOut != 0
	}
	atn := portOut&wireATNOut != 0

	if !data {
		portIn |= wireDataIn
	}
	if !clock {
		portIn |= wireClockIn
	}

	switch b.state {
	case busIdle:
		if atn {
			b.listenerHoldData = true
			if !clock {
				b.waitCycles = 0
				b.state = busWorkaround
			} else {
				b.state = busWaitTalker
			}
		}

	case busWorkaround:
		b.waitCycles++
		if b.waitCycles > workaroundTime {
			b.state = busWaitTalker
		}

	case busWaitTalker:
		if !clock {
			b.bitCount = 0
			b.byteVal = 0
			b.waitCycles = 0
			b.eoiFlag = false
			b.listenerHoldData = false
			b.state = busReady
		}

	case busReady:
		if clock {
			b.state = busReadBit
		} else if !b.eoiFlag && b.bitCount == 0 {
			b.waitCycles++
			if b.waitCycles > eoiResponseTime {
				b.eoiFlag = true
				b.listenerHoldData = true
				b.state = busEOIHandshake
			}
		}

	case busReadBit:
		if !clock {
			if !data {
				b.byteVal |= 1 << uint(b.bitCount)
			}
			b.bitCount++
			if b.bitCount >= 8 {
				b.state = busReadDone
			} else {
				b.state = busReady
			}
		}

	case busReadDone:
		if clock {
			b.listenerHoldData = true
			b.dispatchByte(atn)
		}

	case busReleaseData:
		if !clock {
			b.listenerHoldData = false
			b.state = busIdle
		}

	case busEOIHandshake:
		b.waitCycles++
		if b.waitCycles > eoiResponseTime+eoiResponseHoldTime {
			b.listenerHoldData = false
			b.state = busReady
		}

	case busTalkerBecome:
		if !clock {
			b.waitCycles = 0
			b.listenerHoldData = false
			b.listenerHoldClock = true
			b.state = busTalkerBecomeAck
		}

	case busTalkerBecomeAck:
		b.waitCycles++
		if b.waitCycles > talkerBecomeAckTime {
			b.listenerHoldClock = false
			b.state = busTalkerPrepare
		}

	case busTalkerPrepare:
		b.talkerPrepare()

	case busTalkerWaitListenerReady:
		if !data {
			b.listenerHoldData = true
			b.listenerHoldClock = true
			b.state = busTalkerWriteBitLow
		}

	case busTalkerWriteBitLow:
		b.waitCycles++
		if b.waitCycles > writeBitHoldTime {
			if b.bitCount >= 8 {
				b.listenerHoldData = false
				b.listenerHoldClock = true
				b.state = busTalkerWaitListenerAck
			} else {
				b.listenerHoldData = b.byteVal>>uint(b.bitCount)&0x1 != 0
				b.bitCount++
				b.waitCycles = 0
				b.listenerHoldClock = false
				b.state = busTalkerWriteBitHigh
			}
		}

	case busTalkerWriteBitHigh:
		b.waitCycles++
		if b.waitCycles > writeBitHoldTime {
			b.listenerHoldClock = true
			b.waitCycles = 0
			b.state = busTalkerWriteBitLow
		}

	case busTalkerWaitListenerAck:
		if data {
			b.listenerHoldClock = false
			if b.eoiFlag {
				b.state = busIdle
			} else {
				b.state = busTalkerPrepare
			}
		}

	case busTalkerEOIWaitLow:
		if !data {
			b.state = busTalkerEOIWaitHigh
		}

	case busTalkerEOIWaitHigh:
		if data {
			b.state = busTalkerWaitListenerReady
		}
	}

	return portIn
}

// dispatchByte interprets byteVal, the byte just shifted in, once CLOCK
// rises to mark it ready: LISTEN/TALK address the bus to a device number,
// UNLISTEN/UNTALK release it, OPEN/CLOSE and the open-channel range
// address a secondary channel on the currently addressed device, and
// while the listener holds the write control, every byte is relayed to
// the addressed device's WriteByte; the ATN-qualified UNLISTEN that ends
// the transfer is relayed as a NUL sentinel instead of its own value.
func (b *SerialBus) dispatchByte(atn bool) {
	switch b.control {
	case controlIdle:
		switch {
		case b.byteVal >= cmdListenBase && b.byteVal <= cmdListenMax:
			b.deviceNo = int(b.byteVal - cmdListenBase)
			b.control = controlListen
		case b.byteVal >= cmdTalkBase && b.byteVal <= cmdTalkMax:
			b.deviceNo = int(b.byteVal - cmdTalkBase)
			b.control = controlTalk
		}
		b.state = busWaitTalker

	case controlListen:
		switch {
		case b.byteVal == cmdUnlisten:
			b.deviceNo = -1
			b.control = controlIdle
			b.state = busReleaseData
		case b.byteVal >= cmdCloseBase && b.byteVal <= cmdCloseMax:
			if dev := b.device(); dev != nil {
				dev.Close(b.byteVal - cmdCloseBase)
			}
			b.state = busWaitTalker
		case b.byteVal >= cmdOpenBase:
			b.channelNo = b.byteVal - cmdOpenBase
			b.control = controlWrite
			b.state = busWaitTalker
		default:
			b.state = busWaitTalker
		}

	case controlTalk:
		switch {
		case b.byteVal == cmdUntalk:
			b.deviceNo = -1
			b.control = controlIdle
			b.state = busReleaseData
		case b.byteVal >= cmdOpenChanBase && b.byteVal <= cmdOpenChanMax:
			b.channelNo = b.byteVal - cmdOpenChanBase
			b.state = busTalkerBecome
		default:
			b.state = busWaitTalker
		}

	case controlWrite:
		dev := b.device()
		if atn && b.byteVal == cmdUnlisten {
			if dev != nil {
				if err := dev.WriteByte(b.channelNo, 0); err != nil {
					b.fileNotFoundError = true
				}
			} else {
				b.fileNotFoundError = true
			}
			b.deviceNo = -1
			b.control = controlIdle
			b.state = busReleaseData
		} else {
			if dev != nil {
				if err := dev.WriteByte(b.channelNo, b.byteVal); err != nil {
					b.fileNotFoundError = true
				}
			} else {
				b.fileNotFoundError = true
			}
			b.state = busWaitTalker
		}
	}
}

// talkerPrepare fetches the next byte from the addressed device once this
// side has become the bus's talker, or unwinds back to idle if the device
// could not be reached (mirroring the file-not-found recovery path).
func (b *SerialBus) talkerPrepare() {
	if b.fileNotFoundError {
		b.listenerHoldData = false
		b.listenerHoldClock = false
		b.control = controlIdle
		b.state = busIdle
		b.fileNotFoundError = false
		return
	}
	dev := b.device()
	if dev == nil {
		b.fileNotFoundError = true
		return
	}
	b.bitCount = 0
	v, last := dev.ReadByte()
	b.byteVal = v
	b.waitCycles = 0
	if last {
		b.eoiFlag = true
		b.state = busTalkerEOIWaitLow
	} else {
		b.state = busTalkerWaitListenerReady
	}
}

func (b *SerialBus) device() SerialDevice {
	if b.deviceNo < 0 || b.deviceNo > 30 {
		return nil
	}
	return b.devices[b.deviceNo]
}
