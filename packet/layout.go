package packet

import "fmt"

// Marshaler is the contract every fixed-layout header in this package
// satisfies, matching the teacher's own Message interface shape
// (protocol.IPv6, protocol.ICMPv6Header, ...): Len reports the wire
// size, MarshalBinary/UnmarshalBinary move bytes in and out of a
// caller-owned buffer.
type Marshaler interface {
	Len() uint16
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// assertSize marshals a zero-valued record and panics if either its
// Len() or its actual marshaled byte count disagrees with the
// documented wire size. Called from each file's init() for every
// fixed-size record so a layout regression fails at load time rather
// than corrupting packets silently.
func assertSize(name string, m Marshaler, want int) {
	if int(m.Len()) != want {
		panic(fmt.Sprintf("packet: %s.Len() = %d, want %d", name, m.Len(), want))
	}
	data, err := m.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("packet: %s failed to marshal zero value: %v", name, err))
	}
	if len(data) != want {
		panic(fmt.Sprintf("packet: %s marshals to %d bytes, want %d", name, len(data), want))
	}
}
