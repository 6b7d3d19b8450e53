package packet

import "encoding/binary"

// MPLSLabelStackEntry is a single 4-byte MPLS label stack entry: a
// 20-bit label, 3-bit traffic class, bottom-of-stack bit, and 8-bit
// TTL, packed big-endian as LABEL(20) TC(3) BoS(1) TTL(8).
type MPLSLabelStackEntry uint32

func (e MPLSLabelStackEntry) TTL() uint8   { return uint8(e) }
func (e MPLSLabelStackEntry) BoS() bool    { return e&0x100 != 0 }
func (e MPLSLabelStackEntry) TC() uint8    { return uint8((e >> 9) & 0x7) }
func (e MPLSLabelStackEntry) Label() uint32 { return uint32(e >> 12) }

// SetTTL returns e with its TTL field replaced, leaving label, TC and
// BoS untouched.
func (e MPLSLabelStackEntry) SetTTL(ttl uint8) MPLSLabelStackEntry {
	return (e &^ 0xff) | MPLSLabelStackEntry(ttl)
}

// NewMPLSLabelStackEntry assembles a complete LSE from its fields.
func NewMPLSLabelStackEntry(label uint32, tc uint8, bos bool, ttl uint8) MPLSLabelStackEntry {
	e := MPLSLabelStackEntry(label&0xfffff) << 12
	e |= MPLSLabelStackEntry(tc&0x7) << 9
	if bos {
		e |= 0x100
	}
	e |= MPLSLabelStackEntry(ttl)
	return e
}

func (e *MPLSLabelStackEntry) Len() uint16 { return 4 }

func (e *MPLSLabelStackEntry) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, uint32(*e))
	return data, nil
}

func (e *MPLSLabelStackEntry) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errShortBuffer("MPLSLabelStackEntry")
	}
	*e = MPLSLabelStackEntry(binary.BigEndian.Uint32(data[0:4]))
	return nil
}

func init() {
	var e MPLSLabelStackEntry
	assertSize("MPLSLabelStackEntry", &e, 4)
}
