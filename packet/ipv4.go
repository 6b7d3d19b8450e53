package packet

import "encoding/binary"

// IPv4Header is the fixed 20-byte IPv4 header (no options).
type IPv4Header struct {
	Version  uint8 // 4 bits
	IHL      uint8 // 4 bits, header length in 32-bit words
	TOS      uint8
	Length   uint16
	ID       uint16
	Flags    uint8  // 3 bits
	FragOff  uint16 // 13 bits
	TTL      uint8
	Protocol uint8
	Checksum uint16
	Src      Align32
	Dst      Align32
}

func (h *IPv4Header) Len() uint16 { return 20 }

func (h *IPv4Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 20)
	data[0] = (h.Version << 4) | (h.IHL & 0x0f)
	data[1] = h.TOS
	binary.BigEndian.PutUint16(data[2:4], h.Length)
	binary.BigEndian.PutUint16(data[4:6], h.ID)
	flagsFrag := uint16(h.Flags&0x7)<<13 | (h.FragOff & 0x1fff)
	binary.BigEndian.PutUint16(data[6:8], flagsFrag)
	data[8] = h.TTL
	data[9] = h.Protocol
	binary.BigEndian.PutUint16(data[10:12], h.Checksum)
	copy(data[12:16], h.Src[:])
	copy(data[16:20], h.Dst[:])
	return data, nil
}

func (h *IPv4Header) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errShortBuffer("IPv4Header")
	}
	h.Version = data[0] >> 4
	h.IHL = data[0] & 0x0f
	h.TOS = data[1]
	h.Length = binary.BigEndian.Uint16(data[2:4])
	h.ID = binary.BigEndian.Uint16(data[4:6])
	flagsFrag := binary.BigEndian.Uint16(data[6:8])
	h.Flags = uint8(flagsFrag >> 13)
	h.FragOff = flagsFrag & 0x1fff
	h.TTL = data[8]
	h.Protocol = data[9]
	h.Checksum = binary.BigEndian.Uint16(data[10:12])
	h.Src = Align32FromBytes(data[12:16])
	h.Dst = Align32FromBytes(data[16:20])
	return nil
}

// DSCP returns the high six bits of the TOS byte.
func (h *IPv4Header) DSCP() uint8 { return h.TOS >> 2 }

// ECN returns the low two bits of the TOS byte.
func (h *IPv4Header) ECN() uint8 { return h.TOS & 0x3 }

// SetDSCP replaces the DSCP bits, leaving ECN untouched.
func (h *IPv4Header) SetDSCP(dscp uint8) { h.TOS = (dscp << 2) | (h.TOS & 0x3) }

// SetECN replaces the ECN bits, leaving DSCP untouched.
func (h *IPv4Header) SetECN(ecn uint8) { h.TOS = (h.TOS &^ 0x3) | (ecn & 0x3) }

// ECN code points.
const (
	ECNNotECT = 0x0
	ECNECT1   = 0x1
	ECNECT0   = 0x2
	ECNCE     = 0x3
)

// IsCIDRMask reports whether the 32-bit pattern m is k ones followed by
// (32-k) zeros for some 0<=k<=32: equivalently, the inverse of m is of
// the form x where x&(x+1)==0.
func IsCIDRMask(m uint32) bool {
	x := ^m
	return x&(x+1) == 0
}

// MaskToPrefixLen returns the prefix length of a CIDR mask; callers
// must have checked IsCIDRMask first.
func MaskToPrefixLen(m uint32) int {
	n := 0
	for i := 31; i >= 0; i-- {
		if m&(1<<uint(i)) == 0 {
			break
		}
		n++
	}
	return n
}

// IsMulticastIPv4 reports whether addr falls in 224.0.0.0/4.
func IsMulticastIPv4(addr [4]byte) bool {
	return addr[0]&0xf0 == 0xe0
}

// IsLinkLocalMulticastIPv4 reports whether addr falls in
// 224.0.0.0/24.
func IsLinkLocalMulticastIPv4(addr [4]byte) bool {
	return addr[0] == 224 && addr[1] == 0 && addr[2] == 0
}

func init() {
	assertSize("IPv4Header", &IPv4Header{}, 20)
}
