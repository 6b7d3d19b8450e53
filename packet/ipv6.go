package packet

import "encoding/binary"

// IPv6MappedPrefix is the ::ffff:0:0/96 prefix used to carry an IPv4
// address inside a 16-byte IPv6 container.
var IPv6MappedPrefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// IPv6AllHosts is the ff02::1 all-nodes multicast address.
var IPv6AllHosts = [16]byte{0xff, 0x02, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

// IPv6ExactMask is the all-ones /128 mask.
var IPv6ExactMask = [16]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// SetIPv4Mapped writes addr as an IPv4-mapped IPv6 address.
func SetIPv4Mapped(addr [4]byte) (out [16]byte) {
	copy(out[0:12], IPv6MappedPrefix[:])
	copy(out[12:16], addr[:])
	return out
}

// GetIPv4Mapped extracts the IPv4 address from an IPv4-mapped IPv6
// address. ok is false if addr does not carry the mapped prefix.
func GetIPv4Mapped(addr [16]byte) (out [4]byte, ok bool) {
	for i := 0; i < 12; i++ {
		if addr[i] != IPv6MappedPrefix[i] {
			return out, false
		}
	}
	copy(out[:], addr[12:16])
	return out, true
}

// IsMulticastIPv6 reports whether addr's first byte is 0xff.
func IsMulticastIPv6(addr [16]byte) bool { return addr[0] == 0xff }

// IsZeroIPv6 reports whether addr is the unspecified address.
func IsZeroIPv6(addr [16]byte) bool { return addr == [16]byte{} }

// IPv6 extension header next-header values.
const (
	IPv6NextHBH      = 0x00
	IPv6NextRouting  = 0x2b
	IPv6NextFragment = 0x2c
	IPv6NextICMPv6   = 0x3a
	IPv6NextNone     = 0x3b
)

// IPv6Header is the fixed 40-byte IPv6 header.
type IPv6Header struct {
	Version      uint8 // 4 bits
	TrafficClass uint8
	FlowLabel    uint32 // 20 bits
	PayloadLen   uint16
	NextHeader   uint8
	HopLimit     uint8
	Src          AlignedIPv6
	Dst          AlignedIPv6
}

func (h *IPv6Header) Len() uint16 { return 40 }

func (h *IPv6Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 40)
	data[0] = (h.Version << 4) | uint8(h.TrafficClass>>4)&0x0f
	data[1] = (h.TrafficClass<<4)&0xf0 | uint8(h.FlowLabel>>16)
	binary.BigEndian.PutUint16(data[2:4], uint16(h.FlowLabel))
	binary.BigEndian.PutUint16(data[4:6], h.PayloadLen)
	data[6] = h.NextHeader
	data[7] = h.HopLimit
	copy(data[8:24], h.Src[:])
	copy(data[24:40], h.Dst[:])
	return data, nil
}

func (h *IPv6Header) UnmarshalBinary(data []byte) error {
	if len(data) < 40 {
		return errShortBuffer("IPv6Header")
	}
	h.Version = data[0] >> 4
	tcLeft := (data[0] & 0x0f) << 4
	h.TrafficClass = tcLeft | (data[1] >> 4)
	h.FlowLabel = binary.BigEndian.Uint32(data[0:4]) & 0x000fffff
	h.PayloadLen = binary.BigEndian.Uint16(data[4:6])
	h.NextHeader = data[6]
	h.HopLimit = data[7]
	h.Src.Put(data[8:24])
	h.Dst.Put(data[24:40])
	return nil
}

// DSCP returns the high six bits of the traffic-class byte.
func (h *IPv6Header) DSCP() uint8 { return h.TrafficClass >> 2 }

// ECN returns the low two bits of the traffic-class byte.
func (h *IPv6Header) ECN() uint8 { return h.TrafficClass & 0x3 }

// FragmentHeader is the IPv6 fragment extension header.
type FragmentHeader struct {
	NextHeader     uint8
	Reserved       uint8
	FragmentOffset uint16 // 13 bits
	MoreFragments  bool
	Identification uint32
}

func (f *FragmentHeader) Len() uint16 { return 8 }

func (f *FragmentHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = f.NextHeader
	data[1] = f.Reserved
	frag := f.FragmentOffset << 3
	if f.MoreFragments {
		frag |= 1
	}
	binary.BigEndian.PutUint16(data[2:4], frag)
	binary.BigEndian.PutUint32(data[4:8], f.Identification)
	return data, nil
}

func (f *FragmentHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("FragmentHeader")
	}
	f.NextHeader = data[0]
	f.Reserved = data[1]
	frag := binary.BigEndian.Uint16(data[2:4])
	f.FragmentOffset = frag >> 3
	f.MoreFragments = frag&1 == 1
	f.Identification = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// ICMPv6Header is the fixed 4-byte ICMPv6 header.
type ICMPv6Header struct {
	Type     uint8
	Code     uint8
	Checksum uint16
}

func (i *ICMPv6Header) Len() uint16 { return 4 }

func (i *ICMPv6Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	data[0] = i.Type
	data[1] = i.Code
	binary.BigEndian.PutUint16(data[2:4], i.Checksum)
	return data, nil
}

func (i *ICMPv6Header) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errShortBuffer("ICMPv6Header")
	}
	i.Type = data[0]
	i.Code = data[1]
	i.Checksum = binary.BigEndian.Uint16(data[2:4])
	return nil
}

// ICMPv6 message types relevant to Neighbor Discovery.
const (
	ICMPv6TypeNeighborSolicit    = 135
	ICMPv6TypeNeighborAdvertise  = 136
)

// NeighborDiscovery is the 20-byte Neighbor Solicitation/Advertisement
// body that follows the 4-byte ICMPv6 header (24 bytes together): a
// 4-byte reserved/flags word and a 16-byte target address (no
// link-layer address option).
type NeighborDiscovery struct {
	ReservedFlags uint32
	Target        AlignedIPv6
}

func (n *NeighborDiscovery) Len() uint16 { return 20 }

func (n *NeighborDiscovery) MarshalBinary() ([]byte, error) {
	data := make([]byte, 20)
	binary.BigEndian.PutUint32(data[0:4], n.ReservedFlags)
	copy(data[4:20], n.Target[:])
	return data, nil
}

func (n *NeighborDiscovery) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errShortBuffer("NeighborDiscovery")
	}
	n.ReservedFlags = binary.BigEndian.Uint32(data[0:4])
	n.Target.Put(data[4:20])
	return nil
}

// Router/Solicited/Override flags of a Neighbor Advertisement,
// occupying the top 3 bits of ReservedFlags.
const (
	NDFlagRouter    = 1 << 31
	NDFlagSolicited = 1 << 30
	NDFlagOverride  = 1 << 29
)

// NDOption is an 8-byte-aligned Neighbor Discovery option TLV; Length
// is in units of 8 bytes including the type/length octets, per RFC
// 4861.
type NDOption struct {
	Type   uint8
	Length uint8 // units of 8 bytes
	Data   [6]byte
}

func (o *NDOption) Len() uint16 { return 8 }

func (o *NDOption) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = o.Type
	data[1] = o.Length
	copy(data[2:8], o.Data[:])
	return data, nil
}

func (o *NDOption) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("NDOption")
	}
	o.Type = data[0]
	o.Length = data[1]
	copy(o.Data[:], data[2:8])
	return nil
}

// NDOption types.
const (
	NDOptSourceLinkAddr = 1
	NDOptTargetLinkAddr = 2
)

// MLDHeader is the 20-byte Multicast Listener Discovery (MLDv1) message
// body (mirrors IGMPv1or2 but over ICMPv6): type/code/checksum come from
// the ICMPv6Header that precedes it, followed by MaxRespDelay, Reserved
// and the 16-byte multicast group address. The 8-byte MLDv2 report
// header (type, code, checksum, reserved, record count) has no record
// type of its own in this package.
type MLDHeader struct {
	MaxRespDelay uint16
	Reserved     uint16
	GroupAddress AlignedIPv6
}

func (m *MLDHeader) Len() uint16 { return 20 }

func (m *MLDHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 20)
	binary.BigEndian.PutUint16(data[0:2], m.MaxRespDelay)
	binary.BigEndian.PutUint16(data[2:4], m.Reserved)
	copy(data[4:20], m.GroupAddress[:])
	return data, nil
}

func (m *MLDHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errShortBuffer("MLDHeader")
	}
	m.MaxRespDelay = binary.BigEndian.Uint16(data[0:2])
	m.Reserved = binary.BigEndian.Uint16(data[2:4])
	m.GroupAddress.Put(data[4:20])
	return nil
}

// MLDv2Record is a single 20-byte(+sources) Multicast Address Record
// from an MLDv2 report; AuxDataLen/NumSources govern trailing
// variable-length data not modeled here (C5/C3 never need to build
// one, only recognize the fixed prefix).
type MLDv2Record struct {
	RecordType   uint8
	AuxDataLen   uint8
	NumSources   uint16
	GroupAddress AlignedIPv6
}

func (r *MLDv2Record) Len() uint16 { return 20 }

func (r *MLDv2Record) MarshalBinary() ([]byte, error) {
	data := make([]byte, 20)
	data[0] = r.RecordType
	data[1] = r.AuxDataLen
	binary.BigEndian.PutUint16(data[2:4], r.NumSources)
	copy(data[4:20], r.GroupAddress[:])
	return data, nil
}

func (r *MLDv2Record) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errShortBuffer("MLDv2Record")
	}
	r.RecordType = data[0]
	r.AuxDataLen = data[1]
	r.NumSources = binary.BigEndian.Uint16(data[2:4])
	r.GroupAddress.Put(data[4:20])
	return nil
}

func init() {
	assertSize("IPv6Header", &IPv6Header{}, 40)
	assertSize("FragmentHeader", &FragmentHeader{}, 8)
	assertSize("ICMPv6Header", &ICMPv6Header{}, 4)
	assertSize("NeighborDiscovery", &NeighborDiscovery{}, 20)
	assertSize("NDOption", &NDOption{}, 8)
	assertSize("MLDHeader", &MLDHeader{}, 20)
	assertSize("MLDv2Record", &MLDv2Record{}, 20)
}
