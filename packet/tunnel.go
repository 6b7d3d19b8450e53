package packet

import "encoding/binary"

// GREHeader is the GRE base header (RFC 2784/2890): flags/version word
// plus protocol type, followed by the optional checksum, key and
// sequence-number words the flag bits select. Only the fixed 4-byte
// prefix is modeled as a Marshaler; optional words are appended by the
// caller based on the flag bits, mirroring how netdev-vport composes a
// GRE header field by field.
type GREHeader struct {
	ChecksumPresent bool
	KeyPresent      bool
	SeqPresent      bool
	Version         uint8 // 3 bits
	Protocol        uint16
}

func (g *GREHeader) Len() uint16 { return 4 }

func (g *GREHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	var flags uint16
	if g.ChecksumPresent {
		flags |= 1 << 15
	}
	if g.KeyPresent {
		flags |= 1 << 13
	}
	if g.SeqPresent {
		flags |= 1 << 12
	}
	flags |= uint16(g.Version) & 0x7
	binary.BigEndian.PutUint16(data[0:2], flags)
	binary.BigEndian.PutUint16(data[2:4], g.Protocol)
	return data, nil
}

func (g *GREHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errShortBuffer("GREHeader")
	}
	flags := binary.BigEndian.Uint16(data[0:2])
	g.ChecksumPresent = flags&(1<<15) != 0
	g.KeyPresent = flags&(1<<13) != 0
	g.SeqPresent = flags&(1<<12) != 0
	g.Version = uint8(flags & 0x7)
	g.Protocol = binary.BigEndian.Uint16(data[2:4])
	return nil
}

// PushGRE appends a GRE header (and, if requested, its optional
// checksum/key/sequence words) to buf, returning the extended slice.
// This is the shape a netdev tunnel-header-finalization callback uses
// to append GRE framing after the outer Ethernet+IPv4 prefix C5
// builds; this module never calls it itself.
func PushGRE(buf []byte, hdr GREHeader, key uint32, seq uint32) []byte {
	base, _ := hdr.MarshalBinary()
	buf = append(buf, base...)
	if hdr.ChecksumPresent {
		var tmp [4]byte // checksum(2) + reserved1(2), filled in by the caller once the full packet is known
		buf = append(buf, tmp[:]...)
	}
	if hdr.KeyPresent {
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], key)
		buf = append(buf, tmp[:]...)
	}
	if hdr.SeqPresent {
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], seq)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// VXLANFlagsValue is the mandatory VXLAN flags word: the I bit (VNI
// valid) set, all others reserved/zero, as required by RFC 7348.
const VXLANFlagsValue = 0x08000000

// VXLANHeader is the fixed 8-byte VXLAN header: flags word and a VNI
// plus 8 reserved bits.
type VXLANHeader struct {
	Flags uint32
	VNI   uint32 // low 24 bits significant; low 8 bits of the word are reserved
}

func (v *VXLANHeader) Len() uint16 { return 8 }

func (v *VXLANHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint32(data[0:4], VXLANFlagsValue)
	binary.BigEndian.PutUint32(data[4:8], (v.VNI&0xffffff)<<8)
	return data, nil
}

func (v *VXLANHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("VXLANHeader")
	}
	v.Flags = binary.BigEndian.Uint32(data[0:4])
	v.VNI = binary.BigEndian.Uint32(data[4:8]) >> 8
	return nil
}

// PushVXLAN appends an 8-byte VXLAN header carrying vni to buf. The
// flags word always reads back as VXLANFlagsValue, per the wire-format
// guarantee this package upholds for every caller.
func PushVXLAN(buf []byte, vni uint32) []byte {
	h := VXLANHeader{VNI: vni}
	b, _ := h.MarshalBinary()
	return append(buf, b...)
}

func init() {
	assertSize("GREHeader", &GREHeader{}, 4)
	assertSize("VXLANHeader", &VXLANHeader{}, 8)
}
