package packet

import "encoding/binary"

// UDPHeader is the fixed 8-byte UDP header.
type UDPHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16
	Checksum uint16
}

func (u *UDPHeader) Len() uint16 { return 8 }

func (u *UDPHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint16(data[0:2], u.SrcPort)
	binary.BigEndian.PutUint16(data[2:4], u.DstPort)
	binary.BigEndian.PutUint16(data[4:6], u.Length)
	binary.BigEndian.PutUint16(data[6:8], u.Checksum)
	return data, nil
}

func (u *UDPHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("UDPHeader")
	}
	u.SrcPort = binary.BigEndian.Uint16(data[0:2])
	u.DstPort = binary.BigEndian.Uint16(data[2:4])
	u.Length = binary.BigEndian.Uint16(data[4:6])
	u.Checksum = binary.BigEndian.Uint16(data[6:8])
	return nil
}

// RewritePorts replaces source/destination ports in place.
func (u *UDPHeader) RewritePorts(src, dst uint16) {
	u.SrcPort, u.DstPort = src, dst
}

// TCPHeader is the fixed 20-byte TCP header (no options).
type TCPHeader struct {
	SrcPort    uint16
	DstPort    uint16
	SeqNum     uint32
	AckNum     uint32
	DataOffset uint8 // 4 bits, in 32-bit words
	Flags      uint8 // low 6 bits used here
	Window     uint16
	Checksum   uint16
	UrgentPtr  uint16
}

func (t *TCPHeader) Len() uint16 { return 20 }

func (t *TCPHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 20)
	binary.BigEndian.PutUint16(data[0:2], t.SrcPort)
	binary.BigEndian.PutUint16(data[2:4], t.DstPort)
	binary.BigEndian.PutUint32(data[4:8], t.SeqNum)
	binary.BigEndian.PutUint32(data[8:12], t.AckNum)
	data[12] = t.DataOffset << 4
	data[13] = t.Flags & 0x3f
	binary.BigEndian.PutUint16(data[14:16], t.Window)
	binary.BigEndian.PutUint16(data[16:18], t.Checksum)
	binary.BigEndian.PutUint16(data[18:20], t.UrgentPtr)
	return data, nil
}

func (t *TCPHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errShortBuffer("TCPHeader")
	}
	t.SrcPort = binary.BigEndian.Uint16(data[0:2])
	t.DstPort = binary.BigEndian.Uint16(data[2:4])
	t.SeqNum = binary.BigEndian.Uint32(data[4:8])
	t.AckNum = binary.BigEndian.Uint32(data[8:12])
	t.DataOffset = data[12] >> 4
	t.Flags = data[13] & 0x3f
	t.Window = binary.BigEndian.Uint16(data[14:16])
	t.Checksum = binary.BigEndian.Uint16(data[16:18])
	t.UrgentPtr = binary.BigEndian.Uint16(data[18:20])
	return nil
}

// RewritePorts replaces source/destination ports in place.
func (t *TCPHeader) RewritePorts(src, dst uint16) {
	t.SrcPort, t.DstPort = src, dst
}

// SCTPHeader is the fixed 12-byte SCTP common header.
type SCTPHeader struct {
	SrcPort  uint16
	DstPort  uint16
	VTag     uint32
	Checksum uint32
}

func (s *SCTPHeader) Len() uint16 { return 12 }

func (s *SCTPHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 12)
	binary.BigEndian.PutUint16(data[0:2], s.SrcPort)
	binary.BigEndian.PutUint16(data[2:4], s.DstPort)
	binary.BigEndian.PutUint32(data[4:8], s.VTag)
	binary.BigEndian.PutUint32(data[8:12], s.Checksum)
	return data, nil
}

func (s *SCTPHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return errShortBuffer("SCTPHeader")
	}
	s.SrcPort = binary.BigEndian.Uint16(data[0:2])
	s.DstPort = binary.BigEndian.Uint16(data[2:4])
	s.VTag = binary.BigEndian.Uint32(data[4:8])
	s.Checksum = binary.BigEndian.Uint32(data[8:12])
	return nil
}

// RewritePorts replaces source/destination ports in place.
func (s *SCTPHeader) RewritePorts(src, dst uint16) {
	s.SrcPort, s.DstPort = src, dst
}

func init() {
	assertSize("UDPHeader", &UDPHeader{}, 8)
	assertSize("TCPHeader", &TCPHeader{}, 20)
	assertSize("SCTPHeader", &SCTPHeader{}, 12)
}
