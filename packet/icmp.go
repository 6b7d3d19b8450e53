package packet

import "encoding/binary"

// ICMPv4 message types used by the rewrite helpers.
const (
	ICMPv4TypeEchoRequest = 8
	ICMPv4TypeEchoReply   = 0
)

// ICMPv4Header is the fixed 8-byte ICMPv4 header: type, code,
// checksum, and a 4-byte "rest of header" field whose interpretation
// (echo id/seq, MTU, pointer, ...) is message-type specific.
type ICMPv4Header struct {
	Type     uint8
	Code     uint8
	Checksum uint16
	Rest     uint32
}

func (i *ICMPv4Header) Len() uint16 { return 8 }

func (i *ICMPv4Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = i.Type
	data[1] = i.Code
	binary.BigEndian.PutUint16(data[2:4], i.Checksum)
	binary.BigEndian.PutUint32(data[4:8], i.Rest)
	return data, nil
}

func (i *ICMPv4Header) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("ICMPv4Header")
	}
	i.Type = data[0]
	i.Code = data[1]
	i.Checksum = binary.BigEndian.Uint16(data[2:4])
	i.Rest = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// RewriteTypeCode replaces the type/code fields in place, e.g. when
// NATing an ICMP Echo Request into a Reply for return traffic.
func (i *ICMPv4Header) RewriteTypeCode(typ, code uint8) {
	i.Type = typ
	i.Code = code
}

func init() {
	assertSize("ICMPv4Header", &ICMPv4Header{}, 8)
}
