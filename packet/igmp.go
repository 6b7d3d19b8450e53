package packet

import "encoding/binary"

// IGMP message types, following the teacher's protocol.IGMPv1or2 naming.
const (
	IGMPTypeQuery    = 0x11
	IGMPv2TypeReport = 0x16
	IGMPv2TypeLeave  = 0x17
	IGMPv3TypeReport = 0x22
)

// IGMPv2Header is the fixed 8-byte IGMPv1/v2 message: type, max
// response time, checksum, group address.
type IGMPv2Header struct {
	Type            uint8
	MaxResponseTime uint8
	Checksum        uint16
	GroupAddress    [4]byte
}

func (h *IGMPv2Header) Len() uint16 { return 8 }

func (h *IGMPv2Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = h.Type
	data[1] = h.MaxResponseTime
	binary.BigEndian.PutUint16(data[2:4], h.Checksum)
	copy(data[4:8], h.GroupAddress[:])
	return data, nil
}

func (h *IGMPv2Header) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("IGMPv2Header")
	}
	h.Type = data[0]
	h.MaxResponseTime = data[1]
	h.Checksum = binary.BigEndian.Uint16(data[2:4])
	copy(h.GroupAddress[:], data[4:8])
	return nil
}

// IGMPv3Header is the fixed 8-byte IGMPv3 Membership Query header: it
// shares the first 8 bytes with IGMPv2Header's layout but the trailing
// variable source list is not modeled here.
type IGMPv3Header struct {
	Type            uint8
	MaxResponseCode uint8
	Checksum        uint16
	GroupAddress    [4]byte
}

func (h *IGMPv3Header) Len() uint16 { return 8 }

func (h *IGMPv3Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = h.Type
	data[1] = h.MaxResponseCode
	binary.BigEndian.PutUint16(data[2:4], h.Checksum)
	copy(data[4:8], h.GroupAddress[:])
	return data, nil
}

func (h *IGMPv3Header) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("IGMPv3Header")
	}
	h.Type = data[0]
	h.MaxResponseCode = data[1]
	h.Checksum = binary.BigEndian.Uint16(data[2:4])
	copy(h.GroupAddress[:], data[4:8])
	return nil
}

// IGMPv3GroupRecord is the fixed 8-byte prefix of an IGMPv3
// Membership Report's per-group record (record type, aux data length,
// number of sources, group address); trailing source addresses and
// auxiliary data are variable-length and not modeled here.
type IGMPv3GroupRecord struct {
	RecordType   uint8
	AuxDataLen   uint8
	NumSources   uint16
	GroupAddress [4]byte
}

func (r *IGMPv3GroupRecord) Len() uint16 { return 8 }

func (r *IGMPv3GroupRecord) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	data[0] = r.RecordType
	data[1] = r.AuxDataLen
	binary.BigEndian.PutUint16(data[2:4], r.NumSources)
	copy(data[4:8], r.GroupAddress[:])
	return data, nil
}

func (r *IGMPv3GroupRecord) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errShortBuffer("IGMPv3GroupRecord")
	}
	r.RecordType = data[0]
	r.AuxDataLen = data[1]
	r.NumSources = binary.BigEndian.Uint16(data[2:4])
	copy(r.GroupAddress[:], data[4:8])
	return nil
}

func init() {
	assertSize("IGMPv2Header", &IGMPv2Header{}, 8)
	assertSize("IGMPv3Header", &IGMPv3Header{}, 8)
	assertSize("IGMPv3GroupRecord", &IGMPv3GroupRecord{}, 8)
}
