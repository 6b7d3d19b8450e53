package packet

import "encoding/binary"

// ARP operation codes.
const (
	ARPOpRequest = 1
	ARPOpReply   = 2
	RARPOpRequest = 3
	RARPOpReply   = 4
)

// ARP hardware/protocol type constants for Ethernet/IPv4 ARP.
const (
	ARPHTypeEthernet = 1
	ARPPTypeIPv4     = 0x0800
)

// ARPEthernetIPv4 is the fixed 28-byte ARP packet for the
// Ethernet/IPv4 combination: hardware type, protocol type, hardware
// and protocol address lengths, operation, and the four addresses.
type ARPEthernetIPv4 struct {
	HType    uint16
	PType    uint16
	HLen     uint8
	PLen     uint8
	Oper     uint16
	SHA      EthAddr
	SPA      [4]byte
	THA      EthAddr
	TPA      [4]byte
}

func (a *ARPEthernetIPv4) Len() uint16 { return 28 }

func (a *ARPEthernetIPv4) MarshalBinary() ([]byte, error) {
	data := make([]byte, 28)
	binary.BigEndian.PutUint16(data[0:2], a.HType)
	binary.BigEndian.PutUint16(data[2:4], a.PType)
	data[4] = a.HLen
	data[5] = a.PLen
	binary.BigEndian.PutUint16(data[6:8], a.Oper)
	copy(data[8:14], a.SHA[:])
	copy(data[14:18], a.SPA[:])
	copy(data[18:24], a.THA[:])
	copy(data[24:28], a.TPA[:])
	return data, nil
}

func (a *ARPEthernetIPv4) UnmarshalBinary(data []byte) error {
	if len(data) < 28 {
		return errShortBuffer("ARPEthernetIPv4")
	}
	a.HType = binary.BigEndian.Uint16(data[0:2])
	a.PType = binary.BigEndian.Uint16(data[2:4])
	a.HLen = data[4]
	a.PLen = data[5]
	a.Oper = binary.BigEndian.Uint16(data[6:8])
	copy(a.SHA[:], data[8:14])
	copy(a.SPA[:], data[14:18])
	copy(a.THA[:], data[18:24])
	copy(a.TPA[:], data[24:28])
	return nil
}

// NewARPRequest builds an Ethernet/IPv4 ARP request: "who has TPA?
// tell SPA", with the target hardware address zeroed.
func NewARPRequest(sha EthAddr, spa [4]byte, tpa [4]byte) *ARPEthernetIPv4 {
	return &ARPEthernetIPv4{
		HType: ARPHTypeEthernet, PType: ARPPTypeIPv4, HLen: 6, PLen: 4,
		Oper: ARPOpRequest, SHA: sha, SPA: spa, TPA: tpa,
	}
}

// NewARPReply builds an Ethernet/IPv4 ARP reply from sha/spa to
// tha/tpa.
func NewARPReply(sha EthAddr, spa [4]byte, tha EthAddr, tpa [4]byte) *ARPEthernetIPv4 {
	return &ARPEthernetIPv4{
		HType: ARPHTypeEthernet, PType: ARPPTypeIPv4, HLen: 6, PLen: 4,
		Oper: ARPOpReply, SHA: sha, SPA: spa, THA: tha, TPA: tpa,
	}
}

// NewRARPRequest builds a Reverse ARP request asking for the protocol
// address owned by tha.
func NewRARPRequest(sha EthAddr, tha EthAddr) *ARPEthernetIPv4 {
	return &ARPEthernetIPv4{
		HType: ARPHTypeEthernet, PType: ARPPTypeIPv4, HLen: 6, PLen: 4,
		Oper: RARPOpRequest, SHA: sha, THA: tha,
	}
}

func init() {
	assertSize("ARPEthernetIPv4", &ARPEthernetIPv4{}, 28)
}
