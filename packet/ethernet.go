package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EthAddr is a 6-byte MAC address, stored as six bytes. Words exposes
// it as three big-endian 16-bit words and Bytes as a byte view;
// Compare, EqualMasked and Hash walk it a byte at a time.
type EthAddr [6]byte

// Bytes returns the address as a byte slice view (no copy).
func (a *EthAddr) Bytes() []byte { return a[:] }

// Words returns the address as three big-endian 16-bit words.
func (a EthAddr) Words() [3]uint16 {
	return [3]uint16{
		binary.BigEndian.Uint16(a[0:2]),
		binary.BigEndian.Uint16(a[2:4]),
		binary.BigEndian.Uint16(a[4:6]),
	}
}

// EthBroadcast is ff:ff:ff:ff:ff:ff.
var EthBroadcast = EthAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// IsBroadcast reports whether a is the all-ones address.
func (a EthAddr) IsBroadcast() bool { return a == EthBroadcast }

// IsMulticast reports whether the low bit of the first byte is set.
func (a EthAddr) IsMulticast() bool { return a[0]&0x01 != 0 }

// IsZero reports whether a is the all-zeros address.
func (a EthAddr) IsZero() bool { return a == EthAddr{} }

// randomOUI is the vendor-specific "locally administered, randomly
// generated" prefix OVS reserves for synthetic addresses: 00:23:20.
var randomOUI = [3]byte{0x00, 0x23, 0x20}

// IsLocallyAdministered reports whether bit 2 of the first octet is
// set, or the address carries OVS's vendor-specific random-address OUI
// (00:23:20:xx:xx:xx) with the high bit of the fourth byte set.
func (a EthAddr) IsLocallyAdministered() bool {
	if a[0]&0x02 != 0 {
		return true
	}
	if a[0] == randomOUI[0] && a[1] == randomOUI[1] && a[2] == randomOUI[2] {
		return a[3]&0x80 != 0
	}
	return false
}

// Equal is a byte-wise equality test.
func (a EthAddr) Equal(b EthAddr) bool { return a == b }

// EqualMasked reports whether a and b are equal everywhere mask has a
// 1 bit.
func (a EthAddr) EqualMasked(b, mask EthAddr) bool {
	for i := range a {
		if a[i]&mask[i] != b[i]&mask[i] {
			return false
		}
	}
	return true
}

// Compare does a 3-way, byte-wise comparison (like bytes.Compare).
func (a EthAddr) Compare(b EthAddr) int {
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Invert returns the bitwise complement of a.
func (a EthAddr) Invert() EthAddr {
	var out EthAddr
	for i := range a {
		out[i] = ^a[i]
	}
	return out
}

// Pack64 packs the address into the low 48 bits of a uint64, matching
// the layout OVS uses for flow-key hashing.
func (a EthAddr) Pack64() uint64 {
	var v uint64
	for _, b := range a {
		v = v<<8 | uint64(b)
	}
	return v
}

// PackVLAN64 packs a VLAN TCI into the high 16 bits alongside the
// 48-bit address, matching the combined 64-bit form OVS hashes
// Ethernet+VLAN keys with.
func (a EthAddr) PackVLAN64(tci uint16) uint64 {
	return uint64(tci)<<48 | a.Pack64()
}

// Hash folds the address (and an arbitrary basis, mirroring OVS's
// hash_bytes(..., basis) convention) into a 32-bit value using FNV-1a.
func (a EthAddr) Hash(basis uint32) uint32 {
	h := basis ^ 2166136261
	for _, b := range a {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}

// ParseEthAddr parses the canonical "xx:xx:xx:xx:xx:xx" textual form.
func ParseEthAddr(s string) (EthAddr, error) {
	var a EthAddr
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&a[0], &a[1], &a[2], &a[3], &a[4], &a[5])
	if err != nil || n != 6 {
		return EthAddr{}, fmt.Errorf("packet: invalid MAC address %q", s)
	}
	return a, nil
}

// String formats a in canonical "xx:xx:xx:xx:xx:xx" form.
func (a EthAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// EthernetII is the 14-byte Ethernet II header: destination, source,
// ethertype.
type EthernetII struct {
	Dst       EthAddr
	Src       EthAddr
	EtherType uint16
}

func (e *EthernetII) Len() uint16 { return 14 }

func (e *EthernetII) MarshalBinary() ([]byte, error) {
	data := make([]byte, 14)
	copy(data[0:6], e.Dst[:])
	copy(data[6:12], e.Src[:])
	binary.BigEndian.PutUint16(data[12:14], e.EtherType)
	return data, nil
}

func (e *EthernetII) UnmarshalBinary(data []byte) error {
	if len(data) < 14 {
		return errors.New("packet: short buffer for EthernetII")
	}
	copy(e.Dst[:], data[0:6])
	copy(e.Src[:], data[6:12])
	e.EtherType = binary.BigEndian.Uint16(data[12:14])
	return nil
}

// LLC is the 3-byte 802.2 Logical Link Control header.
type LLC struct {
	DSAP    uint8
	SSAP    uint8
	Control uint8
}

func (l *LLC) Len() uint16 { return 3 }

func (l *LLC) MarshalBinary() ([]byte, error) {
	return []byte{l.DSAP, l.SSAP, l.Control}, nil
}

func (l *LLC) UnmarshalBinary(data []byte) error {
	if len(data) < 3 {
		return errors.New("packet: short buffer for LLC")
	}
	l.DSAP, l.SSAP, l.Control = data[0], data[1], data[2]
	return nil
}

// SNAP is the 5-byte Subnetwork Access Protocol header.
type SNAP struct {
	OUI      [3]byte
	EthType  uint16
}

func (s *SNAP) Len() uint16 { return 5 }

func (s *SNAP) MarshalBinary() ([]byte, error) {
	data := make([]byte, 5)
	copy(data[0:3], s.OUI[:])
	binary.BigEndian.PutUint16(data[3:5], s.EthType)
	return data, nil
}

func (s *SNAP) UnmarshalBinary(data []byte) error {
	if len(data) < 5 {
		return errors.New("packet: short buffer for SNAP")
	}
	copy(s.OUI[:], data[0:3])
	s.EthType = binary.BigEndian.Uint16(data[3:5])
	return nil
}

// LLCSNAP is the combined 8-byte LLC+SNAP header used to carry an
// ethertype over an 802.2 frame.
type LLCSNAP struct {
	LLC  LLC
	SNAP SNAP
}

func (l *LLCSNAP) Len() uint16 { return 8 }

func (l *LLCSNAP) MarshalBinary() ([]byte, error) {
	data := make([]byte, 8)
	b, _ := l.LLC.MarshalBinary()
	copy(data[0:3], b)
	b, _ = l.SNAP.MarshalBinary()
	copy(data[3:8], b)
	return data, nil
}

func (l *LLCSNAP) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("packet: short buffer for LLCSNAP")
	}
	if err := l.LLC.UnmarshalBinary(data[0:3]); err != nil {
		return err
	}
	return l.SNAP.UnmarshalBinary(data[3:8])
}

// VLANTCI is an 802.1Q tag control information field. VID occupies the
// low 12 bits (host order, after ntoh), PCP the top 3 bits, CFI bit 12.
type VLANTCI uint16

func (t VLANTCI) VID() uint16  { return uint16(t) & 0x0fff }
func (t VLANTCI) PCP() uint8   { return uint8(t >> 13) }
func (t VLANTCI) CFI() bool    { return t&0x1000 != 0 }

// NewVLANTCI assembles a TCI from its components.
func NewVLANTCI(vid uint16, pcp uint8, cfi bool) VLANTCI {
	t := VLANTCI(vid & 0x0fff)
	t |= VLANTCI(pcp&0x7) << 13
	if cfi {
		t |= 0x1000
	}
	return t
}

// VLANHeader is the 4-byte 802.1Q header: TPID + TCI.
type VLANHeader struct {
	TPID uint16
	TCI  VLANTCI
}

func (v *VLANHeader) Len() uint16 { return 4 }

func (v *VLANHeader) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], v.TPID)
	binary.BigEndian.PutUint16(data[2:4], uint16(v.TCI))
	return data, nil
}

func (v *VLANHeader) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errors.New("packet: short buffer for VLANHeader")
	}
	v.TPID = binary.BigEndian.Uint16(data[0:2])
	v.TCI = VLANTCI(binary.BigEndian.Uint16(data[2:4]))
	return nil
}

// VLANEthernet is the 18-byte combined Ethernet+802.1Q header.
type VLANEthernet struct {
	Dst       EthAddr
	Src       EthAddr
	VLAN      VLANHeader
	EtherType uint16
}

func (v *VLANEthernet) Len() uint16 { return 18 }

func (v *VLANEthernet) MarshalBinary() ([]byte, error) {
	data := make([]byte, 18)
	copy(data[0:6], v.Dst[:])
	copy(data[6:12], v.Src[:])
	vb, _ := v.VLAN.MarshalBinary()
	copy(data[12:16], vb)
	binary.BigEndian.PutUint16(data[16:18], v.EtherType)
	return data, nil
}

func (v *VLANEthernet) UnmarshalBinary(data []byte) error {
	if len(data) < 18 {
		return errors.New("packet: short buffer for VLANEthernet")
	}
	copy(v.Dst[:], data[0:6])
	copy(v.Src[:], data[6:12])
	if err := v.VLAN.UnmarshalBinary(data[12:16]); err != nil {
		return err
	}
	v.EtherType = binary.BigEndian.Uint16(data[16:18])
	return nil
}

func init() {
	assertSize("EthernetII", &EthernetII{}, 14)
	assertSize("LLC", &LLC{}, 3)
	assertSize("SNAP", &SNAP{}, 5)
	assertSize("LLCSNAP", &LLCSNAP{}, 8)
	assertSize("VLANHeader", &VLANHeader{}, 4)
	assertSize("VLANEthernet", &VLANEthernet{}, 18)
}
