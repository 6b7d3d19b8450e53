// Package packet provides bit-exact, network-byte-order records for the
// header formats a tunnel-port core has to parse and build: Ethernet,
// VLAN, MPLS, ARP, IPv4/IPv6, ICMP/ICMPv6, IGMP/MLD, TCP/UDP/SCTP, GRE
// and VXLAN.
//
// Every record's declared size is checked against its wire layout by an
// init-time assertion (see assertSize in layout.go); a record whose Go
// struct size drifts from its documented wire size panics at package
// load instead of silently corrupting packets.
package packet

import "encoding/binary"

// Align32 holds a 32-bit field that may only be 16-bit aligned in the
// surrounding record — some captured frames place 32-bit addresses on a
// half-word boundary. Get/Put synthesize the value from two big-endian
// half-words instead of taking its address as a *uint32, which would be
// undefined behavior on architectures that trap on misaligned loads.
type Align32 [4]byte

// Get returns the 32-bit value stored across the two half-words.
func (a Align32) Get() uint32 {
	return uint32(binary.BigEndian.Uint16(a[0:2]))<<16 | uint32(binary.BigEndian.Uint16(a[2:4]))
}

// Put stores v across the two half-words.
func (a *Align32) Put(v uint32) {
	binary.BigEndian.PutUint16(a[0:2], uint16(v>>16))
	binary.BigEndian.PutUint16(a[2:4], uint16(v))
}

// Align32FromBytes builds an Align32 from a 4-byte slice, which may
// itself live at an odd offset inside a captured frame.
func Align32FromBytes(b []byte) (a Align32) {
	copy(a[:], b[:4])
	return a
}

// AlignedIPv6 mirrors net.IP's 16-byte form but, like Align32, requires
// only 16-bit alignment: callers must read/write it through Get/Put
// rather than reinterpreting the backing array as a wider integer type.
type AlignedIPv6 [16]byte

// Get returns a copy of the address as a 16-byte array.
func (a AlignedIPv6) Get() (out [16]byte) {
	copy(out[:], a[:])
	return out
}

// Put stores a 16-byte IPv6 address.
func (a *AlignedIPv6) Put(addr []byte) {
	copy(a[:], addr[:16])
}
