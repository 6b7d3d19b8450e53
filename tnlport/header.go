package tnlport

import (
	"encoding/binary"

	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/packet"
)

// BuildHeader constructs the outer Ethernet+IPv4 prefix for a packet
// egressing ofport and appends the port's L4/tunnel-specific bytes via
// its netdev's FinalizeHeader callback. flow must already have been
// through Send, so its tunnel fields hold the values to encapsulate
// with. buf is an optional destination to append to (pass nil to
// allocate fresh).
//
// IHL, version, ID and fragment offset are always 5, 4, 0 and 0; DF
// comes from flow.Tunnel's DONT_FRAGMENT flag; TOS and TTL come
// directly from flow.Tunnel without further interpretation (Send
// already applied the inherit/ECN policy). The IPv4 checksum is
// computed last, over whatever FinalizeHeader leaves in the 20-byte
// IPv4 region, so a callback that patches the protocol number or
// total length still gets a correct checksum.
func (r *Registry) BuildHeader(ofport OFPort, flow *Flow, dst, src packet.EthAddr, srcIP [4]byte, buf []byte) ([]byte, error) {
	r.mu.RLock()
	port, found := r.ofportIndex[ofport]
	r.mu.RUnlock()
	if !found {
		return nil, ErrUnknownPort
	}

	eth := packet.EthernetII{Dst: dst, Src: src, EtherType: 0x0800}
	ethBytes, err := eth.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, ethBytes...)

	var df uint8
	if flow.Tunnel.Flags&flowtnl.FlagDontFragment != 0 {
		df = 0x2
	}
	ip := packet.IPv4Header{
		Version: 4,
		IHL:     5,
		TOS:     flow.Tunnel.IPTos,
		ID:      0,
		Flags:   df,
		FragOff: 0,
		TTL:     flow.Tunnel.IPTTL,
		Src:     packet.Align32FromBytes(srcIP[:]),
		Dst:     packet.Align32FromBytes(flow.Tunnel.IPv4Dst[:]),
	}
	ipBytes, err := ip.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ipv4Start := len(buf)
	buf = append(buf, ipBytes...)

	buf, err = port.Netdev.FinalizeHeader(buf, &flow.Tunnel)
	if err != nil {
		return nil, err
	}

	binary.BigEndian.PutUint16(buf[ipv4Start+10:ipv4Start+12], 0)
	cs := packet.Checksum16(buf[ipv4Start : ipv4Start+20])
	binary.BigEndian.PutUint16(buf[ipv4Start+10:ipv4Start+12], cs)

	return buf, nil
}
