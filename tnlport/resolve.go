package tnlport

import "github.com/ovs-tnl/tnlport/packet"

// ShouldReceive reports whether flow is a candidate for tunnel-port
// demultiplexing at all: it must carry an outer destination address.
func ShouldReceive(flow *Flow) bool {
	return flow.Tunnel.DstIsSet()
}

// Receive resolves the tunnel port a received flow belongs to. recvOdpPort
// is the datapath port of the netdev that physically decapsulated the
// packet - a single netdev (e.g. one VXLAN UDP socket) commonly hosts
// many logical tunnel ports distinguished only by in_key/ip, so this
// is always part of the match key, never inferred from the flow.
//
// Receive walks the 12 match-space buckets in fixed priority order
// (0, the most specific, through 11, the least) and returns the first
// exact hash-chain match, synthesizing the comparison key for each
// bucket from the fields that bucket cares about and leaving the rest
// at their zero value - the same degrees of freedom that bucket's
// ports were registered with.
func (r *Registry) Receive(recvOdpPort uint32, flow *Flow) (OFPort, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for idx := 0; idx < numBuckets; idx++ {
		bucket := r.buckets[idx]
		if len(bucket) == 0 {
			continue
		}
		key := synthesizeMatch(idx, recvOdpPort, flow)
		if port, ok := bucket[key]; ok {
			return port.OFPort, true
		}
	}
	r.warnf("tnlport: no match for flow with tun_id=%#x dst=%v on port %d", flow.Tunnel.TunID, outerDst(flow), recvOdpPort)
	return nil, false
}

// synthesizeMatch builds the TnlMatch key a received flow would have
// to hash-chain against in bucket idx. in_key_flow, ip_dst_flow and
// ip_src_kind (CFG, ANY or FLOW) all decode directly from idx.
//
// Addresses are swapped relative to the flow's own outer header: a
// port's configured ipv6_src/ipv6_dst describe that tunnel endpoint's
// own addresses, so the peer that sends to it sees them reversed - the
// flow's outer destination is the local port's configured source, and
// the flow's outer source is the local port's configured destination.
func synthesizeMatch(idx int, recvOdpPort uint32, flow *Flow) TnlMatch {
	inKeyFlow := idx/6 != 0
	rem := idx % 6
	ipDstFlow := rem/3 != 0
	kind := rem % 3

	m := TnlMatch{
		OdpPort:   recvOdpPort,
		InKeyFlow: inKeyFlow,
		IPDstFlow: ipDstFlow,
	}
	if !inKeyFlow {
		m.InKey = flow.Tunnel.TunID
	}
	if !ipDstFlow {
		m.IPv6Dst = outerSrc(flow)
	}
	switch kind {
	case ipSrcKindCFG:
		m.IPv6Src = outerDst(flow)
	case ipSrcKindFlow:
		m.IPSrcFlow = true
	case ipSrcKindANY:
		// leave IPv6Src zero and IPSrcFlow false: matches a port
		// registered with no source constraint at all.
	}
	if flow.PktMark == IPsecMark {
		m.PktMark = IPsecMark
	}
	return m
}

func outerDst(flow *Flow) [16]byte {
	if flow.Tunnel.IPv4Dst != [4]byte{} {
		return packet.SetIPv4Mapped(flow.Tunnel.IPv4Dst)
	}
	return flow.Tunnel.IPv6Dst
}

func outerSrc(flow *Flow) [16]byte {
	if flow.Tunnel.IPv4Src != [4]byte{} {
		return packet.SetIPv4Mapped(flow.Tunnel.IPv4Src)
	}
	return flow.Tunnel.IPv6Src
}
