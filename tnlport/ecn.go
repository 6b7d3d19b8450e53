package tnlport

import "github.com/ovs-tnl/tnlport/packet"

// ProcessECN applies the RFC 6040 ECN decapsulation rules to a
// received, tunneled flow: if the outer carries Congestion
// Experienced and the inner is not ECN-capable, the packet must be
// dropped (returns false); otherwise a CE outer promotes the inner to
// CE. Non-tunneled flows and flows whose outer isn't marked CE pass
// through unchanged.
//
// The IPsec datapath mark is always cleared here regardless of
// outcome: it is demultiplexing state internal to this core and must
// not leak into the rest of the pipeline. This mirrors the upstream
// behavior even for flows that were never IPsec-protected; see
// DESIGN.md for why that unconditional clear is kept rather than
// gated on flow.PktMark == IPsecMark.
func (r *Registry) ProcessECN(flow *Flow) bool {
	defer func() { flow.PktMark &^= IPsecMark }()

	if !flow.Tunnel.DstIsSet() {
		return true
	}
	if flow.Tunnel.IPTos&0x3 != packet.ECNCE {
		return true
	}

	innerECN := flow.NWTos & 0x3
	if innerECN == packet.ECNNotECT {
		r.warnf("tnlport: dropping non-ECN-capable packet under ECN-marked tunnel (tun_id=%#x)", flow.Tunnel.TunID)
		return false
	}
	flow.NWTos = (flow.NWTos &^ 0x3) | packet.ECNCE
	return true
}
