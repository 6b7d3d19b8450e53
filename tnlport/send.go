package tnlport

import (
	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/packet"
)

// WildcardInit widens wc to record which parts of the classifier's
// flow key a tunneled flow's cache entry actually depends on. For a
// non-tunneled flow (no outer destination set) it is a no-op.
func (r *Registry) WildcardInit(flow *Flow, wc *Wildcards) {
	if !flow.Tunnel.DstIsSet() {
		return
	}

	wc.Tunnel.TunID = ^uint64(0)
	if flow.Tunnel.IPv4Dst != [4]byte{} {
		wc.Tunnel.IPv4Src = allOnes4
		wc.Tunnel.IPv4Dst = allOnes4
	} else {
		wc.Tunnel.IPv6Src = allOnes16
		wc.Tunnel.IPv6Dst = allOnes16
	}
	wc.Tunnel.Flags |= flowtnl.FlagOAM | flowtnl.FlagDontFragment | flowtnl.FlagCsum
	wc.Tunnel.IPTos = 0xff
	wc.Tunnel.IPTTL = 0xff
	wc.Tunnel.PktMark = ^uint32(0)

	// The receive path may overwrite the inner ECN bits when the outer
	// carries CE (see ProcessECN); widen the inner TOS mask so a cache
	// keyed on this flow still distinguishes that rewrite.
	if flow.Tunnel.IPTos&0x3 == 0x3 {
		wc.NWTosMask |= 0x3
	}
}

// Send rewrites flow's tunnel fields for egress out ofport, per the
// port's configuration, and widens wc for any field whose value it
// pulled from the inner flow rather than fixed configuration. It
// returns the datapath port to send on, or ok=false if ofport is not
// registered.
func (r *Registry) Send(ofport OFPort, flow *Flow, wc *Wildcards) (odpPort uint32, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	port, found := r.ofportIndex[ofport]
	if !found {
		return 0, false
	}
	cfg, err := port.Netdev.Config()
	if err != nil {
		r.warnf("tnlport: send: reading config for %q: %v", port.Name, err)
		return 0, false
	}
	t := &flow.Tunnel

	if !cfg.IPSrcFlow {
		setOuterSrc(t, cfg.IPv6Src)
	}
	if !cfg.IPDstFlow {
		setOuterDst(t, cfg.IPv6Dst)
	}

	flow.PktMark = port.Match.PktMark

	if !cfg.OutKeyFlow {
		t.TunID = cfg.OutKey
	}

	if cfg.TTLInherit && flow.IsIP {
		wc.NWTTLMask = 0xff
		t.IPTTL = flow.NWTTL
	} else {
		t.IPTTL = cfg.TTL
	}

	var dscp uint8
	if cfg.TOSInherit && flow.IsIP {
		wc.NWTosMask |= 0xfc
		dscp = flow.NWTos & 0xfc
	} else {
		dscp = cfg.TOS & 0xfc
	}

	var ecn uint8
	if flow.IsIP {
		wc.NWTosMask |= 0x3
		innerECN := flow.NWTos & 0x3
		if innerECN == 0x3 { // CE downgrades to ECT(0) on tunnel encapsulation, RFC 6040 §4.2
			ecn = 0x2
		} else {
			ecn = innerECN
		}
	}
	t.IPTos = dscp | ecn

	setFlag(&t.Flags, flowtnl.FlagDontFragment, cfg.DontFragment)
	setFlag(&t.Flags, flowtnl.FlagCsum, cfg.Csum)
	setFlag(&t.Flags, flowtnl.FlagKeyPresent, cfg.OutKeyPresent)

	return port.Match.OdpPort, true
}

func setFlag(flags *uint16, bit uint16, set bool) {
	if set {
		*flags |= bit
	} else {
		*flags &^= bit
	}
}

func setOuterSrc(t *flowtnl.FlowTnl, src [16]byte) {
	if v4, ok := packet.GetIPv4Mapped(src); ok {
		t.IPv4Src = v4
		t.IPv6Src = [16]byte{}
	} else {
		t.IPv6Src = src
		t.IPv4Src = [4]byte{}
	}
}

func setOuterDst(t *flowtnl.FlowTnl, dst [16]byte) {
	if v4, ok := packet.GetIPv4Mapped(dst); ok {
		t.IPv4Dst = v4
		t.IPv6Dst = [16]byte{}
	} else {
		t.IPv6Dst = dst
		t.IPv4Dst = [4]byte{}
	}
}
