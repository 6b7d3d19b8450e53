package tnlport

import (
	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/netdevif"
)

// OFPort is the opaque OpenFlow port handle callers use to identify a
// tunnel vport. The registry never dereferences it; it only compares
// handles for equality (map key identity), so callers should use a
// concrete comparable type - a pointer or an integer port number.
type OFPort any

// ip_src_kind values, ordered most specific (0) to least specific (2),
// matching the bucket-priority rule in bucketIndex.
const (
	ipSrcKindCFG  = 0 // configured source IP
	ipSrcKindANY  = 1 // no source constraint at all
	ipSrcKindFlow = 2 // source IP deferred entirely to the flow
)

// numBuckets is 2 (in_key_flow) x 2 (ip_dst_flow) x 3 (ip_src_kind).
const numBuckets = 12

// TnlMatch is the match tuple a registered port occupies: the
// configured portion of a flow_tnl record plus the datapath and
// packet-mark context needed to disambiguate otherwise-identical
// configurations. Every field is a plain comparable value (no slices,
// no maps), so TnlMatch is itself usable as a map key - equivalent to
// the contiguous, padding-free record the match-space buckets need,
// without resorting to unsafe memory tricks.
type TnlMatch struct {
	InKey     uint64
	IPv6Src   [16]byte
	IPv6Dst   [16]byte
	OdpPort   uint32
	PktMark   uint32
	InKeyFlow bool
	IPSrcFlow bool
	IPDstFlow bool
}

func ipSrcKind(m TnlMatch) int {
	switch {
	case m.IPSrcFlow:
		return ipSrcKindFlow
	case m.IPv6Src != [16]byte{}:
		return ipSrcKindCFG
	default:
		return ipSrcKindANY
	}
}

// BucketIndexOf exposes bucketIndex for introspection tooling: which
// of the 12 match-space buckets would hold a port registered with
// match tuple m.
func BucketIndexOf(m TnlMatch) int { return bucketIndex(m) }

// bucketIndex computes which of the 12 match-space buckets m belongs
// to: 6*in_key_flow + 3*ip_dst_flow + ip_src_kind. Index 0 is the most
// specific bucket (every field configured), 11 the least (everything
// deferred to the flow).
func bucketIndex(m TnlMatch) int {
	inKeyFlow, ipDstFlow := 0, 0
	if m.InKeyFlow {
		inKeyFlow = 1
	}
	if m.IPDstFlow {
		ipDstFlow = 1
	}
	return 6*inKeyFlow + 3*ipDstFlow + ipSrcKind(m)
}

// IPsecMark is the packet-mark value the send/receive paths use to
// tag traffic over IPsec-protected tunnels.
const IPsecMark uint32 = 1

// TnlPort is a single registered tunnel vport: its netdev collaborator,
// the match tuple it currently occupies, and the bookkeeping the
// registry needs to detect configuration drift and unregister native
// tunnel devices on removal.
type TnlPort struct {
	OFPort        OFPort
	Netdev        netdevif.Netdev
	ChangeSeq     uint64
	Match         TnlMatch
	Name          string
	NativeTunnel  bool
	NativeDstPort uint16
}

// Flow is the subset of the surrounding classifier's flow key this
// core reads and writes: the tunnel descriptor (flow_tnl), the packet
// mark, and the handful of inner-packet fields the send and receive
// paths inherit TTL/DSCP/ECN from. The datapath port a flow arrived on
// is not part of Flow; Receive takes it as a parameter. Everything else
// in a real flow key (L2/L3/L4 match fields unrelated to tunneling)
// is out of scope and does not appear here.
type Flow struct {
	Tunnel  flowtnl.FlowTnl
	PktMark uint32
	IsIP    bool
	NWTTL   uint8
	NWTos   uint8 // DSCP (high 6 bits) + ECN (low 2 bits)
}

// TunnelWildcards mirrors the flow_tnl fields of Wildcards: an
// all-ones field means that field is fully significant to the match,
// all-zero means wildcarded (don't care).
type TunnelWildcards struct {
	TunID   uint64
	IPv4Src [4]byte
	IPv4Dst [4]byte
	IPv6Src [16]byte
	IPv6Dst [16]byte
	Flags   uint16
	IPTos   uint8
	IPTTL   uint8
	PktMark uint32
}

// Wildcards is the companion mask structure WildcardInit and Send
// widen as they consult additional flow fields, so the caller's flow
// cache/megaflow key stays correct.
type Wildcards struct {
	Tunnel    TunnelWildcards
	NWTTLMask uint8
	NWTosMask uint8
}

var (
	allOnes4  = [4]byte{0xff, 0xff, 0xff, 0xff}
	allOnes16 = [16]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
)
