// Package netdevif declares the interfaces the tunnel-port core
// consumes from its surrounding datapath rather than implementing
// itself: the per-port tunnel configuration record, the netdev handle
// that carries it, and the native-tunnel-device collaborator the
// registry notifies on add/delete. Production callers supply concrete
// netdev implementations; this package only fixes the contract.
package netdevif

import "github.com/ovs-tnl/tnlport/flowtnl"

// TunnelConfig is a tunnel vport's static and per-flow configuration,
// mirroring OVS's tnl_port_config: enough for the registry to build a
// match tuple and for the send path to decide which fields a flow
// overrides versus which are fixed by configuration.
type TunnelConfig struct {
	InKey     uint64 // configured tunnel id, meaningful when !InKeyFlow
	IPv6Src   [16]byte
	IPv6Dst   [16]byte
	IPSrcFlow bool // source IP comes from the flow, not IPv6Src
	IPDstFlow bool // destination IP comes from the flow, not IPv6Dst
	InKeyFlow bool // tunnel id comes from the flow on receive

	OutKey        uint64
	OutKeyFlow    bool // tunnel id on send comes from the flow
	OutKeyPresent bool // send path should set FlagKeyPresent

	IPsec bool // tunnel is IPsec-protected; sets the IPsec datapath mark

	TTL        uint8
	TTLInherit bool
	TOS        uint8
	TOSInherit bool

	DontFragment bool
	Csum         bool

	DstPort uint16 // outer UDP destination port, for UDP-encapsulated types
}

// Netdev is the per-port handle the registry stores alongside a
// TnlMatch. Implementations wrap whatever datapath-specific netdev
// object production code already has; this core only needs the five
// operations below. Registry.Reconfigure compares a stored Netdev
// against a fresh one with ==, so implementations must use a
// comparable concrete type (a pointer, typically).
type Netdev interface {
	// Config returns the port's current tunnel configuration.
	Config() (TunnelConfig, error)

	// ChangeSeq returns a counter that increments whenever Config
	// would return a different value, letting Reconfigure detect
	// configuration drift without re-fetching and diffing Config
	// itself.
	ChangeSeq() uint64

	// Name is the port's datapath name, used in log messages only.
	Name() string

	// Type is the tunnel type string (e.g. "vxlan", "gre", "geneve"),
	// used in log messages and to pick the finalize behavior.
	Type() string

	// FinalizeHeader appends this port's L4 and tunnel-specific bytes
	// (UDP+VXLAN header, bare GRE header, ...) to buf, which already
	// holds the Ethernet+IPv4 outer prefix C5 built. Implementations
	// may also patch fields inside that prefix - the IPv4 protocol
	// number and total length - since only they know the final
	// encapsulation layout.
	FinalizeHeader(buf []byte, tunnel *flowtnl.FlowTnl) ([]byte, error)
}

// NativeTunnelRegistry is the native-tunnel-device collaborator the
// registry notifies when a port backed by a kernel/native tunnel
// device is added or removed, so the datapath can route received
// packets on dst_port to the right vport before this core's own
// match-space resolution ever runs.
type NativeTunnelRegistry interface {
	Insert(odpPort uint32, dstPort uint16, name string) error
	Delete(dstPort uint16) error
}
