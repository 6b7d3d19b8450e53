package main

import (
	"fmt"

	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/netdevif"
	"github.com/ovs-tnl/tnlport/tnlport"
)

// staticNetdev is a fixed-configuration netdevif.Netdev for this CLI's
// in-process demonstration fixture: tnlportctl never talks to a real
// datapath, so there is nothing to poll for configuration changes.
type staticNetdev struct {
	name string
	typ  string
	cfg  netdevif.TunnelConfig
}

func (s *staticNetdev) Config() (netdevif.TunnelConfig, error) { return s.cfg, nil }
func (s *staticNetdev) ChangeSeq() uint64                      { return 0 }
func (s *staticNetdev) Name() string                           { return s.name }
func (s *staticNetdev) Type() string                           { return s.typ }
func (s *staticNetdev) FinalizeHeader(buf []byte, t *flowtnl.FlowTnl) ([]byte, error) {
	return buf, nil
}

func ipv4Mapped(a, b, c, d byte) [16]byte {
	return [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, a, b, c, d}
}

// buildFixtureRegistry populates a Registry with a handful of
// representative tunnel ports spanning several match-space buckets,
// so `list` and `bucket-stats` have something to show and `resolve`
// has more than one candidate to pick among.
func buildFixtureRegistry() (*tnlport.Registry, error) {
	r := tnlport.New()

	ports := []struct {
		ofport string
		odp    uint32
		nd     *staticNetdev
	}{
		{"vxlan-to-hostA", 1, &staticNetdev{
			name: "vxlan-to-hostA", typ: "vxlan",
			cfg: netdevif.TunnelConfig{
				InKey: 100, IPv6Dst: ipv4Mapped(10, 0, 0, 1), DstPort: 4789,
			},
		}},
		{"vxlan-to-hostB", 2, &staticNetdev{
			name: "vxlan-to-hostB", typ: "vxlan",
			cfg: netdevif.TunnelConfig{
				InKey: 200, IPv6Dst: ipv4Mapped(10, 0, 0, 2), DstPort: 4789,
			},
		}},
		{"gre-flow-based", 3, &staticNetdev{
			name: "gre-flow-based", typ: "gre",
			cfg: netdevif.TunnelConfig{
				InKeyFlow: true, IPDstFlow: true, IPSrcFlow: true,
			},
		}},
	}

	for _, p := range ports {
		if err := r.Add(p.ofport, p.nd, p.odp, false); err != nil {
			return nil, fmt.Errorf("adding fixture port %q: %w", p.ofport, err)
		}
	}
	return r, nil
}
