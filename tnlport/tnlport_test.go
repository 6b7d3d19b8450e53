package tnlport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/netdevif"
)

// fakeNetdev is an in-memory netdevif.Netdev for tests: a fixed
// config, a mutable change-seq counter, and a FinalizeHeader that
// appends a fixed number of zero bytes (standing in for a real
// GRE/VXLAN header) so BuildHeader has something to checksum around.
type fakeNetdev struct {
	name      string
	typ       string
	cfg       netdevif.TunnelConfig
	changeSeq uint64
	tailLen   int
	finalErr  error
}

func (f *fakeNetdev) Config() (netdevif.TunnelConfig, error) { return f.cfg, nil }
func (f *fakeNetdev) ChangeSeq() uint64                      { return f.changeSeq }
func (f *fakeNetdev) Name() string                           { return f.name }
func (f *fakeNetdev) Type() string                           { return f.typ }
func (f *fakeNetdev) FinalizeHeader(buf []byte, t *flowtnl.FlowTnl) ([]byte, error) {
	if f.finalErr != nil {
		return nil, f.finalErr
	}
	return append(buf, make([]byte, f.tailLen)...), nil
}

func v4Mapped(a, b, c, d byte) [16]byte {
	return [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, a, b, c, d}
}

func TestAddDuplicateMatchRejected(t *testing.T) {
	r := New()
	ndA := &fakeNetdev{name: "vxlan0", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 1)}}
	ndB := &fakeNetdev{name: "vxlan1", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 1)}}

	require.NoError(t, r.Add("portA", ndA, 1, false))
	err := r.Add("portB", ndB, 1, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateMatch))
}

func TestAddDelRoundTrip(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "gre0", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 2)}}
	require.NoError(t, r.Add("portA", nd, 5, false))

	_, ok := r.Lookup("portA")
	require.True(t, ok)

	r.Del("portA")
	_, ok = r.Lookup("portA")
	assert.False(t, ok)

	// Re-adding after deletion must succeed: the bucket slot was freed.
	require.NoError(t, r.Add("portA", nd, 5, false))
}

func TestDelUnknownPortIsNoop(t *testing.T) {
	r := New()
	r.Del("nope") // must not panic
}

func TestReconfigureAddsWhenMissing(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "vxlan0", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 3)}}
	changed, err := r.Reconfigure("portA", nd, 1, false)
	require.NoError(t, err)
	assert.True(t, changed)
	_, ok := r.Lookup("portA")
	assert.True(t, ok)
}

func TestReconfigureNoopWhenUnchanged(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "vxlan0", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 4)}}
	require.NoError(t, r.Add("portA", nd, 1, false))
	changed, err := r.Reconfigure("portA", nd, 1, false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestReconfigureReAddsOnChangeSeqDrift(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "vxlan0", cfg: netdevif.TunnelConfig{IPv6Dst: v4Mapped(10, 0, 0, 5)}}
	require.NoError(t, r.Add("portA", nd, 1, false))

	nd.changeSeq++
	changed, err := r.Reconfigure("portA", nd, 1, false)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestBucketIndexFormula(t *testing.T) {
	cases := []struct {
		m    TnlMatch
		want int
	}{
		{TnlMatch{IPv6Src: v4Mapped(1, 1, 1, 1)}, 0},                                  // CFG src, all configured
		{TnlMatch{}, 1},                                                               // ANY src
		{TnlMatch{IPSrcFlow: true}, 2},                                                // FLOW src
		{TnlMatch{IPDstFlow: true, IPv6Src: v4Mapped(1, 1, 1, 1)}, 3},                 // ip_dst_flow=1, CFG
		{TnlMatch{IPDstFlow: true}, 4},                                                // ip_dst_flow=1, ANY
		{TnlMatch{IPDstFlow: true, IPSrcFlow: true}, 5},                               // ip_dst_flow=1, FLOW
		{TnlMatch{InKeyFlow: true, IPv6Src: v4Mapped(1, 1, 1, 1)}, 6},                 // in_key_flow=1, CFG
		{TnlMatch{InKeyFlow: true}, 7},                                                // in_key_flow=1, ANY
		{TnlMatch{InKeyFlow: true, IPSrcFlow: true}, 8},                               // in_key_flow=1, FLOW
		{TnlMatch{InKeyFlow: true, IPDstFlow: true, IPv6Src: v4Mapped(1, 1, 1, 1)}, 9}, // both=1, CFG
		{TnlMatch{InKeyFlow: true, IPDstFlow: true}, 10},                              // both=1, ANY
		{TnlMatch{InKeyFlow: true, IPDstFlow: true, IPSrcFlow: true}, 11},             // both=1, FLOW
	}
	for _, c := range cases {
		assert.Equal(t, c.want, bucketIndex(c.m))
	}
}

// TestReceiveMostSpecificBucketWins reproduces spec.md's S1 and S2
// scenarios: a fully-configured port (X) registered with its own
// ipv6_src=10.0.0.1/ipv6_dst=10.0.0.2, matched against a received flow
// whose outer addresses are the peer's view of that same tunnel -
// outer src=10.0.0.2, outer dst=10.0.0.1, i.e. swapped relative to X's
// configuration - plus a flow-based catch-all port (Y) on a different
// datapath port (4) that matches any in_key/address received there.
func TestReceiveMostSpecificBucketWins(t *testing.T) {
	r := New()
	specific := &fakeNetdev{name: "specific", cfg: netdevif.TunnelConfig{
		IPv6Src: v4Mapped(10, 0, 0, 1), IPv6Dst: v4Mapped(10, 0, 0, 2),
	}}
	catchAll := &fakeNetdev{name: "catch-all", cfg: netdevif.TunnelConfig{
		InKeyFlow: true, IPSrcFlow: true, IPDstFlow: true,
	}}
	require.NoError(t, r.Add("specific", specific, 3, false))
	require.NoError(t, r.Add("catch-all", catchAll, 4, false))

	// S1: tun_id=0, outer src=10.0.0.2, outer dst=10.0.0.1, in_port.odp_port=3.
	var s1 Flow
	s1.Tunnel.IPv4Src = [4]byte{10, 0, 0, 2}
	s1.Tunnel.IPv4Dst = [4]byte{10, 0, 0, 1}

	port, ok := r.Receive(3, &s1)
	require.True(t, ok)
	assert.Equal(t, OFPort("specific"), port)

	// S2: same outer addresses, different odp_port and tun_id, landing
	// on the flow-based port instead.
	var s2 Flow
	s2.Tunnel.TunID = 0xDEADBEEF
	s2.Tunnel.IPv4Src = [4]byte{10, 0, 0, 2}
	s2.Tunnel.IPv4Dst = [4]byte{10, 0, 0, 1}

	port, ok = r.Receive(4, &s2)
	require.True(t, ok)
	assert.Equal(t, OFPort("catch-all"), port)
	assert.Equal(t, uint64(0xDEADBEEF), s2.Tunnel.TunID)
}

func TestReceiveNoMatch(t *testing.T) {
	r := New()
	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{10, 0, 0, 9}
	_, ok := r.Receive(1, &flow)
	assert.False(t, ok)
}

func TestShouldReceiveRequiresDestination(t *testing.T) {
	var flow Flow
	assert.False(t, ShouldReceive(&flow))
	flow.Tunnel.IPv4Dst = [4]byte{1, 2, 3, 4}
	assert.True(t, ShouldReceive(&flow))
}

func TestSendInheritsTTLAndECNWithConfiguredDSCP(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "z", cfg: netdevif.TunnelConfig{
		TTLInherit: true, TOS: 0x10, DontFragment: true,
		OutKeyPresent: true, OutKey: 7,
	}}
	require.NoError(t, r.Add("portZ", nd, 9, false))

	var flow Flow
	var wc Wildcards
	flow.IsIP = true
	flow.NWTTL = 64
	flow.NWTos = 0x02 // ECT(0), DSCP 0

	odp, ok := r.Send("portZ", &flow, &wc)
	require.True(t, ok)
	assert.EqualValues(t, 9, odp)
	assert.EqualValues(t, 64, flow.Tunnel.IPTTL)
	assert.EqualValues(t, 0x12, flow.Tunnel.IPTos) // DSCP 0x10 | ECN ECT(0)
	assert.EqualValues(t, 7, flow.Tunnel.TunID)
	assert.NotZero(t, flow.Tunnel.Flags&flowtnl.FlagDontFragment)
	assert.EqualValues(t, 0xff, wc.NWTTLMask)
	assert.EqualValues(t, 0x3, wc.NWTosMask&0x3)
}

func TestSendDowngradesInnerCEToECT0(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "z", cfg: netdevif.TunnelConfig{}}
	require.NoError(t, r.Add("portZ", nd, 1, false))

	var flow Flow
	var wc Wildcards
	flow.IsIP = true
	flow.NWTos = 0x03 // CE
	_, ok := r.Send("portZ", &flow, &wc)
	require.True(t, ok)
	assert.EqualValues(t, 0x02, flow.Tunnel.IPTos&0x3)
}

func TestSendUnknownPort(t *testing.T) {
	r := New()
	var flow Flow
	var wc Wildcards
	_, ok := r.Send("nope", &flow, &wc)
	assert.False(t, ok)
}

func TestProcessECNDropsNonCapableInner(t *testing.T) {
	r := New()
	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{1, 2, 3, 4}
	flow.Tunnel.IPTos = 0x03 // outer CE
	flow.NWTos = 0x00        // inner not-ECT
	ok := r.ProcessECN(&flow)
	assert.False(t, ok)
}

func TestProcessECNMarksInnerCE(t *testing.T) {
	r := New()
	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{1, 2, 3, 4}
	flow.Tunnel.IPTos = 0x03
	flow.NWTos = 0x02 // ECT(0)
	ok := r.ProcessECN(&flow)
	assert.True(t, ok)
	assert.EqualValues(t, 0x03, flow.NWTos&0x3)
}

func TestProcessECNPassesThroughWhenOuterNotCE(t *testing.T) {
	r := New()
	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{1, 2, 3, 4}
	flow.Tunnel.IPTos = 0x00
	flow.NWTos = 0x00
	ok := r.ProcessECN(&flow)
	assert.True(t, ok)
	assert.EqualValues(t, 0x00, flow.NWTos&0x3)
}

func TestProcessECNAlwaysClearsIPsecMark(t *testing.T) {
	r := New()
	var flow Flow
	flow.PktMark = IPsecMark
	r.ProcessECN(&flow)
	assert.Zero(t, flow.PktMark&IPsecMark)
}

func TestWildcardInitNoopWhenNotTunneled(t *testing.T) {
	r := New()
	var flow Flow
	var wc Wildcards
	r.WildcardInit(&flow, &wc)
	assert.Zero(t, wc.Tunnel.TunID)
}

func TestWildcardInitUnwildcardsTunnelFields(t *testing.T) {
	r := New()
	var flow Flow
	var wc Wildcards
	flow.Tunnel.IPv4Dst = [4]byte{1, 2, 3, 4}
	r.WildcardInit(&flow, &wc)
	assert.Equal(t, ^uint64(0), wc.Tunnel.TunID)
	assert.Equal(t, allOnes4, wc.Tunnel.IPv4Src)
	assert.Equal(t, allOnes4, wc.Tunnel.IPv4Dst)
	assert.EqualValues(t, 0xff, wc.Tunnel.IPTTL)
	assert.Equal(t, ^uint32(0), wc.Tunnel.PktMark)
}
