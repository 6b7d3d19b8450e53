package tnlport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovs-tnl/tnlport/flowtnl"
	"github.com/ovs-tnl/tnlport/netdevif"
	"github.com/ovs-tnl/tnlport/packet"
)

func TestBuildHeaderProducesValidIPv4Checksum(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "vxlan0", tailLen: 16, cfg: netdevif.TunnelConfig{}}
	require.NoError(t, r.Add("portV", nd, 3, false))

	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{10, 0, 0, 2}
	flow.Tunnel.IPTTL = 64
	flow.Tunnel.IPTos = 0

	dmac := packet.EthAddr{1, 2, 3, 4, 5, 6}
	smac := packet.EthAddr{6, 5, 4, 3, 2, 1}
	buf, err := r.BuildHeader("portV", &flow, dmac, smac, [4]byte{10, 0, 0, 1}, nil)
	require.NoError(t, err)
	require.Len(t, buf, 14+20+16)

	ipv4 := buf[14:34]
	assert.True(t, packet.VerifyChecksum16(ipv4))

	var hdr packet.IPv4Header
	require.NoError(t, hdr.UnmarshalBinary(ipv4))
	assert.EqualValues(t, 4, hdr.Version)
	assert.EqualValues(t, 5, hdr.IHL)
	assert.EqualValues(t, 64, hdr.TTL)
}

func TestBuildHeaderUnknownPort(t *testing.T) {
	r := New()
	var flow Flow
	_, err := r.BuildHeader("nope", &flow, packet.EthAddr{}, packet.EthAddr{}, [4]byte{}, nil)
	assert.ErrorIs(t, err, ErrUnknownPort)
}

func TestBuildHeaderDontFragmentFlag(t *testing.T) {
	r := New()
	nd := &fakeNetdev{name: "gre0", cfg: netdevif.TunnelConfig{}}
	require.NoError(t, r.Add("portG", nd, 1, false))

	var flow Flow
	flow.Tunnel.IPv4Dst = [4]byte{10, 0, 0, 2}
	flow.Tunnel.Flags |= flowtnl.FlagDontFragment

	buf, err := r.BuildHeader("portG", &flow, packet.EthAddr{}, packet.EthAddr{}, [4]byte{10, 0, 0, 1}, nil)
	require.NoError(t, err)

	var hdr packet.IPv4Header
	require.NoError(t, hdr.UnmarshalBinary(buf[14:34]))
	assert.EqualValues(t, 0x2, hdr.Flags)
}
