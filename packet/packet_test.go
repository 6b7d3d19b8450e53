package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCIDRMask(t *testing.T) {
	cases := []struct {
		mask uint32
		want bool
	}{
		{0xfffffff0, true},  // 255.255.255.240
		{0xffffff00, true},  // 255.255.255.0
		{0x00000000, true},  // 0.0.0.0
		{0xffffffff, true},  // 255.255.255.255
		{0xff00ff00, false}, // 255.0.255.0
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsCIDRMask(c.mask), "mask %08x", c.mask)
	}
}

func TestIsCIDRMaskLiteralExamples(t *testing.T) {
	// 255.255.240.0
	m1 := uint32(255)<<24 | uint32(255)<<16 | uint32(240)<<8 | 0
	assert.True(t, IsCIDRMask(m1))
	// 255.0.255.0
	m2 := uint32(255)<<24 | 0<<16 | uint32(255)<<8 | 0
	assert.False(t, IsCIDRMask(m2))
}

func TestVLANTCIAccessors(t *testing.T) {
	tci := NewVLANTCI(100, 5, true)
	assert.EqualValues(t, 100, tci.VID())
	assert.EqualValues(t, 5, tci.PCP())
	assert.True(t, tci.CFI())
}

func TestMPLSLSEAccessors(t *testing.T) {
	lse := NewMPLSLabelStackEntry(12345, 3, true, 64)
	assert.EqualValues(t, 12345, lse.Label())
	assert.EqualValues(t, 3, lse.TC())
	assert.True(t, lse.BoS())
	assert.EqualValues(t, 64, lse.TTL())

	lse2 := lse.SetTTL(1)
	assert.EqualValues(t, 1, lse2.TTL())
	assert.EqualValues(t, 12345, lse2.Label())
	assert.EqualValues(t, 3, lse2.TC())
	assert.True(t, lse2.BoS())
}

func TestEthAddrPredicates(t *testing.T) {
	assert.True(t, EthBroadcast.IsBroadcast())
	assert.True(t, EthBroadcast.IsMulticast())

	mcast := EthAddr{0x01, 0x00, 0x5e, 0x00, 0x00, 0x01}
	assert.True(t, mcast.IsMulticast())
	assert.False(t, mcast.IsBroadcast())

	local := EthAddr{0x02, 0, 0, 0, 0, 1}
	assert.True(t, local.IsLocallyAdministered())

	randomMarked := EthAddr{0x00, 0x23, 0x20, 0x80, 0, 0}
	assert.True(t, randomMarked.IsLocallyAdministered())

	notRandom := EthAddr{0x00, 0x23, 0x20, 0x00, 0, 0}
	assert.False(t, notRandom.IsLocallyAdministered())
}

func TestEthAddrFormatParse(t *testing.T) {
	a, err := ParseEthAddr("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", a.String())
}

func TestChecksum16ZeroSum(t *testing.T) {
	hdr := IPv4Header{
		Version: 4, IHL: 5, TTL: 64, Protocol: 17,
		Length: 20, Src: Align32FromBytes([]byte{10, 0, 0, 1}),
		Dst: Align32FromBytes([]byte{10, 0, 0, 2}),
	}
	data, err := hdr.MarshalBinary()
	require.NoError(t, err)
	data[10], data[11] = 0, 0
	cs := Checksum16(data)
	data[10] = byte(cs >> 8)
	data[11] = byte(cs)
	assert.True(t, VerifyChecksum16(data))
}

func TestIPv4HeaderRoundTrip(t *testing.T) {
	hdr := IPv4Header{
		Version: 4, IHL: 5, TOS: 0x12, Length: 84, ID: 0x55,
		Flags: 0x2, FragOff: 0, TTL: 64, Protocol: 6,
		Src: Align32FromBytes([]byte{192, 168, 1, 1}),
		Dst: Align32FromBytes([]byte{192, 168, 1, 2}),
	}
	data, err := hdr.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 20)

	var out IPv4Header
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, hdr.Version, out.Version)
	assert.Equal(t, hdr.IHL, out.IHL)
	assert.Equal(t, hdr.TOS, out.TOS)
	assert.Equal(t, hdr.Flags, out.Flags)
	assert.Equal(t, hdr.Src.Get(), out.Src.Get())
	assert.Equal(t, hdr.Dst.Get(), out.Dst.Get())
}

func TestIPv4DSCPECN(t *testing.T) {
	var h IPv4Header
	h.SetDSCP(0x10)
	h.SetECN(ECNCE)
	assert.EqualValues(t, 0x10, h.DSCP())
	assert.EqualValues(t, ECNCE, h.ECN())
	assert.Equal(t, uint8(0x43), h.TOS)
}

func TestIPv4MulticastPredicates(t *testing.T) {
	assert.True(t, IsMulticastIPv4([4]byte{224, 1, 2, 3}))
	assert.False(t, IsMulticastIPv4([4]byte{10, 0, 0, 1}))
	assert.True(t, IsLinkLocalMulticastIPv4([4]byte{224, 0, 0, 251}))
	assert.False(t, IsLinkLocalMulticastIPv4([4]byte{224, 1, 0, 1}))
}

func TestIPv4MappedRoundTrip(t *testing.T) {
	v4 := [4]byte{10, 0, 0, 1}
	mapped := SetIPv4Mapped(v4)
	out, ok := GetIPv4Mapped(mapped)
	require.True(t, ok)
	assert.Equal(t, v4, out)

	_, ok = GetIPv4Mapped([16]byte{0: 0xfe, 1: 0x80})
	assert.False(t, ok)
}

func TestVXLANFlagsAlwaysReadBack(t *testing.T) {
	buf := PushVXLAN(nil, 0x123456)
	var h VXLANHeader
	require.NoError(t, h.UnmarshalBinary(buf))
	assert.EqualValues(t, VXLANFlagsValue, h.Flags)
	assert.EqualValues(t, 0x123456, h.VNI)
}

func TestPushPopVLAN(t *testing.T) {
	frame := make([]byte, 14+10)
	tagged := PushVLAN(frame, NewVLANTCI(42, 0, false), 0x8100)
	assert.Len(t, tagged, 14+4+10)

	untagged, tci, ok := PopVLAN(tagged)
	require.True(t, ok)
	assert.Len(t, untagged, 14+10)
	assert.EqualValues(t, 42, tci.VID())
}

func TestARPRequestReply(t *testing.T) {
	sha := EthAddr{1, 2, 3, 4, 5, 6}
	tha := EthAddr{6, 5, 4, 3, 2, 1}
	spa := [4]byte{10, 0, 0, 1}
	tpa := [4]byte{10, 0, 0, 2}

	req := NewARPRequest(sha, spa, tpa)
	data, err := req.MarshalBinary()
	require.NoError(t, err)

	var out ARPEthernetIPv4
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, uint16(ARPOpRequest), out.Oper)
	assert.Equal(t, spa, out.SPA)
	assert.Equal(t, tpa, out.TPA)

	reply := NewARPReply(tha, tpa, sha, spa)
	assert.Equal(t, uint16(ARPOpReply), reply.Oper)
}

func TestFormatMaskedIPv4(t *testing.T) {
	assert.Equal(t, "10.0.0.0/24", FormatMaskedIPv4([4]byte{10, 0, 0, 0}, [4]byte{255, 255, 255, 0}))
	assert.Equal(t, "10.0.0.1/255.0.255.0", FormatMaskedIPv4([4]byte{10, 0, 0, 1}, [4]byte{255, 0, 255, 0}))
}
