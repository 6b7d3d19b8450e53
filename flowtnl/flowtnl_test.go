package flowtnl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveSizeNoDestination(t *testing.T) {
	var f FlowTnl
	f.TunID = 0xDEADBEEF
	f.IPv4Src = [4]byte{10, 0, 0, 1}
	// Neither destination slot is set: Src fields may be populated but
	// don't move the effective size.
	assert.Equal(t, baseNoDstSize, f.EffectiveSize())
}

func TestEffectiveSizeUDPIF(t *testing.T) {
	var f FlowTnl
	f.IPv4Dst = [4]byte{10, 0, 0, 2}
	f.MarkUDPIF([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, baseNoOptsSize+5, f.EffectiveSize())
}

func TestEffectiveSizeNoOpts(t *testing.T) {
	var f FlowTnl
	f.IPv4Dst = [4]byte{10, 0, 0, 2}
	f.IPTTL = 64
	assert.Equal(t, baseNoOptsSize, f.EffectiveSize())
}

func TestEffectiveSizeFull(t *testing.T) {
	var f FlowTnl
	f.IPv4Dst = [4]byte{10, 0, 0, 2}
	f.Metadata.Opts = []TunnelMetadataOpt{
		{Class: 1, Type: 2, Data: []byte{0xaa}},
	}
	assert.Equal(t, baseNoOptsSize+5, f.EffectiveSize())
}

func TestEqualCoincidesWithHashEqual(t *testing.T) {
	var a, b FlowTnl
	a.IPv4Dst = [4]byte{10, 0, 0, 2}
	a.TunID = 42
	a.Metadata.Opts = []TunnelMetadataOpt{
		{Class: 1, Type: 1, Data: []byte{1}},
		{Class: 2, Type: 1, Data: []byte{2}},
	}
	b = a
	// Build b's options in the opposite order: TLV sets are
	// order-independent, so this must still compare and hash equal.
	b.Metadata.Opts = []TunnelMetadataOpt{
		{Class: 2, Type: 1, Data: []byte{2}},
		{Class: 1, Type: 1, Data: []byte{1}},
	}

	require.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestEqualIgnoresUninitializedTail(t *testing.T) {
	var a, b FlowTnl
	// No destination set on either: every other field is "may be
	// uninitialized" and must not affect equality.
	a.IPv4Src = [4]byte{1, 2, 3, 4}
	b.IPv4Src = [4]byte{9, 9, 9, 9}
	assert.True(t, a.Equal(b))
}

func TestCopyExtendsToZeroedFull(t *testing.T) {
	var f FlowTnl
	f.TunID = 7
	f.IPv4Src = [4]byte{1, 1, 1, 1}
	// Destination unset: Copy must zero everything past TunID+IPv6 pair.
	c := f.Copy()
	assert.Equal(t, FlowTnl{TunID: 7}, c)
}

func TestUnequalEffectiveSizesAreNotEqual(t *testing.T) {
	var a, b FlowTnl
	a.IPv4Dst = [4]byte{10, 0, 0, 2}
	b.IPv4Dst = [4]byte{10, 0, 0, 2}
	b.Metadata.Opts = []TunnelMetadataOpt{{Class: 1, Type: 1, Data: []byte{1}}}
	assert.False(t, a.Equal(b))
}
