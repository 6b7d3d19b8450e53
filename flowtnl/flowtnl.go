// Package flowtnl implements the flow_tnl record from the tunnel-port
// core's data model: the fixed-layout per-packet tunnel state a flow
// carries (outer addresses, tunnel key, flags, DSCP/ECN/TTL, outer
// transport ports, GBP id/flags, and TLV tunnel metadata), along with
// its effective-size, equality and hashing semantics.
//
// The real OVS struct packs this state into a byte-for-byte union so
// an all-zero tail never has to be copied or hashed. This port keeps
// the same four-way effective-size split (no destination set; UDPIF
// raw metadata; metadata present but no TLVs; full record) but
// represents the TLV options as an ordered Go slice rather than a
// fixed-size byte union — see DESIGN.md for why that divergence still
// satisfies the equality/hashing invariants.
package flowtnl

import (
	"bytes"
	"encoding/binary"
	"hash/maphash"
	"sort"
)

// Flag bits for FlowTnl.Flags.
const (
	FlagOAM          uint16 = 1 << 0 // public: this is an OAM frame
	FlagDontFragment uint16 = 1 << 1 // public: set DF on the outer header
	FlagCsum         uint16 = 1 << 2 // public: outer transport checksum enabled
	FlagKeyPresent   uint16 = 1 << 3 // private: tun_id carries a meaningful value
	flagUDPIF        uint16 = 1 << 4 // internal only: metadata is in raw datapath format
)

// TunnelMetadataOpt is a single parsed TLV tunnel option (Geneve-style
// class/type/data).
type TunnelMetadataOpt struct {
	Class uint16
	Type  uint8
	Data  []byte
}

// wireSize is the TLV's encoded size: a 4-byte class/type/length header
// plus its data, the framing Geneve options use.
func (o TunnelMetadataOpt) wireSize() int { return 4 + len(o.Data) }

// TunnelMetadata is the tunnel-metadata region embedded in FlowTnl. In
// UDPIF form it holds raw, already-encoded datapath bytes (length
// UDPIFLen); otherwise it holds a parsed, order-independent set of
// TLV options.
type TunnelMetadata struct {
	UDPIFLen uint8
	UDPIFRaw []byte
	Opts     []TunnelMetadataOpt
}

func (m TunnelMetadata) populated() bool { return len(m.Opts) > 0 }

func (m TunnelMetadata) sortedOpts() []TunnelMetadataOpt {
	out := append([]TunnelMetadataOpt(nil), m.Opts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func (m TunnelMetadata) optsSize() int {
	n := 0
	for _, o := range m.Opts {
		n += o.wireSize()
	}
	return n
}

// FlowTnl is the per-packet tunnel state record (§3, flow_tnl).
type FlowTnl struct {
	TunID    uint64
	IPv6Src  [16]byte
	IPv6Dst  [16]byte
	IPv4Src  [4]byte
	IPv4Dst  [4]byte
	Flags    uint16
	IPTos    uint8
	IPTTL    uint8
	TpSrc    uint16
	TpDst    uint16
	GbpID    uint16
	GbpFlags uint8
	Metadata TunnelMetadata
}

// Effective-size prefix boundaries, matching the struct's field order
// above. baseNoDstSize covers TunID+IPv6Src+IPv6Dst; baseNoOptsSize
// adds every scalar field up to (but not including) the TLV options
// themselves.
const (
	baseNoDstSize  = 8 + 16 + 16
	baseNoOptsSize = baseNoDstSize + 4 + 4 + 2 + 1 + 1 + 2 + 2 + 2 + 1
)

// DstIsSet reports whether either destination IP slot is non-zero;
// per the data-model invariant, all other fields may be uninitialized
// when it is false.
func (f FlowTnl) DstIsSet() bool {
	return f.IPv4Dst != [4]byte{} || f.IPv6Dst != [16]byte{}
}

// EffectiveSize returns the smallest prefix of f that distinguishes it
// from a zeroed record, per §3's four-way rule:
//   - no destination set            -> up to the src-IP slot
//   - UDPIF flag set                -> through the raw-option region
//   - no TLV map populated          -> through the start of the options area
//   - otherwise                     -> full record
func (f FlowTnl) EffectiveSize() int {
	if !f.DstIsSet() {
		return baseNoDstSize
	}
	if f.Flags&flagUDPIF != 0 {
		return baseNoOptsSize + int(f.Metadata.UDPIFLen)
	}
	if !f.Metadata.populated() {
		return baseNoOptsSize
	}
	return baseNoOptsSize + f.Metadata.optsSize()
}

// Copy returns f truncated to its effective size, with every
// field beyond that prefix zeroed. Extending the result back out with
// zero bytes reproduces a record bitwise-equal to a fully zeroed
// FlowTnl beyond the effective size, per the effective-size
// monotonicity property.
func (f FlowTnl) Copy() FlowTnl {
	out := f
	size := f.EffectiveSize()

	if size <= baseNoDstSize {
		out.IPv4Src = [4]byte{}
		out.IPv4Dst = [4]byte{}
		out.Flags = 0
		out.IPTos, out.IPTTL = 0, 0
		out.TpSrc, out.TpDst = 0, 0
		out.GbpID, out.GbpFlags = 0, 0
		out.Metadata = TunnelMetadata{}
		return out
	}
	if size <= baseNoOptsSize {
		out.Metadata = TunnelMetadata{}
		return out
	}
	if out.Flags&flagUDPIF != 0 {
		out.Metadata.Opts = nil
	}
	return out
}

// Equal reports whether f and g have identical effective sizes and
// identical covered bytes: the tail beyond the effective size is never
// compared, per the data-model invariant.
func (f FlowTnl) Equal(g FlowTnl) bool {
	if f.EffectiveSize() != g.EffectiveSize() {
		return false
	}
	a, b := f.Copy(), g.Copy()

	if a.TunID != b.TunID || a.IPv6Src != b.IPv6Src || a.IPv6Dst != b.IPv6Dst {
		return false
	}
	if a.EffectiveSize() <= baseNoDstSize {
		return true
	}
	if a.IPv4Src != b.IPv4Src || a.IPv4Dst != b.IPv4Dst || a.Flags != b.Flags ||
		a.IPTos != b.IPTos || a.IPTTL != b.IPTTL || a.TpSrc != b.TpSrc || a.TpDst != b.TpDst ||
		a.GbpID != b.GbpID || a.GbpFlags != b.GbpFlags {
		return false
	}
	if a.EffectiveSize() <= baseNoOptsSize {
		return true
	}
	if a.Flags&flagUDPIF != 0 {
		return bytes.Equal(a.Metadata.UDPIFRaw, b.Metadata.UDPIFRaw)
	}
	return equalOpts(a.Metadata.sortedOpts(), b.Metadata.sortedOpts())
}

func equalOpts(a, b []TunnelMetadataOpt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Class != b[i].Class || a[i].Type != b[i].Type || !bytes.Equal(a[i].Data, b[i].Data) {
			return false
		}
	}
	return true
}

// hashSeed is a single process-lifetime seed, mirroring OVS's use of a
// per-process random "basis" for its non-cryptographic flow hash: two
// processes hash the same FlowTnl differently, but within one process
// equal values always hash equal (tested property #2).
var hashSeed = maphash.MakeSeed()

// Hash returns a hash of f covering exactly its effective-size prefix,
// so Equal(f, g) implies Hash(f) == Hash(g).
func (f FlowTnl) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)

	a := f.Copy()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], a.TunID)
	h.Write(buf[:])
	h.Write(a.IPv6Src[:])
	h.Write(a.IPv6Dst[:])

	if a.EffectiveSize() <= baseNoDstSize {
		return h.Sum64()
	}

	h.Write(a.IPv4Src[:])
	h.Write(a.IPv4Dst[:])
	var buf2 [2]byte
	binary.BigEndian.PutUint16(buf2[:], a.Flags)
	h.Write(buf2[:])
	h.Write([]byte{a.IPTos, a.IPTTL})
	binary.BigEndian.PutUint16(buf2[:], a.TpSrc)
	h.Write(buf2[:])
	binary.BigEndian.PutUint16(buf2[:], a.TpDst)
	h.Write(buf2[:])
	binary.BigEndian.PutUint16(buf2[:], a.GbpID)
	h.Write(buf2[:])
	h.Write([]byte{a.GbpFlags})

	if a.EffectiveSize() <= baseNoOptsSize {
		return h.Sum64()
	}

	if a.Flags&flagUDPIF != 0 {
		h.Write(a.Metadata.UDPIFRaw)
		return h.Sum64()
	}
	for _, o := range a.Metadata.sortedOpts() {
		binary.BigEndian.PutUint16(buf2[:], o.Class)
		h.Write(buf2[:])
		h.Write([]byte{o.Type})
		h.Write(o.Data)
	}
	return h.Sum64()
}

// MarkUDPIF sets the internal-only flag signaling that Metadata holds
// raw datapath-format bytes rather than parsed TLV options.
func (f *FlowTnl) MarkUDPIF(raw []byte) {
	f.Flags |= flagUDPIF
	f.Metadata.Opts = nil
	f.Metadata.UDPIFRaw = append([]byte(nil), raw...)
	f.Metadata.UDPIFLen = uint8(len(raw))
}

// IsUDPIF reports whether the internal-only UDPIF flag is set.
func (f FlowTnl) IsUDPIF() bool { return f.Flags&flagUDPIF != 0 }
