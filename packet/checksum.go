package packet

import "encoding/binary"

// Checksum16 computes the 16-bit one's-complement sum (RFC 1071) over
// data, the primitive every IPv4/ICMP/pseudo-header checksum in this
// package is built from.
func Checksum16(data []byte) uint16 {
	var sum uint32
	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
	}
	if n%2 == 1 {
		sum += uint32(data[n-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// VerifyChecksum16 reports whether the 16-bit one's-complement sum
// over data (which must include its own checksum field) is zero, the
// standard self-check every IPv4/ICMP checksum recipient performs.
func VerifyChecksum16(data []byte) bool {
	var sum uint32
	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
	}
	if n%2 == 1 {
		sum += uint32(data[n-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return sum == 0xffff
}

// PseudoHeaderSumIPv4 returns the partial checksum contribution of the
// IPv4 pseudo-header used by TCP, UDP and SCTP over IPv4: source and
// destination address, zero byte, protocol number, and upper-layer
// length.
func PseudoHeaderSumIPv4(src, dst [4]byte, proto uint8, upperLen uint16) uint32 {
	var sum uint32
	sum += uint32(binary.BigEndian.Uint16(src[0:2]))
	sum += uint32(binary.BigEndian.Uint16(src[2:4]))
	sum += uint32(binary.BigEndian.Uint16(dst[0:2]))
	sum += uint32(binary.BigEndian.Uint16(dst[2:4]))
	sum += uint32(proto)
	sum += uint32(upperLen)
	return sum
}

// foldCarries folds a 32-bit accumulator down to a final 16-bit
// one's-complement checksum.
func foldCarries(sum uint32) uint16 {
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// TransportChecksumIPv4 computes a TCP/UDP/SCTP-over-IPv4 checksum: the
// pseudo-header sum plus the one's-complement sum of the upper-layer
// segment itself (which must have its checksum field zeroed by the
// caller before this is called).
func TransportChecksumIPv4(src, dst [4]byte, proto uint8, segment []byte) uint16 {
	sum := PseudoHeaderSumIPv4(src, dst, proto, uint16(len(segment)))
	n := len(segment)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(segment[i : i+2]))
	}
	if n%2 == 1 {
		sum += uint32(segment[n-1]) << 8
	}
	return foldCarries(sum)
}
