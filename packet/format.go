package packet

import (
	"fmt"
	"strings"
)

// FormatIPv4 renders addr in canonical "d.d.d.d" form.
func FormatIPv4(addr [4]byte) string {
	return fmt.Sprintf("%d.%d.%d.%d", addr[0], addr[1], addr[2], addr[3])
}

// ParseIPv4 parses the canonical "d.d.d.d" form.
func ParseIPv4(s string) ([4]byte, error) {
	var addr [4]byte
	var a, b, c, d int
	n, err := fmt.Sscanf(s, "%d.%d.%d.%d", &a, &b, &c, &d)
	if err != nil || n != 4 {
		return addr, fmt.Errorf("packet: invalid IPv4 address %q", s)
	}
	for _, v := range []int{a, b, c, d} {
		if v < 0 || v > 255 {
			return addr, fmt.Errorf("packet: invalid IPv4 address %q", s)
		}
	}
	addr = [4]byte{byte(a), byte(b), byte(c), byte(d)}
	return addr, nil
}

// FormatIPv6 renders addr using net.IP's canonical textual form. If
// mapped, the address is instead rendered in its IPv4-mapped form
// (::ffff:a.b.c.d), bracketed is ignored in that case.
func FormatIPv6(addr [16]byte, bracketed bool) string {
	if v4, ok := GetIPv4Mapped(addr); ok {
		return "::ffff:" + FormatIPv4(v4)
	}
	s := formatIPv6Groups(addr)
	if bracketed {
		return "[" + s + "]"
	}
	return s
}

// formatIPv6Groups renders the 8 16-bit groups of addr with the
// longest run of zero groups collapsed to "::", per RFC 5952.
func formatIPv6Groups(addr [16]byte) string {
	var groups [8]uint16
	for i := 0; i < 8; i++ {
		groups[i] = uint16(addr[2*i])<<8 | uint16(addr[2*i+1])
	}

	bestStart, bestLen := -1, 0
	curStart, curLen := -1, 0
	for i, g := range groups {
		if g == 0 {
			if curStart == -1 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
		} else {
			curStart, curLen = -1, 0
		}
	}
	if bestLen < 2 {
		bestStart = -1
	}

	var parts []string
	i := 0
	for i < 8 {
		if i == bestStart {
			if i == 0 {
				parts = append(parts, "")
			}
			parts = append(parts, "")
			i += bestLen
			if i == 8 {
				parts = append(parts, "")
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", groups[i]))
		i++
	}
	return strings.Join(parts, ":")
}

// FormatMaskedIPv4 renders addr/mask: the CIDR "addr/prefixlen" form when
// mask is a valid CIDR mask, otherwise the explicit "addr/mask" form.
func FormatMaskedIPv4(addr, mask [4]byte) string {
	m := uint32(mask[0])<<24 | uint32(mask[1])<<16 | uint32(mask[2])<<8 | uint32(mask[3])
	if IsCIDRMask(m) {
		return fmt.Sprintf("%s/%d", FormatIPv4(addr), MaskToPrefixLen(m))
	}
	return fmt.Sprintf("%s/%s", FormatIPv4(addr), FormatIPv4(mask))
}
