package address

import (
	"fmt"
	"net"
)

// Prefix is a (family, address, prefix length) triple over either address
// family. The stored address is always pre-masked to its prefix length, so
// Contains is a single masked comparison.
type Prefix struct {
	family Family
	base   Address
	length uint8
}

// NewV4Prefix builds a Prefix over the IPv4 space. length must be in [0, 32].
func NewV4Prefix(addr [4]byte, length uint8) (Prefix, error) {
	if length > 32 {
		return Prefix{}, fmt.Errorf("address: invalid ipv4 prefix length %d", length)
	}
	a := FromV4(addr)
	return Prefix{family: V4, base: a.mask(length), length: length}, nil
}

// NewV6Prefix builds a Prefix over the IPv6 space. length must be in [0, 128].
func NewV6Prefix(addr [16]byte, length uint8) (Prefix, error) {
	if length > 128 {
		return Prefix{}, fmt.Errorf("address: invalid ipv6 prefix length %d", length)
	}
	a := FromV6(addr)
	return Prefix{family: V6, base: a.mask(length), length: length}, nil
}

// ParseCIDR parses a standard CIDR string such as "10.0.0.0/24" or
// "2001:db8::/32" into a Prefix. This is used only off the packet path
// (config loading, tests), so it is permitted to allocate via net.ParseCIDR.
func ParseCIDR(s string) (Prefix, error) {
	ip, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return Prefix{}, err
	}
	length, _ := ipnet.Mask.Size()
	if v4 := ip.To4(); v4 != nil && ipnet.IP.To4() != nil {
		var b [4]byte
		copy(b[:], ipnet.IP.To4())
		return NewV4Prefix(b, uint8(length))
	}
	var b [16]byte
	copy(b[:], ipnet.IP.To16())
	return NewV6Prefix(b, uint8(length))
}

// Family reports which address space p covers.
func (p Prefix) Family() Family { return p.family }

// Length returns the prefix length in bits.
func (p Prefix) Length() uint8 { return p.length }

// Contains reports whether addr falls within p. Addresses of a different
// family never match.
func (p Prefix) Contains(addr Address) bool {
	if p.family != addr.family {
		return false
	}
	return addr.mask(p.length).Equal(p.base)
}

// Equal reports whether p and o denote the same (family, base, length).
func (p Prefix) Equal(o Prefix) bool {
	return p.family == o.family && p.length == o.length && p.base.Equal(o.base)
}

// Less implements the Route Table's native ordering: family ascending, then
// prefix length descending, then base address ascending, so that within a
// family the most specific routes sort first and ties break by numeric
// address.
func (p Prefix) Less(o Prefix) bool {
	if p.family != o.family {
		return p.family < o.family
	}
	if p.length != o.length {
		return p.length > o.length
	}
	return p.base.less(o.base)
}

func (p Prefix) String() string {
	return fmt.Sprintf("%s/%d", p.base.String(), p.length)
}
