package wire

import "github.com/HackLinux/freelan-all/src/address"

// ipv6HeaderLen is the fixed size of the IPv6 base header (RFC 8200 §3).
// The destination address always sits at the fixed offset 24 inside this
// base header, regardless of any extension headers that may follow: the router core only ever needs
// the destination field, so extension headers are never walked.
const ipv6HeaderLen = 40

// TryParseIPv6Destination extracts the destination address from an IPv6
// base header at the start of buf. It returns ok == false if buf's version
// nibble is not 6 or the buffer is shorter than a base header.
func TryParseIPv6Destination(buf []byte) (dst address.Address, ok bool) {
	if len(buf) < ipv6HeaderLen {
		return address.Address{}, false
	}

	version := buf[0] >> 4
	if version != 6 {
		return address.Address{}, false
	}

	var b [16]byte
	copy(b[:], buf[24:40])
	return address.FromV6(b), true
}
