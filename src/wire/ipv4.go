// Package wire implements the Frame Parsers of the routing core: minimal,
// allocation-free best-effort decoders that pull a destination address out
// of an IPv4 or IPv6 header. A packet that does not parse as a parser's
// family is reported the same way a truncated or malformed one is: by
// returning ok == false. Neither parser keeps any state between calls, so
// there is nothing for one family's attempt to leak into the other's.
package wire

import "github.com/HackLinux/freelan-all/src/address"

const ipv4MinHeaderLen = 20

// TryParseIPv4Destination extracts the destination address from an IPv4
// header at the start of buf. It returns ok == false if buf's version
// nibble is not 4, or the header is truncated or declares an impossible
// header length. Malformed input is indistinguishable from "not IPv4".
func TryParseIPv4Destination(buf []byte) (dst address.Address, ok bool) {
	if len(buf) < ipv4MinHeaderLen {
		return address.Address{}, false
	}

	version := buf[0] >> 4
	if version != 4 {
		return address.Address{}, false
	}

	headerLen := int(buf[0]&0x0f) * 4
	if headerLen < ipv4MinHeaderLen || len(buf) < headerLen {
		return address.Address{}, false
	}

	return address.FromV4([4]byte{buf[16], buf[17], buf[18], buf[19]}), true
}
