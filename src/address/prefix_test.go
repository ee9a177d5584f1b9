package address

import "testing"

func TestPrefix_Contains(t *testing.T) {
	p, err := NewV4Prefix([4]byte{10, 0, 0, 0}, 24)
	if err != nil {
		t.Fatal(err)
	}

	in := FromV4([4]byte{10, 0, 0, 5})
	out := FromV4([4]byte{10, 0, 1, 5})

	if !p.Contains(in) {
		t.Fatal("10.0.0.5 should be contained in 10.0.0.0/24")
	}

	if p.Contains(out) {
		t.Fatal("10.0.1.5 should not be contained in 10.0.0.0/24")
	}
}

func TestPrefix_ZeroLengthMatchesEverything(t *testing.T) {
	p, err := NewV4Prefix([4]byte{0, 0, 0, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !p.Contains(FromV4([4]byte{203, 0, 113, 9})) {
		t.Fatal("a /0 prefix must contain every address of its family")
	}
}

func TestPrefix_HostRouteMatchesOnlyItself(t *testing.T) {
	p, err := NewV4Prefix([4]byte{10, 0, 0, 5}, 32)
	if err != nil {
		t.Fatal(err)
	}

	if !p.Contains(FromV4([4]byte{10, 0, 0, 5})) {
		t.Fatal("a /32 route must contain its own address")
	}

	if p.Contains(FromV4([4]byte{10, 0, 0, 6})) {
		t.Fatal("a /32 route must not contain a different address")
	}
}

func TestPrefix_ContainsNeverCrossesFamilies(t *testing.T) {
	p, err := NewV6Prefix([16]byte{0x20, 0x01, 0x0d, 0xb8}, 48)
	if err != nil {
		t.Fatal(err)
	}

	if p.Contains(FromV4([4]byte{10, 0, 0, 1})) {
		t.Fatal("an ipv6 prefix must never contain an ipv4 address")
	}
}

func TestPrefix_LessOrdersMostSpecificFirst(t *testing.T) {
	wide, err := NewV4Prefix([4]byte{10, 0, 0, 0}, 8)
	if err != nil {
		t.Fatal(err)
	}
	narrow, err := NewV4Prefix([4]byte{10, 0, 0, 0}, 24)
	if err != nil {
		t.Fatal(err)
	}

	if !narrow.Less(wide) {
		t.Fatal("a /24 must sort before a /8 sharing the same base address")
	}

	if wide.Less(narrow) {
		t.Fatal("a /8 must not sort before a /24 sharing the same base address")
	}
}

func TestPrefix_LessOrdersFamiliesBeforeAddresses(t *testing.T) {
	v4, _ := NewV4Prefix([4]byte{255, 255, 255, 255}, 32)
	v6, _ := NewV6Prefix([16]byte{}, 0)

	if !v4.Less(v6) {
		t.Fatal("V4 prefixes must sort before V6 prefixes regardless of address value")
	}
}

func TestParseCIDR(t *testing.T) {
	p, err := ParseCIDR("2001:db8:1::/48")
	if err != nil {
		t.Fatal(err)
	}

	if p.Family() != V6 {
		t.Fatalf("expected V6 family, got %v", p.Family())
	}

	if !p.Contains(FromV6([16]byte{0x20, 0x01, 0x0d, 0xb8, 0, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01})) {
		t.Fatal("2001:db8:1::1 should be contained in 2001:db8:1::/48")
	}
}
