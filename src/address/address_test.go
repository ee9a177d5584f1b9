package address

import "testing"

func TestAddress_FromV4_RoundTripsThroughBytes(t *testing.T) {
	a := FromV4([4]byte{10, 0, 0, 5})

	if a.Family() != V4 {
		t.Fatalf("expected family V4, got %v", a.Family())
	}

	got := a.Bytes()
	want := []byte{10, 0, 0, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}

	if got, want := a.String(), "10.0.0.5"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestAddress_FromV6_RoundTripsThroughBytes(t *testing.T) {
	raw := [16]byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	a := FromV6(raw)

	if a.Family() != V6 {
		t.Fatalf("expected family V6, got %v", a.Family())
	}

	got := a.Bytes()
	for i := range raw {
		if got[i] != raw[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], raw[i])
		}
	}
}

func TestAddress_Equal(t *testing.T) {
	a := FromV4([4]byte{192, 168, 1, 1})
	b := FromV4([4]byte{192, 168, 1, 1})
	c := FromV4([4]byte{192, 168, 1, 2})

	if !a.Equal(b) {
		t.Fatal("two addresses built from the same octets must be equal")
	}
	if a.Equal(c) {
		t.Fatal("addresses built from different octets must not be equal")
	}
}

func TestAddress_EqualNeverCrossesFamilies(t *testing.T) {
	v4 := FromV4([4]byte{0, 0, 0, 0})
	v6 := FromV6([16]byte{})

	if v4.Equal(v6) {
		t.Fatal("a V4 address must never equal a V6 address, even with the same numeric value")
	}
}

func TestAddress_Mask(t *testing.T) {
	a := FromV4([4]byte{10, 1, 2, 3})

	masked := a.mask(8)
	if got, want := masked.String(), "10.0.0.0"; got != want {
		t.Fatalf("masking 10.1.2.3 to /8 = %q, want %q", got, want)
	}

	full := a.mask(32)
	if !full.Equal(a) {
		t.Fatal("masking to the full address length must not change the address")
	}

	zero := a.mask(0)
	if got, want := zero.String(), "0.0.0.0"; got != want {
		t.Fatalf("masking to /0 = %q, want %q", got, want)
	}
}
