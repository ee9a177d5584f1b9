package routetable

import (
	"net"
	"testing"

	"github.com/HackLinux/freelan-all/src/address"
	"github.com/HackLinux/freelan-all/src/port"
)

type fakePortEntry struct {
	index  port.Index
	routes []address.Prefix
}

func (f fakePortEntry) LocalRoutes() []address.Prefix      { return f.routes }
func (fakePortEntry) Group() port.Group                    { return 0 }
func (fakePortEntry) AsyncWrite([]byte, port.WriteHandler) {}

type fakeRegistry struct {
	entries []fakePortEntry
}

func (f *fakeRegistry) Iter() []port.Entry {
	out := make([]port.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, port.Entry{Index: e.index, Port: e})
	}
	return out
}

func mustPrefix(t *testing.T, s string) address.Prefix {
	t.Helper()
	p, err := address.ParseCIDR(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// mustAddr parses a bare IP literal (no prefix length) into an
// address.Address, for use as a destination in EachMatch tests.
func mustAddr(t *testing.T, ip string) address.Address {
	t.Helper()
	parsed := net.ParseIP(ip)
	if parsed == nil {
		t.Fatalf("invalid IP literal %q", ip)
	}
	if v4 := parsed.To4(); v4 != nil {
		var b [4]byte
		copy(b[:], v4)
		return address.FromV4(b)
	}
	var b [16]byte
	copy(b[:], parsed.To16())
	return address.FromV6(b)
}

func TestTable_EachMatch_MostSpecificFirst(t *testing.T) {
	reg := &fakeRegistry{entries: []fakePortEntry{
		{index: 0, routes: []address.Prefix{mustPrefix(t, "10.0.0.0/8")}},
		{index: 1, routes: []address.Prefix{mustPrefix(t, "10.0.0.0/24")}},
	}}
	tbl := New(reg)

	dst := mustAddr(t, "10.0.0.5")

	var order []port.Index
	tbl.EachMatch(dst, func(e Entry) bool {
		order = append(order, e.Port)
		return true
	})

	if len(order) != 2 {
		t.Fatalf("expected 2 matches, got %d (%v)", len(order), order)
	}
	if order[0] != 1 {
		t.Fatalf("expected the /24 route (port 1) first, got port %d", order[0])
	}
}

func TestTable_EachMatch_FamilyDisjoint(t *testing.T) {
	reg := &fakeRegistry{entries: []fakePortEntry{
		{index: 0, routes: []address.Prefix{mustPrefix(t, "10.0.0.0/8")}},
		{index: 1, routes: []address.Prefix{mustPrefix(t, "2001:db8::/32")}},
	}}
	tbl := New(reg)

	v4dst := mustAddr(t, "10.0.0.5")

	var matched []port.Index
	tbl.EachMatch(v4dst, func(e Entry) bool {
		matched = append(matched, e.Port)
		return true
	})

	if len(matched) != 1 || matched[0] != 0 {
		t.Fatalf("an ipv4 destination must only match ipv4 routes, got %v", matched)
	}
}

func TestTable_InvalidateIsIdempotentBeforeRead(t *testing.T) {
	reg := &fakeRegistry{entries: []fakePortEntry{
		{index: 0, routes: []address.Prefix{mustPrefix(t, "10.0.0.0/24")}},
	}}
	tbl := New(reg)

	for i := 0; i < 5; i++ {
		tbl.Invalidate()
	}

	tbl.Snapshot()
	tbl.Snapshot()

	if got := tbl.RebuildCount(); got != 1 {
		t.Fatalf("expected exactly one rebuild after repeated invalidation, got %d", got)
	}
}

func TestTable_DuplicatePrefixesFromSamePortCollapse(t *testing.T) {
	dup := mustPrefix(t, "10.0.0.0/24")
	reg := &fakeRegistry{entries: []fakePortEntry{
		{index: 0, routes: []address.Prefix{dup, dup}},
	}}
	tbl := New(reg)

	entries := tbl.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected duplicate prefixes from the same port to collapse, got %d entries", len(entries))
	}
}

func TestTable_DuplicatePrefixesFromDifferentPortsBothIterate(t *testing.T) {
	dup := mustPrefix(t, "10.0.0.0/24")
	reg := &fakeRegistry{entries: []fakePortEntry{
		{index: 0, routes: []address.Prefix{dup}},
		{index: 1, routes: []address.Prefix{dup}},
	}}
	tbl := New(reg)

	entries := tbl.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected the same prefix from two different ports to produce two entries, got %d", len(entries))
	}
}
