// Package port defines the routing core's view of a Port: a directed sink
// for frames, identified by an opaque Index and tagged with a Group, plus
// the Registry that tracks which ports currently exist.
package port

import "github.com/HackLinux/freelan-all/src/address"

// Index identifies a Port for the lifetime of its registration. Indices are
// assigned by the Registry, not chosen by the caller, so that "lowest free
// index" reuse stays the Registry's concern alone.
type Index uint32

// Group is an opaque tenant/ownership tag. Two ports sharing a Group are
// members of the same tenant for the purposes of the client-routing policy
// gate.
type Group uint32

// WriteHandler is a one-shot completion callback: exactly one call, with a
// nil error on success or a non-nil error describing the transport failure.
type WriteHandler func(error)

// Port is a write sink owned by some external subsystem (a decrypted peer
// session, the local TAP/TUN adapter) and registered with a Router.
type Port interface {
	// Group reports the tenant tag this port belongs to.
	Group() Group

	// LocalRoutes returns the network prefixes this port is currently
	// willing to receive traffic for. The returned slice must not be
	// mutated by the caller; ports that need to change their advertised
	// routes should also implement MutablePort.
	LocalRoutes() []address.Prefix

	// AsyncWrite takes temporary custody of data, arranges for it to be
	// transmitted, and invokes handler exactly once with the outcome. The
	// backing memory of data must remain valid until handler fires; the
	// caller (the Router) guarantees this.
	AsyncWrite(data []byte, handler WriteHandler)
}

// MutablePort is implemented by ports whose advertised local routes can
// change after registration. Callers must go through
// router.Router.SetPortLocalRoutes rather than calling SetLocalRoutes
// directly, so that the Route Table cache is invalidated in the same step
// that the routes change.
type MutablePort interface {
	Port
	SetLocalRoutes(routes []address.Prefix)
}
