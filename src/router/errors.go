package router

import "errors"

// ErrUnknownPort is returned by SetPortLocalRoutes when the given Index is
// not currently registered.
var ErrUnknownPort = errors.New("router: unknown port index")

// ErrImmutablePort is returned by SetPortLocalRoutes when the port
// registered under the given Index does not implement port.MutablePort.
var ErrImmutablePort = errors.New("router: port does not support route changes")

// dropReason labels why AsyncWrite silently discarded a frame. It is never
// surfaced to callers: it exists only for debug logging and metrics
// labeling.
type dropReason int

const (
	dropNoRoute dropReason = iota
	dropPolicyDenied
	dropUnknownSource
)

func (d dropReason) String() string {
	switch d {
	case dropNoRoute:
		return "no-route"
	case dropPolicyDenied:
		return "policy-denied"
	case dropUnknownSource:
		return "unknown-source-port"
	default:
		return "unknown"
	}
}
