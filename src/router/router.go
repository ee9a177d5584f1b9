// Package router implements the Router: the façade that accepts a frame
// from a source Port, decides which other Port (if any) should receive it,
// and dispatches the write.
package router

import (
	"sync/atomic"

	"github.com/Arceliar/phony"

	"github.com/HackLinux/freelan-all/src/address"
	"github.com/HackLinux/freelan-all/src/port"
	"github.com/HackLinux/freelan-all/src/routetable"
	"github.com/HackLinux/freelan-all/src/wire"
)

// Config is the Routing Configuration record. The core consults only
// ClientRoutingEnabled; Debug controls whether routing decisions are logged.
type Config struct {
	// ClientRoutingEnabled allows the node to relay frames between two
	// ports in the same Group, turning it into a hub for that group.
	ClientRoutingEnabled bool

	// Debug, when set, makes the router log every routing decision
	// (delivered-to or no-route) at debug level, mirroring the
	// FREELAN_DEBUG trace used in debug builds of the C++ routing core.
	Debug bool
}

// Router is a phony.Inbox actor: every registry mutation and frame dispatch
// it performs runs on its own mailbox goroutine, giving a single-threaded
// cooperative dispatch model without a global lock. Multiple Router
// instances share no state and may run on separate goroutines freely.
type Router struct {
	phony.Inbox

	registry *port.Registry
	table    *routetable.Table
	config   atomic.Value // Config
	logger   Logger
	metrics  *Metrics
}

// New constructs a Router. Logger may be nil, in which case routing
// decisions are never logged.
func New(opts ...Option) *Router {
	r := &Router{registry: port.NewRegistry()}
	r.table = routetable.New(r.registry)
	r.config.Store(Config{})
	for _, opt := range opts {
		opt.apply(r)
	}
	return r
}

// SetConfiguration atomically swaps the Routing Configuration. Swaps never
// invalidate the Route Table; policy is evaluated fresh on every lookup.
func (r *Router) SetConfiguration(cfg Config) {
	r.config.Store(cfg)
}

func (r *Router) configuration() Config {
	cfg, _ := r.config.Load().(Config)
	return cfg
}

// RegisterPort adds p to the port registry and invalidates the Route Table
// cache, returning the Index p was assigned. from is not used: the call
// always blocks on the Router's mailbox through phony.Block, so callers may
// pass nil.
func (r *Router) RegisterPort(from phony.Actor, p port.Port) port.Index {
	var idx port.Index
	phony.Block(r, func() {
		idx = r.registry.Register(p)
		r.table.Invalidate()
	})
	return idx
}

// DeregisterPort removes idx from the port registry and invalidates the
// Route Table cache. The caller is responsible for ensuring any writes in
// flight on the removed port complete or are cancelled first.
func (r *Router) DeregisterPort(from phony.Actor, idx port.Index) {
	phony.Block(r, func() {
		r.registry.Deregister(idx)
		r.table.Invalidate()
	})
}

// SetPortLocalRoutes replaces the local routes advertised by the port
// registered under idx and invalidates the Route Table cache in the same
// step, so the cache can never observe a mutated port without also being
// marked stale. It returns ErrUnknownPort if idx
// is not registered, or ErrImmutablePort if the registered port does not
// implement port.MutablePort.
func (r *Router) SetPortLocalRoutes(from phony.Actor, idx port.Index, routes []address.Prefix) error {
	var err error
	phony.Block(r, func() {
		p, ok := r.registry.Lookup(idx)
		if !ok {
			err = ErrUnknownPort
			return
		}
		mutable, ok := p.(port.MutablePort)
		if !ok {
			err = ErrImmutablePort
			return
		}
		mutable.SetLocalRoutes(routes)
		r.table.Invalidate()
	})
	return err
}

// AsyncWrite is the Router's public operation: it resolves a destination
// for data (sourced from source) and, if one exists, forwards the write to
// that Port's own AsyncWrite with handler unmodified. If no destination is
// selected the frame is silently dropped and handler is never invoked.
func (r *Router) AsyncWrite(from phony.Actor, source port.Index, data []byte, handler port.WriteHandler) {
	r.Act(from, func() {
		r._asyncWrite(source, data, handler)
	})
}

func (r *Router) _asyncWrite(source port.Index, data []byte, handler port.WriteHandler) {
	target, reason, ok := r._getTargetFor(source, data)
	if !ok {
		r.traceDrop(source, reason)
		return
	}
	if r.metrics != nil {
		r.metrics.observeDelivered()
	}
	target.AsyncWrite(data, handler)
}

// _getTargetFor runs the destination selector: try IPv4, then IPv6, then
// give up. It must only run on the Router's own actor goroutine.
func (r *Router) _getTargetFor(source port.Index, data []byte) (port.Port, dropReason, bool) {
	if dst, ok := wire.TryParseIPv4Destination(data); ok {
		return r._resolve(source, dst)
	}
	if dst, ok := wire.TryParseIPv6Destination(data); ok {
		return r._resolve(source, dst)
	}
	return nil, dropNoRoute, false
}

// _resolve implements address resolution given a parsed destination: look
// up the source port, walk the Route Table in its native order, and return
// the first candidate that passes the policy gate and is not the source
// itself.
func (r *Router) _resolve(source port.Index, dst address.Address) (port.Port, dropReason, bool) {
	sourcePort, ok := r.registry.Lookup(source)
	if !ok {
		return nil, dropUnknownSource, false
	}

	cfg := r.configuration()

	var (
		result port.Port
		reason = dropNoRoute
		found  bool
	)
	r.table.EachMatch(dst, func(e routetable.Entry) bool {
		if e.Port == source {
			// Never reflect a frame back out the port it arrived on.
			return true
		}
		candidate, ok := r.registry.Lookup(e.Port)
		if !ok {
			// Route Table invariant I1 says this shouldn't happen, but a
			// port can be deregistered between a rebuild and a lookup on a
			// single-threaded Router that is itself processing the
			// deregistration; skip defensively.
			return true
		}
		if cfg.ClientRoutingEnabled || sourcePort.Group() != candidate.Group() {
			result = candidate
			found = true
			if cfg.Debug && r.logger != nil {
				r.logger.Debugln("freelan-all: routing from port", source, "delivered to port", e.Port)
			}
			return false
		}
		reason = dropPolicyDenied
		return true
	})

	return result, reason, found
}

// Ports returns a snapshot of every currently registered (Index, Port)
// pair, in ascending index order. It is safe to call from any goroutine.
func (r *Router) Ports() []port.Entry {
	return r.registry.Iter()
}

// Routes returns a snapshot of the Route Table's current entries, in their
// native (family, then most-specific-first) order. It is safe to call from
// any goroutine.
func (r *Router) Routes() []routetable.Entry {
	return r.table.Snapshot()
}

func (r *Router) traceDrop(source port.Index, reason dropReason) {
	if r.metrics != nil {
		r.metrics.observeDropped(reason)
	}
	cfg := r.configuration()
	if !cfg.Debug || r.logger == nil {
		return
	}
	r.logger.Debugln("freelan-all: routing drop from port", source, "reason:", reason)
}
