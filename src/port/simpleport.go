package port

import (
	"sync"

	"github.com/HackLinux/freelan-all/src/address"
)

// SimplePort is a minimal Port/MutablePort implementation backed by a
// caller-supplied write function. It exists for tests and for the ports
// cmd/freelan builds from its config file; real nodes back Port with a decrypted peer
// session or a TAP/TUN adapter, both of which are outside this module's
// scope.
type SimplePort struct {
	group Group
	write func(data []byte, handler WriteHandler)

	mu     sync.RWMutex
	routes []address.Prefix
}

// NewSimplePort builds a SimplePort advertising routes and belonging to
// group, whose AsyncWrite calls write.
func NewSimplePort(group Group, routes []address.Prefix, write func([]byte, WriteHandler)) *SimplePort {
	return &SimplePort{group: group, routes: append([]address.Prefix(nil), routes...), write: write}
}

func (p *SimplePort) Group() Group { return p.group }

func (p *SimplePort) LocalRoutes() []address.Prefix {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.routes
}

func (p *SimplePort) SetLocalRoutes(routes []address.Prefix) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes = append([]address.Prefix(nil), routes...)
}

func (p *SimplePort) AsyncWrite(data []byte, handler WriteHandler) {
	p.write(data, handler)
}
