// Package config defines the Routing Configuration record, generation of a
// fresh one, and loading one from HJSON or JSON, following the
// config/mobile conventions of the wider routing stack.
package config

import (
	"sync"

	"github.com/HackLinux/freelan-all/src/address"
	"github.com/HackLinux/freelan-all/src/port"
	"github.com/HackLinux/freelan-all/src/router"
)

// NodeState holds the active and previous configuration of a node and
// protects both with a mutex.
type NodeState struct {
	mu       sync.RWMutex
	current  NodeConfig
	previous NodeConfig
}

// GetCurrent returns the node's current configuration.
func (s *NodeState) GetCurrent() NodeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GetPrevious returns the configuration that was active before the most
// recent call to Replace.
func (s *NodeState) GetPrevious() NodeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous
}

// Replace installs n as the current configuration, demoting whatever was
// current to Previous.
func (s *NodeState) Replace(n NodeConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = s.current
	s.current = n
}

// PortConfig is the static description of one local port: a group tag and
// the network prefixes it advertises. Real deployments source ports from a
// peer/session manager or a TAP adapter that lies outside this module; this
// record is what the demo and test harnesses use to seed a router.Router
// with SimplePort instances from a loaded config file.
type PortConfig struct {
	Group  uint32   `comment:"Tenant/group tag shared by ports that should be treated as\nmembers of the same client-routing domain."`
	Routes []string `comment:"CIDR network prefixes this port advertises as locally reachable,\ne.g. [ \"10.0.0.0/24\", \"2001:db8::/32\" ]."`
}

// NodeConfig defines all configuration values needed to run a single
// routing node.
type NodeConfig struct {
	ClientRoutingEnabled bool   `comment:"Allow this node to relay frames between two ports that share the\nsame Group, turning the node into a hub for that group. Disabled by\ndefault, matching the crypto-key routing policy of the original\nimplementation."`
	Debug                bool   `comment:"Log every routing decision (delivered-to or dropped-because) at\ndebug level. Leave this off in production: it adds a log line per\nframe."`
	MetricsListen        string `comment:"Listen address for the Prometheus metrics endpoint, e.g.\n\"127.0.0.1:9110\". Leave empty to disable the metrics endpoint."`
	AdminListen          string `comment:"Listen address for the read-only admin socket, in URI form, e.g.\n\"tcp://localhost:9002\" or \"unix:///var/run/freelan-all.sock\". Use\nthe value \"none\" to disable it."`
	LogLevel             string `comment:"Log level to enable: error, warn, info, debug or trace."`
	LogTo                string `comment:"Where to send log output: \"stdout\", \"syslog\", or a file path."`

	Ports map[string]PortConfig `comment:"Local ports to create at startup, keyed by an arbitrary name used\nonly in log output. This exists for demo and test deployments; a\nproduction node ordinarily registers ports driven by its own\npeer/session lifecycle instead."`
}

// GenerateConfig builds a fresh, minimal configuration: client routing
// disabled, debug logging off, no ports. It is used for -genconf and as the
// base that loaded configuration is merged onto.
func GenerateConfig() *NodeConfig {
	return &NodeConfig{
		ClientRoutingEnabled: false,
		Debug:                false,
		AdminListen:          "none",
		LogLevel:             "info",
		LogTo:                "stdout",
		Ports:                map[string]PortConfig{},
	}
}

// RouterConfig converts the routing-relevant fields of cfg into a
// router.Config.
func (cfg *NodeConfig) RouterConfig() router.Config {
	return router.Config{
		ClientRoutingEnabled: cfg.ClientRoutingEnabled,
		Debug:                cfg.Debug,
	}
}

// BuildPorts materializes cfg.Ports into port.SimplePort instances keyed by
// their configured name, parsing each advertised route as a CIDR prefix.
// write is invoked for every constructed port's AsyncWrite; callers
// typically supply a per-port closure that knows how to actually transmit a
// frame (a real deployment will not use this at all, constructing ports
// from its own transport instead).
func (cfg *NodeConfig) BuildPorts(write func(name string) func([]byte, port.WriteHandler)) (map[string]*port.SimplePort, error) {
	out := make(map[string]*port.SimplePort, len(cfg.Ports))
	for name, pc := range cfg.Ports {
		routes := make([]address.Prefix, 0, len(pc.Routes))
		for _, cidr := range pc.Routes {
			prefix, err := address.ParseCIDR(cidr)
			if err != nil {
				return nil, err
			}
			routes = append(routes, prefix)
		}
		out[name] = port.NewSimplePort(port.Group(pc.Group), routes, write(name))
	}
	return out, nil
}
