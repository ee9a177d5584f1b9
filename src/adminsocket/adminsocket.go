// Package adminsocket implements a small JSON request/response socket for
// inspecting a running Router: its registered ports and the Route Table
// they produce. It is deliberately narrow (read-only, with two handlers)
// since this module has no peer/session lifecycle of its own to expose.
package adminsocket

import (
	"encoding/json"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/HackLinux/freelan-all/src/router"
)

// Info is the JSON object shape used for both requests and responses.
type Info map[string]interface{}

type handlerFunc func(Info) (Info, error)

// Socket serves read-only diagnostic queries about a Router over a
// unix or tcp listener.
type Socket struct {
	router *router.Router
	logger router.Logger

	listenAddr string
	mu         sync.Mutex
	listener   net.Listener
	handlers   map[string]handlerFunc
}

// New builds a Socket that will listen on listenAddr (a "unix:///path" or
// "tcp://host:port" URI, or a bare host:port) once Start is called.
// listenAddr of "" or "none" disables the socket.
func New(r *router.Router, logger router.Logger, listenAddr string) *Socket {
	s := &Socket{
		router:     r,
		logger:     logger,
		listenAddr: listenAddr,
		handlers:   make(map[string]handlerFunc),
	}
	s.addHandler("getports", s.handleGetPorts)
	s.addHandler("getroutes", s.handleGetRoutes)
	return s
}

func (s *Socket) addHandler(name string, fn handlerFunc) {
	s.handlers[strings.ToLower(name)] = fn
}

// Start begins accepting connections in the background. It is a no-op if
// the socket is disabled.
func (s *Socket) Start() error {
	if s.listenAddr == "" || s.listenAddr == "none" {
		return nil
	}
	network, address := parseListenAddr(s.listenAddr)
	listener, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Infof("admin socket listening on %s %s", network, listener.Addr().String())
	}
	go s.serve(listener)
	return nil
}

// Stop closes the listener, if one is active.
func (s *Socket) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	return err
}

func parseListenAddr(listenAddr string) (network, address string) {
	u, err := url.Parse(listenAddr)
	if err != nil || u.Scheme == "" {
		return "tcp", listenAddr
	}
	switch strings.ToLower(u.Scheme) {
	case "unix":
		return "unix", listenAddr[len("unix://"):]
	default:
		if u.Host == "" {
			// A bare "host:port" parses with the host name as its scheme.
			return "tcp", listenAddr
		}
		return "tcp", u.Host
	}
}

func (s *Socket) serve(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		go s.handleRequest(conn)
	}
}

func (s *Socket) handleRequest(conn net.Conn) {
	defer conn.Close()
	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	encoder.SetIndent("", "  ")

	var recv Info
	if err := decoder.Decode(&recv); err != nil {
		if s.logger != nil {
			s.logger.Debugln("admin socket: decode error:", err)
		}
		return
	}

	name, _ := recv["request"].(string)
	handler, ok := s.handlers[strings.ToLower(name)]
	if !ok {
		_ = encoder.Encode(Info{"status": "error", "error": "unknown request: " + name})
		return
	}

	resp, err := handler(recv)
	if err != nil {
		_ = encoder.Encode(Info{"status": "error", "error": err.Error()})
		return
	}
	resp["status"] = "success"
	_ = encoder.Encode(resp)
}

func (s *Socket) handleGetPorts(Info) (Info, error) {
	ports := make([]Info, 0)
	for _, e := range s.router.Ports() {
		routes := make([]string, 0, len(e.Port.LocalRoutes()))
		for _, r := range e.Port.LocalRoutes() {
			routes = append(routes, r.String())
		}
		ports = append(ports, Info{
			"index":  e.Index,
			"group":  e.Port.Group(),
			"routes": routes,
		})
	}
	return Info{"ports": ports}, nil
}

func (s *Socket) handleGetRoutes(Info) (Info, error) {
	routes := make([]Info, 0)
	for _, e := range s.router.Routes() {
		routes = append(routes, Info{
			"prefix": e.Prefix.String(),
			"port":   e.Port,
		})
	}
	return Info{"routes": routes}, nil
}
