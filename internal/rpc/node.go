package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tramnet.mpk.org/internal/transit"
)

// DefaultCallTimeout bounds a remote call when the caller's context has no
// deadline of its own.
const DefaultCallTimeout = 10 * time.Second

// Config configures a Node.
type Config struct {
	// Addr is the advertised base URL other nodes use to reach this one,
	// for example "http://10.0.0.5:4061".
	Addr       string
	Logger     *slog.Logger
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Node hosts local actors over HTTP and builds proxies for remote ones.
// A local actor passed as an argument to a remote call is hosted on demand,
// so the remote side can call back into it.
type Node struct {
	logger  *slog.Logger
	client  *http.Client
	timeout time.Duration

	mu      sync.RWMutex
	addr    string
	objects map[transit.Identity]transit.Object
}

func NewNode(cfg Config) *Node {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Node{
		logger:  logger.With(slog.String("component", "rpc")),
		client:  client,
		timeout: timeout,
		addr:    NormalizeAddr(cfg.Addr),
		objects: make(map[transit.Identity]transit.Object),
	}
}

// NormalizeAddr turns "host:port" into a base URL and strips trailing
// slashes.
func NormalizeAddr(addr string) string {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return ""
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return addr
}

func (n *Node) Addr() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.addr
}

// SetAddr changes the advertised address. Refs handed out earlier keep the
// old address.
func (n *Node) SetAddr(addr string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.addr = NormalizeAddr(addr)
}

// Host makes obj callable by other nodes and returns its reference.
func (n *Node) Host(obj transit.Object) Ref {
	id := obj.Identity()
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.objects[id]; !ok {
		n.objects[id] = obj
		n.logger.Debug("object hosted", slog.String("identity", id.String()))
	}
	return Ref{Kind: id.Kind, Key: id.Key, Addr: n.addr}
}

// Release stops hosting obj. Remote holders of its reference will see it
// as unreachable.
func (n *Node) Release(obj transit.Object) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.objects, obj.Identity())
}

// Hosted reports how many objects the node currently serves.
func (n *Node) Hosted() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.objects)
}

func (n *Node) lookup(id transit.Identity) (transit.Object, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	obj, ok := n.objects[id]
	return obj, ok
}

// RefOf returns the wire reference for obj. Proxies keep their remote
// reference; local objects are hosted here.
func (n *Node) RefOf(obj transit.Object) Ref {
	if p, ok := obj.(interface{ ref() Ref }); ok {
		return p.ref()
	}
	return n.Host(obj)
}

// local returns the hosted object ref points at, if ref is addressed to
// this node.
func (n *Node) local(ref Ref) (transit.Object, bool) {
	if ref.Addr != n.Addr() {
		return nil, false
	}
	return n.lookup(ref.Identity())
}

// Registry returns the registry called name hosted at addr.
func (n *Node) Registry(addr, name string) transit.Registry {
	return n.registry(Ref{Kind: transit.KindRegistry, Key: name, Addr: NormalizeAddr(addr)})
}

// Discover returns the registry called name at addr after checking that it
// answers.
func (n *Node) Discover(ctx context.Context, addr, name string) (transit.Registry, error) {
	reg := n.Registry(addr, name)
	if _, err := reg.Lines(ctx); err != nil {
		return nil, fmt.Errorf("discover registry %q at %s: %w", name, addr, err)
	}
	return reg, nil
}

func (n *Node) registry(ref Ref) transit.Registry {
	if obj, ok := n.local(ref); ok {
		if r, ok := obj.(transit.Registry); ok {
			return r
		}
	}
	return &registryProxy{proxy{node: n, target: ref}}
}

func (n *Node) Line(ref Ref) transit.Line {
	if obj, ok := n.local(ref); ok {
		if l, ok := obj.(transit.Line); ok {
			return l
		}
	}
	return &lineProxy{proxy{node: n, target: ref}}
}

func (n *Node) Stop(ref Ref) transit.Stop {
	if obj, ok := n.local(ref); ok {
		if s, ok := obj.(transit.Stop); ok {
			return s
		}
	}
	return &stopProxy{proxy{node: n, target: ref}}
}

func (n *Node) Tram(ref Ref) transit.Tram {
	if obj, ok := n.local(ref); ok {
		if t, ok := obj.(transit.Tram); ok {
			return t
		}
	}
	return &tramProxy{proxy{node: n, target: ref}}
}

func (n *Node) User(ref Ref) transit.User {
	if obj, ok := n.local(ref); ok {
		if u, ok := obj.(transit.User); ok {
			return u
		}
	}
	return &userProxy{proxy{node: n, target: ref}}
}
