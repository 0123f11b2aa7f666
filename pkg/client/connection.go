package client

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/protocol"
)

// State is a Connection's lifecycle stage. Every transition to Closed
// is terminal; reusing a node allocates a new Connection rather than
// resetting one in place.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// keepAlive matches §4.4: idle ~20s, interval ~20s, up to 3 probes.
var keepAlive = net.KeepAliveConfig{
	Enable:   true,
	Idle:     20 * time.Second,
	Interval: 20 * time.Second,
	Count:    3,
}

// Connection owns one TCP socket to one node. It is created lazily on
// first use and torn down on any I/O error or explicit drop; the
// prologue is sent exactly once, right after the socket opens.
type Connection struct {
	nodeID string
	state  State

	conn net.Conn
	rw   *bufio.ReadWriter

	// lastGoodAddr records which of the node's configured addresses this
	// Connection reached. It is not carried over to a reconnect: a
	// closed Connection is replaced by a fresh one, which starts again
	// from the first configured address.
	lastGoodAddr string
}

// newConnection allocates a fresh, disconnected Connection for nodeID.
func newConnection(nodeID string) *Connection {
	return &Connection{nodeID: nodeID, state: StateDisconnected}
}

// dial opens the socket, trying each configured address in order
// starting from lastGoodAddr if set, applies the keep-alive settings,
// and sends the prologue. On success the connection is Ready.
func (c *Connection) dial(cfg ClusterConfig) error {
	node, ok := cfg.Nodes[c.nodeID]
	if !ok {
		return arakoonerrors.UnknownNode(c.nodeID)
	}

	c.state = StateConnecting

	addrs := orderAddresses(node.Addresses, c.lastGoodAddr)

	var lastErr error
	for _, addr := range addrs {
		target := fmt.Sprintf("%s:%d", addr, node.Port)
		dialer := net.Dialer{Timeout: cfg.ConnectTimeout, KeepAliveConfig: keepAlive}

		rawConn, err := dialer.Dial("tcp", target)
		if err != nil {
			lastErr = err
			continue
		}

		secured, err := secureConn(rawConn, addr, cfg)
		if err != nil {
			rawConn.Close()
			lastErr = err
			continue
		}

		if err := c.wrapAndHandshake(secured, cfg); err != nil {
			secured.Close()
			lastErr = err
			continue
		}

		c.conn = secured
		c.lastGoodAddr = addr
		c.state = StateReady
		return nil
	}

	c.state = StateDisconnected
	if lastErr == nil {
		lastErr = fmt.Errorf("arakoon: no addresses configured for node %q", c.nodeID)
	}
	return arakoonerrors.SocketSend(lastErr)
}

// secureConn wraps conn in a TLS client connection when cfg.TLS is
// enabled, performing the handshake before returning; otherwise it
// returns conn unchanged.
func secureConn(conn net.Conn, addr string, cfg ClusterConfig) (net.Conn, error) {
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg == nil {
		return conn, nil
	}
	tlsCfg = tlsCfg.Clone()
	if tlsCfg.ServerName == "" {
		tlsCfg.ServerName = addr
	}
	tlsConn := tls.Client(conn, tlsCfg)
	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

func (c *Connection) wrapAndHandshake(conn net.Conn, cfg ClusterConfig) error {
	rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	if err := protocol.WritePrologue(rw.Writer, cfg.protocolVersion(), cfg.ClusterID); err != nil {
		return err
	}
	c.rw = rw
	return nil
}

// orderAddresses puts preferred first if set and present, otherwise
// preserves the configured (first-address-preferred) order.
func orderAddresses(addrs []string, preferred string) []string {
	if preferred == "" {
		return addrs
	}
	ordered := make([]string, 0, len(addrs))
	ordered = append(ordered, preferred)
	for _, a := range addrs {
		if a != preferred {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// ensureReady dials if the connection has never been opened or its
// last dial failed; it does not retry past a Closed connection, which
// the caller must replace with a new Connection.
func (c *Connection) ensureReady(cfg ClusterConfig) error {
	switch c.state {
	case StateReady:
		return nil
	case StateClosed:
		return arakoonerrors.NotConnected()
	default:
		return c.dial(cfg)
	}
}

// close tears down the socket and marks the Connection terminally
// Closed.
func (c *Connection) close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateClosed
}
