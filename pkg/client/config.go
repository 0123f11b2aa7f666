package client

import (
	"fmt"
	"time"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/protocol"
	"github.com/openvstorage/arakoon-go/pkg/security"
)

// Default values for the configuration surface (§6).
const (
	DefaultConnectTimeout = 60 * time.Second
	DefaultTryCount       = 1
	DefaultBackoffBase    = 5 * time.Second
	DefaultNoMasterRetry  = 60 * time.Second
)

// NodeConfig names the addresses and port one cluster node listens
// on. Addresses is tried in order; the first is preferred, the rest
// are fallbacks if it cannot be reached.
type NodeConfig struct {
	Addresses []string
	Port      int
}

// ClusterConfig is the immutable configuration of one client. It is
// built once, validated, and never mutated afterwards; every
// Connection and the Orchestrator's discovery logic read it but never
// write to it.
type ClusterConfig struct {
	ClusterID string
	Nodes     map[string]NodeConfig

	ConnectTimeout time.Duration
	TryCount       int
	BackoffBase    time.Duration
	NoMasterRetry  time.Duration

	// ProtocolVersion overrides protocol.ProtocolVersion for clusters
	// that speak a different prologue version.
	ProtocolVersion uint32

	TLS security.TLSConfig
}

// NewClusterConfig builds a ClusterConfig with the defaults from §6
// applied; callers set ClusterID, Nodes, and TLS as needed.
func NewClusterConfig(clusterID string, nodes map[string]NodeConfig) ClusterConfig {
	return ClusterConfig{
		ClusterID:       clusterID,
		Nodes:           nodes,
		ConnectTimeout:  DefaultConnectTimeout,
		TryCount:        DefaultTryCount,
		BackoffBase:     DefaultBackoffBase,
		NoMasterRetry:   DefaultNoMasterRetry,
		ProtocolVersion: protocol.ProtocolVersion,
	}
}

// Validate checks the configuration is well-formed before any
// connection is attempted: at least one node, every node has at least
// one address and a valid port, and the TLS surface is internally
// consistent (§6: tls_cert requires tls_ca_cert; tls_ca_cert requires
// tls).
func (c ClusterConfig) Validate() error {
	if c.ClusterID == "" {
		return arakoonerrors.InvalidArgument("cluster_id", "must not be empty")
	}
	if len(c.Nodes) == 0 {
		return arakoonerrors.InvalidArgument("nodes", "at least one node must be configured")
	}
	for id, n := range c.Nodes {
		if len(n.Addresses) == 0 {
			return arakoonerrors.InvalidArgument("nodes", fmt.Sprintf("node %q has no addresses", id))
		}
		if n.Port <= 0 || n.Port > 65535 {
			return arakoonerrors.InvalidArgument("nodes", fmt.Sprintf("node %q has invalid port %d", id, n.Port))
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}

func (c ClusterConfig) protocolVersion() uint32 {
	if c.ProtocolVersion != 0 {
		return c.ProtocolVersion
	}
	return protocol.ProtocolVersion
}
