// Package security builds the client-side TLS configuration from the
// certificate material named in a cluster configuration. It never
// issues, rotates, or persists certificates of its own — those are the
// embedding application's concern; this package only loads and wires
// what the caller already has on disk.
package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
)

// TLSConfig describes the transport-security material for a cluster
// connection, mirroring the tls / tls_ca_cert / tls_cert configuration
// surface.
type TLSConfig struct {
	// Enabled turns on TLS for every connection the orchestrator opens.
	Enabled bool

	// CACertPath is the PEM-encoded CA certificate used to verify the
	// node's server certificate. Required when Enabled is true.
	CACertPath string

	// CertPath and KeyPath, if both set, present a client certificate
	// for mutual TLS. Requires CACertPath to also be set.
	CertPath string
	KeyPath  string
}

// Validate enforces the dependency rule: tls_cert implies tls_ca_cert
// implies tls. File paths, when given, must exist.
func (c TLSConfig) Validate() error {
	if c.CertPath != "" || c.KeyPath != "" {
		if c.CertPath == "" || c.KeyPath == "" {
			return arakoonerrors.InvalidArgument("tls_cert", "requires both a certificate and a key path")
		}
		if c.CACertPath == "" {
			return arakoonerrors.InvalidArgument("tls_cert", "requires tls_ca_cert to be set")
		}
	}
	if c.CACertPath != "" && !c.Enabled {
		return arakoonerrors.InvalidArgument("tls_ca_cert", "requires tls to be enabled")
	}
	for _, path := range []string{c.CACertPath, c.CertPath, c.KeyPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return arakoonerrors.InvalidArgument(path, fmt.Sprintf("tls material unreadable: %s", err))
		}
	}
	return nil
}

// Build constructs a *tls.Config ready to hand to a TCP dialer. It
// returns nil, nil when TLS is not enabled.
func (c TLSConfig) Build() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	caPEM, err := os.ReadFile(c.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", c.CACertPath)
	}
	cfg.RootCAs = pool

	if c.CertPath != "" {
		cert, err := tls.LoadX509KeyPair(c.CertPath, c.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
