package client

import (
	"testing"

	"github.com/openvstorage/arakoon-go/pkg/security"
	"github.com/stretchr/testify/assert"
)

func TestNewClusterConfigDefaults(t *testing.T) {
	cfg := NewClusterConfig("mycluster", map[string]NodeConfig{
		"node1": {Addresses: []string{"127.0.0.1"}, Port: 4000},
	})

	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, DefaultTryCount, cfg.TryCount)
	assert.Equal(t, DefaultBackoffBase, cfg.BackoffBase)
	assert.Equal(t, DefaultNoMasterRetry, cfg.NoMasterRetry)
	assert.NoError(t, cfg.Validate())
}

func TestClusterConfigValidate(t *testing.T) {
	base := func() ClusterConfig {
		return NewClusterConfig("mycluster", map[string]NodeConfig{
			"node1": {Addresses: []string{"127.0.0.1"}, Port: 4000},
		})
	}

	tests := []struct {
		name    string
		mutate  func(c *ClusterConfig)
		wantErr bool
	}{
		{"valid", func(c *ClusterConfig) {}, false},
		{"empty cluster id", func(c *ClusterConfig) { c.ClusterID = "" }, true},
		{"no nodes", func(c *ClusterConfig) { c.Nodes = nil }, true},
		{"node with no addresses", func(c *ClusterConfig) {
			c.Nodes = map[string]NodeConfig{"node1": {Port: 4000}}
		}, true},
		{"node with invalid port", func(c *ClusterConfig) {
			c.Nodes = map[string]NodeConfig{"node1": {Addresses: []string{"127.0.0.1"}, Port: 0}}
		}, true},
		{"tls cert without ca", func(c *ClusterConfig) {
			c.TLS = security.TLSConfig{Enabled: true, CertPath: "cert.pem", KeyPath: "key.pem"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClusterConfigProtocolVersionFallback(t *testing.T) {
	cfg := NewClusterConfig("mycluster", map[string]NodeConfig{
		"node1": {Addresses: []string{"127.0.0.1"}, Port: 4000},
	})
	cfg.ProtocolVersion = 0
	assert.NotZero(t, cfg.protocolVersion())

	cfg.ProtocolVersion = 7
	assert.Equal(t, uint32(7), cfg.protocolVersion())
}
