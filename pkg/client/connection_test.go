package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderAddressesNoPreferred(t *testing.T) {
	addrs := []string{"a", "b", "c"}
	assert.Equal(t, addrs, orderAddresses(addrs, ""))
}

func TestOrderAddressesPreferredFirst(t *testing.T) {
	addrs := []string{"a", "b", "c"}
	assert.Equal(t, []string{"b", "a", "c"}, orderAddresses(addrs, "b"))
}

func TestOrderAddressesPreferredAbsent(t *testing.T) {
	addrs := []string{"a", "b"}
	assert.Equal(t, []string{"z", "a", "b"}, orderAddresses(addrs, "z"))
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateReady:        "ready",
		StateClosed:       "closed",
		State(99):         "unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, state.String())
	}
}

func TestNewConnectionStartsDisconnected(t *testing.T) {
	conn := newConnection("node1")
	assert.Equal(t, StateDisconnected, conn.state)
	assert.Equal(t, "node1", conn.nodeID)
}

func TestEnsureReadyOnClosedConnectionFails(t *testing.T) {
	conn := newConnection("node1")
	conn.state = StateClosed
	err := conn.ensureReady(NewClusterConfig("c", map[string]NodeConfig{
		"node1": {Addresses: []string{"127.0.0.1"}, Port: 1},
	}))
	assert.Error(t, err)
}
