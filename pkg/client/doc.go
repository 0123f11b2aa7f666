// Package client is the master-aware connection orchestrator for an
// Arakoon-style replicated key/value cluster. It owns a pool of
// per-node connections, discovers and validates the current master,
// and retries requests across the two-level policy described in
// orchestrator.go: an outer, deadline-bounded loop that rediscovers
// the master after a master-level failure, and an inner, try_count-
// bounded loop that retries a single node before giving up on it.
//
// A Client is safe for concurrent use. Construct one with New, then
// either call Connect to discover the master eagerly or start issuing
// requests directly; every request discovers the master lazily on
// first use.
package client
