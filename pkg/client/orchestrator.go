package client

import (
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/metrics"
	"github.com/openvstorage/arakoon-go/pkg/protocol"
	"github.com/openvstorage/arakoon-go/pkg/wire"
	"github.com/rs/zerolog"
)

// Client is the master-aware connection orchestrator: one mutex
// serialises access to its connection pool and master_id so that, for
// one client, requests are FIFO and no two callers' bytes interleave
// on a shared connection (§5).
type Client struct {
	cfg ClusterConfig

	mu          sync.Mutex
	connections map[string]*Connection
	masterID    string

	consistency wire.Consistency

	metrics *metrics.Collectors
	logger  zerolog.Logger
}

// New builds a Client against cfg. The cluster is not contacted until
// the first request or an explicit Connect.
func New(cfg ClusterConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:         cfg,
		connections: make(map[string]*Connection),
		consistency: wire.Consistent(),
		metrics:     metrics.NewCollectors(),
		logger:      zerolog.Nop(),
	}, nil
}

// SetLogger wires a component logger built from pkg/log, e.g.
// log.WithComponent("arakoon-client").
func (c *Client) SetLogger(l zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// SetMetrics replaces the default unregistered metrics.Collectors with
// one the caller has already registered against their own registry.
func (c *Client) SetMetrics(collectors *metrics.Collectors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = collectors
}

// SetConsistency changes the default consistency applied to read
// messages issued through the per-message helpers in api.go.
func (c *Client) SetConsistency(consistency wire.Consistency) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consistency = consistency
}

// AllowDirtyReads switches the default consistency to Inconsistent, so
// reads may be served by any replica, even a stale one.
func (c *Client) AllowDirtyReads() {
	c.SetConsistency(wire.Inconsistent())
}

// DisallowDirtyReads restores the strict default consistency.
func (c *Client) DisallowDirtyReads() {
	c.SetConsistency(wire.Consistent())
}

// Connect eagerly discovers the master so the first real request does
// not pay discovery latency. It is optional: every other method
// discovers lazily on demand.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.ensureMasterLocked()
	return err
}

// Disconnect drops every open connection without forgetting the known
// master id.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropConnectionsLocked()
}

// DropConnections drops every open connection and forgets the known
// master, forcing the next request to rediscover it.
func (c *Client) DropConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropConnectionsLocked()
	c.masterID = ""
}

func (c *Client) dropConnectionsLocked() {
	for id, conn := range c.connections {
		conn.close()
		delete(c.connections, id)
	}
}

// nodeIDs returns the configured node ids in an unspecified order;
// callers that need shuffling do so themselves.
func (c *Client) nodeIDs() []string {
	ids := make([]string, 0, len(c.cfg.Nodes))
	for id := range c.cfg.Nodes {
		ids = append(ids, id)
	}
	return ids
}

// connectionLocked returns the pooled Connection for nodeID, creating
// it if absent. Caller must hold c.mu.
func (c *Client) connectionLocked(nodeID string) *Connection {
	conn, ok := c.connections[nodeID]
	if !ok || conn.state == StateClosed {
		conn = newConnection(nodeID)
		c.connections[nodeID] = conn
	}
	return conn
}

// discoverMasterLocked implements §4.4 discovery: shuffle the known
// nodes, query WhoMaster on each, and validate the claim by asking the
// claimed master whether it agrees before accepting it.
func (c *Client) discoverMasterLocked() (string, error) {
	timer := metrics.NewTimer()
	ids := c.nodeIDs()
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	for _, queried := range ids {
		claimed, err := dispatchLocked(c, queried, protocol.WhoMaster{})
		if err != nil {
			c.logger.Debug().Str("node_id", queried).Err(err).Msg("discovery query failed")
			continue
		}
		if claimed == nil {
			continue
		}

		master := *claimed
		if master == queried {
			c.metrics.MasterDiscoveries.Inc()
			timer.ObserveDuration(c.metrics.MasterDiscoveryTime)
			return master, nil
		}

		// master != queried: validate by asking the claimed node
		// whether it agrees it is the master itself.
		selfClaim, err := dispatchLocked(c, master, protocol.WhoMaster{})
		if err != nil || selfClaim == nil || *selfClaim != master {
			c.logger.Debug().Str("queried", queried).Str("claimed_master", master).Msg("rejecting unvalidated master claim")
			continue
		}

		c.metrics.MasterDiscoveries.Inc()
		timer.ObserveDuration(c.metrics.MasterDiscoveryTime)
		return master, nil
	}

	return "", arakoonerrors.NoMaster()
}

// ensureMasterLocked returns the known master id, discovering it if
// absent. Caller must hold c.mu.
func (c *Client) ensureMasterLocked() (string, error) {
	if c.masterID != "" {
		return c.masterID, nil
	}
	master, err := c.discoverMasterLocked()
	if err != nil {
		return "", err
	}
	c.masterID = master
	return master, nil
}

// dispatchLocked writes m to nodeID and reads its response, opening
// the connection lazily and dropping it on any transport error (and on
// WrongCluster). A complete error response from the node leaves the
// connection open. Caller must hold c.mu.
func dispatchLocked[R any](c *Client, nodeID string, m protocol.Message[R]) (R, error) {
	var zero R
	conn := c.connectionLocked(nodeID)
	if err := conn.ensureReady(c.cfg); err != nil {
		return zero, err
	}
	c.metrics.ConnectionsOpen.WithLabelValues(nodeID, conn.state.String()).Set(1)

	result, err := protocol.Dispatch(conn.rw, m)
	var respErr *arakoonerrors.Error
	answered := stderrors.As(err, &respErr) && respErr.Code != 0 && respErr.Kind != arakoonerrors.KindWrongCluster
	if err != nil && !answered {
		conn.close()
		c.metrics.ConnectionsOpen.WithLabelValues(nodeID, StateClosed.String()).Set(1)
	}
	return result, err
}

// Call dispatches message m per §4.4's dispatch rules: an explicit
// target routes directly to that node (admin/node-scoped calls);
// otherwise it routes to the current master, discovering one if
// necessary, and retries per the outer/inner retry policy when retry
// is true.
func Call[R any](c *Client, m protocol.Message[R], target *string, retry bool) (R, error) {
	return callWithBudget(c, m, target, retry, c.cfg.NoMasterRetry)
}

// CallNoDeadline is Call without the outer no-master-retry budget, for
// CollapseTlogs: a long-running admin operation that must not be timed
// out by the ordinary retry deadline (§4.4).
func CallNoDeadline[R any](c *Client, m protocol.Message[R], target *string, retry bool) (R, error) {
	return callWithBudget(c, m, target, retry, 0)
}

// callWithBudget is Call's implementation, with the outer (master-level)
// and inner (per-node, try_count-bounded) retry loops of §4.4. budget
// <= 0 means the outer loop is unlimited (bounded only by retry/
// IsRetryable, never by elapsed time) — used for CollapseTlogs.
func callWithBudget[R any](c *Client, m protocol.Message[R], target *string, retry bool, budget time.Duration) (R, error) {
	name := fmt.Sprintf("%T", m)
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(c.metrics.RequestDuration, name)

	result, err := dispatchWithRetry(c, m, target, retry, budget)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.RequestsTotal.WithLabelValues(name, outcome).Inc()
	return result, err
}

// dispatchWithRetry is callWithBudget's retry loop, split out so the
// metrics wrapping above covers every attempt rather than just the
// last one.
func dispatchWithRetry[R any](c *Client, m protocol.Message[R], target *string, retry bool, budget time.Duration) (R, error) {
	var zero R
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}

	for outerAttempt := 1; ; outerAttempt++ {
		c.mu.Lock()
		nodeID, err := c.resolveTargetLocked(target)
		c.mu.Unlock()
		if err != nil {
			if !retry || !arakoonerrors.IsRetryable(err) {
				return zero, err
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return zero, err
			}
			time.Sleep(backoffDelay(c.cfg.BackoffBase, outerAttempt))
			continue
		}

		result, lastErr := sendWithTryCount(c, nodeID, m, retry)
		if lastErr == nil {
			return result, nil
		}

		if target == nil && arakoonerrors.IsRetryable(lastErr) {
			c.mu.Lock()
			c.masterID = ""
			c.dropConnectionsLocked()
			c.mu.Unlock()
		}

		if !retry || !arakoonerrors.IsRetryable(lastErr) {
			return zero, lastErr
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return zero, lastErr
		}

		c.metrics.Retries.WithLabelValues(retryReason(lastErr)).Inc()
		c.logger.Warn().Err(lastErr).Int("attempt", outerAttempt).Msg("retrying after error")
		time.Sleep(backoffDelay(c.cfg.BackoffBase, outerAttempt))
	}
}

// sendWithTryCount is the inner per-node loop: up to cfg.TryCount
// attempts against one node, with randomised backoff between them. When
// retry is false it makes a single attempt.
func sendWithTryCount[R any](c *Client, nodeID string, m protocol.Message[R], retry bool) (R, error) {
	var zero R
	var lastErr error

	tryCount := c.cfg.TryCount
	if tryCount < 1 || !retry {
		tryCount = 1
	}

	for innerAttempt := 1; innerAttempt <= tryCount; innerAttempt++ {
		c.mu.Lock()
		result, err := dispatchLocked(c, nodeID, m)
		c.mu.Unlock()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !arakoonerrors.IsRetryable(err) {
			return zero, err
		}
		if innerAttempt < tryCount {
			time.Sleep(innerBackoffDelay(c.cfg.BackoffBase, innerAttempt))
		}
	}
	return zero, lastErr
}

// resolveTargetLocked picks the node a request should go to: the
// explicit target if given, otherwise the current (possibly freshly
// discovered) master. Caller must hold c.mu.
func (c *Client) resolveTargetLocked(target *string) (string, error) {
	if target != nil {
		if _, ok := c.cfg.Nodes[*target]; !ok {
			return "", arakoonerrors.UnknownNode(*target)
		}
		return *target, nil
	}
	return c.ensureMasterLocked()
}

func retryReason(err error) string {
	var e *arakoonerrors.Error
	if stderrors.As(err, &e) {
		return e.Kind.String()
	}
	return "unknown"
}
