package client

import (
	"github.com/openvstorage/arakoon-go/pkg/protocol"
	"github.com/openvstorage/arakoon-go/pkg/sequence"
	"github.com/openvstorage/arakoon-go/pkg/wire"
)

// consistencySetting returns the client's current default read consistency.
func (c *Client) consistencySetting() wire.Consistency {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consistency
}

// Hello performs the handshake with a specific node, identifying the
// client and verifying the cluster id. It is routed directly to
// nodeID, never through master discovery.
func (c *Client) Hello(clientID, nodeID string) (string, error) {
	return Call(c, protocol.Hello{ClientID: clientID, ClusterID: c.cfg.ClusterID}, &nodeID, true)
}

// WhoMaster returns the node id the queried node believes is master,
// or nil if it has no opinion. Routed to an explicit node so it can be
// used for discovery by callers outside the orchestrator.
func (c *Client) WhoMaster(nodeID string) (*string, error) {
	return Call(c, protocol.WhoMaster{}, &nodeID, true)
}

// Exists reports whether key is present, under the client's current
// consistency setting.
func (c *Client) Exists(key string) (bool, error) {
	return Call(c, protocol.Exists{Consistency: c.consistencySetting(), Key: key}, nil, true)
}

// Get reads key's value. Returns a NotFound error if absent.
func (c *Client) Get(key string) (string, error) {
	return Call(c, protocol.Get{Consistency: c.consistencySetting(), Key: key}, nil, true)
}

// Set writes key to value.
func (c *Client) Set(key, value string) error {
	_, err := Call(c, protocol.Set{Key: key, Value: value}, nil, true)
	return err
}

// Delete removes key. Returns a NotFound error if absent.
func (c *Client) Delete(key string) error {
	_, err := Call(c, protocol.Delete{Key: key}, nil, true)
	return err
}

// Range returns keys in [begin, end) (inclusivity controlled by
// beginIncl/endIncl), up to max results (max < 0 means unbounded), in
// ascending order.
func (c *Client) Range(begin *string, beginIncl bool, end *string, endIncl bool, max int32) ([]string, error) {
	return Call(c, protocol.Range{
		Consistency: c.consistencySetting(),
		Begin:       begin, BeginIncl: beginIncl,
		End: end, EndIncl: endIncl,
		Max: max,
	}, nil, true)
}

// PrefixKeys returns up to max keys starting with prefix.
func (c *Client) PrefixKeys(prefix string, max int32) ([]string, error) {
	return Call(c, protocol.PrefixKeys{Consistency: c.consistencySetting(), Prefix: prefix, Max: max}, nil, true)
}

// TestAndSet performs a compare-and-swap: writes set iff the current
// value equals test (absent test requires a missing key; absent set
// deletes). Returns the pre-image.
func (c *Client) TestAndSet(key string, test, set *string) (*string, error) {
	return Call(c, protocol.TestAndSet{Key: key, Test: test, Set: set}, nil, true)
}

// RangeEntries is Range but returns (key, value) pairs.
func (c *Client) RangeEntries(begin *string, beginIncl bool, end *string, endIncl bool, max int32) ([]protocol.KeyValue, error) {
	return Call(c, protocol.RangeEntries{
		Consistency: c.consistencySetting(),
		Begin:       begin, BeginIncl: beginIncl,
		End: end, EndIncl: endIncl,
		Max: max,
	}, nil, true)
}

// RevRangeEntries is RangeEntries with begin as the upper bound and
// results in descending key order.
func (c *Client) RevRangeEntries(begin *string, beginIncl bool, end *string, endIncl bool, max int32) ([]protocol.KeyValue, error) {
	return Call(c, protocol.RevRangeEntries{
		Consistency: c.consistencySetting(),
		Begin:       begin, BeginIncl: beginIncl,
		End: end, EndIncl: endIncl,
		Max: max,
	}, nil, true)
}

// MultiGet reads several keys at once. Fails with NotFound if any key
// is missing; see MultiGetOption for a variant that tolerates gaps.
func (c *Client) MultiGet(keys []string) ([]string, error) {
	return Call(c, protocol.MultiGet{Consistency: c.consistencySetting(), Keys: keys}, nil, true)
}

// MultiGetOption is MultiGet but returns one slot per requested key,
// with missing keys represented as a nil entry instead of an error.
func (c *Client) MultiGetOption(keys []string) ([]*string, error) {
	return Call(c, protocol.MultiGetOption{Consistency: c.consistencySetting(), Keys: keys}, nil, true)
}

// ExpectProgressPossible never retries: any transport failure is
// reported as false rather than propagated as an error (§4.2, §4.4).
func (c *Client) ExpectProgressPossible() bool {
	ok, err := Call(c, protocol.ExpectProgressPossible{}, nil, false)
	if err != nil {
		return false
	}
	return ok
}

// Statistics returns the cluster's self-reported statistics tree.
func (c *Client) Statistics() (map[string]any, error) {
	return Call(c, protocol.Statistics{}, nil, true)
}

// UserFunction invokes a server-side user function by name with an
// optional argument, returning its optional result.
func (c *Client) UserFunction(name string, argument *string) (*string, error) {
	return Call(c, protocol.UserFunction{Name: name, Argument: argument}, nil, true)
}

// Assert fails with AssertionFailed unless key currently holds value
// (nil meaning absent).
func (c *Client) Assert(key string, value *string) error {
	_, err := Call(c, protocol.Assert{Consistency: c.consistencySetting(), Key: key, Value: value}, nil, true)
	return err
}

// AssertExists fails with AssertionFailed unless key is present.
func (c *Client) AssertExists(key string) error {
	_, err := Call(c, protocol.AssertExists{Consistency: c.consistencySetting(), Key: key}, nil, true)
	return err
}

// GetKeyCount returns the total number of keys in the store.
func (c *Client) GetKeyCount() (uint64, error) {
	return Call(c, protocol.GetKeyCount{}, nil, true)
}

// Confirm is an idempotent Set: safe to resend if a prior response was
// lost in transit.
func (c *Client) Confirm(key, value string) error {
	_, err := Call(c, protocol.Confirm{Key: key, Value: value}, nil, true)
	return err
}

// DeletePrefix deletes every key starting with prefix and returns the
// number of keys removed.
func (c *Client) DeletePrefix(prefix string) (uint32, error) {
	return Call(c, protocol.DeletePrefix{Prefix: prefix}, nil, true)
}

// Version returns the queried master's version information.
func (c *Client) Version() (protocol.VersionInfo, error) {
	return Call(c, protocol.Version{}, nil, true)
}

// GetCurrentState returns a free-form description of the master's
// current state, primarily for diagnostics.
func (c *Client) GetCurrentState() (string, error) {
	return Call(c, protocol.GetCurrentState{}, nil, true)
}

// Replace writes key to value (nil deletes it) and returns the
// pre-image.
func (c *Client) Replace(key string, value *string) (*string, error) {
	return Call(c, protocol.Replace{Key: key, Value: value}, nil, true)
}

// Nop is a no-op request useful for liveness checks and for forcing a
// master validation round trip.
func (c *Client) Nop() error {
	_, err := Call(c, protocol.Nop{}, nil, true)
	return err
}

// GetTxID returns the node's current transaction frontier, as a
// Consistency value suitable for a subsequent AtLeast read.
func (c *Client) GetTxID() (wire.Consistency, error) {
	return Call(c, protocol.GetTxID{}, nil, true)
}

// MakeSequence starts building a transactional Sequence. Append steps
// built with sequence.Set, sequence.Delete, and so on via Add, then
// pass the result to RunSequence or RunSyncedSequence.
func (c *Client) MakeSequence() *sequence.Sequence {
	return sequence.New()
}

// RunSequence executes seq atomically on the master: all-or-nothing,
// any failed assert or step error leaves every key untouched.
func (c *Client) RunSequence(seq *sequence.Sequence) error {
	_, err := Call(c, protocol.Sequence{Steps: seq}, nil, true)
	return err
}

// RunSyncedSequence is RunSequence with an additional durability
// guarantee: the master fsyncs before acknowledging.
func (c *Client) RunSyncedSequence(seq *sequence.Sequence) error {
	_, err := Call(c, protocol.Sequence{Steps: seq, Synced: true}, nil, true)
	return err
}

// --- Admin group: routed to an explicit node id, never the master
// (§4.2, §4.4). ---

// OptimizeDB requests the named node compact its on-disk store.
func (c *Client) OptimizeDB(nodeID string) error {
	_, err := Call(c, protocol.OptimizeDB{}, &nodeID, true)
	return err
}

// DefragDB requests the named node defragment its on-disk store.
func (c *Client) DefragDB(nodeID string) error {
	_, err := Call(c, protocol.DefragDB{}, &nodeID, true)
	return err
}

// DropMaster asks the named node to step down as master, if it
// currently holds that role.
func (c *Client) DropMaster(nodeID string) error {
	_, err := Call(c, protocol.DropMaster{}, &nodeID, true)
	return err
}

// CollapseTlogs requests the named node collapse its transaction logs.
// This runs without the usual no-master-retry deadline: it is a long
// operation (§4.4).
func (c *Client) CollapseTlogs(nodeID string) error {
	_, err := CallNoDeadline(c, protocol.CollapseTlogs{}, &nodeID, true)
	return err
}

// FlushStore requests the named node flush its in-memory store to
// disk.
func (c *Client) FlushStore(nodeID string) error {
	_, err := Call(c, protocol.FlushStore{}, &nodeID, true)
	return err
}
