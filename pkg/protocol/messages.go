package protocol

import (
	"bufio"
	"io"

	"github.com/openvstorage/arakoon-go/pkg/wire"
)

// Message codes, the low 16 bits before masking (§4.2).
const (
	codeHello                   = 0x0001
	codeWhoMaster                = 0x0002
	codeExists                  = 0x0007
	codeGet                     = 0x0008
	codeSet                     = 0x0009
	codeDelete                  = 0x000A
	codeRange                   = 0x000B
	codePrefixKeys              = 0x000C
	codeTestAndSet              = 0x000D
	codeRangeEntries            = 0x000F
	codeSequence                = 0x0010
	codeMultiGet                = 0x0011
	codeExpectProgressPossible  = 0x0012
	codeStatistics              = 0x0013
	codeUserFunction            = 0x0015
	codeAssert                  = 0x0016
	codeGetKeyCount             = 0x001A
	codeConfirm                 = 0x001C
	codeRevRangeEntries         = 0x0023
	codeSyncedSequence          = 0x0024
	codeDeletePrefix            = 0x0027
	codeVersion                 = 0x0028
	codeAssertExists            = 0x0029
	codeMultiGetOption          = 0x0031
	codeGetCurrentState         = 0x0032
	codeReplace                 = 0x0033
	codeNop                     = 0x0041
	codeGetTxID                 = 0x0043

	// Admin group: deployment-specific node-scoped operations. The
	// source's admin submodule was not part of the retrieved material;
	// these codes are placeholders routed like every other node-scoped
	// message (tag | Mask, request/response framing identical) and are
	// meant to be overridden per deployment rather than treated as a
	// protocol-compatible constant.
	codeOptimizeDB    = 0x0500
	codeDefragDB      = 0x0501
	codeDropMaster    = 0x0502
	codeCollapseTlogs = 0x0503
	codeFlushStore    = 0x0504
)

func tag(code uint32) uint32 { return code | Mask }

// KeyValue is the product(string, string) pair returned by
// RangeEntries and RevRangeEntries.
type KeyValue struct {
	Key   string
	Value string
}

func readKeyValue(r io.Reader) (KeyValue, error) {
	key, err := wire.ReadString(r)
	if err != nil {
		return KeyValue{}, err
	}
	value, err := wire.ReadString(r)
	if err != nil {
		return KeyValue{}, err
	}
	return KeyValue{Key: key, Value: value}, nil
}

// VersionInfo is the product(int32, int32, int32, string) returned by
// Version: major, minor, patch, and free-form build info.
type VersionInfo struct {
	Major int32
	Minor int32
	Patch int32
	Build string
}

func readVersionInfo(r io.Reader) (VersionInfo, error) {
	var v VersionInfo
	var err error
	if v.Major, err = wire.ReadInt32(r); err != nil {
		return VersionInfo{}, err
	}
	if v.Minor, err = wire.ReadInt32(r); err != nil {
		return VersionInfo{}, err
	}
	if v.Patch, err = wire.ReadInt32(r); err != nil {
		return VersionInfo{}, err
	}
	if v.Build, err = wire.ReadString(r); err != nil {
		return VersionInfo{}, err
	}
	return v, nil
}

func readUnit(r io.Reader) (struct{}, error) { return struct{}{}, nil }

// --- Hello ---

type Hello struct {
	ClientID  string
	ClusterID string
}

func (m Hello) Tag() uint32 { return tag(codeHello) }

func (m Hello) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.ClientID); err != nil {
		return err
	}
	return wire.WriteString(w, m.ClusterID)
}

func (m Hello) ReadReturn(r io.Reader) (string, error) {
	return ReadResponse(r, wire.ReadString)
}

// --- WhoMaster ---

type WhoMaster struct{}

func (m WhoMaster) Tag() uint32                        { return tag(codeWhoMaster) }
func (m WhoMaster) WriteArgs(w *bufio.Writer) error     { return nil }
func (m WhoMaster) ReadReturn(r io.Reader) (*string, error) {
	return ReadResponse(r, func(r io.Reader) (*string, error) {
		v, present, err := wire.ReadOption(r, wire.ReadString)
		if err != nil || !present {
			return nil, err
		}
		return &v, nil
	})
}

// --- Exists ---

type Exists struct {
	Consistency wire.Consistency
	Key         string
}

func (m Exists) Tag() uint32 { return tag(codeExists) }

func (m Exists) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	return wire.WriteString(w, m.Key)
}

func (m Exists) ReadReturn(r io.Reader) (bool, error) {
	return ReadResponse(r, wire.ReadBool)
}

// --- Get ---

type Get struct {
	Consistency wire.Consistency
	Key         string
}

func (m Get) Tag() uint32 { return tag(codeGet) }

func (m Get) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	return wire.WriteString(w, m.Key)
}

func (m Get) ReadReturn(r io.Reader) (string, error) {
	return ReadResponse(r, wire.ReadString)
}

// --- Set ---

type Set struct {
	Key   string
	Value string
}

func (m Set) Tag() uint32 { return tag(codeSet) }

func (m Set) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.Key); err != nil {
		return err
	}
	return wire.WriteString(w, m.Value)
}

func (m Set) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- Delete ---

type Delete struct {
	Key string
}

func (m Delete) Tag() uint32                    { return tag(codeDelete) }
func (m Delete) WriteArgs(w *bufio.Writer) error { return wire.WriteString(w, m.Key) }
func (m Delete) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- Range ---

type Range struct {
	Consistency wire.Consistency
	Begin       *string
	BeginIncl   bool
	End         *string
	EndIncl     bool
	Max         int32
}

func (m Range) Tag() uint32 { return tag(codeRange) }

func (m Range) WriteArgs(w *bufio.Writer) error {
	return writeRangeArgs(w, m.Consistency, m.Begin, m.BeginIncl, m.End, m.EndIncl, m.Max)
}

func (m Range) ReadReturn(r io.Reader) ([]string, error) {
	return ReadResponse(r, func(r io.Reader) ([]string, error) {
		return wire.ReadList(r, wire.ReadString)
	})
}

func writeRangeArgs(w *bufio.Writer, c wire.Consistency, begin *string, beginIncl bool, end *string, endIncl bool, max int32) error {
	if err := wire.WriteConsistency(w, c); err != nil {
		return err
	}
	if err := writeOptionalString(w, begin); err != nil {
		return err
	}
	if err := wire.WriteBool(w, beginIncl); err != nil {
		return err
	}
	if err := writeOptionalString(w, end); err != nil {
		return err
	}
	if err := wire.WriteBool(w, endIncl); err != nil {
		return err
	}
	return wire.WriteInt32(w, max)
}

func writeOptionalString(w *bufio.Writer, v *string) error {
	if v == nil {
		return wire.WriteOption(w, "", false, wire.WriteString)
	}
	return wire.WriteOption(w, *v, true, wire.WriteString)
}

// --- PrefixKeys ---

type PrefixKeys struct {
	Consistency wire.Consistency
	Prefix      string
	Max         int32
}

func (m PrefixKeys) Tag() uint32 { return tag(codePrefixKeys) }

func (m PrefixKeys) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	if err := wire.WriteString(w, m.Prefix); err != nil {
		return err
	}
	return wire.WriteInt32(w, m.Max)
}

func (m PrefixKeys) ReadReturn(r io.Reader) ([]string, error) {
	return ReadResponse(r, func(r io.Reader) ([]string, error) {
		return wire.ReadList(r, wire.ReadString)
	})
}

// --- TestAndSet ---

type TestAndSet struct {
	Key  string
	Test *string
	Set  *string
}

func (m TestAndSet) Tag() uint32 { return tag(codeTestAndSet) }

func (m TestAndSet) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.Key); err != nil {
		return err
	}
	if err := writeOptionalString(w, m.Test); err != nil {
		return err
	}
	return writeOptionalString(w, m.Set)
}

func (m TestAndSet) ReadReturn(r io.Reader) (*string, error) {
	return ReadResponse(r, readOptionalString)
}

func readOptionalString(r io.Reader) (*string, error) {
	v, present, err := wire.ReadOption(r, wire.ReadString)
	if err != nil || !present {
		return nil, err
	}
	return &v, nil
}

// --- RangeEntries ---

type RangeEntries struct {
	Consistency wire.Consistency
	Begin       *string
	BeginIncl   bool
	End         *string
	EndIncl     bool
	Max         int32
}

func (m RangeEntries) Tag() uint32 { return tag(codeRangeEntries) }

func (m RangeEntries) WriteArgs(w *bufio.Writer) error {
	return writeRangeArgs(w, m.Consistency, m.Begin, m.BeginIncl, m.End, m.EndIncl, m.Max)
}

func (m RangeEntries) ReadReturn(r io.Reader) ([]KeyValue, error) {
	return ReadResponse(r, func(r io.Reader) ([]KeyValue, error) {
		return wire.ReadList(r, readKeyValue)
	})
}

// --- RevRangeEntries ---

// RevRangeEntries is identical in shape to RangeEntries; Begin is the
// upper bound and results come back in descending key order.
type RevRangeEntries struct {
	Consistency wire.Consistency
	Begin       *string
	BeginIncl   bool
	End         *string
	EndIncl     bool
	Max         int32
}

func (m RevRangeEntries) Tag() uint32 { return tag(codeRevRangeEntries) }

func (m RevRangeEntries) WriteArgs(w *bufio.Writer) error {
	return writeRangeArgs(w, m.Consistency, m.Begin, m.BeginIncl, m.End, m.EndIncl, m.Max)
}

func (m RevRangeEntries) ReadReturn(r io.Reader) ([]KeyValue, error) {
	return ReadResponse(r, func(r io.Reader) ([]KeyValue, error) {
		return wire.ReadList(r, readKeyValue)
	})
}

// --- MultiGet ---

type MultiGet struct {
	Consistency wire.Consistency
	Keys        []string
}

func (m MultiGet) Tag() uint32 { return tag(codeMultiGet) }

func (m MultiGet) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	if err := wire.CheckList(m.Keys); err != nil {
		return err
	}
	return wire.WriteList(w, m.Keys, wire.WriteString)
}

func (m MultiGet) ReadReturn(r io.Reader) ([]string, error) {
	return ReadResponse(r, func(r io.Reader) ([]string, error) {
		return wire.ReadList(r, wire.ReadString)
	})
}

// --- MultiGetOption ---

type MultiGetOption struct {
	Consistency wire.Consistency
	Keys        []string
}

func (m MultiGetOption) Tag() uint32 { return tag(codeMultiGetOption) }

func (m MultiGetOption) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	if err := wire.CheckList(m.Keys); err != nil {
		return err
	}
	return wire.WriteList(w, m.Keys, wire.WriteString)
}

// ReadReturn reads the positionally-aligned array(option(string)): one
// slot per requested key, missing keys encoded as absent.
func (m MultiGetOption) ReadReturn(r io.Reader) ([]*string, error) {
	return ReadResponse(r, func(r io.Reader) ([]*string, error) {
		return wire.ReadList(r, readOptionalString)
	})
}

// --- ExpectProgressPossible ---

// ExpectProgressPossible never retries: the orchestrator maps any
// transport failure for this message to a plain `false`, never an
// error, per §4.4.
type ExpectProgressPossible struct{}

func (m ExpectProgressPossible) Tag() uint32                    { return tag(codeExpectProgressPossible) }
func (m ExpectProgressPossible) WriteArgs(w *bufio.Writer) error { return nil }
func (m ExpectProgressPossible) ReadReturn(r io.Reader) (bool, error) {
	return ReadResponse(r, wire.ReadBool)
}

// --- Statistics ---

type Statistics struct{}

func (m Statistics) Tag() uint32                    { return tag(codeStatistics) }
func (m Statistics) WriteArgs(w *bufio.Writer) error { return nil }
func (m Statistics) ReadReturn(r io.Reader) (map[string]any, error) {
	return ReadResponse(r, wire.ReadStatistics)
}

// --- UserFunction ---

type UserFunction struct {
	Name     string
	Argument *string
}

func (m UserFunction) Tag() uint32 { return tag(codeUserFunction) }

func (m UserFunction) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.Name); err != nil {
		return err
	}
	return writeOptionalString(w, m.Argument)
}

func (m UserFunction) ReadReturn(r io.Reader) (*string, error) {
	return ReadResponse(r, readOptionalString)
}

// --- Assert ---

type Assert struct {
	Consistency wire.Consistency
	Key         string
	Value       *string
}

func (m Assert) Tag() uint32 { return tag(codeAssert) }

func (m Assert) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	if err := wire.WriteString(w, m.Key); err != nil {
		return err
	}
	return writeOptionalString(w, m.Value)
}

func (m Assert) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- AssertExists ---

type AssertExists struct {
	Consistency wire.Consistency
	Key         string
}

func (m AssertExists) Tag() uint32 { return tag(codeAssertExists) }

func (m AssertExists) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteConsistency(w, m.Consistency); err != nil {
		return err
	}
	return wire.WriteString(w, m.Key)
}

func (m AssertExists) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- GetKeyCount ---

type GetKeyCount struct{}

func (m GetKeyCount) Tag() uint32                    { return tag(codeGetKeyCount) }
func (m GetKeyCount) WriteArgs(w *bufio.Writer) error { return nil }
func (m GetKeyCount) ReadReturn(r io.Reader) (uint64, error) {
	return ReadResponse(r, wire.ReadUint64)
}

// --- Confirm ---

// Confirm is an idempotent Set: re-sending it after an ack'd response
// that was lost in transit is always safe.
type Confirm struct {
	Key   string
	Value string
}

func (m Confirm) Tag() uint32 { return tag(codeConfirm) }

func (m Confirm) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.Key); err != nil {
		return err
	}
	return wire.WriteString(w, m.Value)
}

func (m Confirm) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- DeletePrefix ---

type DeletePrefix struct {
	Prefix string
}

func (m DeletePrefix) Tag() uint32                    { return tag(codeDeletePrefix) }
func (m DeletePrefix) WriteArgs(w *bufio.Writer) error { return wire.WriteString(w, m.Prefix) }
func (m DeletePrefix) ReadReturn(r io.Reader) (uint32, error) {
	return ReadResponse(r, wire.ReadUint32)
}

// --- Version ---

type Version struct{}

func (m Version) Tag() uint32                    { return tag(codeVersion) }
func (m Version) WriteArgs(w *bufio.Writer) error { return nil }
func (m Version) ReadReturn(r io.Reader) (VersionInfo, error) {
	return ReadResponse(r, readVersionInfo)
}

// --- GetCurrentState ---

type GetCurrentState struct{}

func (m GetCurrentState) Tag() uint32                    { return tag(codeGetCurrentState) }
func (m GetCurrentState) WriteArgs(w *bufio.Writer) error { return nil }
func (m GetCurrentState) ReadReturn(r io.Reader) (string, error) {
	return ReadResponse(r, wire.ReadString)
}

// --- Replace ---

type Replace struct {
	Key   string
	Value *string
}

func (m Replace) Tag() uint32 { return tag(codeReplace) }

func (m Replace) WriteArgs(w *bufio.Writer) error {
	if err := wire.WriteString(w, m.Key); err != nil {
		return err
	}
	return writeOptionalString(w, m.Value)
}

func (m Replace) ReadReturn(r io.Reader) (*string, error) {
	return ReadResponse(r, readOptionalString)
}

// --- Nop ---

type Nop struct{}

func (m Nop) Tag() uint32                    { return tag(codeNop) }
func (m Nop) WriteArgs(w *bufio.Writer) error { return nil }
func (m Nop) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// --- GetTxID ---

type GetTxID struct{}

func (m GetTxID) Tag() uint32                    { return tag(codeGetTxID) }
func (m GetTxID) WriteArgs(w *bufio.Writer) error { return nil }
func (m GetTxID) ReadReturn(r io.Reader) (wire.Consistency, error) {
	return ReadResponse(r, wire.ReadConsistency)
}

// --- Admin group: node-scoped operations, routed to an explicit node
// id rather than the master (§4.2, §4.4). ---

type OptimizeDB struct{}

func (m OptimizeDB) Tag() uint32                    { return tag(codeOptimizeDB) }
func (m OptimizeDB) WriteArgs(w *bufio.Writer) error { return nil }
func (m OptimizeDB) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

type DefragDB struct{}

func (m DefragDB) Tag() uint32                    { return tag(codeDefragDB) }
func (m DefragDB) WriteArgs(w *bufio.Writer) error { return nil }
func (m DefragDB) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

type DropMaster struct{}

func (m DropMaster) Tag() uint32                    { return tag(codeDropMaster) }
func (m DropMaster) WriteArgs(w *bufio.Writer) error { return nil }
func (m DropMaster) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

// CollapseTlogs runs without a retry deadline, per §4.4: it is a long
// operation and the orchestrator must not time it out like other
// admin calls.
type CollapseTlogs struct{}

func (m CollapseTlogs) Tag() uint32                    { return tag(codeCollapseTlogs) }
func (m CollapseTlogs) WriteArgs(w *bufio.Writer) error { return nil }
func (m CollapseTlogs) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}

type FlushStore struct{}

func (m FlushStore) Tag() uint32                    { return tag(codeFlushStore) }
func (m FlushStore) WriteArgs(w *bufio.Writer) error { return nil }
func (m FlushStore) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}
