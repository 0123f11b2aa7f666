package wire

import (
	"bytes"
	"fmt"
	"io"
)

// ReadOption reads a presence byte followed, if present, by one T read
// with readInner. The zero value of T is returned when absent.
func ReadOption[T any](r io.Reader, readInner func(io.Reader) (T, error)) (T, bool, error) {
	var zero T
	present, err := ReadBool(r)
	if err != nil {
		return zero, false, err
	}
	if !present {
		return zero, false, nil
	}
	v, err := readInner(r)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// WriteOption writes the presence byte and, if present, the value
// written with writeInner.
func WriteOption[T any](w io.Writer, v T, present bool, writeInner func(io.Writer, T) error) error {
	if err := WriteBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return writeInner(w, v)
}

// ReadList reads a uint32 count followed by that many elements, in
// order. Used for both `list(T)` and `array(T)`; the two share framing
// and differ only in whether the caller may serialize them (arrays are
// receive-only, per the catalogue).
func ReadList[T any](r io.Reader, readElem func(io.Reader) (T, error)) ([]T, error) {
	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}
	values := make([]T, count)
	for i := range values {
		v, err := readElem(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// WriteList writes the uint32 count followed by each element via
// writeElem. CheckList must be called first to reject the
// scalar-as-sequence hazard.
func WriteList[T any](w io.Writer, values []T, writeElem func(io.Writer, T) error) error {
	if err := WriteUint32(w, uint32(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeElem(w, v); err != nil {
			return err
		}
	}
	return nil
}

// CheckList rejects a single string masquerading as its own element
// sequence: `list(string)` called with a bare string instead of
// []string would otherwise silently iterate its bytes.
func CheckList(v any) error {
	if _, ok := v.(string); ok {
		return fmt.Errorf("wire: a bare string is not a valid list(T) value")
	}
	return nil
}

// NamedFieldKind is the closed tag of a statistics named-field value.
type NamedFieldKind int32

const (
	NamedFieldInt32  NamedFieldKind = 1
	NamedFieldInt64  NamedFieldKind = 2
	NamedFieldFloat  NamedFieldKind = 3
	NamedFieldString NamedFieldKind = 4
	NamedFieldList   NamedFieldKind = 5
)

// NamedField is a statistics record: a self-describing (name, typed
// value) pair whose List variant nests further named fields.
type NamedField struct {
	Name     string
	Kind     NamedFieldKind
	Int32Val int32
	Int64Val int64
	FloatVal float64
	StrVal   string
	ListVal  []NamedField
}

// ReadNamedField reads one named_field record: an int32 type tag, a
// string name, then the value of that type. A NamedFieldList value's
// elements are themselves named fields.
func ReadNamedField(r io.Reader) (NamedField, error) {
	tag, err := ReadInt32(r)
	if err != nil {
		return NamedField{}, err
	}
	name, err := ReadString(r)
	if err != nil {
		return NamedField{}, err
	}

	field := NamedField{Name: name, Kind: NamedFieldKind(tag)}
	switch field.Kind {
	case NamedFieldInt32:
		field.Int32Val, err = ReadInt32(r)
	case NamedFieldInt64:
		field.Int64Val, err = ReadInt64(r)
	case NamedFieldFloat:
		field.FloatVal, err = ReadFloat64(r)
	case NamedFieldString:
		field.StrVal, err = ReadString(r)
	case NamedFieldList:
		field.ListVal, err = ReadList(r, ReadNamedField)
	default:
		return NamedField{}, fmt.Errorf("wire: unknown named field type %d", tag)
	}
	if err != nil {
		return NamedField{}, err
	}
	return field, nil
}

// WriteNamedField writes a named_field record.
func WriteNamedField(w io.Writer, field NamedField) error {
	if err := WriteInt32(w, int32(field.Kind)); err != nil {
		return err
	}
	if err := WriteString(w, field.Name); err != nil {
		return err
	}
	switch field.Kind {
	case NamedFieldInt32:
		return WriteInt32(w, field.Int32Val)
	case NamedFieldInt64:
		return WriteInt64(w, field.Int64Val)
	case NamedFieldFloat:
		return WriteFloat64(w, field.FloatVal)
	case NamedFieldString:
		return WriteString(w, field.StrVal)
	case NamedFieldList:
		return WriteList(w, field.ListVal, WriteNamedField)
	default:
		return fmt.Errorf("wire: unknown named field type %d", field.Kind)
	}
}

// ToValue collapses a named field into a plain Go value: scalars map
// to their native type, and a list field collapses into a
// map[string]interface{} keyed by each element's name, matching the
// server's own flattening of a named-field tree into a mapping.
func (f NamedField) ToValue() any {
	switch f.Kind {
	case NamedFieldInt32:
		return f.Int32Val
	case NamedFieldInt64:
		return f.Int64Val
	case NamedFieldFloat:
		return f.FloatVal
	case NamedFieldString:
		return f.StrVal
	case NamedFieldList:
		out := make(map[string]any, len(f.ListVal))
		for _, elem := range f.ListVal {
			out[elem.Name] = elem.ToValue()
		}
		return out
	default:
		return nil
	}
}

// ReadStatistics reads a string-wrapped named_field tree and returns
// the value associated with the required top-level "arakoon_stats"
// field.
func ReadStatistics(r io.Reader) (map[string]any, error) {
	payload, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	field, err := ReadNamedField(bytes.NewReader([]byte(payload)))
	if err != nil {
		return nil, err
	}
	if field.Name != "arakoon_stats" {
		return nil, fmt.Errorf("wire: statistics payload missing top-level \"arakoon_stats\" field, got %q", field.Name)
	}
	value, ok := field.ToValue().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("wire: statistics top-level field is not a list")
	}
	return value, nil
}

// ConsistencyKind is the closed tag of a Consistency value.
type ConsistencyKind int8

const (
	ConsistencyConsistent   ConsistencyKind = 0
	ConsistencyInconsistent ConsistencyKind = 1
	ConsistencyAtLeast      ConsistencyKind = 2
)

// Consistency is the read-freshness request sent with every read:
// strict (Consistent, the default), relaxed (Inconsistent, any
// replica may answer), or "at least transaction i" (AtLeast).
type Consistency struct {
	Kind ConsistencyKind
	I    int64
}

// Consistent requests the strict, linearizable read.
func Consistent() Consistency { return Consistency{Kind: ConsistencyConsistent} }

// Inconsistent allows any replica to answer, even a stale one.
func Inconsistent() Consistency { return Consistency{Kind: ConsistencyInconsistent} }

// AtLeast requests a read reflecting transaction i or later. i must be
// non-negative.
func AtLeast(i int64) Consistency { return Consistency{Kind: ConsistencyAtLeast, I: i} }

// Check validates an AtLeast value's invariant before serialisation.
func (c Consistency) Check() error {
	if c.Kind == ConsistencyAtLeast && c.I < 0 {
		return fmt.Errorf("wire: AtLeast consistency requires i >= 0, got %d", c.I)
	}
	return nil
}

// ReadConsistency reads the int8 tag and, for AtLeast, the trailing
// int64.
func ReadConsistency(r io.Reader) (Consistency, error) {
	tag, err := ReadInt8(r)
	if err != nil {
		return Consistency{}, err
	}
	switch ConsistencyKind(tag) {
	case ConsistencyConsistent:
		return Consistent(), nil
	case ConsistencyInconsistent:
		return Inconsistent(), nil
	case ConsistencyAtLeast:
		i, err := ReadInt64(r)
		if err != nil {
			return Consistency{}, err
		}
		return AtLeast(i), nil
	default:
		return Consistency{}, fmt.Errorf("wire: unknown consistency tag %d", tag)
	}
}

// WriteConsistency writes the tag and, for AtLeast, the trailing i.
func WriteConsistency(w io.Writer, c Consistency) error {
	if err := c.Check(); err != nil {
		return err
	}
	if err := WriteInt8(w, int8(c.Kind)); err != nil {
		return err
	}
	if c.Kind == ConsistencyAtLeast {
		return WriteInt64(w, c.I)
	}
	return nil
}

// RangeAssertion is carried as a placeholder wire type: it appears in
// the type registry but no message in the catalogue uses it. Left
// unwired pending a message that actually needs it.
type RangeAssertion struct {
	Keys []string
}
