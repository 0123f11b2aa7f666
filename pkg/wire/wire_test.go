package wire

import (
	"bytes"
	"io"
	"testing"
)

func roundTrip[T any](t *testing.T, write func(io.Writer, T) error, read func(io.Reader) (T, error), v T) T {
	t.Helper()
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return got
}

func TestPrimitiveRoundTrip(t *testing.T) {
	if got := roundTrip(t, WriteUint32, ReadUint32, uint32(0xDEADBEEF)); got != 0xDEADBEEF {
		t.Errorf("uint32 round trip = %x", got)
	}
	if got := roundTrip(t, WriteUint64, ReadUint64, uint64(0x0102030405060708)); got != 0x0102030405060708 {
		t.Errorf("uint64 round trip = %x", got)
	}
	if got := roundTrip(t, WriteInt8, ReadInt8, int8(-42)); got != -42 {
		t.Errorf("int8 round trip = %d", got)
	}
	if got := roundTrip(t, WriteInt32, ReadInt32, int32(-123456)); got != -123456 {
		t.Errorf("int32 round trip = %d", got)
	}
	if got := roundTrip(t, WriteInt64, ReadInt64, int64(-1234567890123)); got != -1234567890123 {
		t.Errorf("int64 round trip = %d", got)
	}
	if got := roundTrip(t, WriteFloat64, ReadFloat64, 3.14159); got != 3.14159 {
		t.Errorf("float64 round trip = %v", got)
	}
	if got := roundTrip(t, WriteBool, ReadBool, true); got != true {
		t.Errorf("bool round trip = %v", got)
	}
	if got := roundTrip(t, WriteBool, ReadBool, false); got != false {
		t.Errorf("bool round trip = %v", got)
	}
	if got := roundTrip(t, WriteString, ReadString, "hello, arakoon"); got != "hello, arakoon" {
		t.Errorf("string round trip = %q", got)
	}
	if got := roundTrip(t, WriteString, ReadString, ""); got != "" {
		t.Errorf("empty string round trip = %q", got)
	}
}

func TestBoolInvalidByte(t *testing.T) {
	buf := bytes.NewReader([]byte{0x02})
	if _, err := ReadBool(buf); err == nil {
		t.Fatal("expected error for invalid bool byte")
	}
}

func TestOptionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOption(&buf, "present", true, WriteString); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, present, err := ReadOption(&buf, ReadString)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !present || v != "present" {
		t.Errorf("got (%q, %v), want (\"present\", true)", v, present)
	}

	buf.Reset()
	if err := WriteOption(&buf, "", false, WriteString); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, present, err = ReadOption(&buf, ReadString)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if present {
		t.Error("expected absent option")
	}
}

func TestListRoundTrip(t *testing.T) {
	values := []string{"a", "bb", "ccc"}
	var buf bytes.Buffer
	if err := WriteList(&buf, values, WriteString); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadList(&buf, ReadString)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("length = %d, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], values[i])
		}
	}
}

func TestListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteList(&buf, []string{}, WriteString); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadList(&buf, ReadString)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestCheckListRejectsBareString(t *testing.T) {
	if err := CheckList("not-a-list"); err == nil {
		t.Fatal("expected CheckList to reject a bare string")
	}
	if err := CheckList([]string{"ok"}); err != nil {
		t.Fatalf("CheckList rejected a valid slice: %v", err)
	}
}

func TestNamedFieldRoundTrip(t *testing.T) {
	field := NamedField{
		Name: "arakoon_stats",
		Kind: NamedFieldList,
		ListVal: []NamedField{
			{Name: "mask_set", Kind: NamedFieldInt64, Int64Val: 42},
			{Name: "last_master_log_rotation", Kind: NamedFieldFloat, FloatVal: 12.5},
			{Name: "node_id", Kind: NamedFieldString, StrVal: "arakoon_0"},
		},
	}

	var buf bytes.Buffer
	if err := WriteNamedField(&buf, field); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadNamedField(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != field.Name || got.Kind != field.Kind || len(got.ListVal) != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	value := got.ToValue().(map[string]any)
	if value["mask_set"].(int64) != 42 {
		t.Errorf("mask_set = %v", value["mask_set"])
	}
	if value["node_id"].(string) != "arakoon_0" {
		t.Errorf("node_id = %v", value["node_id"])
	}
}

func TestStatisticsRequiresArakoonStatsName(t *testing.T) {
	field := NamedField{Name: "not_stats", Kind: NamedFieldInt32, Int32Val: 1}
	var inner bytes.Buffer
	if err := WriteNamedField(&inner, field); err != nil {
		t.Fatalf("write inner: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteString(&buf, inner.String()); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	if _, err := ReadStatistics(&buf); err == nil {
		t.Fatal("expected error for missing arakoon_stats field")
	}
}

func TestStatisticsRoundTrip(t *testing.T) {
	stats := NamedField{
		Name: "arakoon_stats",
		Kind: NamedFieldList,
		ListVal: []NamedField{
			{Name: "num_clients", Kind: NamedFieldInt32, Int32Val: 3},
		},
	}
	var inner bytes.Buffer
	if err := WriteNamedField(&inner, stats); err != nil {
		t.Fatalf("write inner: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteString(&buf, inner.String()); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	got, err := ReadStatistics(&buf)
	if err != nil {
		t.Fatalf("ReadStatistics: %v", err)
	}
	if got["num_clients"].(int32) != 3 {
		t.Errorf("num_clients = %v", got["num_clients"])
	}
}

func TestConsistencyRoundTrip(t *testing.T) {
	cases := []Consistency{
		Consistent(),
		Inconsistent(),
		AtLeast(17),
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := WriteConsistency(&buf, c); err != nil {
			t.Fatalf("write %+v: %v", c, err)
		}
		got, err := ReadConsistency(&buf)
		if err != nil {
			t.Fatalf("read %+v: %v", c, err)
		}
		if got != c {
			t.Errorf("round trip = %+v, want %+v", got, c)
		}
	}
}

func TestConsistencyAtLeastRejectsNegative(t *testing.T) {
	c := AtLeast(-1)
	var buf bytes.Buffer
	if err := WriteConsistency(&buf, c); err == nil {
		t.Fatal("expected error for negative AtLeast index")
	}
}

func TestConsistencyUnknownTag(t *testing.T) {
	buf := bytes.NewReader([]byte{0x05})
	if _, err := ReadConsistency(buf); err == nil {
		t.Fatal("expected error for unknown consistency tag")
	}
}
