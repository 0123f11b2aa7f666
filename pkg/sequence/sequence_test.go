package sequence

import (
	"bytes"
	"testing"

	"github.com/openvstorage/arakoon-go/pkg/wire"
)

func readUint32(t *testing.T, r *bytes.Reader) uint32 {
	t.Helper()
	v, err := wire.ReadUint32(r)
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	return v
}

func readString(t *testing.T, r *bytes.Reader) string {
	t.Helper()
	v, err := wire.ReadString(r)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	return v
}

func TestSetStepEnvelope(t *testing.T) {
	seq := New(Set("k", "v"))
	buf, err := seq.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bytes.NewReader([]byte(buf))
	if got := readUint32(t, r); got != uint32(TagSequence) {
		t.Fatalf("outer tag = %d, want %d", got, TagSequence)
	}
	if got := readUint32(t, r); got != 1 {
		t.Fatalf("step count = %d, want 1", got)
	}
	if got := readUint32(t, r); got != uint32(TagSet) {
		t.Fatalf("inner tag = %d, want %d", got, TagSet)
	}
	if got := readString(t, r); got != "k" {
		t.Fatalf("key = %q", got)
	}
	if got := readString(t, r); got != "v" {
		t.Fatalf("value = %q", got)
	}
	if r.Len() != 0 {
		t.Fatalf("%d trailing bytes", r.Len())
	}
}

func TestNestedSequence(t *testing.T) {
	inner := New(Delete("a"), DeletePrefix("b-"))
	outer := New(Set("x", "y")).Add(inner)

	buf, err := outer.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bytes.NewReader([]byte(buf))
	if got := readUint32(t, r); got != uint32(TagSequence) {
		t.Fatal("expected outer sequence tag")
	}
	if got := readUint32(t, r); got != 2 {
		t.Fatalf("outer step count = %d, want 2", got)
	}

	if got := readUint32(t, r); got != uint32(TagSet) {
		t.Fatal("expected Set step")
	}
	readString(t, r)
	readString(t, r)

	if got := readUint32(t, r); got != uint32(TagSequence) {
		t.Fatal("expected nested sequence tag")
	}
	if got := readUint32(t, r); got != 2 {
		t.Fatalf("inner step count = %d, want 2", got)
	}
	if got := readUint32(t, r); got != uint32(TagDelete) {
		t.Fatal("expected Delete step")
	}
	readString(t, r)
	if got := readUint32(t, r); got != uint32(TagDeletePrefix) {
		t.Fatal("expected DeletePrefix step")
	}
	readString(t, r)

	if r.Len() != 0 {
		t.Fatalf("%d trailing bytes", r.Len())
	}
}

func TestAssertAndReplaceOptionalValue(t *testing.T) {
	value := "expected"
	seq := New(Assert("k", &value), AssertExists("k2"), Replace("k3", nil))

	buf, err := seq.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bytes.NewReader([]byte(buf))
	readUint32(t, r) // outer tag
	if got := readUint32(t, r); got != 3 {
		t.Fatalf("step count = %d, want 3", got)
	}

	if got := readUint32(t, r); got != uint32(TagAssert) {
		t.Fatal("expected Assert step")
	}
	readString(t, r) // key
	present, err := wire.ReadBool(r)
	if err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if !present {
		t.Fatal("expected Assert's option(string) to be present")
	}
	if got := readString(t, r); got != value {
		t.Fatalf("assert value = %q, want %q", got, value)
	}

	if got := readUint32(t, r); got != uint32(TagAssertExists) {
		t.Fatal("expected AssertExists step")
	}
	readString(t, r)

	if got := readUint32(t, r); got != uint32(TagReplace) {
		t.Fatal("expected Replace step")
	}
	readString(t, r) // key
	present, err = wire.ReadBool(r)
	if err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if present {
		t.Fatal("expected Replace's nil wanted to serialise as absent")
	}
}
