package protocol

import (
	"bufio"
	"bytes"
	"testing"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/wire"
)

func TestTagMasking(t *testing.T) {
	m := Hello{ClientID: "c", ClusterID: "cl"}
	if m.Tag() != (codeHello | Mask) {
		t.Fatalf("Tag() = %#x, want %#x", m.Tag(), codeHello|Mask)
	}
	if m.Tag()&Mask != Mask {
		t.Fatal("expected tag to carry the mask's high bits")
	}
}

func TestWritePrologue(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := WritePrologue(w, ProtocolVersion, "my-cluster"); err != nil {
		t.Fatalf("WritePrologue: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	mask, err := wire.ReadUint32(r)
	if err != nil || mask != Mask {
		t.Fatalf("mask = %#x, err = %v", mask, err)
	}
	version, err := wire.ReadUint32(r)
	if err != nil || version != ProtocolVersion {
		t.Fatalf("version = %d, err = %v", version, err)
	}
	clusterID, err := wire.ReadString(r)
	if err != nil || clusterID != "my-cluster" {
		t.Fatalf("clusterID = %q, err = %v", clusterID, err)
	}
}

func TestGetRoundTrip(t *testing.T) {
	var wireBuf bytes.Buffer
	w := bufio.NewWriter(&wireBuf)

	m := Get{Consistency: wire.Consistent(), Key: "some-key"}
	if err := WriteRequest(w, m); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}

	r := bytes.NewReader(wireBuf.Bytes())
	gotTag, err := wire.ReadUint32(r)
	if err != nil || gotTag != m.Tag() {
		t.Fatalf("tag = %#x, err = %v", gotTag, err)
	}
	gotConsistency, err := wire.ReadConsistency(r)
	if err != nil || gotConsistency != wire.Consistent() {
		t.Fatalf("consistency = %+v, err = %v", gotConsistency, err)
	}
	gotKey, err := wire.ReadString(r)
	if err != nil || gotKey != "some-key" {
		t.Fatalf("key = %q, err = %v", gotKey, err)
	}

	// Simulate a successful server response and parse it back.
	var respBuf bytes.Buffer
	respW := bufio.NewWriter(&respBuf)
	wire.WriteInt32(respW, 0)
	wire.WriteString(respW, "some-value")
	respW.Flush()

	got, err := m.ReadReturn(bytes.NewReader(respBuf.Bytes()))
	if err != nil {
		t.Fatalf("ReadReturn: %v", err)
	}
	if got != "some-value" {
		t.Fatalf("value = %q", got)
	}
}

func TestReadResponseErrorCode(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	wire.WriteInt32(w, 0x05) // NotFound
	wire.WriteString(w, "key absent")
	w.Flush()

	_, err := ReadResponse(bytes.NewReader(buf.Bytes()), wire.ReadString)
	if !arakoonerrors.IsNotFound(err) {
		t.Fatalf("expected NotFound error, got %v", err)
	}
}

func TestWhoMasterAbsent(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	wire.WriteInt32(w, 0)
	wire.WriteBool(w, false)
	w.Flush()

	m := WhoMaster{}
	got, err := m.ReadReturn(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadReturn: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}
}

func TestVersionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	wire.WriteInt32(w, 0)
	wire.WriteInt32(w, 1)
	wire.WriteInt32(w, 9)
	wire.WriteInt32(w, 3)
	wire.WriteString(w, "build-info")
	w.Flush()

	m := Version{}
	got, err := m.ReadReturn(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadReturn: %v", err)
	}
	want := VersionInfo{Major: 1, Minor: 9, Patch: 3, Build: "build-info"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
