package protocol

import (
	"bufio"
	"io"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/wire"
)

// Mask is OR'd with a message's low-16-bit code to produce its stable
// 32-bit wire tag.
const Mask uint32 = 0xB1FF0000

// ProtocolVersion is the value sent in the prologue. The source ships
// a fixed integer here; the exact value is a deployment concern tied
// to the server version targeted, so ClusterConfig may override it —
// this is only the default.
const ProtocolVersion uint32 = 1

// Message describes one request: its wire tag, how to serialize its
// arguments, and how to parse the payload that follows a zero response
// code into its return type R.
type Message[R any] interface {
	Tag() uint32
	WriteArgs(w *bufio.Writer) error
	ReadReturn(r io.Reader) (R, error)
}

// WritePrologue writes the handshake every new connection sends before
// its first request: the mask, the protocol version, and the cluster
// id the connection expects to talk to.
func WritePrologue(w *bufio.Writer, protocolVersion uint32, clusterID string) error {
	if err := wire.WriteUint32(w, Mask); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(w, clusterID); err != nil {
		return err
	}
	return w.Flush()
}

// WriteRequest writes a message's tag followed by its arguments, and
// flushes so the bytes reach the wire atomically from the caller's
// perspective.
func WriteRequest[R any](w *bufio.Writer, m Message[R]) error {
	if err := wire.WriteUint32(w, m.Tag()); err != nil {
		return err
	}
	if err := m.WriteArgs(w); err != nil {
		return err
	}
	return w.Flush()
}

// ReadResponse reads the common response frame — an int32 code
// followed by either the payload (code == 0, parsed by readPayload) or
// a string error message (demultiplexed via errors.FromCode) — shared
// by every message in the catalogue.
func ReadResponse[R any](r io.Reader, readPayload func(io.Reader) (R, error)) (R, error) {
	var zero R

	code, err := wire.ReadInt32(r)
	if err != nil {
		return zero, err
	}
	if code != 0 {
		message, err := wire.ReadString(r)
		if err != nil {
			return zero, err
		}
		return zero, arakoonerrors.FromCode(code, message)
	}
	return readPayload(r)
}

// Dispatch writes m's request and reads its response over rw, the
// minimal round trip every orchestrator call performs once a
// connection is established.
func Dispatch[R any](rw *bufio.ReadWriter, m Message[R]) (R, error) {
	var zero R
	if err := WriteRequest(rw.Writer, m); err != nil {
		return zero, err
	}
	return m.ReadReturn(rw.Reader)
}
