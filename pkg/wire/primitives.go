package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
)

// ReadUint32 reads a little-endian uint32, classifying transport
// failures per the socket-read error kinds (§7).
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WriteUint32 writes v little-endian.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return writeFull(w, buf[:])
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteUint64 writes v little-endian.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return writeFull(w, buf[:])
}

// ReadInt8 reads a single signed byte.
func ReadInt8(r io.Reader) (int8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

// WriteInt8 writes a single signed byte.
func WriteInt8(w io.Writer, v int8) error {
	return writeFull(w, []byte{byte(v)})
}

// ReadInt32 reads a little-endian int32.
func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// WriteInt32 writes v little-endian.
func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// ReadInt64 reads a little-endian int64.
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// WriteInt64 writes v little-endian.
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// ReadFloat64 reads an IEEE-754 double, little-endian.
func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteFloat64 writes an IEEE-754 double, little-endian.
func WriteFloat64(w io.Writer, v float64) error {
	return WriteUint64(w, math.Float64bits(v))
}

// ReadBool reads a single byte: 0x00 is false, 0x01 is true. Any other
// byte is a protocol violation.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return false, err
	}
	switch buf[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, arakoonerrors.SocketRead(arakoonerrors.KindSocketReadGeneric,
			fmt.Errorf("unexpected bool byte 0x%02x", buf[0]))
	}
}

// WriteBool writes v as a single byte.
func WriteBool(w io.Writer, v bool) error {
	if v {
		return writeFull(w, []byte{0x01})
	}
	return writeFull(w, []byte{0x00})
}

// ReadString reads a uint32 length followed by that many raw bytes.
func ReadString(r io.Reader) (string, error) {
	length, err := ReadUint32(r)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if err := readFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteString writes a uint32 length followed by the string's bytes.
func WriteString(w io.Writer, v string) error {
	if err := WriteUint32(w, uint32(len(v))); err != nil {
		return err
	}
	return writeFull(w, []byte(v))
}

// readFull fills buf completely, classifying the failure into the
// socket-read taxonomy: zero bytes on a fresh read is a clean close,
// a partial read against a closed connection is io.ErrUnexpectedEOF,
// and anything else is a generic transport error.
func readFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	switch {
	case err == io.EOF && n == 0:
		return arakoonerrors.SocketRead(arakoonerrors.KindSocketReadClosed, err)
	case err == io.ErrUnexpectedEOF:
		return arakoonerrors.SocketRead(arakoonerrors.KindSocketReadNoBytes, err)
	default:
		return arakoonerrors.SocketRead(arakoonerrors.KindSocketReadGeneric, err)
	}
}

func writeFull(w io.Writer, buf []byte) error {
	if _, err := w.Write(buf); err != nil {
		return arakoonerrors.SocketSend(err)
	}
	return nil
}
