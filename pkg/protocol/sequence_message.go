package protocol

import (
	"bufio"
	"io"

	"github.com/openvstorage/arakoon-go/pkg/sequence"
	"github.com/openvstorage/arakoon-go/pkg/wire"
)

// Sequence submits a transactional script for all-or-nothing
// execution. Synced additionally requires the server to fsync before
// acknowledging; both share the same argument and response shape, the
// tag is the only difference (§4.2).
type Sequence struct {
	Steps  *sequence.Sequence
	Synced bool
}

func (m Sequence) Tag() uint32 {
	if m.Synced {
		return tag(codeSyncedSequence)
	}
	return tag(codeSequence)
}

func (m Sequence) WriteArgs(w *bufio.Writer) error {
	buf, err := m.Steps.Build()
	if err != nil {
		return err
	}
	return wire.WriteString(w, buf)
}

func (m Sequence) ReadReturn(r io.Reader) (struct{}, error) {
	return ReadResponse(r, readUnit)
}
