package sequence

import (
	"bufio"
	"bytes"

	arakoonerrors "github.com/openvstorage/arakoon-go/pkg/errors"
	"github.com/openvstorage/arakoon-go/pkg/wire"
)

// Tag is a step's wire discriminator (§4.3).
type Tag uint32

const (
	TagSet          Tag = 1
	TagDelete       Tag = 2
	TagSequence     Tag = 5
	TagAssert       Tag = 8
	TagDeletePrefix Tag = 14
	TagAssertExists Tag = 15
	TagReplace      Tag = 16
)

// Step is one entry in a sequence tree.
type Step interface {
	step()
	serialize(w *bufio.Writer) error
}

type setStep struct{ key, value string }

func (setStep) step() {}
func (s setStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagSet)); err != nil {
		return err
	}
	if err := wire.WriteString(w, s.key); err != nil {
		return err
	}
	return wire.WriteString(w, s.value)
}

// Set writes key to value.
func Set(key, value string) Step { return setStep{key: key, value: value} }

type deleteStep struct{ key string }

func (deleteStep) step() {}
func (s deleteStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagDelete)); err != nil {
		return err
	}
	return wire.WriteString(w, s.key)
}

// Delete removes key.
func Delete(key string) Step { return deleteStep{key: key} }

type deletePrefixStep struct{ prefix string }

func (deletePrefixStep) step() {}
func (s deletePrefixStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagDeletePrefix)); err != nil {
		return err
	}
	return wire.WriteString(w, s.prefix)
}

// DeletePrefix removes every key starting with prefix.
func DeletePrefix(prefix string) Step { return deletePrefixStep{prefix: prefix} }

type assertStep struct {
	key   string
	value *string
}

func (assertStep) step() {}
func (s assertStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagAssert)); err != nil {
		return err
	}
	if err := wire.WriteString(w, s.key); err != nil {
		return err
	}
	return writeOptionalString(w, s.value)
}

// Assert fails the whole sequence unless key currently holds value (or
// is absent, when value is nil).
func Assert(key string, value *string) Step { return assertStep{key: key, value: value} }

type assertExistsStep struct{ key string }

func (assertExistsStep) step() {}
func (s assertExistsStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagAssertExists)); err != nil {
		return err
	}
	return wire.WriteString(w, s.key)
}

// AssertExists fails the whole sequence unless key is present.
func AssertExists(key string) Step { return assertExistsStep{key: key} }

type replaceStep struct {
	key    string
	wanted *string
}

func (replaceStep) step() {}
func (s replaceStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagReplace)); err != nil {
		return err
	}
	if err := wire.WriteString(w, s.key); err != nil {
		return err
	}
	return writeOptionalString(w, s.wanted)
}

// Replace writes key to wanted, or deletes it when wanted is nil.
func Replace(key string, wanted *string) Step { return replaceStep{key: key, wanted: wanted} }

type nestedStep struct{ steps []Step }

func (nestedStep) step() {}
func (s nestedStep) serialize(w *bufio.Writer) error {
	if err := wire.WriteUint32(w, uint32(TagSequence)); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, uint32(len(s.steps))); err != nil {
		return err
	}
	for _, child := range s.steps {
		if err := child.serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func writeOptionalString(w *bufio.Writer, v *string) error {
	if v == nil {
		return wire.WriteOption(w, "", false, wire.WriteString)
	}
	return wire.WriteOption(w, *v, true, wire.WriteString)
}

// Sequence is a transactional script: a list of Steps executed
// all-or-nothing by the cluster. It is itself a Step, so sequences
// nest.
type Sequence struct {
	steps []Step
}

// New builds a Sequence from the given steps, in order.
func New(steps ...Step) *Sequence {
	return &Sequence{steps: steps}
}

// Add appends a step, returning the sequence for chaining.
func (s *Sequence) Add(step Step) *Sequence {
	s.steps = append(s.steps, step)
	return s
}

func (s *Sequence) step() {}

func (s *Sequence) serialize(w *bufio.Writer) error {
	return nestedStep{steps: s.steps}.serialize(w)
}

// Build serialises the sequence tree into the byte buffer the
// Sequence/SyncedSequence message wraps as its single `string`
// argument.
func (s *Sequence) Build() (string, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := s.serialize(w); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", arakoonerrors.SocketSend(err)
	}
	return buf.String(), nil
}
