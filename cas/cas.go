// Package cas is an in-memory content-addressed store for serializable values
// and the compiled-program cache built on it.
package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

var ErrNotFound = errors.New("hash not found in CAS")

// Retrieve decodes the entry stored under hash into a new T. The entry must
// have been stored from a *T.
func Retrieve[T any, PT interface {
	*T
	Hashable
}](c CAS, hash Hash) (PT, error) {
	var zero PT
	v, ok := c.(directStore)
	if !ok {
		return zero, errors.New("CAS does not support direct retrieval")
	}
	has, data, err := v.getValue(hash)
	if err != nil {
		return zero, err
	}
	if !has {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}

	entry := &TypedEntry{}
	err = entry.Deserialize(bytes.NewReader(data))
	if err != nil {
		return zero, fmt.Errorf("deserializing TypedEntry: %w", err)
	}
	out := PT(new(T))
	if tag := typeTag(out); entry.TypeTag != tag {
		return zero, fmt.Errorf("type mismatch: expected %s, got %s", tag, entry.TypeTag)
	}
	err = out.Deserialize(bytes.NewReader(entry.Data))
	if err != nil {
		return zero, fmt.Errorf("deserializing data: %w", err)
	}
	return out, nil
}
