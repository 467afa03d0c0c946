package cas

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
)

// TypedEntry is what the store actually holds: an item's encoding tagged with
// its Go type, so Retrieve can refuse to decode it as something else.
type TypedEntry struct {
	TypeTag string
	Data    []byte
}

func (t *TypedEntry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, t)
}

func (t *TypedEntry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, t)
}

func typeTag(item Hashable) string {
	return fmt.Sprintf("%T", item)
}

// encodeEntry serializes item inside a TypedEntry.
func encodeEntry(item Hashable) ([]byte, error) {
	var data bytes.Buffer
	err := item.Serialize(&data)
	if err != nil {
		return nil, err
	}
	entry := &TypedEntry{TypeTag: typeTag(item), Data: data.Bytes()}
	var buf bytes.Buffer
	err = entry.Serialize(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
