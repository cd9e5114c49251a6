package bridge

import (
	"encoding/json"

	"github.com/go-drift/statesync/pkg/record"
	"github.com/go-drift/statesync/pkg/state"
)

// Codec converts between live states and wire-format change records.
type Codec interface {
	// EncodeState reduces a state to a change record document.
	EncodeState(st state.State) ([]byte, error)

	// DecodeRecord parses a change record document.
	DecodeRecord(data []byte) (record.Record, error)
}

// JsonCodec implements Codec using JSON encoding.
// JSON prioritizes interoperability with browser and notebook front-ends.
type JsonCodec struct{}

// EncodeState snapshots st, reduces the snapshot, and serializes it.
func (c JsonCodec) EncodeState(st state.State) ([]byte, error) {
	enc, err := record.Encode(record.Snapshot(st))
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// DecodeRecord deserializes a change record. Empty input decodes to an
// empty record, which applies as a no-op.
func (c JsonCodec) DecodeRecord(data []byte) (record.Record, error) {
	if len(data) == 0 {
		return record.Record{}, nil
	}
	var rec record.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DefaultCodec is the codec slots use unless one is supplied.
var DefaultCodec Codec = JsonCodec{}
