package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is written into every structured record.
const SchemaVersion = 1

var ErrSchemaMismatch = errors.New("record schema mismatch")

type envelope struct {
	Schema int             `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

func encodeRecord(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(envelope{Schema: SchemaVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRecord(s string, v interface{}) error {
	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return err
	}
	if env.Schema != SchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, env.Schema, SchemaVersion)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("record has no data")
	}
	return json.Unmarshal(env.Data, v)
}
