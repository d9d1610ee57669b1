package storage

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/poiesic/faqtory/core"
)

func marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

func unmarshal[T any](data []byte) (*T, error) {
	var v T
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &v, nil
}

// MarshalQuestion serializes a StoredQuestionRecord to bytes.
func MarshalQuestion(record *core.StoredQuestionRecord) ([]byte, error) {
	return marshal(record)
}

// UnmarshalQuestion deserializes a StoredQuestionRecord from bytes.
func UnmarshalQuestion(data []byte) (*core.StoredQuestionRecord, error) {
	return unmarshal[core.StoredQuestionRecord](data)
}

// MarshalCursor serializes a SourceCursor to bytes.
func MarshalCursor(cursor *core.SourceCursor) ([]byte, error) {
	return marshal(cursor)
}

// UnmarshalCursor deserializes a SourceCursor from bytes.
func UnmarshalCursor(data []byte) (*core.SourceCursor, error) {
	return unmarshal[core.SourceCursor](data)
}

// MarshalTopic serializes a Topic to bytes.
func MarshalTopic(topic *core.Topic) ([]byte, error) {
	return marshal(topic)
}

// UnmarshalTopic deserializes a Topic from bytes.
func UnmarshalTopic(data []byte) (*core.Topic, error) {
	return unmarshal[core.Topic](data)
}
