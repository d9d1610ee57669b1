package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/faqtory/core"
)

func TestQuestionRecordSurvivesEncoding(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := &core.StoredQuestionRecord{
		Chain:          "acme",
		Question:       "How do I reset my password?",
		Embedding:      []float32{0.1, -0.2, 0.3},
		TopicID:        "account",
		Answer:         "Use the reset link.",
		QuestionEdited: "How can I reset my password?",
		Archived:       true,
		Used:           true,
		InsertedAt:     now,
		UpdatedAt:      now.Add(time.Minute),
	}

	data, err := MarshalQuestion(record)
	require.NoError(t, err)

	decoded, err := UnmarshalQuestion(data)
	require.NoError(t, err)
	assert.Equal(t, record.Question, decoded.Question)
	assert.Equal(t, record.Embedding, decoded.Embedding)
	assert.Equal(t, record.QuestionEdited, decoded.QuestionEdited)
	assert.True(t, decoded.Archived)
	assert.True(t, decoded.InsertedAt.Equal(now))
	assert.True(t, decoded.UpdatedAt.Equal(now.Add(time.Minute)))
	assert.Equal(t, record.Key(), decoded.Key())
}

func TestCursorAndTopicEncoding(t *testing.T) {
	cursorData, err := MarshalCursor(&core.SourceCursor{Chain: "acme", SourceID: "telegram", LastLineProcessed: 270})
	require.NoError(t, err)
	cursor, err := UnmarshalCursor(cursorData)
	require.NoError(t, err)
	assert.Equal(t, 270, cursor.LastLineProcessed)
	assert.Equal(t, "telegram", cursor.SourceID)

	topicData, err := MarshalTopic(&core.Topic{ID: "fees", Name: "Fees"})
	require.NoError(t, err)
	topic, err := UnmarshalTopic(topicData)
	require.NoError(t, err)
	assert.Equal(t, &core.Topic{ID: "fees", Name: "Fees"}, topic)
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		fn   func([]byte) error
	}{
		{"empty question", []byte{}, func(b []byte) error { _, err := UnmarshalQuestion(b); return err }},
		{"truncated question", []byte{0x8a, 0xa5}, func(b []byte) error { _, err := UnmarshalQuestion(b); return err }},
		{"garbage cursor", []byte{0xc1}, func(b []byte) error { _, err := UnmarshalCursor(b); return err }},
		{"wrong type topic", []byte{0x2a}, func(b []byte) error { _, err := UnmarshalTopic(b); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.fn(tt.data), ErrSerializationFailed)
		})
	}
}
