package badger

import (
	"encoding/binary"

	"github.com/poiesic/faqtory/core"
)

// Key prefixes for different data types
const (
	cursorPrefix   = "cursor"
	questionPrefix = "qrec"
	topicPrefix    = "topic"
)

// Chain and source ids are separated by a NUL byte so that a chain's
// keys form a contiguous range that no other chain's keys fall into.
const sep = 0

// makeChainPrefix generates the key prefix shared by every record of a chain.
// Format: prefix:chain\x00
func makeChainPrefix(prefix, chain string) []byte {
	buf := make([]byte, 0, len(prefix)+len(chain)+2)
	buf = append(buf, prefix...)
	buf = append(buf, ':')
	buf = append(buf, chain...)
	return append(buf, sep)
}

// makeCursorKey generates a key for a source cursor.
// Format: cursor:chain\x00sourceID
func makeCursorKey(chain, sourceID string) []byte {
	return append(makeChainPrefix(cursorPrefix, chain), sourceID...)
}

// makeQuestionKey generates a key for a question record.
// Format: qrec:chain\x00<8-byte content id>
func makeQuestionKey(chain string, id core.ID) []byte {
	buf := makeChainPrefix(questionPrefix, chain)
	// BigEndian keeps the id sortable
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makeTopicKey generates a key for a topic.
func makeTopicKey(id string) []byte {
	return []byte(topicPrefix + ":" + id)
}

// makeTopicPrefix generates the prefix shared by all topics.
func makeTopicPrefix() []byte {
	return []byte(topicPrefix + ":")
}
