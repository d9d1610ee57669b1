package core

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// OtherTopicID is the topic assigned when no catalog entry matches a question.
const OtherTopicID = "other"

// ID is a content-derived identifier for domain entities.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source identifies where a document came from.
type Source string

const (
	SourceEmail Source = "email"
	SourceFile  Source = "file"
	SourceChat  Source = "chat"
)

// DocumentMetadata describes the origin of a document.
type DocumentMetadata struct {
	Source    Source
	SourceID  string
	URL       string
	CreatedAt string
	Author    string
}

// Document is a unit of free text submitted for ingestion.
// Documents are owned by the caller and are never mutated by the pipeline.
type Document struct {
	ID       string
	Text     string
	Metadata DocumentMetadata
}

// Question is a candidate FAQ question derived from a chunk.
type Question struct {
	Text      string
	Embedding Embedding
}

// DocumentChunk is a token-bounded slice of a document's text.
// TopicID is filled in by the ingester after its questions are classified.
type DocumentChunk struct {
	ID         string
	DocumentID string
	Chain      string
	Text       string
	Embedding  []float32
	Questions  []Question
	TopicID    string
	Metadata   DocumentMetadata
}

// StoredQuestionRecord is a persisted question, unique per (Chain, Question).
// Answer, QuestionEdited, Archived and Used are maintained by admin tooling.
type StoredQuestionRecord struct {
	Chain          string
	Question       string
	Embedding      []float32
	TopicID        string
	Answer         string
	QuestionEdited string
	Archived       bool
	Used           bool
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// Key returns the content ID of the record's (chain, question) pair.
func (r *StoredQuestionRecord) Key() ID {
	return IDFromContent(r.Chain + "\x00" + r.Question)
}

// SourceCursor records how many lines of a source have been ingested for a chain.
type SourceCursor struct {
	Chain             string
	SourceID          string
	LastLineProcessed int
	UpdatedAt         time.Time
}

// Topic is a global classification label.
type Topic struct {
	ID   string
	Name string
}

// MetadataFilter narrows vector store queries and deletes.
// Empty fields are ignored.
type MetadataFilter struct {
	DocumentID string
	Chain      string
	Source     Source
	SourceID   string
	Author     string
}

// IsEmpty reports whether no field of the filter is set.
func (f *MetadataFilter) IsEmpty() bool {
	return f == nil || *f == MetadataFilter{}
}

// Query is a natural-language retrieval request.
type Query struct {
	Query  string
	Filter *MetadataFilter
	TopK   int
}

// QueryWithEmbedding pairs a Query with the embedding of its (bannered) text.
type QueryWithEmbedding struct {
	Query
	Embedding []float32
}

// ChunkMatch is a single chunk returned by a similarity search.
type ChunkMatch struct {
	ID         string
	DocumentID string
	Chain      string
	Text       string
	TopicID    string
	Metadata   DocumentMetadata
	Score      float32
}

// QueryResult holds the ranked matches for one query.
type QueryResult struct {
	Query   string
	Results []ChunkMatch
}

// DeleteRequest selects chunks to remove from the vector store.
type DeleteRequest struct {
	IDs       []string
	Filter    *MetadataFilter
	DeleteAll bool
}
