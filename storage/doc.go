// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for faqtory.
//
// This package defines repository interfaces that decouple storage implementation
// from the ingestion and retrieval logic.
//
// # Constructor Return Type Pattern
//
// Public constructors in the backend packages return these interfaces:
//
//	cursors, err := badger.NewCursorRepository(backend)  // returns storage.CursorRepository
//
// Internal package constructors (newQuestionRepository, etc.) may return
// concrete types since they're only used within the implementation package.
//
// # Architecture
//
//   - CursorRepository: per (chain, source) ingestion offsets
//   - QuestionRepository: accepted questions, keyed by (chain, question)
//   - TopicRepository: the global topic catalog
//   - VectorStore: document chunks and similarity search
//
// The first three are served by BadgerDB (storage/badger). The topic catalog
// can also live in Redis (storage/redis) so several ingesters share it.
// Chunks live in a chromem-go collection (storage/chromem).
//
// Records are encoded with msgpack.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
