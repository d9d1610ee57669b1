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


package badger

import "github.com/poiesic/faqtory/storage"

// MemoryRepositories bundles in-memory repositories sharing one backend.
type MemoryRepositories struct {
	Cursors   storage.CursorRepository
	Questions storage.QuestionRepository
	Topics    storage.TopicRepository
	Backend   *Backend
}

// Close closes the repositories and the backend.
func (m *MemoryRepositories) Close() error {
	m.Cursors.Close()
	m.Questions.Close()
	m.Topics.Close()
	return m.Backend.Close()
}

// NewMemoryRepositories creates in-memory cursor, question and topic repositories for testing.
// Caller must Close the result when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	cursors, err := NewCursorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	questions, err := NewQuestionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	topics, err := NewTopicRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Cursors:   cursors,
		Questions: questions,
		Topics:    topics,
		Backend:   backend,
	}, nil
}
