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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidQuestionRecord indicates a StoredQuestionRecord failed validation.
	ErrInvalidQuestionRecord = errors.New("invalid question record")

	// ErrInvalidTopic indicates a Topic failed validation.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidDeleteRequest indicates a DeleteRequest selects nothing.
	ErrInvalidDeleteRequest = errors.New("one of ids, filter, or delete_all is required")

	// ErrEmptyChain indicates the chain is empty.
	ErrEmptyChain = errors.New("chain cannot be empty")

	// ErrEmptyQuestion indicates the question text is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyTopicID indicates the topic ID is empty.
	ErrEmptyTopicID = errors.New("topic id cannot be empty")

	// ErrEmptyTopicName indicates the topic name is empty.
	ErrEmptyTopicName = errors.New("topic name cannot be empty")

	// ErrInvalidSource indicates an unknown document source.
	ErrInvalidSource = errors.New("invalid document source")
)
