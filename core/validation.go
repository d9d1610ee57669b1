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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Metadata.Source must be empty or a known Source
//
// NOT validated:
//   - ID (assigned by the ingester when empty)
//   - Text (empty text simply yields no new lines)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if err := ValidateSource(doc.Metadata.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// ValidateSource accepts the empty source and the known sources.
func ValidateSource(source Source) error {
	switch source {
	case "", SourceEmail, SourceFile, SourceChat:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSource, source)
}

// ValidateQuestionRecord validates a StoredQuestionRecord.
//
// Validation rules:
//   - Chain must not be empty
//   - Question must not be empty
//
// Embedding and TopicID may be empty for records imported by admin tooling.
func ValidateQuestionRecord(record *StoredQuestionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidQuestionRecord)
	}
	if record.Chain == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestionRecord, ErrEmptyChain)
	}
	if record.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestionRecord, ErrEmptyQuestion)
	}
	return nil
}

// ValidateTopic validates a Topic.
func ValidateTopic(topic *Topic) error {
	if topic == nil {
		return fmt.Errorf("%w: topic is nil", ErrInvalidTopic)
	}
	if topic.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTopic, ErrEmptyTopicID)
	}
	if topic.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTopic, ErrEmptyTopicName)
	}
	return nil
}

// ValidateDeleteRequest requires at least one of IDs, a non-empty Filter, or DeleteAll.
func ValidateDeleteRequest(req *DeleteRequest) error {
	if req == nil || (len(req.IDs) == 0 && req.Filter.IsEmpty() && !req.DeleteAll) {
		return ErrInvalidDeleteRequest
	}
	return nil
}
