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

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// CursorRepository implements storage.CursorRepository for BadgerDB.
type CursorRepository struct {
	backend *Backend
}

var _ storage.CursorRepository = (*CursorRepository)(nil)

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository(backend *Backend) (storage.CursorRepository, error) {
	return newCursorRepository(backend)
}

func newCursorRepository(backend *Backend) (*CursorRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &CursorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CursorRepository has no resources to release.
func (r *CursorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CursorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetCursor returns the last processed line for a source, or 0 if none is stored.
func (r *CursorRepository) GetCursor(ctx context.Context, chain, sourceID string) (int, error) {
	var line int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		val, err := getValue(tx, makeCursorKey(chain, sourceID))
		if err != nil || val == nil {
			return err
		}
		cursor, err := storage.UnmarshalCursor(val)
		if err != nil {
			return err
		}
		line = cursor.LastLineProcessed
		return nil
	}, false)
	if err != nil {
		return 0, fmt.Errorf("reading cursor for %s/%s: %w", chain, sourceID, err)
	}
	return line, nil
}

// SetCursor overwrites the cursor for a source.
func (r *CursorRepository) SetCursor(ctx context.Context, chain, sourceID string, line int) error {
	if line < 0 {
		return fmt.Errorf("%w: negative cursor %d", storage.ErrInvalidQuery, line)
	}
	cursor := &core.SourceCursor{
		Chain:             chain,
		SourceID:          sourceID,
		LastLineProcessed: line,
		UpdatedAt:         time.Now().UTC(),
	}
	value, err := storage.MarshalCursor(cursor)
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCursorKey(chain, sourceID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListCursors returns every cursor of a chain ordered by source id.
func (r *CursorRepository) ListCursors(ctx context.Context, chain string) ([]*core.SourceCursor, error) {
	var cursors []*core.SourceCursor
	err := r.backend.scanPrefix(makeChainPrefix(cursorPrefix, chain), func(val []byte) error {
		cursor, err := storage.UnmarshalCursor(val)
		if err != nil {
			return err
		}
		cursors = append(cursors, cursor)
		return nil
	})
	return cursors, err
}
