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


// Package dedup suppresses near-duplicate question embeddings.
//
// A Deduplicator is built from the embeddings already stored for a chain and
// admits new candidates one at a time. A candidate is accepted only if its
// cosine similarity to every previously accepted candidate and to every stored
// embedding is at or below the threshold. Accepted candidates join the
// comparison set immediately, so within a batch the first of a group of
// near-duplicates wins.
//
// Comparison is exact and pairwise: O(batch * (batch + stored)) per call.
package dedup

// DefaultThreshold is the similarity above which two questions are duplicates.
const DefaultThreshold = 0.9

// Deduplicator holds the comparison sets for one ingestion call.
// It is not safe for concurrent use.
type Deduplicator struct {
	threshold float64
	stored    [][]float32
	accepted  [][]float32
	skipped   int
}

// Option configures a Deduplicator.
type Option func(*Deduplicator) error

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(d *Deduplicator) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		d.threshold = threshold
		return nil
	}
}

// New creates a Deduplicator over the stored embeddings of a chain.
// Empty and zero-norm stored embeddings are ignored.
func New(stored [][]float32, opts ...Option) (*Deduplicator, error) {
	d := &Deduplicator{
		threshold: DefaultThreshold,
		stored:    make([][]float32, 0, len(stored)),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	for _, v := range stored {
		if len(v) == 0 || isDegenerate(v) {
			d.skipped++
			continue
		}
		d.stored = append(d.stored, v)
	}
	return d, nil
}

// Admit decides whether candidate is novel.
// The in-batch accepted set is checked before the stored set.
// On acceptance the candidate is added to the accepted set.
func (d *Deduplicator) Admit(candidate []float32) (bool, error) {
	if len(candidate) == 0 || isDegenerate(candidate) {
		return false, ErrZeroNorm
	}

	dup, err := d.matchesAny(candidate, d.accepted)
	if err != nil || dup {
		return false, err
	}
	dup, err = d.matchesAny(candidate, d.stored)
	if err != nil || dup {
		return false, err
	}

	d.accepted = append(d.accepted, candidate)
	return true, nil
}

func (d *Deduplicator) matchesAny(candidate []float32, set [][]float32) (bool, error) {
	for _, other := range set {
		sim, err := CosineSimilarity(candidate, other)
		if err != nil {
			return false, err
		}
		if sim > d.threshold {
			return true, nil
		}
	}
	return false, nil
}

// Accepted returns the embeddings accepted so far, in acceptance order.
func (d *Deduplicator) Accepted() [][]float32 {
	return d.accepted
}

// StoredCount returns the number of usable stored embeddings.
func (d *Deduplicator) StoredCount() int {
	return len(d.stored)
}

// Skipped returns the number of stored embeddings ignored at construction.
func (d *Deduplicator) Skipped() int {
	return d.skipped
}

// Threshold returns the active similarity threshold.
func (d *Deduplicator) Threshold() float64 {
	return d.threshold
}
