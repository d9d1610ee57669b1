package core

// Embedding is an optional embedding vector.
// The zero value holds no vector.
type Embedding struct {
	vector []float32
	valid  bool
}

// None returns an Embedding with no vector.
func None() Embedding {
	return Embedding{}
}

// Some wraps a vector. An empty vector yields None.
func Some(vector []float32) Embedding {
	if len(vector) == 0 {
		return Embedding{}
	}
	return Embedding{vector: vector, valid: true}
}

// Get returns the vector and whether one is present.
func (e Embedding) Get() ([]float32, bool) {
	return e.vector, e.valid
}

// IsSome reports whether a vector is present.
func (e Embedding) IsSome() bool {
	return e.valid
}
