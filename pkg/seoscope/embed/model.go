package embed

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotInVocabulary is returned for tokens below the minimum count.
var ErrNotInVocabulary = errors.New("token not in vocabulary")

// Model is a trained embedding space. It is read-only once built.
type Model struct {
	dim   int
	words []string
	index map[string]int32
	// unit holds the L2-normalised vectors, row-major.
	unit []float32
}

// Neighbor is a token and its cosine similarity to the query.
type Neighbor struct {
	Token      string
	Similarity float64
}

func newModel(v *vocab, syn0 []float32, dim int) *Model {
	m := &Model{
		dim:   dim,
		words: v.words,
		index: v.index,
		unit:  make([]float32, len(syn0)),
	}
	for i := range v.words {
		row := syn0[i*dim : i*dim+dim]
		norm := float32(math.Sqrt(float64(dot(row, row))))
		if norm == 0 {
			continue
		}
		dst := m.unit[i*dim : i*dim+dim]
		for j := range row {
			dst[j] = row[j] / norm
		}
	}
	return m
}

// Len returns the vocabulary size.
func (m *Model) Len() int { return len(m.words) }

// Dim returns the vector dimensionality.
func (m *Model) Dim() int { return m.dim }

// Words returns the vocabulary, most frequent first.
func (m *Model) Words() []string {
	return append([]string(nil), m.words...)
}

// Contains reports whether tok is queryable.
func (m *Model) Contains(tok string) bool {
	_, ok := m.index[tok]
	return ok
}

// Vector returns a copy of tok's unit vector.
func (m *Model) Vector(tok string) ([]float32, bool) {
	i, ok := m.index[tok]
	if !ok {
		return nil, false
	}
	return append([]float32(nil), m.row(i)...), true
}

func (m *Model) row(i int32) []float32 {
	return m.unit[int(i)*m.dim : int(i)*m.dim+m.dim]
}

// Similarity returns the cosine similarity of two tokens.
func (m *Model) Similarity(a, b string) (float64, error) {
	ia, ok := m.index[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInVocabulary, a)
	}
	ib, ok := m.index[b]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInVocabulary, b)
	}
	return float64(dot(m.row(ia), m.row(ib))), nil
}

// MostSimilar returns up to n tokens closest to tok by cosine similarity,
// excluding tok itself. Equal similarities keep vocabulary order.
func (m *Model) MostSimilar(tok string, n int) ([]Neighbor, error) {
	q, ok := m.index[tok]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotInVocabulary, tok)
	}
	if n <= 0 {
		return nil, nil
	}

	query := m.row(q)
	out := make([]Neighbor, 0, len(m.words)-1)
	for i, w := range m.words {
		if int32(i) == q {
			continue
		}
		out = append(out, Neighbor{Token: w, Similarity: float64(dot(query, m.row(int32(i))))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
