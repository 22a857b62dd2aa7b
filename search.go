package kvdb

import (
	"slices"

	"github.com/kvdb-io/kvdb/internal/queue"
	"github.com/kvdb-io/kvdb/math32"
)

// SearchResult is one search match. Score is the cosine similarity between
// the normalized query and the stored vector, in [-1, 1].
type SearchResult struct {
	ID     string
	Vector []float32
	Score  float32
}

// Search returns the topK stored vectors most similar to query, ordered by
// descending score. Ties on equal score order by storage position, so results
// are deterministic for identical stores.
//
// The query is L2-normalized first; every stored record is then scored by dot
// product in one exhaustive scan while a bounded heap keeps the best topK
// candidates. Cost is O(count*dimension) for scoring plus O(count*log topK)
// for selection; nothing is indexed or cached between calls.
//
// The result always has min(topK, Count()) entries. Search fails with
// ErrEmptyStore before the first successful insert, *ErrDimensionMismatch
// when the query length differs from the store dimension, and the
// normalization errors for empty or zero queries.
func (db *DB) Search(query []float32, topK int) ([]SearchResult, error) {
	if db.dimension == 0 {
		return nil, ErrEmptyStore
	}

	if len(query) != db.dimension {
		return nil, &ErrDimensionMismatch{Expected: db.dimension, Actual: len(query)}
	}

	q, err := math32.NormalizeL2Copy(query)
	if err != nil {
		return nil, err
	}

	k := min(topK, len(db.ids))
	if k <= 0 {
		return nil, nil
	}

	top := queue.NewBounded(k)

	for i := range db.ids {
		// Lengths are equal by the store invariant, so the dot product
		// cannot fail here.
		score, _ := math32.Dot(db.vector(i), q)
		top.Push(queue.Candidate{Position: i, Score: score})
	}

	results := make([]SearchResult, 0, k)
	for _, c := range top.Descending() {
		results = append(results, SearchResult{
			ID:     db.ids[c.Position],
			Vector: slices.Clone(db.vector(c.Position)),
			Score:  c.Score,
		})
	}

	return results, nil
}
