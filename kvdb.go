package kvdb

import (
	"slices"

	"github.com/kvdb-io/kvdb/math32"
)

// DB is an embeddable vector store mapping string ids to fixed-dimension
// float32 vectors. Vectors are L2-normalized on insert and queried by cosine
// similarity (dot product over unit vectors).
//
// Storage is struct-of-arrays: the id list and one contiguous float32 buffer
// holding all vectors back to back, so the record at position i occupies
// data[i*dimension : (i+1)*dimension]. There is no per-record allocation and
// no index structure; search is an exhaustive scan.
//
// DB is NOT safe for concurrent use. It assumes a single logical owner
// mutating at a time; callers that share an instance across goroutines must
// serialize access themselves.
type DB struct {
	ids  []string
	data []float32

	// dimension is fixed by the first successful insert and never changes
	// afterwards, even if the store is emptied again through deletes.
	// Zero means no insert has succeeded yet; a real dimension is always >= 1
	// because empty vectors are rejected before the dimension is set.
	dimension int
}

// New creates an empty store with no dimension constraint. The dimension is
// locked in by the first successful Insert.
func New() *DB {
	return &DB{}
}

// Entry is an (id, vector) pair as stored.
type Entry struct {
	ID     string
	Vector []float32
}

// UpsertResult reports what an Insert did.
type UpsertResult struct {
	ID      string
	Updated bool // true when an existing record was overwritten
}

// BatchInsertResult carries per-item outcomes of a BatchInsert.
// Results[i] is only meaningful when Errors[i] is nil.
type BatchInsertResult struct {
	Results []UpsertResult
	Errors  []error
}

// Insert adds vector under id, or overwrites the existing record in place if
// id is already present (upsert). The vector is L2-normalized before storage;
// the raw input is never kept.
//
// The first successful insert establishes the store's dimension. Later
// inserts with a different length fail with *ErrDimensionMismatch and leave
// the store unchanged, as do normalization failures (ErrEmptyVector,
// ErrZeroVector).
func (db *DB) Insert(id string, vector []float32) (UpsertResult, error) {
	if db.dimension != 0 && len(vector) != db.dimension {
		return UpsertResult{}, &ErrDimensionMismatch{Expected: db.dimension, Actual: len(vector)}
	}

	norm, err := math32.NormalizeL2Copy(vector)
	if err != nil {
		return UpsertResult{}, err
	}

	// Lock in the dimension only after normalization succeeded, so a failed
	// first insert leaves the store truly untouched.
	if db.dimension == 0 {
		db.dimension = len(norm)
	}

	if i := slices.Index(db.ids, id); i >= 0 {
		copy(db.vector(i), norm)
		return UpsertResult{ID: id, Updated: true}, nil
	}

	db.ids = append(db.ids, id)
	db.data = append(db.data, norm...)

	return UpsertResult{ID: id, Updated: false}, nil
}

// BatchInsert inserts multiple entries in order. A failing entry records its
// error and does not abort the remaining entries.
func (db *DB) BatchInsert(entries []Entry) BatchInsertResult {
	result := BatchInsertResult{
		Results: make([]UpsertResult, len(entries)),
		Errors:  make([]error, len(entries)),
	}

	for i, e := range entries {
		result.Results[i], result.Errors[i] = db.Insert(e.ID, e.Vector)
	}

	return result
}

// Get returns a copy of the normalized vector stored under id. The second
// return value is false when the id is absent or the store was never written.
func (db *DB) Get(id string) ([]float32, bool) {
	if db.dimension == 0 {
		return nil, false
	}

	for i, stored := range db.ids {
		if stored == id {
			return slices.Clone(db.vector(i)), true
		}
	}

	return nil, false
}

// Delete removes the record with the given id. Records stored after it shift
// down by one record width, preserving relative order (no swap-with-last).
//
// Returns ErrEmptyStore when no dimension was ever established and
// ErrNotFound when the id is absent.
func (db *DB) Delete(id string) error {
	if db.dimension == 0 {
		return ErrEmptyStore
	}

	i := slices.Index(db.ids, id)
	if i < 0 {
		return ErrNotFound
	}

	db.ids = slices.Delete(db.ids, i, i+1)
	db.data = slices.Delete(db.data, i*db.dimension, (i+1)*db.dimension)

	return nil
}

// List returns all (id, vector) pairs in storage order: insertion order with
// deleted records removed, not re-sorted. Vectors are copies.
func (db *DB) List() []Entry {
	entries := make([]Entry, len(db.ids))
	for i, id := range db.ids {
		entries[i] = Entry{ID: id, Vector: slices.Clone(db.vector(i))}
	}

	return entries
}

// Count returns the number of stored records.
func (db *DB) Count() int {
	return len(db.ids)
}

// Dimension returns the established vector dimension, or 0 when no insert has
// succeeded yet. Once set it stays set, even after the store is emptied.
func (db *DB) Dimension() int {
	return db.dimension
}

// vector returns the backing slice for the record at position i.
// Callers must copy it before handing it out.
func (db *DB) vector(i int) []float32 {
	start := i * db.dimension
	return db.data[start : start+db.dimension]
}
