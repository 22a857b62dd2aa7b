package kvdb

import (
	"bytes"
	"context"

	"github.com/kvdb-io/kvdb/blobstore"
	"github.com/kvdb-io/kvdb/persistence"
)

// Snapshot returns the store's serializable state. The returned snapshot
// aliases the store's backing slices; it is only valid until the next
// mutation and must not be modified.
func (db *DB) Snapshot() *persistence.Snapshot {
	return &persistence.Snapshot{
		IDs:       db.ids,
		Data:      db.data,
		Dimension: db.dimension,
	}
}

// fromSnapshot rebuilds a store from decoded state. The codec guarantees the
// store invariants by construction; trusted files get no extra validation.
func fromSnapshot(snap *persistence.Snapshot) *DB {
	return &DB{
		ids:       snap.IDs,
		data:      snap.Data,
		dimension: snap.Dimension,
	}
}

// Save serializes the whole store to path, replacing any existing file.
// See persistence.SaveFile for the (non-atomic) durability semantics.
func (db *DB) Save(path string, optFns ...func(o *persistence.Options)) error {
	return persistence.SaveFile(path, db.Snapshot(), optFns...)
}

// Load reads a store previously written by Save. A missing file yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (*DB, error) {
	snap, err := persistence.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return fromSnapshot(snap), nil
}

// SaveTo serializes the whole store into the named blob of a BlobStore.
func (db *DB) SaveTo(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *persistence.Options)) error {
	var buf bytes.Buffer
	if err := persistence.Encode(&buf, db.Snapshot(), optFns...); err != nil {
		return err
	}

	return store.Put(ctx, name, buf.Bytes())
}

// LoadFrom reads a store from the named blob of a BlobStore. A missing blob
// yields an error satisfying errors.Is(err, blobstore.ErrNotFound).
func LoadFrom(ctx context.Context, store blobstore.BlobStore, name string) (*DB, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	snap, err := persistence.Decode(rc)
	if err != nil {
		return nil, err
	}

	return fromSnapshot(snap), nil
}
