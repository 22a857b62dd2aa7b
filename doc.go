// Package kvdb is an embeddable vector similarity store. It maps string ids
// to fixed-dimension float32 vectors, L2-normalizes them on write, and
// answers k-nearest-neighbor queries by cosine similarity, computed as a dot
// product over the unit-normalized vectors.
//
// The engine is deliberately exact and exhaustive: every search scans all
// stored vectors, there is no approximate index, and a bounded heap keeps the
// best k candidates. That keeps the store small and predictable for
// collections that fit comfortably in memory.
//
// # Quick start
//
//	db := kvdb.New()
//
//	if _, err := db.Insert("a", []float32{3, 4}); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := db.Search([]float32{1, 0}, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Score)
//	}
//
// # Persistence
//
// The whole store round-trips through a compact binary snapshot:
//
//	err := db.Save("store.kvdb")
//	db, err = kvdb.Load("store.kvdb")
//
// Snapshots can optionally be zstd- or lz4-compressed (see the persistence
// package) and written to object storage instead of local disk (see the
// blobstore package and DB.SaveTo/LoadFrom).
//
// # Concurrency
//
// DB is single-threaded by design: no internal locking, no background work.
// One logical owner mutates a store at a time. The bundled HTTP server gets
// request isolation by reloading the snapshot per request, which makes
// concurrent mutations of the same file last-save-wins; see package server.
package kvdb
