package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	kvdb "github.com/kvdb-io/kvdb"
	"github.com/kvdb-io/kvdb/blobstore"
	miniostore "github.com/kvdb-io/kvdb/blobstore/minio"
	s3store "github.com/kvdb-io/kvdb/blobstore/s3"
)

// logger reports snapshot failures on stderr; successful commands already
// print their own confirmation, so Info-level noise stays suppressed.
var logger = kvdb.NewTextLogger(slog.LevelWarn)

// execute runs a parsed command against db and writes human-readable
// output. It returns the store to use afterwards: load replaces it,
// every other command returns db unchanged.
func execute(ctx context.Context, db *kvdb.DB, cmd Command, out io.Writer) (*kvdb.DB, error) {
	if cmd.Warning != "" {
		fmt.Fprintf(out, "warning: %s\n", cmd.Warning)
	}

	switch cmd.Name {
	case "insert":
		res, err := db.Insert(cmd.ID, cmd.Vector)
		if err != nil {
			return db, err
		}

		if res.Updated {
			fmt.Fprintf(out, "updated %q\n", cmd.ID)
		} else {
			fmt.Fprintf(out, "inserted %q\n", cmd.ID)
		}
	case "search":
		results, err := db.Search(cmd.Vector, cmd.TopK)
		if err != nil {
			return db, err
		}

		if len(results) == 0 {
			fmt.Fprintln(out, "no matches")
			return db, nil
		}

		for i, res := range results {
			fmt.Fprintf(out, "%d. %q score=%.4f\n", i+1, res.ID, res.Score)
		}
	case "get":
		v, ok := db.Get(cmd.ID)
		if !ok {
			fmt.Fprintf(out, "%q not found\n", cmd.ID)
			return db, nil
		}

		fmt.Fprintf(out, "%q %v\n", cmd.ID, v)
	case "delete":
		if err := db.Delete(cmd.ID); err != nil {
			return db, err
		}

		fmt.Fprintf(out, "deleted %q\n", cmd.ID)
	case "list":
		for _, entry := range db.List() {
			fmt.Fprintf(out, "%q %v\n", entry.ID, entry.Vector)
		}
	case "count":
		fmt.Fprintln(out, db.Count())
	case "save":
		err := saveStore(ctx, db, cmd.Path)
		logger.LogSnapshot(ctx, "save", cmd.Path, db.Count(), err)

		if err != nil {
			return db, err
		}

		fmt.Fprintf(out, "saved %d vectors to %s\n", db.Count(), cmd.Path)
	case "load":
		loaded, err := loadStore(ctx, cmd.Path)
		if err != nil {
			logger.LogSnapshot(ctx, "load", cmd.Path, 0, err)
			return db, err
		}

		fmt.Fprintf(out, "loaded %d vectors from %s\n", loaded.Count(), cmd.Path)

		return loaded, nil
	}

	return db, nil
}

// saveStore writes db to a local path or, for s3:// and minio:// URLs,
// to the corresponding object store.
func saveStore(ctx context.Context, db *kvdb.DB, path string) error {
	store, name, err := resolveBlobURL(ctx, path)
	if err != nil {
		return err
	}

	if store == nil {
		return db.Save(path)
	}

	return db.SaveTo(ctx, store, name)
}

func loadStore(ctx context.Context, path string) (*kvdb.DB, error) {
	store, name, err := resolveBlobURL(ctx, path)
	if err != nil {
		return nil, err
	}

	if store == nil {
		return kvdb.Load(path)
	}

	return kvdb.LoadFrom(ctx, store, name)
}

// resolveBlobURL maps an s3://bucket/key or minio://endpoint/bucket/key
// URL to a blob store and object name. A plain filesystem path yields a
// nil store.
func resolveBlobURL(ctx context.Context, path string) (blobstore.BlobStore, string, error) {
	switch {
	case strings.HasPrefix(path, "s3://"):
		u, err := url.Parse(path)
		if err != nil {
			return nil, "", fmt.Errorf("invalid s3 url %q: %w", path, err)
		}

		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("s3 url %q must be s3://bucket/key", path)
		}

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}

		return s3store.NewStore(awss3.NewFromConfig(cfg), u.Host, ""), key, nil
	case strings.HasPrefix(path, "minio://"):
		u, err := url.Parse(path)
		if err != nil {
			return nil, "", fmt.Errorf("invalid minio url %q: %w", path, err)
		}

		bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("minio url %q must be minio://endpoint/bucket/key", path)
		}

		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_SECURE") == "true",
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}

		return miniostore.NewStore(client, bucket, ""), key, nil
	default:
		return nil, "", nil
	}
}
