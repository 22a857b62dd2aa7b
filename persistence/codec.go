package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/kvdb-io/kvdb/internal/hash"
)

// Options contains configuration options for the codec.
type Options struct {
	// Compression is the codec applied to the snapshot payload.
	Compression Compression
}

// DefaultOptions contains the default configuration options for the codec.
var DefaultOptions = Options{
	Compression: CompressionNone,
}

// WithCompression returns an option function selecting the payload codec.
func WithCompression(c Compression) func(o *Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// Encode serializes the whole snapshot to w: header first, then the payload
// (ids followed by the raw vector buffer), compressed per options. The codec
// always operates on the whole store; there is no incremental form.
func Encode(w io.Writer, snap *Snapshot, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if snap.Dimension != 0 && len(snap.IDs)*snap.Dimension != len(snap.Data) {
		return fmt.Errorf("persistence: snapshot invariant violated: %d ids x %d dims != %d floats",
			len(snap.IDs), snap.Dimension, len(snap.Data))
	}

	var payload bytes.Buffer

	cw, err := compressionWriter(&payload, opts.Compression)
	if err != nil {
		return err
	}

	bw := newBinaryWriter(cw)
	for _, id := range snap.IDs {
		if err := bw.writeString(id); err != nil {
			return err
		}
	}
	if err := bw.writeFloat32Slice(snap.Data); err != nil {
		return err
	}

	if err := cw.Close(); err != nil {
		return err
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(opts.Compression),
		Count:       uint64(len(snap.IDs)),
		Checksum:    hash.CRC32C(payload.Bytes()),
	}
	if snap.Dimension != 0 {
		header.HasDimension = 1
		header.Dimension = uint32(snap.Dimension)
	}

	if err := writeHeader(w, &header); err != nil {
		return err
	}

	_, err = w.Write(payload.Bytes())
	return err
}

// Decode reads a snapshot previously written by Encode. The payload checksum
// is verified before any of it is interpreted; beyond that, files are trusted
// and the snapshot's invariants hold by construction of the encoding.
func Decode(r io.Reader) (*Snapshot, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if hash.CRC32C(payload) != header.Checksum {
		return nil, ErrChecksum
	}

	pr, err := compressionReader(bytes.NewReader(payload), Compression(header.Compression))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	count := int(header.Count)

	dimension := 0
	if header.HasDimension == 1 {
		dimension = int(header.Dimension)
	} else if count > 0 {
		return nil, fmt.Errorf("%w: %d records without a dimension", ErrCorrupt, count)
	}

	br := newBinaryReader(pr)

	ids := make([]string, count)
	for i := range ids {
		id, err := br.readString()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		ids[i] = id
	}

	data, err := br.readFloat32Slice(count * dimension)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &Snapshot{IDs: ids, Data: data, Dimension: dimension}, nil
}

// SaveFile encodes the snapshot to path, replacing any existing file.
//
// The write is deliberately NOT crash-atomic: the file is created and written
// in place, so an interrupted save can leave a partial file behind. Callers
// that need atomicity must arrange their own temp-file-and-rename.
func SaveFile(path string, snap *Snapshot, optFns ...func(o *Options)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persistence: create %s: %w", path, err)
	}

	buf := bufio.NewWriterSize(f, 256*1024)

	if err := Encode(buf, snap, optFns...); err != nil {
		_ = f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// LoadFile decodes a snapshot from path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(bufio.NewReaderSize(f, 256*1024))
}

func writeHeader(w io.Writer, header *FileHeader) error {
	return binary.Write(w, binary.LittleEndian, header)
}

// compressionWriter wraps w per the selected codec. The returned WriteCloser
// must be closed to flush codec framing; closing it does not close w.
func compressionWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, c)
	}
}

func compressionReader(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionNone:
		return r, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
