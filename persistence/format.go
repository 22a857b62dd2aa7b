package persistence

import "errors"

const (
	// MagicNumber identifies kvdb snapshot files (ASCII: "KVD1").
	MagicNumber = 0x4B564431
	// Version is the current snapshot format version (v1.0.0).
	Version = 0x00010000
)

// Compression selects the codec applied to the snapshot payload.
// The chosen codec is recorded in the file header, so Decode never needs to
// be told which one was used.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd compresses the payload with zstd.
	CompressionZstd
	// CompressionLZ4 compresses the payload with lz4.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMagic       = errors.New("persistence: invalid magic number")
	ErrInvalidVersion     = errors.New("persistence: unsupported version")
	ErrInvalidCompression = errors.New("persistence: unknown compression codec")
	ErrChecksum           = errors.New("persistence: checksum mismatch")
	ErrCorrupt            = errors.New("persistence: corrupt snapshot")
)

// FileHeader is the fixed-size header at the start of every snapshot file.
// It is always written uncompressed; Checksum covers the (possibly
// compressed) payload that follows it.
type FileHeader struct {
	Magic        uint32 // 0x4B564431 ("KVD1")
	Version      uint32 // File format version
	Compression  uint8  // Payload compression codec
	HasDimension uint8  // 1 when a dimension has been established
	Reserved     [2]byte
	Count        uint64 // Number of stored records
	Dimension    uint32 // Vector dimensionality (0 when HasDimension == 0)
	Checksum     uint32 // CRC32-C of the payload bytes
}

// Snapshot is the serializable state of a store: the ordered id list, the
// flat vector buffer and the optional established dimension (0 = unset).
// IDs and Data obey len(IDs)*Dimension == len(Data) whenever Dimension != 0.
type Snapshot struct {
	IDs       []string
	Data      []float32
	Dimension int
}
