// Package persistence implements the binary snapshot codec for whole-store
// serialization: a fixed header, length-prefixed ids and the raw float32
// buffer, with optional payload compression and a CRC32-C payload checksum.
package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unsafe"
)

// maxIDLength bounds a single id on decode so a corrupt length prefix cannot
// trigger a huge allocation.
const maxIDLength = 1 << 20

// binaryWriter writes the snapshot payload in little-endian order.
type binaryWriter struct {
	w       io.Writer
	order   binary.ByteOrder
	scratch [4]byte
}

func newBinaryWriter(w io.Writer) *binaryWriter {
	return &binaryWriter{
		w:     w,
		order: binary.LittleEndian, // native on x86/ARM
	}
}

// writeString writes a uint32 length prefix followed by the raw bytes.
func (bw *binaryWriter) writeString(s string) error {
	bw.order.PutUint32(bw.scratch[:], uint32(len(s)))
	if _, err := bw.w.Write(bw.scratch[:]); err != nil {
		return err
	}

	_, err := io.WriteString(bw.w, s)
	return err
}

// writeFloat32Slice writes vec as raw bytes without copying, reinterpreting
// the backing array. Assumes a little-endian host.
func (bw *binaryWriter) writeFloat32Slice(vec []float32) error {
	if len(vec) == 0 {
		return nil
	}

	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&vec[0])), len(vec)*4)
	_, err := bw.w.Write(byteSlice)
	return err
}

// binaryReader reads the snapshot payload.
type binaryReader struct {
	r       io.Reader
	order   binary.ByteOrder
	scratch [4]byte
}

func newBinaryReader(r io.Reader) *binaryReader {
	return &binaryReader{
		r:     r,
		order: binary.LittleEndian,
	}
}

func (br *binaryReader) readString() (string, error) {
	if _, err := io.ReadFull(br.r, br.scratch[:]); err != nil {
		return "", err
	}

	n := br.order.Uint32(br.scratch[:])
	if n > maxIDLength {
		return "", fmt.Errorf("id length %d exceeds limit", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

func (br *binaryReader) readFloat32Slice(count int) ([]float32, error) {
	if count == 0 {
		return nil, nil
	}

	vec := make([]float32, count)
	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&vec[0])), count*4)
	if _, err := io.ReadFull(br.r, byteSlice); err != nil {
		return nil, err
	}

	return vec, nil
}

// readHeader reads and validates the fixed file header.
func readHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if Compression(header.Compression) > CompressionLZ4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, header.Compression)
	}
	if header.Count > math.MaxInt32 {
		return nil, fmt.Errorf("%w: implausible record count %d", ErrCorrupt, header.Count)
	}
	return &header, nil
}
