package object

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is the chosen 160-bit digest primitive
)

// ErrCorruptObject marks a decompression or parse failure on stored data.
var ErrCorruptObject = errors.New("corrupt object")

const (
	initialDecompressChunk = 32 * 1024
	maxDecompressedSize    = 256 * 1024 * 1024
)

// HashBytes computes the raw 160-bit digest of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	h := ripemd160.New()
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashObject computes the digest of the canonical envelope
// "type len\0content".
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := ripemd160.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Compress deflates data with zlib framing. The codec is pure: no state,
// no I/O beyond the in-memory buffer.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream produced by Compress. It does not
// assume an output size: it reads into a chunk buffer that doubles whenever
// a read fills it completely (a short-buffer signal that more data is
// likely pending), until the stream ends or maxDecompressedSize is
// exceeded, at which point it fails with ErrCorruptObject.
func Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open zlib stream: %v", ErrCorruptObject, err)
	}
	defer zr.Close()

	var out []byte
	chunk := make([]byte, initialDecompressChunk)
	for {
		n, err := zr.Read(chunk)
		if n > 0 {
			out = append(out, chunk[:n]...)
			if len(out) > maxDecompressedSize {
				return nil, fmt.Errorf("%w: decompressed object exceeds %d bytes", ErrCorruptObject, maxDecompressedSize)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
		}
		if n == len(chunk) && len(chunk) < maxDecompressedSize {
			chunk = make([]byte, len(chunk)*2)
		}
	}
	return out, nil
}
