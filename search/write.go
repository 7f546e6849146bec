package search

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/docdex/codec"
)

// Container format for the serialized search index:
//
//  1. header (16 bytes): magic, version, compression, codec name length,
//     item count
//  2. codec name bytes
//  3. payload: codec-marshaled item list; block-framed when compressed
//  4. CRC32 (IEEE) of everything before it
//
// Persisted files are self-describing: the codec is selected by the name
// stored in the header, never assumed.
var containerMagic = [4]byte{'D', 'X', 'S', '1'}

const (
	formatVersion = uint16(1)
	headerSize    = 16
	trailerSize   = 4
	blockHdrSize  = 8
)

var (
	// ErrInvalidMagic is returned when the data is not a search index file.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for format versions this build cannot read.
	ErrInvalidVersion = errors.New("unsupported format version")
	// ErrUnknownCodec is returned when the named codec is not registered.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrTruncated is returned when the data ends before the format says it should.
	ErrTruncated = errors.New("truncated search index")
)

// ChecksumMismatchError is returned when the stored CRC32 does not match
// the recomputed one.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast decode in clients).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// WriteOption configures serialization.
type WriteOption func(*writeOptions)

type writeOptions struct {
	codec       codec.Codec
	compression Compression
}

// WithCodec selects the payload codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) WriteOption {
	return func(o *writeOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the payload compression. Defaults to CompressionNone,
// which also keeps the output bit-identical across builds.
func WithCompression(c Compression) WriteOption {
	return func(o *writeOptions) {
		o.compression = c
	}
}

// Write serializes items to w and returns the number of bytes written.
func Write(w io.Writer, items []Item, optFns ...WriteOption) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("search: writer is nil")
	}

	o := writeOptions{codec: codec.Default, compression: CompressionNone}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	codecName := o.codec.Name()
	if len(codecName) > 0xFFFF {
		return 0, fmt.Errorf("search: codec name too long: %d", len(codecName))
	}

	payload, err := o.codec.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("search: marshal items: %w", err)
	}

	block, err := compressPayload(payload, o.compression)
	if err != nil {
		return 0, fmt.Errorf("search: compress payload: %w", err)
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], containerMagic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], formatVersion)
	hdr[6] = byte(o.compression)
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(len(codecName)))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(items)))

	crc := crc32.NewIEEE()
	out := io.MultiWriter(w, crc)

	var written int64
	for _, chunk := range [][]byte{hdr[:], []byte(codecName), block} {
		n, err := out.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], crc.Sum32())
	n, err := w.Write(trailer[:])
	written += int64(n)
	return written, err
}

// Read parses a serialized search index and returns its items.
func Read(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize+trailerSize {
		return nil, ErrTruncated
	}
	if [4]byte(data[0:4]) != containerMagic {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	compression := Compression(data[6])
	nameLen := int(binary.LittleEndian.Uint16(data[8:10]))
	count := binary.LittleEndian.Uint32(data[12:16])

	body := data[:len(data)-trailerSize]
	if len(body) < headerSize+nameLen {
		return nil, ErrTruncated
	}

	expected := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	if actual := crc32.ChecksumIEEE(body); actual != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	codecName := string(body[headerSize : headerSize+nameLen])
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	payload, err := decompressPayload(body[headerSize+nameLen:], compression)
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := c.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("search: unmarshal items: %w", err)
	}
	if uint32(len(items)) != count {
		return nil, fmt.Errorf("search: item count mismatch: header %d, payload %d", count, len(items))
	}
	return items, nil
}

// compressPayload frames the payload for the chosen algorithm. Compressed
// payloads carry an 8-byte block header [uncompressed u32][compressed u32];
// compressed == 0 marks an incompressible payload stored verbatim.
func compressPayload(data []byte, compression Compression) ([]byte, error) {
	if compression == CompressionNone {
		return data, nil
	}

	var compressed []byte
	switch compression {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("search: unknown compression type %d", compression)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		block := make([]byte, blockHdrSize+len(data))
		binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
		copy(block[blockHdrSize:], data)
		return block, nil
	}

	block := make([]byte, blockHdrSize+len(compressed))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	copy(block[blockHdrSize:], compressed)
	return block, nil
}

func decompressPayload(block []byte, compression Compression) ([]byte, error) {
	if compression == CompressionNone {
		return block, nil
	}
	if len(block) < blockHdrSize {
		return nil, ErrTruncated
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])

	if compressedSize == 0 {
		if uint32(len(block)) < blockHdrSize+uncompressedSize {
			return nil, ErrTruncated
		}
		return block[blockHdrSize : blockHdrSize+uncompressedSize], nil
	}
	if uint32(len(block)) < blockHdrSize+compressedSize {
		return nil, ErrTruncated
	}

	data := block[blockHdrSize : blockHdrSize+compressedSize]
	out := make([]byte, uncompressedSize)

	switch compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("search: decompressed size mismatch: %d != %d", n, uncompressedSize)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(data, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("search: decompressed size mismatch: %d != %d", len(decoded), uncompressedSize)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("search: unknown compression type %d", compression)
	}
}
