/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package remote

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression represents the compression algorithm applied to encoded envelopes.
// Both ends of a transport must agree on the algorithm.
type Compression int

const (
	// NoCompression leaves the encoded envelope untouched
	NoCompression Compression = iota
	// GzipCompression uses gzip (RFC 1952)
	GzipCompression
	// ZstdCompression uses Zstandard (RFC 8878)
	ZstdCompression
	// BrotliCompression uses Brotli (RFC 7932)
	BrotliCompression
)

// String returns the name of the compression algorithm
func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case GzipCompression:
		return "gzip"
	case ZstdCompression:
		return "zstd"
	case BrotliCompression:
		return "brotli"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// compressor compresses and decompresses whole frames
type compressor interface {
	compress(data []byte) ([]byte, error)
	decompress(data []byte) ([]byte, error)
}

func newCompressor(compression Compression) (compressor, error) {
	switch compression {
	case NoCompression:
		return identity{}, nil
	case GzipCompression:
		return gzipCompressor{}, nil
	case ZstdCompression:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		return &zstdCompressor{encoder: encoder, decoder: decoder}, nil
	case BrotliCompression:
		return brotliCompressor{}, nil
	default:
		return nil, fmt.Errorf("remote: unsupported compression=(%d)", int(compression))
	}
}

type identity struct{}

func (identity) compress(data []byte) ([]byte, error)   { return data, nil }
func (identity) decompress(data []byte) ([]byte, error) { return data, nil }

// zstdCompressor uses the stateless EncodeAll/DecodeAll entry points which
// are safe for concurrent use.
type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *zstdCompressor) compress(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (z *zstdCompressor) decompress(data []byte) ([]byte, error) {
	return z.decoder.DecodeAll(data, nil)
}

func (z *zstdCompressor) close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

type gzipCompressor struct{}

func (gzipCompressor) compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := gzip.NewWriter(buf)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCompressor) decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

type brotliCompressor struct{}

func (brotliCompressor) compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := brotli.NewWriterLevel(buf, brotli.DefaultCompression)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (brotliCompressor) decompress(data []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
}
