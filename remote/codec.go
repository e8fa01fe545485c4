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
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec turns an Envelope or a Reply into a wire frame and back.
// Values are encoded as a CBOR map and optionally compressed.
type Codec struct {
	compression Compression
	compressor  compressor
	encMode     cbor.EncMode
	decMode     cbor.DecMode
}

// NewCodec creates a Codec using the given compression
func NewCodec(compression Compression) (*Codec, error) {
	compressor, err := newCompressor(compression)
	if err != nil {
		return nil, err
	}

	encMode, err := cborEncOpts.EncMode()
	if err != nil {
		return nil, err
	}

	decMode, err := cborDecOpts.DecMode()
	if err != nil {
		return nil, err
	}

	return &Codec{
		compression: compression,
		compressor:  compressor,
		encMode:     encMode,
		decMode:     decMode,
	}, nil
}

// Compression returns the compression algorithm used by the codec
func (c *Codec) Compression() Compression {
	return c.compression
}

// Encode returns the wire frame of the given envelope
func (c *Codec) Encode(envelope *Envelope) ([]byte, error) {
	return c.encode("envelope", envelope)
}

// Decode reads an envelope from the given wire frame
func (c *Codec) Decode(frame []byte) (*Envelope, error) {
	envelope := new(Envelope)
	if err := c.decode("envelope", frame, envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}

// EncodeReply returns the wire frame of the given reply
func (c *Codec) EncodeReply(reply *Reply) ([]byte, error) {
	return c.encode("reply", reply)
}

// DecodeReply reads a reply from the given wire frame
func (c *Codec) DecodeReply(frame []byte) (*Reply, error) {
	reply := new(Reply)
	if err := c.decode("reply", frame, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Codec) encode(what string, v any) ([]byte, error) {
	bytea, err := c.encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("remote: encoding %s: %w", what, err)
	}

	frame, err := c.compressor.compress(bytea)
	if err != nil {
		return nil, fmt.Errorf("remote: compressing %s with %s: %w", what, c.compression, err)
	}
	return frame, nil
}

func (c *Codec) decode(what string, frame []byte, v any) error {
	bytea, err := c.compressor.decompress(frame)
	if err != nil {
		return fmt.Errorf("remote: decompressing %s with %s: %w", what, c.compression, err)
	}

	if err := c.decMode.Unmarshal(bytea, v); err != nil {
		return fmt.Errorf("remote: decoding %s: %w", what, err)
	}
	return nil
}

// Close releases the resources held by the compressor
func (c *Codec) Close() {
	if closer, ok := c.compressor.(interface{ close() }); ok {
		closer.close()
	}
}
