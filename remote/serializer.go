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
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// Serializer encodes the messages carried by an Envelope and the replies
// returned to the caller. The concrete type to decode into is always known by
// the receiving side, hence the encoding does not need to be self-describing.
//
// A single Serializer instance is called from multiple goroutines concurrently.
type Serializer interface {
	// Marshal encodes the given value
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into the value pointed to by v
	Unmarshal(data []byte, v any) error
}

var (
	// ErrNilMessage is returned when a nil message is serialized
	ErrNilMessage = errors.New("remote: message is nil")

	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// CBORSerializer is the default Serializer. It encodes values using the
// Concise Binary Object Representation. It is stateless and safe for concurrent use.
type CBORSerializer struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// enforce compilation error
var _ Serializer = (*CBORSerializer)(nil)

// NewCBORSerializer returns a ready-to-use CBORSerializer
func NewCBORSerializer() *CBORSerializer {
	encMode, _ := cborEncOpts.EncMode()
	decMode, _ := cborDecOpts.DecMode()
	return &CBORSerializer{encMode: encMode, decMode: decMode}
}

// Marshal encodes the given value
func (s *CBORSerializer) Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, ErrNilMessage
	}
	return s.encMode.Marshal(v)
}

// Unmarshal decodes data into the value pointed to by v
func (s *CBORSerializer) Unmarshal(data []byte, v any) error {
	return s.decMode.Unmarshal(data, v)
}
