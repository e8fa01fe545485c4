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

package persistence

import (
	"context"
	"errors"
)

var (
	// ErrSequenceConflict is returned when an appended event does not carry a
	// sequence number strictly greater than the latest one of its stream.
	ErrSequenceConflict = errors.New("persistence: sequence number conflict")

	// ErrJournalClosed is returned when the journal is used before Connect or after Disconnect.
	ErrJournalClosed = errors.New("persistence: journal is closed")
)

// Event is a single entry of an append-only event stream.
type Event struct {
	// PersistenceID identifies the stream the event belongs to
	PersistenceID string `cbor:"1,keyasint"`
	// SequenceNumber orders the events of a stream, starting at 1
	SequenceNumber uint64 `cbor:"2,keyasint"`
	// Manifest names the payload type
	Manifest string `cbor:"3,keyasint"`
	// Payload is the serialized event
	Payload []byte `cbor:"4,keyasint"`
	// Timestamp is the unix time in milliseconds the event was written at
	Timestamp int64 `cbor:"5,keyasint"`
}

// Journal is the durable event log used to recover state after a restart.
//
// Implementations must be safe for concurrent use. A stream has a single
// writer: appending a sequence number that is not strictly greater than the
// latest one of the stream fails with ErrSequenceConflict.
type Journal interface {
	// Connect opens the journal
	Connect(ctx context.Context) error
	// Disconnect closes the journal
	Disconnect(ctx context.Context) error
	// Append writes the event at the end of its stream
	Append(ctx context.Context, event *Event) error
	// Replay returns the events of the stream with a sequence number greater than or
	// equal to fromSequenceNumber, ordered by sequence number
	Replay(ctx context.Context, persistenceID string, fromSequenceNumber uint64) ([]*Event, error)
	// LatestSequenceNumber returns the sequence number of the last event of the stream or zero
	LatestSequenceNumber(ctx context.Context, persistenceID string) (uint64, error)
}
