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

package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	bbolt "go.etcd.io/bbolt"

	"github.com/tochemey/goshard/persistence"
)

const fileMode os.FileMode = 0o600

var defaultOptions = &bbolt.Options{Timeout: 5 * time.Second, NoGrowSync: true}

// Journal stores event streams in a BoltDB file. Every stream lives in its own
// bucket keyed by the big-endian sequence number, so that a cursor walks the
// events in order.
//
// bbolt allows a single writer at a time; the sequence check and the write
// happen in the same update transaction.
type Journal struct {
	path string

	mu sync.RWMutex
	db *bbolt.DB
}

// enforce compilation error
var _ persistence.Journal = (*Journal)(nil)

// NewJournal creates a Journal backed by the BoltDB file at the given path.
// The file is created on Connect when it does not exist.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Connect opens the underlying database
func (j *Journal) Connect(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db != nil {
		return nil
	}

	options := *defaultOptions
	db, err := bbolt.Open(j.path, fileMode, &options)
	if err != nil {
		return fmt.Errorf("persistence: opening boltdb: %w", err)
	}
	j.db = db
	return nil
}

// Disconnect closes the underlying database. The file is kept.
func (j *Journal) Disconnect(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Append writes the event at the end of its stream
func (j *Journal) Append(ctx context.Context, event *persistence.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytea, err := cbor.Marshal(event)
	if err != nil {
		return fmt.Errorf("persistence: encoding event: %w", err)
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return persistence.ErrJournalClosed
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(event.PersistenceID))
		if err != nil {
			return err
		}

		if last, _ := bucket.Cursor().Last(); last != nil && decodeKey(last) >= event.SequenceNumber {
			return fmt.Errorf("(persistenceID=%s, sequenceNumber=%d) %w", event.PersistenceID, event.SequenceNumber, persistence.ErrSequenceConflict)
		}

		return bucket.Put(encodeKey(event.SequenceNumber), bytea)
	})
}

// Replay returns the events of the stream from the given sequence number (inclusive)
func (j *Journal) Replay(ctx context.Context, persistenceID string, fromSequenceNumber uint64) ([]*persistence.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return nil, persistence.ErrJournalClosed
	}

	var events []*persistence.Event
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(persistenceID))
		if bucket == nil {
			return nil
		}

		cursor := bucket.Cursor()
		for key, value := cursor.Seek(encodeKey(fromSequenceNumber)); key != nil; key, value = cursor.Next() {
			event := new(persistence.Event)
			if err := cbor.Unmarshal(value, event); err != nil {
				return fmt.Errorf("persistence: decoding event=(%d): %w", decodeKey(key), err)
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// LatestSequenceNumber returns the sequence number of the last event of the stream
func (j *Journal) LatestSequenceNumber(ctx context.Context, persistenceID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return 0, persistence.ErrJournalClosed
	}

	var latest uint64
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(persistenceID))
		if bucket == nil {
			return nil
		}
		if last, _ := bucket.Cursor().Last(); last != nil {
			latest = decodeKey(last)
		}
		return nil
	})
	return latest, err
}

func encodeKey(seqNr uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seqNr)
	return key
}

func decodeKey(key []byte) uint64 {
	if len(key) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(key)
}
