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

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tochemey/goshard/persistence"
)

// Journal keeps event streams in memory. It is meant for tests and
// single process setups that do not need to survive a process restart.
type Journal struct {
	mu        sync.RWMutex
	streams   map[string][]*persistence.Event
	connected bool
}

// enforce compilation error
var _ persistence.Journal = (*Journal)(nil)

// NewJournal creates an instance of Journal
func NewJournal() *Journal {
	return &Journal{
		streams: make(map[string][]*persistence.Event),
	}
}

// Connect opens the journal
func (j *Journal) Connect(context.Context) error {
	j.mu.Lock()
	j.connected = true
	j.mu.Unlock()
	return nil
}

// Disconnect closes the journal. The stored events are kept so that the same
// instance can be reconnected.
func (j *Journal) Disconnect(context.Context) error {
	j.mu.Lock()
	j.connected = false
	j.mu.Unlock()
	return nil
}

// Append writes the event at the end of its stream
func (j *Journal) Append(ctx context.Context, event *persistence.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.connected {
		return persistence.ErrJournalClosed
	}

	events := j.streams[event.PersistenceID]
	if n := len(events); n > 0 && events[n-1].SequenceNumber >= event.SequenceNumber {
		return fmt.Errorf("(persistenceID=%s, sequenceNumber=%d) %w", event.PersistenceID, event.SequenceNumber, persistence.ErrSequenceConflict)
	}

	clone := *event
	clone.Payload = append([]byte(nil), event.Payload...)
	j.streams[event.PersistenceID] = append(events, &clone)
	return nil
}

// Replay returns the events of the stream from the given sequence number (inclusive)
func (j *Journal) Replay(ctx context.Context, persistenceID string, fromSequenceNumber uint64) ([]*persistence.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if !j.connected {
		return nil, persistence.ErrJournalClosed
	}

	events := j.streams[persistenceID]
	start := sort.Search(len(events), func(i int) bool {
		return events[i].SequenceNumber >= fromSequenceNumber
	})

	replayed := make([]*persistence.Event, 0, len(events)-start)
	for _, event := range events[start:] {
		clone := *event
		replayed = append(replayed, &clone)
	}
	return replayed, nil
}

// LatestSequenceNumber returns the sequence number of the last event of the stream
func (j *Journal) LatestSequenceNumber(ctx context.Context, persistenceID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if !j.connected {
		return 0, persistence.ErrJournalClosed
	}

	events := j.streams[persistenceID]
	if len(events) == 0 {
		return 0, nil
	}
	return events[len(events)-1].SequenceNumber, nil
}
