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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/goshard/persistence"
)

func newEvent(persistenceID string, seqNr uint64) *persistence.Event {
	return &persistence.Event{
		PersistenceID:  persistenceID,
		SequenceNumber: seqNr,
		Manifest:       "shardallocated",
		Payload:        []byte{byte(seqNr)},
		Timestamp:      time.Now().UnixMilli(),
	}
}

func TestJournal(t *testing.T) {
	t.Run("With append and replay", func(t *testing.T) {
		ctx := context.Background()
		journal := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, journal.Connect(ctx))
		t.Cleanup(func() { _ = journal.Disconnect(ctx) })

		for i := uint64(1); i <= 300; i++ {
			require.NoError(t, journal.Append(ctx, newEvent("stream", i)))
		}

		latest, err := journal.LatestSequenceNumber(ctx, "stream")
		require.NoError(t, err)
		assert.EqualValues(t, 300, latest)

		// keys must sort numerically, past the single byte boundary
		events, err := journal.Replay(ctx, "stream", 250)
		require.NoError(t, err)
		require.Len(t, events, 51)
		assert.EqualValues(t, 250, events[0].SequenceNumber)
		assert.EqualValues(t, 300, events[50].SequenceNumber)
		assert.Equal(t, "shardallocated", events[0].Manifest)

		events, err = journal.Replay(ctx, "unknown", 1)
		require.NoError(t, err)
		assert.Empty(t, events)

		latest, err = journal.LatestSequenceNumber(ctx, "unknown")
		require.NoError(t, err)
		assert.Zero(t, latest)
	})
	t.Run("With sequence conflict", func(t *testing.T) {
		ctx := context.Background()
		journal := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, journal.Connect(ctx))
		t.Cleanup(func() { _ = journal.Disconnect(ctx) })

		require.NoError(t, journal.Append(ctx, newEvent("stream", 1)))
		require.ErrorIs(t, journal.Append(ctx, newEvent("stream", 1)), persistence.ErrSequenceConflict)

		events, err := journal.Replay(ctx, "stream", 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
	})
	t.Run("With events durable across reopen", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "journal.db")

		journal := NewJournal(path)
		require.NoError(t, journal.Connect(ctx))
		require.NoError(t, journal.Append(ctx, newEvent("stream", 1)))
		require.NoError(t, journal.Append(ctx, newEvent("stream", 2)))
		require.NoError(t, journal.Disconnect(ctx))

		_, err := journal.Replay(ctx, "stream", 1)
		require.ErrorIs(t, err, persistence.ErrJournalClosed)
		require.ErrorIs(t, journal.Append(ctx, newEvent("stream", 3)), persistence.ErrJournalClosed)

		reopened := NewJournal(path)
		require.NoError(t, reopened.Connect(ctx))
		t.Cleanup(func() { _ = reopened.Disconnect(ctx) })

		events, err := reopened.Replay(ctx, "stream", 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, []byte{2}, events[1].Payload)
		require.ErrorIs(t, reopened.Append(ctx, newEvent("stream", 2)), persistence.ErrSequenceConflict)
	})
}
