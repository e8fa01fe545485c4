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

package oneshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOneshot(t *testing.T) {
	t.Run("With a delivered value", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		tx, rx := New[string]()
		go func() {
			assert.True(t, tx.Send("pong"))
		}()

		value, err := rx.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "pong", value)

		// memoized
		value, err = rx.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "pong", value)
	})
	t.Run("With closed without value", func(t *testing.T) {
		tx, rx := New[[]byte]()
		tx.Close()
		value, err := rx.Recv(context.Background())
		require.ErrorIs(t, err, ErrClosed)
		assert.Nil(t, value)
	})
	t.Run("With only the first delivery accepted", func(t *testing.T) {
		tx, rx := New[int]()
		assert.True(t, tx.Send(1))
		assert.False(t, tx.Send(2))
		tx.Close()
		value, err := rx.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})
	t.Run("With concurrent senders", func(t *testing.T) {
		tx, rx := New[int]()
		var wg sync.WaitGroup
		delivered := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				delivered <- tx.Send(i)
			}(i)
		}
		wg.Wait()
		close(delivered)

		count := 0
		for ok := range delivered {
			if ok {
				count++
			}
		}
		assert.Equal(t, 1, count)
		_, err := rx.Recv(context.Background())
		require.NoError(t, err)
	})
	t.Run("With context canceled", func(t *testing.T) {
		_, rx := New[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := rx.Recv(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("With send after the receiver is gone", func(t *testing.T) {
		tx, _ := New[int]()
		assert.True(t, tx.Send(1))
	})
}
