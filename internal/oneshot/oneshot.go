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
	"errors"
	"sync"
)

// ErrClosed is returned by Receiver.Recv when the sender side was closed
// without delivering a value.
var ErrClosed = errors.New("oneshot: channel closed without a value")

// Sender is the write half of a single-use channel. At most one value is ever
// delivered; every call after the first Send or Close is a no-op.
//
// The underlying channel has capacity one, so Send never blocks even when the
// receiver has gone away.
type Sender[T any] struct {
	once sync.Once
	ch   chan T
}

// Receiver is the read half of a single-use channel.
type Receiver[T any] struct {
	once  sync.Once
	ch    chan T
	value T
	err   error
}

// New creates a single-use channel and returns both of its halves.
//
// Example usage:
//
//	tx, rx := oneshot.New[[]byte]()
//	go func() {
//	    defer tx.Close()
//	    tx.Send(compute())
//	}()
//	value, err := rx.Recv(ctx)
func New[T any]() (*Sender[T], *Receiver[T]) {
	ch := make(chan T, 1)
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

// Send delivers the value and closes the channel. It returns false when the
// channel was already used.
func (s *Sender[T]) Send(value T) bool {
	sent := false
	s.once.Do(func() {
		s.ch <- value
		close(s.ch)
		sent = true
	})
	return sent
}

// Close closes the channel without a value when nothing has been sent yet.
// The receiver then observes ErrClosed.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		close(s.ch)
	})
}

// Recv blocks until a value is delivered, the channel is closed without a
// value or the context is done. The outcome is memoized: calling Recv again
// returns the same result.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	r.once.Do(func() {
		select {
		case value, ok := <-r.ch:
			if !ok {
				r.err = ErrClosed
				return
			}
			r.value = value
		case <-ctx.Done():
			r.err = ctx.Err()
		}
	})
	return r.value, r.err
}
