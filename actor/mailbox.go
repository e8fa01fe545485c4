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

package actor

import (
	"context"

	"github.com/Workiva/go-datastructures/queue"

	"github.com/tochemey/goshard/internal/oneshot"
)

// reply is what an Ask-initiated message yields
type reply struct {
	value any
	err   error
}

// request is the unit stored in a mailbox
type request struct {
	ctx     context.Context
	message any
	// replyTo is nil for a fire-and-forget message
	replyTo *oneshot.Sender[reply]
}

// mailbox is an unbounded FIFO queue with blocking dequeue.
//
// It is safe for multiple producers and a single consumer. Once disposed every
// enqueue fails and the pending requests are handed back to the caller.
type mailbox struct {
	underlying *queue.Queue
}

func newMailbox(hint int64) *mailbox {
	return &mailbox{underlying: queue.New(hint)}
}

// enqueue places the given request in the mailbox.
func (m *mailbox) enqueue(req *request) error {
	return m.underlying.Put(req)
}

// dequeue blocks until a request is available or the mailbox is disposed.
func (m *mailbox) dequeue() (*request, bool) {
	items, err := m.underlying.Get(1)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	req, ok := items[0].(*request)
	return req, ok
}

// dispose unblocks the consumer and returns the requests that were never processed.
func (m *mailbox) dispose() []*request {
	items := m.underlying.Dispose()
	pending := make([]*request, 0, len(items))
	for _, item := range items {
		if req, ok := item.(*request); ok {
			pending = append(pending, req)
		}
	}
	return pending
}

// len returns a snapshot of the number of pending requests
func (m *mailbox) len() int64 {
	return m.underlying.Len()
}
