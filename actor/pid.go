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
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/oneshot"
	"github.com/tochemey/goshard/log"
)

// PID is a live reference to a local actor.
//
// A PID is safe for concurrent use. Messages sent through a PID are processed
// by the actor one at a time, in the order a given sender enqueued them.
type PID struct {
	id     ID
	name   string
	actor  Actor
	system *actorSystem
	logger log.Logger

	mailbox        *mailbox
	running        atomic.Bool
	processedCount atomic.Int64
	failureCount   atomic.Int64

	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
}

func newPID(id ID, name string, actor Actor, system *actorSystem) *PID {
	return &PID{
		id:      id,
		name:    name,
		actor:   actor,
		system:  system,
		logger:  system.logger.With("actor", name),
		mailbox: newMailbox(system.mailboxHint),
		done:    make(chan struct{}),
	}
}

// ID returns the actor unique identifier
func (pid *PID) ID() ID {
	return pid.id
}

// Name returns the actor name
func (pid *PID) Name() string {
	return pid.name
}

// Actor returns the underlying actor instance
func (pid *PID) Actor() Actor {
	return pid.actor
}

// Kind returns the type tag of the underlying actor
func (pid *PID) Kind() string {
	return Kind(pid.actor)
}

// IsRunning returns true when the actor is alive and ready to process messages
func (pid *PID) IsRunning() bool {
	return pid != nil && pid.running.Load()
}

// ProcessedCount returns the number of messages processed so far
func (pid *PID) ProcessedCount() int64 {
	return pid.processedCount.Load()
}

// FailureCount returns the number of messages whose processing panicked
func (pid *PID) FailureCount() int64 {
	return pid.failureCount.Load()
}

// MailboxSize returns a snapshot of the number of pending messages
func (pid *PID) MailboxSize() int64 {
	return pid.mailbox.len()
}

// String returns the string representation of the PID
func (pid *PID) String() string {
	return fmt.Sprintf("%s@%s", pid.name, pid.id)
}

// Tell sends an asynchronous message to the actor.
func (pid *PID) Tell(ctx context.Context, message any) error {
	if !pid.IsRunning() {
		return gerrors.ErrDead
	}
	if err := pid.mailbox.enqueue(&request{ctx: context.WithoutCancel(ctx), message: message}); err != nil {
		return gerrors.ErrDead
	}
	return nil
}

// Ask sends a synchronous message to the actor and awaits its reply within the given timeout.
func (pid *PID) Ask(ctx context.Context, message any, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		return nil, gerrors.ErrInvalidTimeout
	}

	if !pid.IsRunning() {
		return nil, gerrors.ErrDead
	}

	tx, rx := oneshot.New[reply]()
	if err := pid.mailbox.enqueue(&request{ctx: ctx, message: message, replyTo: tx}); err != nil {
		return nil, gerrors.ErrDead
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := rx.Recv(cctx)
	switch {
	case err == nil:
		return result.value, result.err
	case errors.Is(err, oneshot.ErrClosed):
		return nil, gerrors.ErrNoResponse
	case errors.Is(err, context.DeadlineExceeded):
		return nil, gerrors.ErrRequestTimeout
	default:
		return nil, err
	}
}

// Stop stops the actor. Pending messages are dropped and their askers receive ErrDead.
// Stop waits for the message being processed to complete, therefore it must
// not be called from the actor's own Receive.
func (pid *PID) Stop(ctx context.Context) error {
	pid.stopOnce.Do(func() {
		pid.running.Store(false)
		for _, req := range pid.mailbox.dispose() {
			if req.replyTo != nil {
				req.replyTo.Send(reply{err: gerrors.ErrDead})
			}
		}

		<-pid.done

		pid.system.remove(pid)
		if err := pid.actor.PostStop(ctx); err != nil {
			pid.stopErr = fmt.Errorf("failed to stop actor=(%s): %w", pid.name, err)
		}
		pid.logger.Debugf("actor=(%s) stopped", pid.name)
	})
	return pid.stopErr
}

// start runs the PreStart hook and spins the mailbox loop
func (pid *PID) start(ctx context.Context) error {
	if err := pid.actor.PreStart(ctx); err != nil {
		close(pid.done)
		return gerrors.NewErrInitFailure(err)
	}

	pid.running.Store(true)
	go pid.run()
	return nil
}

// run drains the mailbox until it is disposed
func (pid *PID) run() {
	defer close(pid.done)
	for {
		req, ok := pid.mailbox.dequeue()
		if !ok {
			return
		}
		pid.handle(req)
	}
}

// handle processes a single request. A panicking Receive is recovered and
// reported to the asker.
func (pid *PID) handle(req *request) {
	rctx := newReceiveContext(req.ctx, req.message, pid)

	func() {
		defer func() {
			if r := recover(); r != nil {
				pid.failureCount.Inc()
				var err error
				switch v := r.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				rctx.err = gerrors.NewPanicError(err)
			}
		}()
		pid.actor.Receive(rctx)
	}()

	pid.processedCount.Inc()

	if req.replyTo == nil {
		if rctx.err != nil {
			pid.logger.Errorf("actor=(%s) failed to process message=(%T): %v", pid.name, req.message, rctx.err)
		}
		return
	}

	switch {
	case rctx.err != nil:
		req.replyTo.Send(reply{err: rctx.err})
	case rctx.unhandled:
		req.replyTo.Send(reply{err: gerrors.ErrUnhandled})
	case rctx.responded:
		req.replyTo.Send(reply{value: rctx.response})
	default:
		req.replyTo.Close()
	}
}
