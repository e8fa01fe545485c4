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

	"github.com/tochemey/goshard/log"
)

// ReceiveContext carries the message being processed and the operations
// available to an actor while handling it.
//
// A ReceiveContext is only valid within the scope of a single Receive call.
//
//	func (a *MyActor) Receive(ctx *actor.ReceiveContext) {
//	    switch msg := ctx.Message().(type) {
//	    case *Ping:
//	        ctx.Response(&Pong{Seq: msg.Seq})
//	    default:
//	        ctx.Unhandled()
//	    }
//	}
type ReceiveContext struct {
	ctx       context.Context
	message   any
	self      *PID
	response  any
	responded bool
	unhandled bool
	err       error
}

func newReceiveContext(ctx context.Context, message any, self *PID) *ReceiveContext {
	return &ReceiveContext{
		ctx:     ctx,
		message: message,
		self:    self,
	}
}

// Context returns the context associated with the current message.
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Message returns the message being processed.
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Self returns the PID of the currently executing actor.
func (rctx *ReceiveContext) Self() *PID {
	return rctx.self
}

// Logger returns the logger of the currently executing actor.
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.self.logger
}

// Response sets the reply of an Ask-initiated message.
// Only the last value set is delivered. For a Tell-initiated message it is a no-op.
func (rctx *ReceiveContext) Response(resp any) {
	rctx.response = resp
	rctx.responded = true
}

// Err records an error observed during message handling.
// For an Ask-initiated message the error is returned to the asker.
func (rctx *ReceiveContext) Err(err error) {
	rctx.err = err
}

// Unhandled marks the message as not handled by the actor.
func (rctx *ReceiveContext) Unhandled() {
	rctx.unhandled = true
}
