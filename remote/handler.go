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
	"context"
	"errors"
	"time"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/oneshot"
	"github.com/tochemey/goshard/internal/types"
	"github.com/tochemey/goshard/log"
)

// result is what a remote handler delivers through its completion
type result struct {
	payload []byte
	err     error
}

// dispatch carries the collaborators a handler needs to serve a request
type dispatch struct {
	system     actor.ActorSystem
	serializer Serializer
	timeout    time.Duration
	logger     log.Logger
}

// messageHandler is the type-erased view of a typed remote handler
type messageHandler interface {
	actorType() string
	messageType() string
	// handle decodes the payload, delivers it to the target actor and
	// completes with the serialized reply. The completion is closed on return
	// whether or not a value was sent.
	handle(ctx context.Context, d *dispatch, actorID actor.ID, payload []byte, completion *oneshot.Sender[result])
}

// Registration binds a remote handler identifier to the actor and message
// types it serves. Registrations are added to a ContextBuilder.
type Registration struct {
	id      string
	handler messageHandler
}

// ID returns the handler identifier carried by envelopes
func (r Registration) ID() string {
	return r.id
}

// ActorType returns the type tag of the actor the handler delivers to
func (r Registration) ActorType() string {
	return r.handler.actorType()
}

// MessageType returns the type tag of the message the handler decodes
func (r Registration) MessageType() string {
	return r.handler.messageType()
}

// NewHandler creates the registration of a remote handler delivering messages
// of type M to actors of type A.
//
//	rc, err := remote.NewContextBuilder().
//	    WithHandler(remote.NewHandler[*Account, *Deposit]("account.deposit")).
//	    Build(ctx)
func NewHandler[A actor.Actor, M any](identifier string) Registration {
	return Registration{
		id:      identifier,
		handler: &typedHandler[A, M]{},
	}
}

// deliveryFailures are the Ask failures meaning the actor could not serve the message
var deliveryFailures = []error{
	gerrors.ErrDead,
	gerrors.ErrRequestTimeout,
	gerrors.ErrNoResponse,
	gerrors.ErrUnhandled,
	gerrors.ErrPanic,
	gerrors.ErrInvalidTimeout,
}

func isDeliveryFailure(err error) bool {
	for _, failure := range deliveryFailures {
		if errors.Is(err, failure) {
			return true
		}
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type typedHandler[A actor.Actor, M any] struct{}

func (h *typedHandler[A, M]) actorType() string {
	return types.NameOf[A]()
}

func (h *typedHandler[A, M]) messageType() string {
	return types.NameOf[M]()
}

func (h *typedHandler[A, M]) handle(ctx context.Context, d *dispatch, actorID actor.ID, payload []byte, completion *oneshot.Sender[result]) {
	defer completion.Close()

	message := new(M)
	if err := d.serializer.Unmarshal(payload, message); err != nil {
		completion.Send(result{err: gerrors.NewErrInvalidRemoteMessage(err)})
		return
	}

	pid, ok := d.system.ActorOf(actorID)
	if !ok {
		d.logger.Debugf("remote handler: actor=(%s) not found", actorID)
		return
	}

	if _, ok := pid.Actor().(A); !ok {
		d.logger.Warnf("remote handler: actor=(%s) is not of type=(%s)", actorID, h.actorType())
		return
	}

	reply, err := actor.Ask(ctx, pid, *message, d.timeout)
	if err != nil {
		if isDeliveryFailure(err) {
			d.logger.Debugf("remote handler: actor=(%s) failed to process message=(%s): %v", actorID, h.messageType(), err)
			return
		}
		// the actor replied with an error
		completion.Send(result{err: err})
		return
	}

	bytea, err := d.serializer.Marshal(reply)
	if err != nil {
		d.logger.Errorf("remote handler: failed to serialize the reply=(%T) of actor=(%s): %v", reply, actorID, err)
		return
	}

	completion.Send(result{payload: bytea})
}
