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

	"go.uber.org/multierr"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/oneshot"
	"github.com/tochemey/goshard/internal/types"
	"github.com/tochemey/goshard/log"
)

// Context is the remoting entry point of a node. It resolves handler
// identifiers through the registry actor, dispatches type-erased messages to
// local actors and builds envelopes for messages bound to remote actors.
//
// A Context is created with a ContextBuilder and is safe for concurrent use.
type Context struct {
	system     actor.ActorSystem
	ownsSystem bool
	registry   *actor.PID
	serializer Serializer
	askTimeout time.Duration
	logger     log.Logger
	dispatch   *dispatch
}

// ActorSystem returns the actor system the context dispatches to
func (c *Context) ActorSystem() actor.ActorSystem {
	return c.system
}

// Serializer returns the serializer used for messages and replies
func (c *Context) Serializer() Serializer {
	return c.serializer
}

// AskTimeout returns the time given to a local actor to reply to a remote message
func (c *Context) AskTimeout() time.Duration {
	return c.askTimeout
}

// Logger returns the context logger
func (c *Context) Logger() log.Logger {
	return c.logger
}

// Handle delivers the serialized payload to the local actor with the given
// identifier using the handler registered under identifier. It returns the
// serialized reply of the actor.
//
// An unknown identifier, a missing actor or an actor that cannot process the
// message (stopped, timed out, panicked, unhandled) yield ErrActorUnavailable.
// A payload that cannot be decoded yields ErrInvalidRemoteMessage. An error
// the actor replies with is returned as is.
func (c *Context) Handle(ctx context.Context, identifier string, actorID actor.ID, payload []byte) ([]byte, error) {
	tx, rx := oneshot.New[result]()

	reply, err := actor.Ask(ctx, c.registry, &getHandler{id: identifier}, c.askTimeout)
	if err != nil {
		tx.Close()
		return nil, errors.Join(gerrors.ErrActorUnavailable, err)
	}

	found := reply.(*handlerFound)
	if !found.found {
		c.logger.Debugf("remote context: handler=(%s) is not registered", identifier)
		tx.Close()
	} else {
		go found.handler.handle(ctx, c.dispatch, actorID, payload, tx)
	}

	out, err := rx.Recv(ctx)
	switch {
	case errors.Is(err, oneshot.ErrClosed):
		return nil, gerrors.ErrActorUnavailable
	case err != nil:
		return nil, err
	case out.err != nil:
		return nil, out.err
	default:
		return out.payload, nil
	}
}

// Dispatch delivers the given envelope to its local target
func (c *Context) Dispatch(ctx context.Context, envelope *Envelope) ([]byte, error) {
	return c.Handle(ctx, envelope.HandlerType, envelope.ActorID, envelope.Message)
}

// HandlerName returns the identifier of the handler registered for the given
// actor and message type tags
func (c *Context) HandlerName(ctx context.Context, actorType, messageType string) (string, bool) {
	reply, err := actor.Ask(ctx, c.registry, &getHandlerName{actorType: actorType, messageType: messageType}, c.askTimeout)
	if err != nil {
		c.logger.Warnf("remote context: failed to look up handler of (actor=%s, message=%s): %v", actorType, messageType, err)
		return "", false
	}
	found := reply.(*handlerFound)
	return found.id, found.found
}

// HandlerNameOf returns the identifier of the handler registered for the
// actor type A and the message type M
func HandlerNameOf[A actor.Actor, M any](ctx context.Context, rc *Context) (string, bool) {
	return rc.HandlerName(ctx, types.NameOf[A](), types.NameOf[M]())
}

// CreateMessage builds the envelope of a message bound to the given actor.
// It fails with ErrHandlerNotRegistered when no handler serves the pair.
func (c *Context) CreateMessage(ctx context.Context, target *actor.PID, message any) (*Envelope, error) {
	if target == nil {
		return nil, gerrors.ErrUndefinedActor
	}
	return c.CreateEnvelope(ctx, target.Kind(), target.ID(), message)
}

// CreateEnvelope builds the envelope of a message bound to the actor with the
// given type tag and identifier. The actor does not need to live on this node.
func (c *Context) CreateEnvelope(ctx context.Context, actorType string, actorID actor.ID, message any) (*Envelope, error) {
	messageType := types.Name(message)
	id, ok := c.HandlerName(ctx, actorType, messageType)
	if !ok {
		return nil, gerrors.NewErrHandlerNotRegistered(actorType, messageType)
	}

	bytea, err := c.serializer.Marshal(message)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		ActorID:     actorID,
		HandlerType: id,
		Message:     bytea,
	}, nil
}

// Stop stops the registry actor and, when the context created it, the actor system
func (c *Context) Stop(ctx context.Context) error {
	err := c.registry.Stop(ctx)
	if c.ownsSystem {
		err = multierr.Append(err, c.system.Stop(ctx))
	}
	return err
}
