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
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/validation"
	"github.com/tochemey/goshard/log"
)

// DefaultAskTimeout is the default time given to a local actor to reply to a remote message
const DefaultAskTimeout = 5 * time.Second

// registryName returns a unique name for the registry actor of a new context.
// Several contexts can share one actor system.
func registryName() string {
	return "remote-handler-registry/" + uuid.NewString()
}

// ContextBuilder collects the remote handlers of a node and builds its Context.
//
//	rc, err := remote.NewContextBuilder().
//	    WithHandler(remote.NewHandler[*Account, *Deposit]("account.deposit")).
//	    WithActorSystem(system).
//	    Build(ctx)
//
// A builder builds at most one Context.
type ContextBuilder struct {
	registry   *handlerRegistry
	system     actor.ActorSystem
	serializer Serializer
	askTimeout time.Duration
	logger     log.Logger
	built      atomic.Bool
}

// NewContextBuilder creates a ContextBuilder
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{
		registry:   newHandlerRegistry(),
		serializer: NewCBORSerializer(),
		askTimeout: DefaultAskTimeout,
		logger:     log.DefaultLogger,
	}
}

// WithHandler registers the given remote handler.
// A handler registered under an existing identifier replaces it.
func (b *ContextBuilder) WithHandler(registration Registration) *ContextBuilder {
	b.registry.register(registration.id, registration.handler)
	return b
}

// WithHandlers registers the given remote handlers in order
func (b *ContextBuilder) WithHandlers(registrations ...Registration) *ContextBuilder {
	for _, registration := range registrations {
		b.WithHandler(registration)
	}
	return b
}

// WithActorSystem sets the actor system the context dispatches to.
// The system must be started. When not set, Build creates and owns one.
func (b *ContextBuilder) WithActorSystem(system actor.ActorSystem) *ContextBuilder {
	b.system = system
	return b
}

// WithSerializer sets the serializer of messages and replies
func (b *ContextBuilder) WithSerializer(serializer Serializer) *ContextBuilder {
	b.serializer = serializer
	return b
}

// WithAskTimeout sets the time given to a local actor to reply to a remote message
func (b *ContextBuilder) WithAskTimeout(timeout time.Duration) *ContextBuilder {
	b.askTimeout = timeout
	return b
}

// WithLogger sets the logger
func (b *ContextBuilder) WithLogger(logger log.Logger) *ContextBuilder {
	b.logger = logger
	return b
}

// Build spawns the registry actor and returns the Context.
// It returns ErrContextAlreadyBuilt when called more than once.
func (b *ContextBuilder) Build(ctx context.Context) (*Context, error) {
	if b.built.Swap(true) {
		return nil, gerrors.ErrContextAlreadyBuilt
	}

	if err := validation.New(validation.AllErrors()).
		AddAssertion(b.serializer != nil, "serializer is required").
		AddAssertion(b.askTimeout > 0, "ask timeout must be greater than zero").
		AddAssertion(b.logger != nil, "logger is required").
		Validate(); err != nil {
		return nil, err
	}

	system := b.system
	ownsSystem := false
	if system == nil {
		var err error
		system, err = actor.NewActorSystem(fmt.Sprintf("remote-%s", uuid.NewString()), actor.WithLogger(b.logger))
		if err != nil {
			return nil, err
		}
		if err := system.Start(ctx); err != nil {
			return nil, err
		}
		ownsSystem = true
	}

	registry, err := system.Spawn(ctx, registryName(), newRegistryActor(b.registry))
	if err != nil {
		if ownsSystem {
			_ = system.Stop(ctx)
		}
		return nil, err
	}

	b.logger.Infof("remote context built with %d handler(s) on actor system=(%s)", len(b.registry.handlers), system.Name())

	return &Context{
		system:     system,
		ownsSystem: ownsSystem,
		registry:   registry,
		serializer: b.serializer,
		askTimeout: b.askTimeout,
		logger:     b.logger,
		dispatch: &dispatch{
			system:     system,
			serializer: b.serializer,
			timeout:    b.askTimeout,
			logger:     b.logger,
		},
	}, nil
}
