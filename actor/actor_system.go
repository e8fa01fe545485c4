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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/validation"
	"github.com/tochemey/goshard/internal/xsync"
	"github.com/tochemey/goshard/log"
)

const (
	// DefaultShutdownTimeout defines the default time given to the actors to stop
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultMailboxHint defines the default initial mailbox capacity
	DefaultMailboxHint int64 = 64
)

// ActorSystem is the local actor runtime. It creates actors, looks them up by
// identifier or name and stops them.
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// Start starts the actor system
	Start(ctx context.Context) error
	// Stop stops every actor and shuts the actor system down
	Stop(ctx context.Context) error
	// Running returns true when the actor system is started
	Running() bool
	// Spawn creates and starts an actor with the given unique name
	Spawn(ctx context.Context, name string, actor Actor) (*PID, error)
	// ActorOf returns the live actor with the given identifier
	ActorOf(id ID) (*PID, bool)
	// LocalActor returns the live actor with the given name
	LocalActor(name string) (*PID, bool)
	// Kill stops the actor with the given name
	Kill(ctx context.Context, name string) error
	// Actors returns the live actors
	Actors() []*PID
	// Logger returns the actor system logger
	Logger() log.Logger
}

type actorSystem struct {
	name            string
	logger          log.Logger
	shutdownTimeout time.Duration
	mailboxHint     int64
	started         atomic.Bool

	byID   *xsync.Map[ID, *PID]
	byName *xsync.Map[string, *PID]
}

// enforce compilation error
var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an instance of ActorSystem
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	system := &actorSystem{
		name:            name,
		logger:          log.DefaultLogger,
		shutdownTimeout: DefaultShutdownTimeout,
		mailboxHint:     DefaultMailboxHint,
		byID:            xsync.NewMap[ID, *PID](),
		byName:          xsync.NewMap[string, *PID](),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddAssertion(system.shutdownTimeout > 0, "shutdown timeout must be greater than zero").
		AddAssertion(system.mailboxHint > 0, "mailbox hint must be greater than zero").
		AddAssertion(system.logger != nil, "logger is required").
		Validate(); err != nil {
		return nil, err
	}

	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// Logger returns the actor system logger
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// Running returns true when the actor system is started
func (x *actorSystem) Running() bool {
	return x.started.Load()
}

// Start starts the actor system
func (x *actorSystem) Start(context.Context) error {
	x.started.Store(true)
	x.logger.Infof("actor system=(%s) started", x.name)
	return nil
}

// Stop stops every actor and shuts the actor system down
func (x *actorSystem) Stop(ctx context.Context) error {
	if !x.started.Swap(false) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	for _, pid := range x.byID.Values() {
		eg.Go(func() error {
			return pid.Stop(ctx)
		})
	}

	err := eg.Wait()
	x.byID.Reset()
	x.byName.Reset()
	x.logger.Infof("actor system=(%s) stopped", x.name)
	return err
}

// Spawn creates and starts an actor with the given unique name
func (x *actorSystem) Spawn(ctx context.Context, name string, actor Actor) (*PID, error) {
	if !x.started.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}

	if strings.TrimSpace(name) == "" {
		return nil, gerrors.ErrNameRequired
	}

	if actor == nil {
		return nil, gerrors.ErrUndefinedActor
	}

	pid := newPID(ID(uuid.NewString()), name, actor, x)
	if !x.byName.SetIfAbsent(name, pid) {
		return nil, gerrors.NewErrActorAlreadyExists(name)
	}

	if err := pid.start(ctx); err != nil {
		x.byName.Delete(name)
		return nil, err
	}

	x.byID.Set(pid.ID(), pid)
	x.logger.Debugf("actor=(%s) of kind=(%s) started", name, pid.Kind())
	return pid, nil
}

// ActorOf returns the live actor with the given identifier
func (x *actorSystem) ActorOf(id ID) (*PID, bool) {
	pid, ok := x.byID.Get(id)
	if !ok || !pid.IsRunning() {
		return nil, false
	}
	return pid, true
}

// LocalActor returns the live actor with the given name
func (x *actorSystem) LocalActor(name string) (*PID, bool) {
	pid, ok := x.byName.Get(name)
	if !ok || !pid.IsRunning() {
		return nil, false
	}
	return pid, true
}

// Kill stops the actor with the given name
func (x *actorSystem) Kill(ctx context.Context, name string) error {
	pid, ok := x.byName.Get(name)
	if !ok {
		return gerrors.NewErrActorNotFound(name)
	}
	return pid.Stop(ctx)
}

// Actors returns the live actors
func (x *actorSystem) Actors() []*PID {
	pids := x.byID.Values()
	actors := make([]*PID, 0, len(pids))
	for _, pid := range pids {
		if pid.IsRunning() {
			actors = append(actors, pid)
		}
	}
	return actors
}

// remove forgets the given actor
func (x *actorSystem) remove(pid *PID) {
	if current, ok := x.byName.Get(pid.Name()); ok && current == pid {
		x.byName.Delete(pid.Name())
	}
	x.byID.Delete(pid.ID())
}

func (x *actorSystem) String() string {
	return fmt.Sprintf("ActorSystem(%s)", x.name)
}
