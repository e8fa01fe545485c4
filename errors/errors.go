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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrNoResponse is returned when an actor processed a request without replying to it.
	ErrNoResponse = errors.New("actor did not reply")

	// ErrRequestTimeout indicates that an Ask message timed out while waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInitFailure is returned when the actor's preStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrNameRequired is returned when an actor or actor system name is required but not provided.
	ErrNameRequired = errors.New("name is required")

	// ErrUndefinedActor is returned when a nil actor is given to the runtime.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrActorUnavailable is returned by the remote dispatch path for an unknown
	// handler identifier and for a target actor that is missing, stopped or
	// could not process the message.
	ErrActorUnavailable = errors.New("actor unavailable")

	// ErrInvalidRemoteMessage indicates that the payload of a remote message could not be decoded
	// into the message type registered for its handler.
	ErrInvalidRemoteMessage = errors.New("invalid remote message")

	// ErrHandlerNotRegistered is returned when an (actor type, message type) pair has no remote handler.
	ErrHandlerNotRegistered = errors.New("remote handler is not registered")

	// ErrContextAlreadyBuilt is returned when a remote context builder is built more than once.
	ErrContextAlreadyBuilt = errors.New("remote context is already built")

	// ErrNodeUnreachable is returned when a transport has no route to the given node.
	ErrNodeUnreachable = errors.New("node is unreachable")

	// ErrEntityCreation is returned when an entity actor cannot be created from its recipe.
	ErrEntityCreation = errors.New("entity creation failed")

	// ErrShardAllocationFailed is returned when the coordinator could not allocate a shard.
	ErrShardAllocationFailed = errors.New("shard allocation failed")

	// ErrHostNotFound is returned when no shard host is known for a node.
	ErrHostNotFound = errors.New("shard host not found")

	// ErrPanic is matched by every PanicError.
	ErrPanic = errors.New("actor panicked")
)

// NewErrActorAlreadyExists formats an ErrActorAlreadyExists for the given actor name.
func NewErrActorAlreadyExists(actorName string) error {
	return fmt.Errorf("actor=(%s) %w", actorName, ErrActorAlreadyExists)
}

// NewErrActorNotFound formats an ErrActorNotFound with the given actor identifier.
func NewErrActorNotFound(actorID string) error {
	return fmt.Errorf("(actor=%s) %w", actorID, ErrActorNotFound)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// NewErrInvalidRemoteMessage wraps a base error with ErrInvalidRemoteMessage for additional context.
func NewErrInvalidRemoteMessage(err error) error {
	return errors.Join(ErrInvalidRemoteMessage, err)
}

// NewErrHandlerNotRegistered formats an ErrHandlerNotRegistered for the given type pair.
func NewErrHandlerNotRegistered(actorType, messageType string) error {
	return fmt.Errorf("(actor=%s, message=%s) %w", actorType, messageType, ErrHandlerNotRegistered)
}

// NewErrNodeUnreachable formats an ErrNodeUnreachable for the given node.
func NewErrNodeUnreachable(nodeID uint64) error {
	return fmt.Errorf("(node=%d) %w", nodeID, ErrNodeUnreachable)
}

// NewErrEntityCreation wraps a base error with ErrEntityCreation.
func NewErrEntityCreation(entityID string, err error) error {
	return errors.Join(fmt.Errorf("(entity=%s) %w", entityID, ErrEntityCreation), err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// Is reports whether the target is ErrPanic
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
