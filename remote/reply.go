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
	"errors"

	gerrors "github.com/tochemey/goshard/errors"
)

// wireErrors lists the failures that keep their identity across nodes, most
// specific first. Codes are part of the wire format and must never be reused.
var wireErrors = []struct {
	code     string
	sentinel error
}{
	{"entity_creation", gerrors.ErrEntityCreation},
	{"invalid_remote_message", gerrors.ErrInvalidRemoteMessage},
	{"handler_not_registered", gerrors.ErrHandlerNotRegistered},
	{"shard_allocation_failed", gerrors.ErrShardAllocationFailed},
	{"host_not_found", gerrors.ErrHostNotFound},
	{"node_unreachable", gerrors.ErrNodeUnreachable},
	{"request_timeout", gerrors.ErrRequestTimeout},
	{"actor_unavailable", gerrors.ErrActorUnavailable},
}

func sentinelOf(code string) error {
	for _, wire := range wireErrors {
		if wire.code == code {
			return wire.sentinel
		}
	}
	return nil
}

// Reply is the wire form of the outcome of a dispatched envelope.
// Exactly one of Payload or ErrorMessage is set.
type Reply struct {
	Payload      []byte `cbor:"1,keyasint,omitempty"`
	ErrorCode    string `cbor:"2,keyasint,omitempty"`
	ErrorMessage string `cbor:"3,keyasint,omitempty"`
}

// NewReply builds the reply of a dispatch returning the given payload and error
func NewReply(payload []byte, err error) *Reply {
	if err == nil {
		return &Reply{Payload: payload}
	}

	reply := &Reply{ErrorMessage: err.Error()}
	for _, wire := range wireErrors {
		if errors.Is(err, wire.sentinel) {
			reply.ErrorCode = wire.code
			break
		}
	}
	return reply
}

// Result returns the payload of the reply or the error it carries.
// Known failures are matched by errors.Is against their sentinel on the
// receiving node.
func (r *Reply) Result() ([]byte, error) {
	if r.ErrorMessage == "" {
		return r.Payload, nil
	}
	return nil, &RemoteError{
		message:  r.ErrorMessage,
		sentinel: sentinelOf(r.ErrorCode),
	}
}

// RemoteError is a failure reported by another node
type RemoteError struct {
	message  string
	sentinel error
}

// enforce compilation error
var _ error = (*RemoteError)(nil)

// Error implements the standard error interface
func (e *RemoteError) Error() string {
	return e.message
}

// Unwrap returns the sentinel the remote failure matched, if any
func (e *RemoteError) Unwrap() error {
	return e.sentinel
}
