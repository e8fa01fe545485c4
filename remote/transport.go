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

	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/xsync"
)

// Transport carries envelopes to the remote context of another node and
// returns the serialized reply. A failure reported by the remote node is
// returned as a *RemoteError matching the sentinel of the original failure.
type Transport interface {
	Send(ctx context.Context, nodeID uint64, envelope *Envelope) ([]byte, error)
}

// LoopbackTransport routes envelopes between contexts living in the same
// process. Every envelope goes through the Codec on its way, as it would on
// a network transport.
type LoopbackTransport struct {
	codec *Codec
	nodes *xsync.Map[uint64, *Context]
}

// enforce compilation error
var _ Transport = (*LoopbackTransport)(nil)

// NewLoopbackTransport creates a LoopbackTransport using the given codec
func NewLoopbackTransport(codec *Codec) *LoopbackTransport {
	return &LoopbackTransport{
		codec: codec,
		nodes: xsync.NewMap[uint64, *Context](),
	}
}

// Register makes the given context reachable under the node identifier
func (t *LoopbackTransport) Register(nodeID uint64, rc *Context) {
	t.nodes.Set(nodeID, rc)
}

// Deregister makes the node unreachable
func (t *LoopbackTransport) Deregister(nodeID uint64) {
	t.nodes.Delete(nodeID)
}

// Send encodes the envelope, hands the frame to the context of the node and
// returns its reply after a round trip through the codec
func (t *LoopbackTransport) Send(ctx context.Context, nodeID uint64, envelope *Envelope) ([]byte, error) {
	rc, ok := t.nodes.Get(nodeID)
	if !ok {
		return nil, gerrors.NewErrNodeUnreachable(nodeID)
	}

	frame, err := t.codec.Encode(envelope)
	if err != nil {
		return nil, err
	}

	received, err := t.codec.Decode(frame)
	if err != nil {
		return nil, err
	}

	out, dispatchErr := rc.Dispatch(ctx, received)
	frame, err = t.codec.EncodeReply(NewReply(out, dispatchErr))
	if err != nil {
		return nil, err
	}

	reply, err := t.codec.DecodeReply(frame)
	if err != nil {
		return nil, err
	}
	return reply.Result()
}
