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

package sharding

import (
	"github.com/tochemey/goshard/actor"
)

// EntityRequest asks a shard host to deliver a message to one of its entities,
// creating the entity from its recipe when it does not exist yet.
// HandlerType names the remote handler able to decode Message.
type EntityRequest struct {
	EntityID    string  `cbor:"1,keyasint"`
	ShardID     ShardID `cbor:"2,keyasint"`
	HandlerType string  `cbor:"3,keyasint"`
	Message     []byte  `cbor:"4,keyasint"`
	Recipe      []byte  `cbor:"5,keyasint,omitempty"`
}

// EntityResponse carries the serialized reply of an entity
type EntityResponse struct {
	Payload []byte `cbor:"1,keyasint"`
}

// StartEntity asks a shard host to create an entity without sending it a message
type StartEntity struct {
	EntityID string
	ShardID  ShardID
	Recipe   []byte
}

// StopEntity asks a shard host to stop an entity
type StopEntity struct {
	EntityID string
}

// ShardAllocated informs a shard host it now owns the shard
type ShardAllocated struct {
	ShardID ShardID
}

// ShardsReleased informs a shard host it no longer owns the shards. The host
// stops the entities of those shards.
type ShardsReleased struct {
	ShardIDs []ShardID
}

// GetStats asks a shard host for its statistics
type GetStats struct{}

// HostStats is the reply to GetStats
type HostStats struct {
	// HostedShards is sorted ascending and deduplicated
	HostedShards []ShardID
	Entities     int
}

// AllocateShard asks the coordinator for the node owning the shard,
// assigning it when needed. The reply is an AllocateShardResult.
type AllocateShard struct {
	ShardID ShardID
}

// AddHost registers a node able to host shards
type AddHost struct {
	State ShardHostState
}

// RemoveHost forgets a node. Its shards are reallocated on their next AllocateShard.
type RemoveHost struct {
	NodeID NodeID
}

// GetShardAssignments asks the coordinator for its assignment table
type GetShardAssignments struct{}

// ShardAssignments is the reply to GetShardAssignments
type ShardAssignments struct {
	Assignments map[ShardID]NodeID
}

// GetHost asks the coordinator for the shard host of a node.
// The reply is a HostRef or ErrHostNotFound.
type GetHost struct {
	NodeID NodeID
}

// HostRef locates the shard host of a node
type HostRef struct {
	NodeID  NodeID
	NodeTag string
	HostID  actor.ID
	Host    *actor.PID
}
