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
	"fmt"

	"github.com/tochemey/goshard/actor"
)

// ShardID identifies a logical partition of the entities of a kind
type ShardID = uint32

// NodeID identifies a node of the cluster
type NodeID = uint64

// AllocationStatus is the outcome of a shard allocation
type AllocationStatus int

const (
	// StatusFailed means the shard could not be allocated
	StatusFailed AllocationStatus = iota
	// StatusAllocated means the shard has just been assigned to a node
	StatusAllocated
	// StatusAlreadyAllocated means the shard was already assigned to a node
	StatusAlreadyAllocated
)

// String returns the status name
func (s AllocationStatus) String() string {
	switch s {
	case StatusAllocated:
		return "allocated"
	case StatusAlreadyAllocated:
		return "already_allocated"
	default:
		return "failed"
	}
}

// AllocateShardResult is the reply of the coordinator to AllocateShard
type AllocateShardResult struct {
	Status AllocationStatus
	NodeID NodeID
}

// Allocated returns the result of a shard freshly assigned to the given node
func Allocated(nodeID NodeID) *AllocateShardResult {
	return &AllocateShardResult{Status: StatusAllocated, NodeID: nodeID}
}

// AlreadyAllocated returns the result of a shard already assigned to the given node
func AlreadyAllocated(nodeID NodeID) *AllocateShardResult {
	return &AllocateShardResult{Status: StatusAlreadyAllocated, NodeID: nodeID}
}

// Failed returns the result of a shard that could not be allocated
func Failed() *AllocateShardResult {
	return &AllocateShardResult{Status: StatusFailed}
}

// Node returns the node owning the shard when the allocation succeeded
func (r *AllocateShardResult) Node() (NodeID, bool) {
	if r == nil || r.Status == StatusFailed {
		return 0, false
	}
	return r.NodeID, true
}

// String returns the string representation of the result
func (r *AllocateShardResult) String() string {
	if r.Status == StatusFailed {
		return r.Status.String()
	}
	return fmt.Sprintf("%s(%d)", r.Status, r.NodeID)
}

// ShardHostState is what the coordinator knows about a node able to host shards
type ShardHostState struct {
	NodeID  NodeID
	NodeTag string
	// Shards lists the shards assigned to the node
	Shards []ShardID
	// Host is the shard host actor of the node
	Host *actor.PID
}

func (s *ShardHostState) clone() *ShardHostState {
	clone := *s
	clone.Shards = append([]ShardID(nil), s.Shards...)
	return &clone
}
