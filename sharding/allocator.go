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

// Allocator picks the node a shard is assigned to
type Allocator interface {
	// Allocate returns the node that must host the shard among the given hosts.
	// It returns false when no host can take the shard.
	Allocate(shardID ShardID, hosts []*ShardHostState) (NodeID, bool)
}

// LowestNodeAllocator assigns every shard to the host with the lowest node identifier
type LowestNodeAllocator struct{}

// enforce compilation error
var _ Allocator = LowestNodeAllocator{}

// Allocate returns the host with the lowest node identifier
func (LowestNodeAllocator) Allocate(_ ShardID, hosts []*ShardHostState) (NodeID, bool) {
	if len(hosts) == 0 {
		return 0, false
	}

	selected := hosts[0].NodeID
	for _, host := range hosts[1:] {
		if host.NodeID < selected {
			selected = host.NodeID
		}
	}
	return selected, true
}

// LeastShardsAllocator assigns a shard to the host owning the fewest shards.
// Ties go to the lowest node identifier.
type LeastShardsAllocator struct{}

// enforce compilation error
var _ Allocator = LeastShardsAllocator{}

// Allocate returns the host owning the fewest shards
func (LeastShardsAllocator) Allocate(_ ShardID, hosts []*ShardHostState) (NodeID, bool) {
	if len(hosts) == 0 {
		return 0, false
	}

	selected := hosts[0]
	for _, host := range hosts[1:] {
		switch {
		case len(host.Shards) < len(selected.Shards):
			selected = host
		case len(host.Shards) == len(selected.Shards) && host.NodeID < selected.NodeID:
			selected = host
		}
	}
	return selected.NodeID, true
}
