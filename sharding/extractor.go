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
	"github.com/tochemey/goshard/hash"
)

// DefaultShardCount is the default number of shards of a kind
const DefaultShardCount = 100

// ShardExtractor computes the shard an entity belongs to
type ShardExtractor interface {
	ShardOf(entityID string) ShardID
}

// HashExtractor spreads the entities over a fixed number of shards by hashing their identifier
type HashExtractor struct {
	hasher     hash.Hasher
	shardCount uint32
}

// enforce compilation error
var _ ShardExtractor = (*HashExtractor)(nil)

// NewHashExtractor creates a HashExtractor. A zero shard count falls back to DefaultShardCount.
func NewHashExtractor(hasher hash.Hasher, shardCount uint32) *HashExtractor {
	if shardCount == 0 {
		shardCount = DefaultShardCount
	}
	if hasher == nil {
		hasher = hash.DefaultHasher()
	}
	return &HashExtractor{hasher: hasher, shardCount: shardCount}
}

// ShardOf returns the shard of the given entity
func (x *HashExtractor) ShardOf(entityID string) ShardID {
	return ShardID(x.hasher.HashCode([]byte(entityID)) % uint64(x.shardCount))
}
