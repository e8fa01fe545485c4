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
	"github.com/fxamacker/cbor/v2"
)

const (
	manifestShardAllocated   = "ShardAllocated"
	manifestShardReallocated = "ShardReallocated"
)

// allocationEvent is the journal payload of a shard assignment
type allocationEvent struct {
	ShardID ShardID `cbor:"1,keyasint"`
	NodeID  NodeID  `cbor:"2,keyasint"`
	// PreviousNodeID is only set on reallocation
	PreviousNodeID NodeID `cbor:"3,keyasint,omitempty"`
}

func (e *allocationEvent) marshal() ([]byte, error) {
	return cbor.Marshal(e)
}

func unmarshalAllocationEvent(data []byte) (*allocationEvent, error) {
	event := new(allocationEvent)
	if err := cbor.Unmarshal(data, event); err != nil {
		return nil, err
	}
	return event, nil
}

// persistenceID returns the journal stream of the coordinator of the given kind
func persistenceID(kind string) string {
	return "shard-coordinator/" + kind
}
