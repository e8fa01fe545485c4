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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
)

func entityRequest(t *testing.T, node *testNode, entityID string, shardID ShardID, handler string, message any) *EntityRequest {
	t.Helper()
	payload, err := node.rc.Serializer().Marshal(message)
	require.NoError(t, err)
	return &EntityRequest{
		EntityID:    entityID,
		ShardID:     shardID,
		HandlerType: handler,
		Message:     payload,
		Recipe:      []byte(entityID),
	}
}

func TestShardHost(t *testing.T) {
	t.Run("With lazy entity creation", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		for i := 1; i <= 3; i++ {
			reply, err := actor.Ask(ctx, host, entityRequest(t, node, "leon", 2, setStatusHandler, &setStatus{Status: "active"}), askTimeout)
			require.NoError(t, err)

			actual := new(status)
			require.NoError(t, node.rc.Serializer().Unmarshal(reply.(*EntityResponse).Payload, actual))
			assert.Equal(t, &status{Status: "active", Counter: i}, actual)
		}
		assert.EqualValues(t, 1, factory.created.Load())

		stats := hostStats(t, host)
		assert.Equal(t, []ShardID{2}, stats.HostedShards)
		assert.Equal(t, 1, stats.Entities)
	})
	t.Run("With entity stopped and recreated", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		_, err := actor.Ask(ctx, host, entityRequest(t, node, "leon", 2, setStatusHandler, &setStatus{Status: "active"}), askTimeout)
		require.NoError(t, err)

		reply, err := actor.Ask(ctx, host, &StopEntity{EntityID: "leon"}, askTimeout)
		require.NoError(t, err)
		assert.Zero(t, reply.(*HostStats).Entities)
		_, ok := node.system.LocalActor(entityName(factory.Kind(), "leon"))
		assert.False(t, ok)

		reply, err = actor.Ask(ctx, host, entityRequest(t, node, "leon", 2, getStatusHandler, new(getStatus)), askTimeout)
		require.NoError(t, err)
		actual := new(status)
		require.NoError(t, node.rc.Serializer().Unmarshal(reply.(*EntityResponse).Payload, actual))
		assert.Equal(t, &status{}, actual)
		assert.EqualValues(t, 2, factory.created.Load())
	})
	t.Run("With creation failure", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		factory.fail.Store(true)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		_, err := actor.Ask(ctx, host, entityRequest(t, node, "leon", 2, getStatusHandler, new(getStatus)), askTimeout)
		require.ErrorIs(t, err, gerrors.ErrEntityCreation)

		request := entityRequest(t, node, "mia", 2, getStatusHandler, new(getStatus))
		request.Recipe = nil
		factory.fail.Store(false)
		_, err = actor.Ask(ctx, host, request, askTimeout)
		require.ErrorIs(t, err, gerrors.ErrEntityCreation)

		require.True(t, host.IsRunning())
		stats := hostStats(t, host)
		assert.Zero(t, stats.Entities)
		assert.Empty(t, stats.HostedShards)
	})
	t.Run("With unknown entity handler", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		_, err := actor.Ask(ctx, host, entityRequest(t, node, "leon", 2, "unknown", new(getStatus)), askTimeout)
		require.ErrorIs(t, err, gerrors.ErrActorUnavailable)
	})
	t.Run("With shards announced by the coordinator", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		for _, shardID := range []ShardID{8, 3, 8} {
			require.NoError(t, host.Tell(ctx, &ShardAllocated{ShardID: shardID}))
		}
		_, err := actor.Ask(ctx, host, &StartEntity{EntityID: "leon", ShardID: 5, Recipe: []byte("leon")}, askTimeout)
		require.NoError(t, err)

		assert.Equal(t, []ShardID{3, 5, 8}, hostStats(t, host).HostedShards)
	})
	t.Run("With entities stopped with the host", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		host := node.spawnHost(t, "shard-host", factory)

		for _, entityID := range []string{"leon", "mia"} {
			_, err := actor.Ask(ctx, host, &StartEntity{EntityID: entityID, ShardID: 1, Recipe: []byte(entityID)}, askTimeout)
			require.NoError(t, err)
		}
		require.Len(t, node.system.Actors(), 4)

		require.NoError(t, host.Stop(ctx))
		for _, entityID := range []string{"leon", "mia"} {
			_, ok := node.system.LocalActor(entityName(factory.Kind(), entityID))
			assert.False(t, ok)
		}
	})
}
