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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/persistence/bolt"
	"github.com/tochemey/goshard/remote"
)

func TestSharding(t *testing.T) {
	t.Run("With entity request on a single node", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)

		sharding, err := Start(ctx, node.rc, factory,
			WithNodeTag("system-one"),
			WithLogger(log.DiscardLogger),
			WithMeter(noop.NewMeterProvider().Meter("test")))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding.Stop(ctx) })
		assert.Equal(t, factory.Kind(), sharding.Kind())
		assert.EqualValues(t, 1, sharding.NodeID())

		entity := sharding.Get("leon", &testRecipe{Name: "leon"})
		assert.Equal(t, "leon", entity.ID())

		_, err = entity.Send(ctx, &setStatus{Status: "active"})
		require.NoError(t, err)

		actual, err := Ask[*status](ctx, entity, new(getStatus))
		require.NoError(t, err)
		assert.Equal(t, &status{Status: "active", Counter: 1}, actual)
		assert.EqualValues(t, 1, factory.created.Load())

		stats := hostStats(t, sharding.Host())
		assert.Equal(t, []ShardID{entity.ShardID()}, stats.HostedShards)
	})
	t.Run("With message not remote capable", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)

		sharding, err := Start(ctx, node.rc, factory, WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding.Stop(ctx) })

		_, err = sharding.Get("leon", &testRecipe{Name: "leon"}).Send(ctx, &status{})
		require.ErrorIs(t, err, gerrors.ErrHandlerNotRegistered)
	})
	t.Run("With allocation failure", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)
		journal := newFailingJournal()
		journal.failing.Store(true)

		sharding, err := Start(ctx, node.rc, factory, WithJournal(journal), WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding.Stop(ctx) })

		_, err = sharding.Get("leon", &testRecipe{Name: "leon"}).Send(ctx, new(getStatus))
		require.ErrorIs(t, err, gerrors.ErrShardAllocationFailed)
		assert.Zero(t, factory.created.Load())
	})
	t.Run("With entities spread over two nodes", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node1 := newTestNode(t, factory)
		node2 := newTestNode(t, factory)

		codec, err := remote.NewCodec(remote.ZstdCompression)
		require.NoError(t, err)
		t.Cleanup(codec.Close)
		transport := remote.NewLoopbackTransport(codec)
		transport.Register(1, node1.rc)
		transport.Register(2, node2.rc)

		extractor := staticExtractor{"leon": 1, "mia": 2}
		sharding1, err := Start(ctx, node1.rc, factory,
			WithNodeID(1),
			WithAllocator(nodePerShard{}),
			WithExtractor(extractor),
			WithTransport(transport),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		sharding2, err := Start(ctx, node2.rc, factory,
			WithNodeID(2),
			WithCoordinator(sharding1.Coordinator()),
			WithExtractor(extractor),
			WithTransport(transport),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		assert.Same(t, sharding1.Coordinator(), sharding2.Coordinator())

		// node 1 reaches an entity hosted by node 2 and the other way around
		actual, err := Ask[*status](ctx, sharding1.Get("mia", &testRecipe{Name: "mia"}), &setStatus{Status: "remote"})
		require.NoError(t, err)
		assert.Equal(t, &status{Status: "remote", Counter: 1}, actual)

		actual, err = Ask[*status](ctx, sharding2.Get("leon", &testRecipe{Name: "leon"}), &setStatus{Status: "remote"})
		require.NoError(t, err)
		assert.Equal(t, &status{Status: "remote", Counter: 1}, actual)

		// both nodes see the same entity
		actual, err = Ask[*status](ctx, sharding2.Get("mia", nil), new(getStatus))
		require.NoError(t, err)
		assert.Equal(t, &status{Status: "remote", Counter: 1}, actual)

		stats1 := hostStats(t, sharding1.Host())
		stats2 := hostStats(t, sharding2.Host())
		assert.Equal(t, []ShardID{1}, stats1.HostedShards)
		assert.Equal(t, 1, stats1.Entities)
		assert.Equal(t, []ShardID{2}, stats2.HostedShards)
		assert.Equal(t, 1, stats2.Entities)
		assert.EqualValues(t, 2, factory.created.Load())

		// node 2 leaves, its shard moves to node 1
		require.NoError(t, sharding2.Stop(ctx))
		actual, err = Ask[*status](ctx, sharding1.Get("mia", &testRecipe{Name: "mia"}), new(getStatus))
		require.NoError(t, err)
		assert.Equal(t, &status{}, actual)
		assert.Equal(t, []ShardID{1, 2}, hostStats(t, sharding1.Host()).HostedShards)

		require.NoError(t, sharding1.Stop(ctx))
	})
	t.Run("With entity creation failure on either node", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		factory.fail.Store(true)
		node1 := newTestNode(t, factory)
		node2 := newTestNode(t, factory)

		codec, err := remote.NewCodec(remote.NoCompression)
		require.NoError(t, err)
		t.Cleanup(codec.Close)
		transport := remote.NewLoopbackTransport(codec)
		transport.Register(1, node1.rc)
		transport.Register(2, node2.rc)

		extractor := staticExtractor{"leon": 1, "mia": 2}
		sharding1, err := Start(ctx, node1.rc, factory,
			WithNodeID(1),
			WithAllocator(nodePerShard{}),
			WithExtractor(extractor),
			WithTransport(transport),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding1.Stop(ctx) })

		sharding2, err := Start(ctx, node2.rc, factory,
			WithNodeID(2),
			WithCoordinator(sharding1.Coordinator()),
			WithExtractor(extractor),
			WithTransport(transport),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding2.Stop(ctx) })

		// hosted locally
		_, err = sharding1.Get("leon", &testRecipe{Name: "leon"}).Send(ctx, new(getStatus))
		require.ErrorIs(t, err, gerrors.ErrEntityCreation)

		// hosted by node 2
		_, err = sharding1.Get("mia", &testRecipe{Name: "mia"}).Send(ctx, new(getStatus))
		require.ErrorIs(t, err, gerrors.ErrEntityCreation)
		assert.NotErrorIs(t, err, gerrors.ErrActorUnavailable)
		assert.Contains(t, err.Error(), "entity=mia")

		// both hosts survive and serve the entity once the factory recovers
		factory.fail.Store(false)
		actual, err := Ask[*status](ctx, sharding1.Get("mia", &testRecipe{Name: "mia"}), &setStatus{Status: "active"})
		require.NoError(t, err)
		assert.Equal(t, &status{Status: "active", Counter: 1}, actual)
	})
	t.Run("With remote node unreachable", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node1 := newTestNode(t, factory)
		node2 := newTestNode(t, factory)

		extractor := staticExtractor{"mia": 2}
		sharding1, err := Start(ctx, node1.rc, factory,
			WithNodeID(1),
			WithAllocator(nodePerShard{}),
			WithExtractor(extractor),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding1.Stop(ctx) })

		sharding2, err := Start(ctx, node2.rc, factory,
			WithNodeID(2),
			WithCoordinator(sharding1.Coordinator()),
			WithExtractor(extractor),
			WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sharding2.Stop(ctx) })

		_, err = sharding1.Get("mia", &testRecipe{Name: "mia"}).Send(ctx, new(getStatus))
		require.ErrorIs(t, err, gerrors.ErrNodeUnreachable)
	})
	t.Run("With assignments durable in a bolt journal", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		path := filepath.Join(t.TempDir(), "sharding.db")

		node := newTestNode(t, factory)
		journal := bolt.NewJournal(path)
		sharding, err := Start(ctx, node.rc, factory, WithJournal(journal), WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		entity := sharding.Get("leon", &testRecipe{Name: "leon"})
		_, err = entity.Send(ctx, &setStatus{Status: "active"})
		require.NoError(t, err)
		require.NoError(t, sharding.Stop(ctx))
		require.NoError(t, journal.Disconnect(ctx))

		// a fresh node recovers the assignment from the file alone
		restarted := newTestNode(t, factory)
		journal = bolt.NewJournal(path)
		sharding, err = Start(ctx, restarted.rc, factory, WithJournal(journal), WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = sharding.Stop(ctx)
			_ = journal.Disconnect(ctx)
		})

		reply, err := actor.Ask(ctx, sharding.Coordinator(), new(GetShardAssignments), askTimeout)
		require.NoError(t, err)
		assert.Equal(t, map[ShardID]NodeID{entity.ShardID(): 1}, reply.(*ShardAssignments).Assignments)
		assert.Equal(t, AlreadyAllocated(1), allocate(t, sharding.Coordinator(), entity.ShardID()))
	})
	t.Run("With invalid configuration", func(t *testing.T) {
		ctx := context.Background()
		factory := new(testFactory)
		node := newTestNode(t, factory)

		_, err := Start(ctx, nil, factory)
		require.Error(t, err)

		_, err = Start(ctx, node.rc, factory, WithShardCount(0), WithLogger(log.DiscardLogger))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shard count must be greater than zero")
	})
}
