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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/goshard/actor"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/persistence"
	"github.com/tochemey/goshard/persistence/memory"
	"github.com/tochemey/goshard/remote"
)

const (
	setStatusHandler = "entity.set-status"
	getStatusHandler = "entity.get-status"
)

type setStatus struct {
	Status string
}

type getStatus struct{}

type status struct {
	Status  string
	Counter int
}

// testEntity records the last status it was given
type testEntity struct {
	name    string
	status  string
	counter int
}

func (x *testEntity) PreStart(context.Context) error { return nil }

func (x *testEntity) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *setStatus:
		x.status = msg.Status
		x.counter++
		ctx.Response(&status{Status: x.status, Counter: x.counter})
	case *getStatus:
		ctx.Response(&status{Status: x.status, Counter: x.counter})
	default:
		ctx.Unhandled()
	}
}

func (x *testEntity) PostStop(context.Context) error { return nil }

// testRecipe carries the name of the entity
type testRecipe struct {
	Name string
}

func (r *testRecipe) MarshalBinary() ([]byte, error) {
	return []byte(r.Name), nil
}

// testFactory counts the entities it creates
type testFactory struct {
	created atomic.Int32
	fail    atomic.Bool
}

var _ ActorFactory = (*testFactory)(nil)

func (f *testFactory) Kind() string {
	return actor.KindOf[*testEntity]()
}

func (f *testFactory) ReadRecipe(data []byte) (ActorRecipe, error) {
	return &testRecipe{Name: string(data)}, nil
}

func (f *testFactory) Create(_ context.Context, recipe ActorRecipe) (actor.Actor, error) {
	if f.fail.Load() {
		return nil, errors.New("factory is failing")
	}
	f.created.Inc()
	return &testEntity{name: recipe.(*testRecipe).Name}, nil
}

// failingJournal fails every append while failing is set
type failingJournal struct {
	*memory.Journal
	failing atomic.Bool
}

func newFailingJournal() *failingJournal {
	return &failingJournal{Journal: memory.NewJournal()}
}

func (j *failingJournal) Append(ctx context.Context, event *persistence.Event) error {
	if j.failing.Load() {
		return errors.New("journal is failing")
	}
	return j.Journal.Append(ctx, event)
}

// nodePerShard assigns shard n to node n when that node is known
type nodePerShard struct{}

func (nodePerShard) Allocate(shardID ShardID, hosts []*ShardHostState) (NodeID, bool) {
	for _, host := range hosts {
		if host.NodeID == NodeID(shardID) {
			return host.NodeID, true
		}
	}
	return LowestNodeAllocator{}.Allocate(shardID, hosts)
}

// staticExtractor maps entity identifiers to shards
type staticExtractor map[string]ShardID

func (x staticExtractor) ShardOf(entityID string) ShardID {
	return x[entityID]
}

// testNode is one node of a test cluster
type testNode struct {
	system actor.ActorSystem
	rc     *remote.Context
}

func newTestNode(t *testing.T, factory *testFactory) *testNode {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("test", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))

	rc, err := remote.NewContextBuilder().
		WithHandlers(
			HostHandler(factory),
			remote.NewHandler[*testEntity, *setStatus](setStatusHandler),
			remote.NewHandler[*testEntity, *getStatus](getStatusHandler),
		).
		WithActorSystem(system).
		WithLogger(log.DiscardLogger).
		Build(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = rc.Stop(ctx)
		_ = system.Stop(ctx)
	})
	return &testNode{system: system, rc: rc}
}

// spawnHost spawns a shard host under the given name
func (n *testNode) spawnHost(t *testing.T, name string, factory *testFactory) *actor.PID {
	t.Helper()
	host, err := NewShardHost(factory, n.rc, WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	pid, err := n.system.Spawn(context.Background(), name, host)
	require.NoError(t, err)
	return pid
}

// spawnCoordinator spawns a shard coordinator aware of the given hosts
func (n *testNode) spawnCoordinator(t *testing.T, kind string, journal persistence.Journal, hosts []ShardHostState, opts ...Option) *actor.PID {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	coordinator, err := NewShardCoordinator(kind, journal, opts...)
	require.NoError(t, err)
	for _, host := range hosts {
		coordinator.AddHost(host)
	}
	pid, err := n.system.Spawn(context.Background(), coordinatorName(kind), coordinator)
	require.NoError(t, err)
	return pid
}
