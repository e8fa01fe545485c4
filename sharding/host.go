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
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/multierr"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/remote"
)

// hostedEntity is an entity living on a shard host
type hostedEntity struct {
	pid     *actor.PID
	shardID ShardID
}

// ShardHost hosts the entities of a kind on a node. Entities are created
// lazily from their recipe on the first request addressed to them, and a given
// entity is never created twice on the same host.
//
// The host state is only touched from Receive.
type ShardHost struct {
	kind     string
	factory  ActorFactory
	rc       *remote.Context
	logger   log.Logger
	metrics  *metrics
	entities map[string]*hostedEntity
	shards   mapset.Set[ShardID]
}

// enforce compilation error
var _ actor.Actor = (*ShardHost)(nil)

// NewShardHost creates the shard host of the kind served by the factory.
// Entities are spawned in the actor system of the given remote context and
// reached through it.
func NewShardHost(factory ActorFactory, rc *remote.Context, opts ...Option) (*ShardHost, error) {
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if factory == nil || rc == nil {
		return nil, fmt.Errorf("sharding: factory and remote context are required")
	}

	metrics, err := newMetrics(cfg.meter)
	if err != nil {
		return nil, err
	}

	return &ShardHost{
		kind:    factory.Kind(),
		factory: factory,
		rc:      rc,
		logger:  cfg.logger.With("kind", factory.Kind()),
		metrics: metrics,
	}, nil
}

// PreStart resets the host state
func (x *ShardHost) PreStart(context.Context) error {
	x.entities = make(map[string]*hostedEntity)
	x.shards = mapset.NewThreadUnsafeSet[ShardID]()
	return nil
}

// Receive handles the messages sent to the host
func (x *ShardHost) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *EntityRequest:
		x.handleEntityRequest(ctx, msg)
	case *StartEntity:
		if _, err := x.ensureEntity(ctx.Context(), msg.EntityID, msg.ShardID, msg.Recipe); err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(&HostStats{HostedShards: x.hostedShards(), Entities: len(x.entities)})
	case *StopEntity:
		x.stopEntity(ctx.Context(), msg.EntityID)
		ctx.Response(&HostStats{HostedShards: x.hostedShards(), Entities: len(x.entities)})
	case *ShardAllocated:
		x.shards.Add(msg.ShardID)
		x.logger.Debugf("shard=(%d) allocated to host", msg.ShardID)
	case *ShardsReleased:
		x.releaseShards(ctx.Context(), msg.ShardIDs)
	case *GetStats:
		ctx.Response(&HostStats{HostedShards: x.hostedShards(), Entities: len(x.entities)})
	default:
		ctx.Unhandled()
	}
}

// PostStop stops every entity of the host
func (x *ShardHost) PostStop(ctx context.Context) error {
	var err error
	for entityID, entity := range x.entities {
		if stopErr := entity.pid.Stop(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to stop entity=(%s): %w", entityID, stopErr))
		}
	}
	x.metrics.recordEntities(ctx, x.kind, -len(x.entities))
	clear(x.entities)
	return err
}

func (x *ShardHost) handleEntityRequest(ctx *actor.ReceiveContext, request *EntityRequest) {
	pid, err := x.ensureEntity(ctx.Context(), request.EntityID, request.ShardID, request.Recipe)
	if err != nil {
		ctx.Err(err)
		return
	}

	payload, err := x.rc.Handle(ctx.Context(), request.HandlerType, pid.ID(), request.Message)
	if err != nil {
		ctx.Err(err)
		return
	}

	ctx.Response(&EntityResponse{Payload: payload})
}

// ensureEntity returns the live entity with the given identifier, creating it from the recipe when needed
func (x *ShardHost) ensureEntity(ctx context.Context, entityID string, shardID ShardID, recipe []byte) (*actor.PID, error) {
	if entity, ok := x.entities[entityID]; ok {
		if entity.pid.IsRunning() {
			return entity.pid, nil
		}
		// the entity was stopped behind the host back
		delete(x.entities, entityID)
		x.metrics.recordEntities(ctx, x.kind, -1)
	}

	if len(recipe) == 0 {
		return nil, gerrors.NewErrEntityCreation(entityID, fmt.Errorf("no recipe provided"))
	}

	decoded, err := x.factory.ReadRecipe(recipe)
	if err != nil {
		return nil, gerrors.NewErrEntityCreation(entityID, err)
	}

	entity, err := x.factory.Create(ctx, decoded)
	if err != nil {
		return nil, gerrors.NewErrEntityCreation(entityID, err)
	}

	pid, err := x.rc.ActorSystem().Spawn(ctx, entityName(x.kind, entityID), entity)
	if err != nil {
		return nil, gerrors.NewErrEntityCreation(entityID, err)
	}

	x.entities[entityID] = &hostedEntity{pid: pid, shardID: shardID}
	x.shards.Add(shardID)
	x.metrics.recordEntities(ctx, x.kind, 1)
	x.logger.Debugf("entity=(%s) of shard=(%d) started", entityID, shardID)
	return pid, nil
}

func (x *ShardHost) stopEntity(ctx context.Context, entityID string) {
	entity, ok := x.entities[entityID]
	if !ok {
		return
	}

	delete(x.entities, entityID)
	x.metrics.recordEntities(ctx, x.kind, -1)
	if err := entity.pid.Stop(ctx); err != nil {
		x.logger.Warnf("failed to stop entity=(%s): %v", entityID, err)
	}
}

// releaseShards stops the entities of the given shards and forgets the shards
func (x *ShardHost) releaseShards(ctx context.Context, shardIDs []ShardID) {
	for _, shardID := range shardIDs {
		x.shards.Remove(shardID)
	}
	for entityID, entity := range x.entities {
		if slices.Contains(shardIDs, entity.shardID) {
			x.stopEntity(ctx, entityID)
		}
	}
	x.logger.Infof("%d shard(s) released, %d entities left", len(shardIDs), len(x.entities))
}

func (x *ShardHost) hostedShards() []ShardID {
	shards := x.shards.ToSlice()
	slices.Sort(shards)
	return shards
}

// hostName returns the actor name of the shard host of the given kind
func hostName(kind string) string {
	return "shard-host/" + kind
}

// entityName returns the actor name of an entity
func entityName(kind, entityID string) string {
	return fmt.Sprintf("entity/%s/%s", kind, entityID)
}

// HostHandlerID returns the remote handler identifier of the entity requests of the given kind
func HostHandlerID(kind string) string {
	return "sharding.entity-request/" + kind
}

// HostHandler returns the remote handler every node must register to serve
// the entity requests of the kind created by the factory
func HostHandler(factory ActorFactory) remote.Registration {
	return remote.NewHandler[*ShardHost, *EntityRequest](HostHandlerID(factory.Kind()))
}
