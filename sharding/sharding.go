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
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/internal/types"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/persistence"
	"github.com/tochemey/goshard/persistence/memory"
	"github.com/tochemey/goshard/remote"
)

// Sharding is the per-node entry point of the entities of a kind.
//
// It runs the local shard host and either runs the coordinator of the kind
// or joins an existing one. Entities are reached through Get, whatever the
// node that hosts them.
type Sharding struct {
	kind            string
	nodeID          NodeID
	nodeTag         string
	rc              *remote.Context
	host            *actor.PID
	coordinator     *actor.PID
	ownsCoordinator bool
	journal         persistence.Journal
	ownsJournal     bool
	extractor       ShardExtractor
	transport       remote.Transport
	askTimeout      time.Duration
	logger          log.Logger
}

// Start starts sharding of the kind served by the factory on the node of the given remote context.
//
// The remote context must have been built with HostHandler(factory) and with
// the remote handlers of the messages sent to the entities.
func Start(ctx context.Context, rc *remote.Context, factory ActorFactory, opts ...Option) (*Sharding, error) {
	if rc == nil || factory == nil {
		return nil, errors.New("sharding: remote context and factory are required")
	}

	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	kind := factory.Kind()
	logger := cfg.logger.With("kind", kind, "node", cfg.nodeID)

	host, err := NewShardHost(factory, rc, opts...)
	if err != nil {
		return nil, err
	}

	system := rc.ActorSystem()
	hostPID, err := system.Spawn(ctx, hostName(kind), host)
	if err != nil {
		return nil, err
	}

	state := ShardHostState{
		NodeID:  cfg.nodeID,
		NodeTag: cfg.nodeTag,
		Host:    hostPID,
	}

	sharding := &Sharding{
		kind:       kind,
		nodeID:     cfg.nodeID,
		nodeTag:    cfg.nodeTag,
		rc:         rc,
		host:       hostPID,
		extractor:  cfg.extractor,
		transport:  cfg.transport,
		askTimeout: cfg.askTimeout,
		logger:     logger,
	}

	if cfg.coordinator != nil {
		if _, err := actor.Ask(ctx, cfg.coordinator, &AddHost{State: state}, cfg.askTimeout); err != nil {
			return nil, multierr.Append(fmt.Errorf("sharding: failed to join the coordinator: %w", err), hostPID.Stop(ctx))
		}
		sharding.coordinator = cfg.coordinator
		logger.Infof("sharding started, joined coordinator=(%s)", cfg.coordinator)
		return sharding, nil
	}

	journal := cfg.journal
	if journal == nil {
		journal = memory.NewJournal()
		sharding.ownsJournal = true
	}

	coordinator, err := NewShardCoordinator(kind, journal, opts...)
	if err != nil {
		return nil, multierr.Append(err, hostPID.Stop(ctx))
	}
	coordinator.AddHost(state)

	coordinatorPID, err := system.Spawn(ctx, coordinatorName(kind), coordinator)
	if err != nil {
		return nil, multierr.Append(err, hostPID.Stop(ctx))
	}

	sharding.coordinator = coordinatorPID
	sharding.ownsCoordinator = true
	sharding.journal = journal
	logger.Infof("sharding started with a local coordinator")
	return sharding, nil
}

// Kind returns the kind of the entities
func (s *Sharding) Kind() string {
	return s.kind
}

// NodeID returns the identifier of the local node
func (s *Sharding) NodeID() NodeID {
	return s.nodeID
}

// Host returns the local shard host
func (s *Sharding) Host() *actor.PID {
	return s.host
}

// Coordinator returns the shard coordinator of the kind
func (s *Sharding) Coordinator() *actor.PID {
	return s.coordinator
}

// Get returns a reference to the entity with the given identifier.
// The recipe is used to create the entity when it does not exist yet; it can be nil
// when the entity is known to exist.
func (s *Sharding) Get(entityID string, recipe ActorRecipe) *Entity {
	return &Entity{sharding: s, id: entityID, recipe: recipe}
}

// Stop stops the local shard host. When the coordinator was started by this
// node it is stopped as well, otherwise the node leaves it.
func (s *Sharding) Stop(ctx context.Context) error {
	var err error
	if s.ownsCoordinator {
		err = multierr.Append(err, s.coordinator.Stop(ctx))
		if s.ownsJournal {
			err = multierr.Append(err, s.journal.Disconnect(ctx))
		}
	} else if _, leaveErr := actor.Ask(ctx, s.coordinator, &RemoveHost{NodeID: s.nodeID}, s.askTimeout); leaveErr != nil {
		s.logger.Warnf("failed to leave the coordinator: %v", leaveErr)
	}

	err = multierr.Append(err, s.host.Stop(ctx))
	s.logger.Infof("sharding stopped")
	return err
}

// Entity is a reference to a sharded entity. It routes the messages to the
// node that hosts the shard of the entity.
type Entity struct {
	sharding *Sharding
	id       string
	recipe   ActorRecipe
}

// ID returns the entity identifier
func (e *Entity) ID() string {
	return e.id
}

// ShardID returns the shard the entity belongs to
func (e *Entity) ShardID() ShardID {
	return e.sharding.extractor.ShardOf(e.id)
}

// Send delivers the message to the entity and returns its serialized reply
func (e *Entity) Send(ctx context.Context, message any) ([]byte, error) {
	s := e.sharding
	shardID := e.ShardID()

	reply, err := actor.Ask(ctx, s.coordinator, &AllocateShard{ShardID: shardID}, s.askTimeout)
	if err != nil {
		return nil, fmt.Errorf("sharding: failed to allocate shard=(%d): %w", shardID, err)
	}

	nodeID, ok := reply.(*AllocateShardResult).Node()
	if !ok {
		return nil, fmt.Errorf("(shard=%d) %w", shardID, gerrors.ErrShardAllocationFailed)
	}

	request, err := e.request(ctx, shardID, message)
	if err != nil {
		return nil, err
	}

	if nodeID == s.nodeID {
		reply, err := actor.Ask(ctx, s.host, request, s.askTimeout)
		if err != nil {
			return nil, err
		}
		return reply.(*EntityResponse).Payload, nil
	}

	return e.sendRemote(ctx, nodeID, request)
}

// request builds the entity request carrying the given message
func (e *Entity) request(ctx context.Context, shardID ShardID, message any) (*EntityRequest, error) {
	s := e.sharding
	messageType := types.Name(message)
	handlerType, ok := s.rc.HandlerName(ctx, s.kind, messageType)
	if !ok {
		return nil, gerrors.NewErrHandlerNotRegistered(s.kind, messageType)
	}

	payload, err := s.rc.Serializer().Marshal(message)
	if err != nil {
		return nil, err
	}

	request := &EntityRequest{
		EntityID:    e.id,
		ShardID:     shardID,
		HandlerType: handlerType,
		Message:     payload,
	}

	if e.recipe != nil {
		if request.Recipe, err = e.recipe.MarshalBinary(); err != nil {
			return nil, gerrors.NewErrEntityCreation(e.id, err)
		}
	}
	return request, nil
}

// sendRemote forwards the entity request to the shard host of another node
func (e *Entity) sendRemote(ctx context.Context, nodeID NodeID, request *EntityRequest) ([]byte, error) {
	s := e.sharding
	if s.transport == nil {
		return nil, gerrors.NewErrNodeUnreachable(nodeID)
	}

	reply, err := actor.Ask(ctx, s.coordinator, &GetHost{NodeID: nodeID}, s.askTimeout)
	if err != nil {
		return nil, err
	}
	ref := reply.(*HostRef)

	payload, err := s.rc.Serializer().Marshal(request)
	if err != nil {
		return nil, err
	}

	out, err := s.transport.Send(ctx, nodeID, &remote.Envelope{
		ActorID:     ref.HostID,
		HandlerType: HostHandlerID(s.kind),
		Message:     payload,
	})
	if err != nil {
		return nil, err
	}

	response := new(EntityResponse)
	if err := s.rc.Serializer().Unmarshal(out, response); err != nil {
		return nil, err
	}
	return response.Payload, nil
}

// Ask sends the message to the entity and decodes its reply into R
func Ask[R any](ctx context.Context, entity *Entity, message any) (R, error) {
	var reply R
	payload, err := entity.Send(ctx, message)
	if err != nil {
		return reply, err
	}

	if err := entity.sharding.rc.Serializer().Unmarshal(payload, &reply); err != nil {
		return reply, err
	}
	return reply, nil
}
