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
	"sort"
	"time"

	"github.com/flowchartsman/retry"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/goshard/actor"
	gerrors "github.com/tochemey/goshard/errors"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/persistence"
	"github.com/tochemey/goshard/persistence/memory"
)

// maxRecoveryBackoff caps the delay between two polling attempts of a host
const maxRecoveryBackoff = 2 * time.Second

// ShardCoordinator owns the shard assignment table of a kind. It allocates
// every shard to exactly one known host and records each assignment in the
// journal before replying, so that a restarted coordinator rebuilds the same
// table.
//
// Recovery happens in PreStart, in two phases:
//  1. the journal stream of the kind is replayed; the journal is authoritative
//  2. every known host is polled for the shards it hosts; shards missing from
//     the journal are adopted and recorded, conflicting claims are logged
type ShardCoordinator struct {
	kind            string
	persistenceID   string
	journal         persistence.Journal
	allocator       Allocator
	logger          log.Logger
	metrics         *metrics
	askTimeout      time.Duration
	recoveryRetries int
	recoveryBackoff time.Duration

	hosts map[NodeID]*ShardHostState
	table map[ShardID]NodeID
	seqNr uint64
}

// enforce compilation error
var _ actor.Actor = (*ShardCoordinator)(nil)

// NewShardCoordinator creates the coordinator of the given kind recording its
// assignments in the given journal. A nil journal falls back to an in-memory one.
func NewShardCoordinator(kind string, journal persistence.Journal, opts ...Option) (*ShardCoordinator, error) {
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if journal == nil {
		journal = memory.NewJournal()
	}

	metrics, err := newMetrics(cfg.meter)
	if err != nil {
		return nil, err
	}

	return &ShardCoordinator{
		kind:            kind,
		persistenceID:   persistenceID(kind),
		journal:         journal,
		allocator:       cfg.allocator,
		logger:          cfg.logger.With("kind", kind),
		metrics:         metrics,
		askTimeout:      cfg.askTimeout,
		recoveryRetries: cfg.recoveryRetries,
		recoveryBackoff: cfg.recoveryBackoff,
		hosts:           make(map[NodeID]*ShardHostState),
		table:           make(map[ShardID]NodeID),
	}, nil
}

// AddHost registers a host before the coordinator is spawned.
// Adding a node twice updates its tag and host actor.
func (x *ShardCoordinator) AddHost(state ShardHostState) {
	x.addHost(state)
}

// PreStart recovers the assignment table
func (x *ShardCoordinator) PreStart(ctx context.Context) error {
	if err := x.journal.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect the journal: %w", err)
	}

	replayed, err := x.replay(ctx)
	if err != nil {
		return err
	}

	adopted := x.reconcile(ctx)
	x.metrics.recordRecovered(ctx, x.kind, replayed+adopted)
	x.logger.Infof("shard coordinator started with %d shard(s) recovered from the journal and %d adopted from the hosts", replayed, adopted)
	return nil
}

// Receive handles the messages sent to the coordinator
func (x *ShardCoordinator) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *AllocateShard:
		result := x.allocate(ctx.Context(), msg.ShardID)
		x.metrics.recordAllocation(ctx.Context(), x.kind, result.Status)
		ctx.Response(result)
	case *AddHost:
		state := x.addHost(msg.State)
		ctx.Response(toHostRef(state))
	case *RemoveHost:
		state, ok := x.hosts[msg.NodeID]
		if !ok {
			ctx.Err(gerrors.ErrHostNotFound)
			return
		}
		delete(x.hosts, msg.NodeID)
		released := x.shardsOf(msg.NodeID)
		x.release(ctx.Context(), state, released)
		x.logger.Infof("host of node=(%d) removed, its %d shard(s) will be reallocated", msg.NodeID, len(released))
		ctx.Response(toHostRef(state))
	case *GetShardAssignments:
		assignments := make(map[ShardID]NodeID, len(x.table))
		for shardID, nodeID := range x.table {
			assignments[shardID] = nodeID
		}
		ctx.Response(&ShardAssignments{Assignments: assignments})
	case *GetHost:
		state, ok := x.hosts[msg.NodeID]
		if !ok {
			ctx.Err(fmt.Errorf("(node=%d) %w", msg.NodeID, gerrors.ErrHostNotFound))
			return
		}
		ctx.Response(toHostRef(state))
	default:
		ctx.Unhandled()
	}
}

// PostStop is a no-op; the journal is owned by the caller
func (x *ShardCoordinator) PostStop(context.Context) error {
	x.logger.Infof("shard coordinator stopped")
	return nil
}

// release tells a removed host to stop the entities of the shards it lost.
// A host already stopped has nothing to release.
func (x *ShardCoordinator) release(ctx context.Context, state *ShardHostState, shards []ShardID) {
	if len(shards) == 0 || !state.Host.IsRunning() {
		return
	}
	if err := actor.Tell(ctx, state.Host, &ShardsReleased{ShardIDs: shards}); err != nil {
		x.logger.Debugf("failed to release %d shard(s) of node=(%d): %v", len(shards), state.NodeID, err)
	}
}

func (x *ShardCoordinator) allocate(ctx context.Context, shardID ShardID) *AllocateShardResult {
	if nodeID, ok := x.table[shardID]; ok {
		if _, known := x.hosts[nodeID]; known {
			return AlreadyAllocated(nodeID)
		}
		x.logger.Infof("shard=(%d) owner node=(%d) is gone, reallocating", shardID, nodeID)
		return x.assign(ctx, shardID, nodeID, manifestShardReallocated)
	}
	return x.assign(ctx, shardID, 0, manifestShardAllocated)
}

// assign picks a host for the shard, records the assignment and informs the host
func (x *ShardCoordinator) assign(ctx context.Context, shardID ShardID, previous NodeID, manifest string) *AllocateShardResult {
	nodeID, ok := x.allocator.Allocate(shardID, x.hostList())
	if !ok {
		x.logger.Warnf("no host available for shard=(%d)", shardID)
		return Failed()
	}

	host, ok := x.hosts[nodeID]
	if !ok {
		x.logger.Errorf("allocator picked unknown node=(%d) for shard=(%d)", nodeID, shardID)
		return Failed()
	}

	if err := x.persist(ctx, manifest, &allocationEvent{ShardID: shardID, NodeID: nodeID, PreviousNodeID: previous}); err != nil {
		x.logger.Errorf("failed to record the allocation of shard=(%d) to node=(%d): %v", shardID, nodeID, err)
		return Failed()
	}

	x.table[shardID] = nodeID
	host.Shards = append(host.Shards, shardID)

	if host.Host != nil {
		if err := host.Host.Tell(ctx, &ShardAllocated{ShardID: shardID}); err != nil {
			x.logger.Warnf("failed to inform node=(%d) of shard=(%d) allocation: %v", nodeID, shardID, err)
		}
	}

	x.logger.Debugf("shard=(%d) allocated to node=(%d)", shardID, nodeID)
	return Allocated(nodeID)
}

// persist appends an event to the coordinator stream
func (x *ShardCoordinator) persist(ctx context.Context, manifest string, event *allocationEvent) error {
	payload, err := event.marshal()
	if err != nil {
		return err
	}

	seqNr := x.seqNr + 1
	if err := x.journal.Append(ctx, &persistence.Event{
		PersistenceID:  x.persistenceID,
		SequenceNumber: seqNr,
		Manifest:       manifest,
		Payload:        payload,
		Timestamp:      time.Now().UnixMilli(),
	}); err != nil {
		return err
	}

	x.seqNr = seqNr
	return nil
}

// replay rebuilds the assignment table from the journal
func (x *ShardCoordinator) replay(ctx context.Context) (int, error) {
	events, err := x.journal.Replay(ctx, x.persistenceID, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to replay the journal: %w", err)
	}

	for _, event := range events {
		decoded, err := unmarshalAllocationEvent(event.Payload)
		if err != nil {
			return 0, fmt.Errorf("failed to decode event=(%d): %w", event.SequenceNumber, err)
		}
		x.table[decoded.ShardID] = decoded.NodeID
		x.seqNr = event.SequenceNumber
	}

	x.refreshHostShards()
	return len(x.table), nil
}

// reconcile polls the known hosts and adopts the shards the journal does not know about
func (x *ShardCoordinator) reconcile(ctx context.Context) int {
	hosts := x.hostList()
	reports := make([]*HostStats, len(hosts))

	var eg errgroup.Group
	for index, host := range hosts {
		if host.Host == nil {
			continue
		}
		eg.Go(func() error {
			retrier := retry.NewRetrier(x.recoveryRetries, x.recoveryBackoff, maxRecoveryBackoff)
			return retrier.RunContext(ctx, func(ctx context.Context) error {
				reply, err := actor.Ask(ctx, host.Host, new(GetStats), x.askTimeout)
				if err != nil {
					return err
				}
				stats, ok := reply.(*HostStats)
				if !ok {
					return fmt.Errorf("unexpected reply=(%T) from node=(%d)", reply, host.NodeID)
				}
				reports[index] = stats
				return nil
			})
		})
	}

	if err := eg.Wait(); err != nil {
		x.logger.Warnf("failed to poll every host during recovery: %v", err)
	}

	adopted := 0
	for index, stats := range reports {
		if stats == nil {
			continue
		}

		nodeID := hosts[index].NodeID
		for _, shardID := range stats.HostedShards {
			owner, ok := x.table[shardID]
			switch {
			case ok && owner == nodeID:
			case ok:
				x.logger.Warnf("node=(%d) reports shard=(%d) recorded on node=(%d), keeping the recorded owner", nodeID, shardID, owner)
			default:
				if err := x.persist(ctx, manifestShardAllocated, &allocationEvent{ShardID: shardID, NodeID: nodeID}); err != nil {
					x.logger.Errorf("failed to record adopted shard=(%d) of node=(%d): %v", shardID, nodeID, err)
					continue
				}
				x.table[shardID] = nodeID
				adopted++
			}
		}
	}

	x.refreshHostShards()
	return adopted
}

func (x *ShardCoordinator) addHost(state ShardHostState) *ShardHostState {
	if existing, ok := x.hosts[state.NodeID]; ok {
		existing.NodeTag = state.NodeTag
		existing.Host = state.Host
		return existing
	}

	added := state.clone()
	added.Shards = x.shardsOf(state.NodeID)
	x.hosts[state.NodeID] = added
	x.logger.Infof("host of node=(%d) added", state.NodeID)
	return added
}

// hostList returns the known hosts ordered by node identifier
func (x *ShardCoordinator) hostList() []*ShardHostState {
	hosts := make([]*ShardHostState, 0, len(x.hosts))
	for _, host := range x.hosts {
		hosts = append(hosts, host)
	}
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].NodeID < hosts[j].NodeID
	})
	return hosts
}

func (x *ShardCoordinator) shardsOf(nodeID NodeID) []ShardID {
	var shards []ShardID
	for shardID, owner := range x.table {
		if owner == nodeID {
			shards = append(shards, shardID)
		}
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })
	return shards
}

func (x *ShardCoordinator) refreshHostShards() {
	for nodeID, host := range x.hosts {
		host.Shards = x.shardsOf(nodeID)
	}
}

func toHostRef(state *ShardHostState) *HostRef {
	ref := &HostRef{
		NodeID:  state.NodeID,
		NodeTag: state.NodeTag,
		Host:    state.Host,
	}
	if state.Host != nil {
		ref.HostID = state.Host.ID()
	}
	return ref
}

// coordinatorName returns the actor name of the coordinator of the given kind
func coordinatorName(kind string) string {
	return "shard-coordinator/" + kind
}
