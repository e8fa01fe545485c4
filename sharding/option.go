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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goshard/actor"
	"github.com/tochemey/goshard/internal/validation"
	"github.com/tochemey/goshard/log"
	"github.com/tochemey/goshard/persistence"
	"github.com/tochemey/goshard/remote"
)

const (
	// DefaultAskTimeout is the default time given to the coordinator and the hosts to reply
	DefaultAskTimeout = 5 * time.Second
	// DefaultRecoveryRetries is the default number of attempts made to poll a host during recovery
	DefaultRecoveryRetries = 3
	// DefaultRecoveryBackoff is the default initial delay between two polling attempts
	DefaultRecoveryBackoff = 100 * time.Millisecond

	instrumentationName = "github.com/tochemey/goshard/sharding"
)

// config holds the settings shared by the facade, the coordinator and the hosts
type config struct {
	shardCount      uint32
	nodeID          NodeID
	nodeTag         string
	journal         persistence.Journal
	allocator       Allocator
	extractor       ShardExtractor
	transport       remote.Transport
	coordinator     *actor.PID
	logger          log.Logger
	askTimeout      time.Duration
	meter           metric.Meter
	recoveryRetries int
	recoveryBackoff time.Duration
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		shardCount:      DefaultShardCount,
		nodeID:          1,
		allocator:       LowestNodeAllocator{},
		logger:          log.DefaultLogger,
		askTimeout:      DefaultAskTimeout,
		meter:           otel.GetMeterProvider().Meter(instrumentationName),
		recoveryRetries: DefaultRecoveryRetries,
		recoveryBackoff: DefaultRecoveryBackoff,
	}

	for _, opt := range opts {
		opt.Apply(cfg)
	}

	if cfg.extractor == nil {
		cfg.extractor = NewHashExtractor(nil, cfg.shardCount)
	}
	return cfg
}

func (c *config) validate() error {
	return validation.New(validation.AllErrors()).
		AddAssertion(c.shardCount > 0, "shard count must be greater than zero").
		AddAssertion(c.allocator != nil, "allocator is required").
		AddAssertion(c.logger != nil, "logger is required").
		AddAssertion(c.askTimeout > 0, "ask timeout must be greater than zero").
		AddAssertion(c.meter != nil, "meter is required").
		AddAssertion(c.recoveryRetries > 0, "recovery retries must be greater than zero").
		Validate()
}

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*config)

// Apply applies the option
func (f OptionFunc) Apply(c *config) {
	f(c)
}

// WithShardCount sets the number of shards of the kind
func WithShardCount(count uint32) Option {
	return OptionFunc(func(c *config) {
		c.shardCount = count
	})
}

// WithNodeID sets the identifier of the local node
func WithNodeID(nodeID NodeID) Option {
	return OptionFunc(func(c *config) {
		c.nodeID = nodeID
	})
}

// WithNodeTag sets the tag of the local node
func WithNodeTag(tag string) Option {
	return OptionFunc(func(c *config) {
		c.nodeTag = tag
	})
}

// WithJournal sets the journal the coordinator records its allocations in.
// An in-memory journal is used when none is set.
func WithJournal(journal persistence.Journal) Option {
	return OptionFunc(func(c *config) {
		c.journal = journal
	})
}

// WithAllocator sets the shard allocation strategy
func WithAllocator(allocator Allocator) Option {
	return OptionFunc(func(c *config) {
		c.allocator = allocator
	})
}

// WithExtractor sets the function mapping entities to shards
func WithExtractor(extractor ShardExtractor) Option {
	return OptionFunc(func(c *config) {
		c.extractor = extractor
	})
}

// WithTransport sets the transport used to reach the shard hosts of other nodes
func WithTransport(transport remote.Transport) Option {
	return OptionFunc(func(c *config) {
		c.transport = transport
	})
}

// WithCoordinator joins an existing shard coordinator instead of starting one
func WithCoordinator(coordinator *actor.PID) Option {
	return OptionFunc(func(c *config) {
		c.coordinator = coordinator
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *config) {
		c.logger = logger
	})
}

// WithAskTimeout sets the time given to the coordinator and the hosts to reply
func WithAskTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.askTimeout = timeout
	})
}

// WithMeter sets the OpenTelemetry meter used to record the sharding metrics
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(c *config) {
		c.meter = meter
	})
}

// WithRecovery sets how the coordinator polls the hosts after a restart
func WithRecovery(retries int, backoff time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.recoveryRetries = retries
		c.recoveryBackoff = backoff
	})
}
