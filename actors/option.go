// MIT License
//
// Copyright (c) 2026 Troupe Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actors

import (
	"time"

	"github.com/troupe-io/troupe/log"
)

const (
	// DefaultInitMaxRetries is the default number of PreStart attempts.
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout is the default time budget of the PreStart retrier.
	DefaultInitTimeout = time.Second
	// DefaultShutdownTimeout is the default time budget of a graceful shutdown.
	DefaultShutdownTimeout = 2 * time.Second
)

// Option defines the various options to apply to a given actor system
type Option func(*actorSystem)

// WithLogger sets the actor system custom logger
func WithLogger(logger log.Logger) Option {
	return func(system *actorSystem) {
		system.logger = logger
	}
}

// WithShutdownTimeout sets the default graceful shutdown budget of the actors
// spawned by the system.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(system *actorSystem) {
		system.shutdownTimeout = timeout
	}
}

// SpawnOption defines the various options to apply when spawning an actor
type SpawnOption func(*spawnConfig)

// spawnConfig captures the per-actor settings resolved at spawn time.
type spawnConfig struct {
	mailbox         Mailbox
	initMaxRetries  int
	initTimeout     time.Duration
	shutdownTimeout time.Duration
}

// newSpawnConfig resolves the spawn settings from the system defaults and
// the given options.
func newSpawnConfig(system *actorSystem, opts ...SpawnOption) *spawnConfig {
	config := &spawnConfig{
		mailbox:         NewUnboundedMailbox(),
		initMaxRetries:  DefaultInitMaxRetries,
		initTimeout:     DefaultInitTimeout,
		shutdownTimeout: system.shutdownTimeout,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithMailbox sets the mailbox of the actor. The default is an unbounded
// MPSC mailbox; pass a BoundedMailbox to cap the actor backlog.
func WithMailbox(mailbox Mailbox) SpawnOption {
	return func(config *spawnConfig) {
		config.mailbox = mailbox
	}
}

// WithInitMaxRetries sets the number of times PreStart is attempted before
// the spawn fails with ErrInitFailure.
func WithInitMaxRetries(maxRetries int) SpawnOption {
	return func(config *spawnConfig) {
		config.initMaxRetries = maxRetries
	}
}

// WithInitTimeout sets the time budget of the PreStart retrier.
func WithInitTimeout(timeout time.Duration) SpawnOption {
	return func(config *spawnConfig) {
		config.initTimeout = timeout
	}
}

// WithActorShutdownTimeout sets the graceful shutdown budget of the actor,
// overriding the system default.
func WithActorShutdownTimeout(timeout time.Duration) SpawnOption {
	return func(config *spawnConfig) {
		config.shutdownTimeout = timeout
	}
}
