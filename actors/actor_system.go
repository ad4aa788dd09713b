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
	"context"
	"regexp"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/eventstream"
	"github.com/troupe-io/troupe/internal/xsync"
	"github.com/troupe-io/troupe/log"
	"github.com/troupe-io/troupe/supervisor"
)

// systemNamePattern matches a valid actor system or actor name.
var systemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_/]*$`)

// ActorSystem defines the contract of the actor system. The actor system is
// the entry point of the runtime: it spawns actors and supervisors, owns the
// process-wide name registry and the lifecycle event stream.
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// Logger returns the logger used by the actor system
	Logger() log.Logger
	// Start starts the actor system
	Start(ctx context.Context) error
	// Stop stops the actor system and shuts down every running actor
	Stop(ctx context.Context) error
	// Running returns true when the actor system has been started
	Running() bool
	// Spawn creates and starts an actor from the given factory. The name is
	// optional: when non-empty it is registered in the name registry and must
	// be unique among live actors.
	Spawn(ctx context.Context, name string, factory func() Actor, opts ...SpawnOption) (*PID, error)
	// SpawnSupervisor creates a supervision tree from the given config and
	// ordered child specs. Children are started in the listed order; when any
	// child fails to start, the already-started siblings are torn down in
	// reverse order and the whole start fails.
	SpawnSupervisor(ctx context.Context, name string, config *supervisor.Config, specs ...*ChildSpec) (*SupervisorRef, error)
	// Register binds the given name to the given actor handle. It fails with
	// ErrNameTaken when the name already resolves to a live actor. The
	// binding is removed automatically when the actor terminates.
	Register(name string, pid *PID) error
	// Resolve returns the live actor handle registered under the given name.
	Resolve(name string) (*PID, bool)
	// Deregister removes the given name from the registry.
	Deregister(name string)
	// Actors returns the handles of the actors currently alive in the system
	Actors() []*PID
	// NumActors returns the number of actors currently alive in the system
	NumActors() int
	// EventStream returns the stream carrying lifecycle and deadletter events
	EventStream() eventstream.Stream
}

// actorSystem is the default ActorSystem implementation
type actorSystem struct {
	name   string
	logger log.Logger

	started *atomic.Bool

	actors *xsync.Map[string, *PID]
	names  *xsync.Map[string, *PID]
	events eventstream.Stream

	shutdownTimeout time.Duration
}

// enforce compilation error
var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an instance of ActorSystem with the given name and
// options. The name must contain only word characters plus non-leading
// hyphens or underscores.
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	if name == "" {
		return nil, errors.ErrInvalidActorSystemName
	}
	if !systemNamePattern.MatchString(name) {
		return nil, errors.ErrInvalidActorSystemName
	}

	system := &actorSystem{
		name:            name,
		logger:          log.DefaultLogger,
		started:         atomic.NewBool(false),
		actors:          xsync.NewMap[string, *PID](),
		names:           xsync.NewMap[string, *PID](),
		events:          eventstream.New(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(system)
	}
	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// Logger returns the logger used by the actor system
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// Running returns true when the actor system has been started
func (x *actorSystem) Running() bool {
	return x.started.Load()
}

// EventStream returns the stream carrying lifecycle and deadletter events
func (x *actorSystem) EventStream() eventstream.Stream {
	return x.events
}

// Start starts the actor system
func (x *actorSystem) Start(_ context.Context) error {
	if !x.started.CompareAndSwap(false, true) {
		return errors.ErrActorSystemAlreadyStarted
	}
	x.logger.Infof("%s actor system started", x.name)
	return nil
}

// Stop stops the actor system. Every running actor is shut down; shutdown
// failures are aggregated and returned once all actors have been handled.
func (x *actorSystem) Stop(ctx context.Context) error {
	if !x.started.CompareAndSwap(true, false) {
		return errors.ErrActorSystemNotStarted
	}

	pids := x.actors.Values()
	eg, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var combined error
	for _, pid := range pids {
		pid := pid
		eg.Go(func() error {
			if err := pid.Shutdown(ctx); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	x.events.Close()
	x.actors.Reset()
	x.names.Reset()
	x.logger.Infof("%s actor system stopped", x.name)
	return combined
}

// Spawn creates and starts an actor from the given factory
func (x *actorSystem) Spawn(ctx context.Context, name string, factory func() Actor, opts ...SpawnOption) (*PID, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	if name != "" && !systemNamePattern.MatchString(name) {
		return nil, errors.ErrInvalidActorSystemName
	}
	if name != "" {
		if _, taken := x.names.Get(name); taken {
			return nil, errors.ErrNameTaken
		}
	}

	config := newSpawnConfig(x, opts...)
	pid, err := newPID(ctx, name, factory(), config, x)
	if err != nil {
		return nil, err
	}

	if name != "" {
		if err := x.Register(name, pid); err != nil {
			_ = pid.Shutdown(ctx)
			return nil, err
		}
	}

	x.actors.Set(pid.ID(), pid)
	x.events.Publish(LifecycleTopic, &ActorStarted{Actor: pid, StartedAt: time.Now()})
	x.logger.Debugf("actor=(%s) started", pid.Name())
	return pid, nil
}

// Register binds the given name to the given actor handle
func (x *actorSystem) Register(name string, pid *PID) error {
	if !x.names.SetIfAbsent(name, pid) {
		return errors.ErrNameTaken
	}
	return nil
}

// Resolve returns the live actor handle registered under the given name
func (x *actorSystem) Resolve(name string) (*PID, bool) {
	return x.names.Get(name)
}

// Deregister removes the given name from the registry
func (x *actorSystem) Deregister(name string) {
	x.names.Delete(name)
}

// Actors returns the handles of the actors currently alive in the system
func (x *actorSystem) Actors() []*PID {
	return x.actors.Values()
}

// NumActors returns the number of actors currently alive in the system
func (x *actorSystem) NumActors() int {
	return x.actors.Len()
}

// handleTermination garbage-collects the bookkeeping of a terminated actor:
// the live-actor table, the name registry entry and the lifecycle event.
func (x *actorSystem) handleTermination(pid *PID, reason error) {
	x.actors.Delete(pid.ID())
	if registered, ok := x.names.Get(pid.Name()); ok && registered.ID() == pid.ID() {
		x.names.Delete(pid.Name())
	}

	now := time.Now()
	if reason != nil {
		x.logger.Warnf("actor=(%s) terminated abnormally: %v", pid.Name(), reason)
		x.events.Publish(LifecycleTopic, &ActorFaulted{Actor: pid, Err: reason, FaultedAt: now})
		return
	}
	x.logger.Debugf("actor=(%s) stopped", pid.Name())
	x.events.Publish(LifecycleTopic, &ActorStopped{Actor: pid, StoppedAt: now})
}

// publishDeadletter pushes a dropped message to the deadletters topic.
func (x *actorSystem) publishDeadletter(pid *PID, message any) {
	x.events.Publish(DeadlettersTopic, &Deadletter{Actor: pid, Message: message, At: time.Now()})
}
