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
	stderrors "errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/internal/future"
	"github.com/troupe-io/troupe/internal/types"
	"github.com/troupe-io/troupe/internal/xsync"
	"github.com/troupe-io/troupe/log"
)

// NoSender is the sender of messages originating outside the actor system.
var NoSender *PID

// DefaultAskTimeout is the suggested timeout for synchronous requests.
const DefaultAskTimeout = 5 * time.Second

// PID is the handle of a running actor. It is the only way to interact with
// the actor: messages are enqueued into the actor's mailbox through the
// handle and processed by the actor's single worker loop.
type PID struct {
	id    string
	name  string
	actor Actor

	mailbox Mailbox
	system  *actorSystem
	logger  log.Logger

	running  *atomic.Bool
	stopping *atomic.Bool

	processedCount *atomic.Uint64

	sigCh  chan types.Unit
	haltCh chan types.Unit
	doneCh chan types.Unit

	watchers *xsync.Map[string, *PID]

	shutdownTimeout time.Duration
}

// newPID creates the actor handle, runs the actor's PreStart hook and starts
// the worker loop. PreStart failures are retried according to the spawn
// config and surfaced wrapped in ErrInitFailure.
func newPID(ctx context.Context, name string, actor Actor, config *spawnConfig, system *actorSystem) (*PID, error) {
	id := uuid.NewString()
	if name == "" {
		name = id
	}

	pid := &PID{
		id:              id,
		name:            name,
		actor:           actor,
		mailbox:         config.mailbox,
		system:          system,
		logger:          system.logger,
		running:         atomic.NewBool(false),
		stopping:        atomic.NewBool(false),
		processedCount:  atomic.NewUint64(0),
		sigCh:           make(chan types.Unit, 1),
		haltCh:          make(chan types.Unit, 1),
		doneCh:          make(chan types.Unit),
		watchers:        xsync.NewMap[string, *PID](),
		shutdownTimeout: config.shutdownTimeout,
	}

	if err := pid.init(ctx, config); err != nil {
		return nil, err
	}

	pid.running.Store(true)
	go pid.receiveLoop()
	return pid, nil
}

// init runs the PreStart hook with the configured retrier.
func (pid *PID) init(ctx context.Context, config *spawnConfig) error {
	retrier := retry.NewRetrier(config.initMaxRetries, 100*time.Millisecond, config.initTimeout)
	if err := retrier.RunContext(ctx, pid.actor.PreStart); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInitFailure, err)
	}
	return nil
}

// ID returns the unique identifier of the actor
func (pid *PID) ID() string {
	return pid.id
}

// Name returns the name of the actor. When the actor was spawned without a
// name this is its unique identifier.
func (pid *PID) Name() string {
	return pid.name
}

// IsRunning returns true when the actor is alive and accepting messages.
func (pid *PID) IsRunning() bool {
	return pid.running.Load() && !pid.stopping.Load()
}

// MailboxSize returns the number of messages waiting in the actor mailbox.
func (pid *PID) MailboxSize() int64 {
	return pid.mailbox.Len()
}

// ProcessedCount returns the total number of messages processed by the actor.
func (pid *PID) ProcessedCount() uint64 {
	return pid.processedCount.Load()
}

// ActorSystem returns the actor system the actor belongs to.
func (pid *PID) ActorSystem() ActorSystem {
	return pid.system
}

// Watch registers the given actor as a monitor of this actor. When this
// actor terminates, the watcher receives a Terminated or Faulted signal as an
// ordinary mailbox message.
func (pid *PID) Watch(watcher *PID) {
	pid.watchers.Set(watcher.ID(), watcher)
}

// UnWatch removes the given actor from the monitors of this actor.
func (pid *PID) UnWatch(watcher *PID) {
	pid.watchers.Delete(watcher.ID())
}

// Tell sends an asynchronous message to the actor. It returns as soon as the
// message has been enqueued; there is no processing confirmation. It fails
// with ErrDead when the actor is not alive and with ErrFullMailbox when a
// bounded mailbox is at capacity.
func (pid *PID) Tell(ctx context.Context, message any) error {
	rc := &ReceiveContext{
		ctx:     ctx,
		message: message,
		sender:  NoSender,
		self:    pid,
	}
	return pid.doReceive(rc)
}

// Ask sends a synchronous message to the actor and blocks until the reply
// arrives or the timeout elapses. It fails with ErrDead when the actor is not
// alive, with ErrRequestTimeout when no reply arrives in time and with
// ErrInvalidTimeout when the timeout is not strictly positive.
//
// A timed-out Ask does not retract the message: the actor may still process
// it and attempt a reply, which is then discarded safely.
func (pid *PID) Ask(ctx context.Context, message any, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		return nil, errors.ErrInvalidTimeout
	}

	reply := future.New[any]()
	rc := &ReceiveContext{
		ctx:         ctx,
		message:     message,
		sender:      NoSender,
		self:        pid,
		synchronous: true,
		reply:       reply,
	}
	if err := pid.doReceive(rc); err != nil {
		return nil, err
	}

	response, err := reply.Await(ctx, timeout)
	if stderrors.Is(err, future.ErrTimeout) {
		return nil, errors.ErrRequestTimeout
	}
	return response, err
}

// Shutdown stops the actor gracefully: the mailbox stops accepting messages,
// pending messages are processed, the PostStop hook runs and the termination
// signal is delivered to the watchers. Shutdown is idempotent.
func (pid *PID) Shutdown(ctx context.Context) error {
	if !pid.running.Load() {
		// termination may still be in flight
		select {
		case <-pid.doneCh:
			return nil
		case <-time.After(pid.shutdownTimeout):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	pid.stopping.Store(true)
	select {
	case pid.haltCh <- types.Unit{}:
	default:
	}

	select {
	case <-pid.doneCh:
		return nil
	case <-time.After(pid.shutdownTimeout):
		return fmt.Errorf("actor=(%s) shutdown timed out", pid.name)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// doReceive enqueues the message and wakes the worker loop.
func (pid *PID) doReceive(rc *ReceiveContext) error {
	if !pid.IsRunning() {
		return errors.ErrDead
	}
	if err := pid.mailbox.Enqueue(rc); err != nil {
		return err
	}
	pid.schedule()
	return nil
}

// schedule signals the worker loop that the mailbox is non-empty. The signal
// channel carries at most one pending wakeup; the loop drains the mailbox
// completely on every wakeup.
func (pid *PID) schedule() {
	select {
	case pid.sigCh <- types.Unit{}:
	default:
	}
}

// receiveLoop is the actor's single worker loop. It parks until signaled,
// then processes the pending messages one at a time. It exits on a stop
// request, on a fault or on shutdown, after which the actor terminates.
func (pid *PID) receiveLoop() {
	for {
		select {
		case <-pid.haltCh:
			_, fault := pid.drain()
			pid.terminate(fault)
			return
		case <-pid.sigCh:
			stop, fault := pid.drain()
			if stop || fault != nil {
				pid.terminate(fault)
				return
			}
		}
	}
}

// drain processes every pending message. It reports whether the actor
// requested to stop and any fault that terminates the actor abnormally.
func (pid *PID) drain() (stop bool, fault error) {
	for {
		rc := pid.mailbox.Dequeue()
		if rc == nil {
			return false, nil
		}
		if stop, fault = pid.handle(rc); stop || fault != nil {
			return stop, fault
		}
	}
}

// handle dispatches one message to the actor behavior. A panic in the
// behavior is recovered and converted into a PanicError fault; it never
// unwinds into the senders of the actor.
func (pid *PID) handle(rc *ReceiveContext) (stop bool, fault error) {
	defer func() {
		if r := recover(); r != nil {
			fault = errors.NewPanicError(r)
			if rc.synchronous && rc.reply != nil {
				rc.reply.Complete(nil, fault)
			}
		}
	}()

	pid.actor.Receive(rc)
	pid.processedCount.Inc()

	if rc.unhandled && !rc.synchronous {
		pid.logger.Warnf("actor=(%s) dropped unhandled message of type %T", pid.name, rc.message)
		pid.system.publishDeadletter(pid, rc.message)
	}
	if rc.err != nil && !rc.synchronous {
		return false, rc.err
	}
	return rc.stopRequested, nil
}

// terminate finalizes the actor: it runs the PostStop hook, disposes the
// mailbox, notifies the watchers and deregisters the actor from the system.
// A nil reason means a clean termination.
func (pid *PID) terminate(reason error) {
	if !pid.running.CompareAndSwap(true, false) {
		return
	}
	pid.stopping.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), pid.shutdownTimeout)
	defer cancel()

	func() {
		defer func() {
			if r := recover(); r != nil {
				pid.logger.Errorf("actor=(%s) PostStop panicked: %v", pid.name, r)
			}
		}()
		if err := pid.actor.PostStop(ctx); err != nil {
			pid.logger.Errorf("actor=(%s) PostStop failed: %v", pid.name, err)
		}
	}()

	pid.mailbox.Dispose()
	// free the registry entry before signaling the watchers so that a
	// supervisor restarting the actor can rebind its name immediately
	pid.system.handleTermination(pid, reason)
	pid.notifyWatchers(reason)
	close(pid.doneCh)
}

// notifyWatchers pushes the termination signal to every watcher mailbox.
func (pid *PID) notifyWatchers(reason error) {
	var signal any
	if reason != nil {
		signal = &Faulted{Actor: pid, Err: reason}
	} else {
		signal = &Terminated{Actor: pid}
	}
	for _, watcher := range pid.watchers.Values() {
		if err := watcher.Tell(context.Background(), signal); err != nil {
			pid.logger.Debugf("actor=(%s) failed to signal watcher=(%s): %v", pid.name, watcher.Name(), err)
		}
	}
	pid.watchers.Reset()
}
