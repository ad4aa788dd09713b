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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/log"
)

func newTestSystem(t *testing.T) ActorSystem {
	t.Helper()
	system, err := NewActorSystem("testSys", WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	return system
}

func TestAsk(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	t.Run("With reply", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "echo", newEchoActor)
		require.NoError(t, err)

		reply, err := pid.Ask(ctx, &echoMsg{value: "hello"}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With invalid timeout", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)

		_, err = pid.Ask(ctx, &echoMsg{value: "hello"}, 0)
		require.ErrorIs(t, err, errors.ErrInvalidTimeout)
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With timeout", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)

		_, err = pid.Ask(ctx, &sleepMsg{duration: 300 * time.Millisecond}, 50*time.Millisecond)
		require.ErrorIs(t, err, errors.ErrRequestTimeout)

		// the actor still processed the message and the late reply was
		// discarded; the actor remains usable
		reply, err := pid.Ask(ctx, &echoMsg{value: "still alive"}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "still alive", reply)
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With dead actor", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))

		_, err = pid.Ask(ctx, &echoMsg{value: "hello"}, time.Second)
		require.ErrorIs(t, err, errors.ErrDead)
	})

	t.Run("With unhandled request", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)

		_, err = pid.Ask(ctx, "not a known message", time.Second)
		require.ErrorIs(t, err, errors.ErrUnhandled)
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With panicking behavior", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)

		// the caller fails fast with the panic instead of waiting out the
		// timeout
		start := time.Now()
		_, err = pid.Ask(ctx, &boomMsg{}, 10*time.Second)
		require.Error(t, err)
		assert.True(t, errors.IsPanicError(err))
		assert.Less(t, time.Since(start), 5*time.Second)

		require.Eventually(t, func() bool {
			return !pid.IsRunning()
		}, time.Second, 10*time.Millisecond)
	})
}

func TestTell(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	t.Run("With single producer FIFO ordering", func(t *testing.T) {
		actor := &recorderActor{}
		pid, err := system.Spawn(ctx, "recorder", func() Actor { return actor })
		require.NoError(t, err)

		const total = 500
		for i := 0; i < total; i++ {
			require.NoError(t, pid.Tell(ctx, &pingMsg{seq: i}))
		}

		require.Eventually(t, func() bool {
			return len(actor.sequence()) == total
		}, time.Second, 10*time.Millisecond)

		seen := actor.sequence()
		for i := 0; i < total; i++ {
			require.Equal(t, i, seen[i])
		}
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With concurrent producers single consumer", func(t *testing.T) {
		actor := &recorderActor{}
		pid, err := system.Spawn(ctx, "", func() Actor { return actor })
		require.NoError(t, err)

		const producers = 10
		const perProducer = 50
		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					_ = pid.Tell(ctx, &pingMsg{seq: i})
				}
			}()
		}
		wg.Wait()

		// all messages are observed and the state history is linear: the
		// recorder is mutated by the worker loop only
		require.Eventually(t, func() bool {
			return len(actor.sequence()) == producers*perProducer
		}, time.Second, 10*time.Millisecond)
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With dead actor", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))
		require.ErrorIs(t, pid.Tell(ctx, &pingMsg{seq: 1}), errors.ErrDead)
	})
}

func TestQueueScenario(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	pid, err := system.Spawn(ctx, "backlog", newQueueActor(1, 2, 3))
	require.NoError(t, err)

	reply, err := pid.Ask(ctx, &dequeueMsg{}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, reply)

	require.NoError(t, pid.Tell(ctx, &enqueueMsg{value: 20}))

	for _, expected := range []any{2, 3, 20, nil} {
		reply, err = pid.Ask(ctx, &dequeueMsg{}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, expected, reply)
	}
	require.NoError(t, pid.Shutdown(ctx))
}

func TestStop(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	t.Run("With clean stop and watcher signal", func(t *testing.T) {
		watched := &struct {
			sync.Mutex
			signals []any
		}{}
		watcher, err := system.Spawn(ctx, "watcher", func() Actor {
			return NewFuncActor(func(rc *ReceiveContext) {
				watched.Lock()
				watched.signals = append(watched.signals, rc.Message())
				watched.Unlock()
			})
		})
		require.NoError(t, err)

		pid, err := system.Spawn(ctx, "stoppable", newEchoActor)
		require.NoError(t, err)
		pid.Watch(watcher)

		require.NoError(t, pid.Tell(ctx, &stopMsg{}))

		require.Eventually(t, func() bool {
			watched.Lock()
			defer watched.Unlock()
			for _, signal := range watched.signals {
				if terminated, ok := signal.(*Terminated); ok && terminated.Actor.ID() == pid.ID() {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)

		assert.False(t, pid.IsRunning())
		_, found := system.Resolve("stoppable")
		assert.False(t, found)
		require.NoError(t, watcher.Shutdown(ctx))
	})

	t.Run("With panic and fault signal", func(t *testing.T) {
		faults := &struct {
			sync.Mutex
			errs []error
		}{}
		watcher, err := system.Spawn(ctx, "", func() Actor {
			return NewFuncActor(func(rc *ReceiveContext) {
				if faulted, ok := rc.Message().(*Faulted); ok {
					faults.Lock()
					faults.errs = append(faults.errs, faulted.Err)
					faults.Unlock()
				}
			})
		})
		require.NoError(t, err)

		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)
		pid.Watch(watcher)

		require.NoError(t, pid.Tell(ctx, &boomMsg{}))

		require.Eventually(t, func() bool {
			faults.Lock()
			defer faults.Unlock()
			return len(faults.errs) == 1 && errors.IsPanicError(faults.errs[0])
		}, time.Second, 10*time.Millisecond)

		assert.False(t, pid.IsRunning())
		require.NoError(t, watcher.Shutdown(ctx))
	})

	t.Run("With idempotent shutdown", func(t *testing.T) {
		pid, err := system.Spawn(ctx, "", newEchoActor)
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))
		require.NoError(t, pid.Shutdown(ctx))
	})
}

func TestDeadletters(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	subscriber := system.EventStream().AddSubscriber()
	system.EventStream().Subscribe(subscriber, DeadlettersTopic)

	pid, err := system.Spawn(ctx, "", newEchoActor)
	require.NoError(t, err)

	// the echo actor marks unknown casts as unhandled
	require.NoError(t, pid.Tell(ctx, "junk"))

	require.Eventually(t, func() bool {
		for message := range subscriber.Iterator() {
			deadletter, ok := message.Payload().(*Deadletter)
			if ok && deadletter.Message == "junk" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, pid.Shutdown(ctx))
}

func TestProcessedCount(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	pid, err := system.Spawn(ctx, "", newEchoActor)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := pid.Ask(ctx, &echoMsg{value: i}, time.Second)
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool {
		return pid.ProcessedCount() == 10
	}, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 0, pid.MailboxSize())
	require.NoError(t, pid.Shutdown(ctx))
}

func TestInitRetries(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	defer func() { require.NoError(t, system.Stop(ctx)) }()

	t.Run("With transient init failure", func(t *testing.T) {
		actor := &flakyInitActor{failures: atomic.NewInt32(2)}
		pid, err := system.Spawn(ctx, "", func() Actor { return actor },
			WithInitMaxRetries(3), WithInitTimeout(time.Second))
		require.NoError(t, err)
		require.True(t, pid.IsRunning())
		require.NoError(t, pid.Shutdown(ctx))
	})

	t.Run("With persistent init failure", func(t *testing.T) {
		actor := &flakyInitActor{failures: atomic.NewInt32(100)}
		pid, err := system.Spawn(ctx, "", func() Actor { return actor },
			WithInitMaxRetries(2), WithInitTimeout(500*time.Millisecond))
		require.Error(t, err)
		require.ErrorIs(t, err, errors.ErrInitFailure)
		require.Nil(t, pid)
	})
}
