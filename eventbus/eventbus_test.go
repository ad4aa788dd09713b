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

package eventbus

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/troupe-io/troupe/actors"
	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// journal is shared by the handlers of a test so the broadcast order across
// handlers can be asserted.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) append(entry string) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// journalHandler records every event it sees, keyed by its id. It counts the
// events it handled and stops itself after stopAfter events when stopAfter
// is positive.
type journalHandler struct {
	id        string
	journal   *journal
	seen      int
	stopAfter int
	initErr   error
}

func (h *journalHandler) Init(context.Context, any) error {
	return h.initErr
}

func (h *journalHandler) HandleEvent(event any) error {
	h.seen++
	h.journal.append(fmt.Sprintf("%s:%v", h.id, event))
	if h.stopAfter > 0 && h.seen >= h.stopAfter {
		return errors.ErrStopHandler
	}
	return nil
}

func (h *journalHandler) HandleCall(any) (any, error) {
	return h.seen, nil
}

// panicHandler panics on every event.
type panicHandler struct{}

func (h *panicHandler) Init(context.Context, any) error { return nil }
func (h *panicHandler) HandleEvent(any) error           { panic("boom") }
func (h *panicHandler) HandleCall(any) (any, error)     { panic("boom") }

func newBus(t *testing.T) (actors.ActorSystem, *EventBus) {
	t.Helper()
	ctx := context.TODO()
	system, err := actors.NewActorSystem("testSys", actors.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	bus, err := New(ctx, system, "bus")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, system.Stop(ctx))
	})
	return system, bus
}

func TestAddHandler(t *testing.T) {
	ctx := context.TODO()
	_, bus := newBus(t)
	shared := new(journal)

	require.NoError(t, bus.AddHandler(ctx, "a", &journalHandler{id: "a", journal: shared}, nil))
	require.NoError(t, bus.AddHandler(ctx, "b", &journalHandler{id: "b", journal: shared}, nil))

	t.Run("With duplicate id", func(t *testing.T) {
		err := bus.AddHandler(ctx, "a", &journalHandler{id: "a", journal: shared}, nil)
		require.ErrorIs(t, err, errors.ErrHandlerAlreadyRegistered)
	})

	t.Run("With failing Init", func(t *testing.T) {
		initErr := stderrors.New("no state")
		err := bus.AddHandler(ctx, "c", &journalHandler{id: "c", journal: shared, initErr: initErr}, nil)
		require.Error(t, err)

		// the handler was not registered
		ids, err := bus.Handlers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)
	})
}

func TestRemoveHandler(t *testing.T) {
	ctx := context.TODO()
	_, bus := newBus(t)
	shared := new(journal)

	require.NoError(t, bus.AddHandler(ctx, "a", &journalHandler{id: "a", journal: shared}, nil))
	require.NoError(t, bus.RemoveHandler(ctx, "a"))
	require.ErrorIs(t, bus.RemoveHandler(ctx, "a"), errors.ErrHandlerNotFound)

	ids, err := bus.Handlers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNotify(t *testing.T) {
	ctx := context.TODO()
	_, bus := newBus(t)

	t.Run("With registration order preserved", func(t *testing.T) {
		shared := new(journal)
		require.NoError(t, bus.AddHandler(ctx, "first", &journalHandler{id: "first", journal: shared}, nil))
		require.NoError(t, bus.AddHandler(ctx, "second", &journalHandler{id: "second", journal: shared}, nil))
		require.NoError(t, bus.AddHandler(ctx, "third", &journalHandler{id: "third", journal: shared}, nil))

		require.NoError(t, bus.Notify(ctx, 1))
		require.NoError(t, bus.Notify(ctx, 2))

		// every handler sees every event, events in submission order and
		// handlers in registration order within each event
		expected := []string{
			"first:1", "second:1", "third:1",
			"first:2", "second:2", "third:2",
		}
		require.Eventually(t, func() bool {
			return len(shared.snapshot()) == len(expected)
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, expected, shared.snapshot())

		for _, id := range []string{"first", "second", "third"} {
			require.NoError(t, bus.RemoveHandler(ctx, id))
		}
	})

	t.Run("With a handler stopping mid round", func(t *testing.T) {
		shared := new(journal)
		require.NoError(t, bus.AddHandler(ctx, "keep1", &journalHandler{id: "keep1", journal: shared}, nil))
		require.NoError(t, bus.AddHandler(ctx, "quitter", &journalHandler{id: "quitter", journal: shared, stopAfter: 1}, nil))
		require.NoError(t, bus.AddHandler(ctx, "keep2", &journalHandler{id: "keep2", journal: shared}, nil))

		require.NoError(t, bus.Notify(ctx, "x"))
		require.NoError(t, bus.Notify(ctx, "y"))

		// the quitter sees the first event only; the handler after it is
		// not disturbed in either round
		expected := []string{
			"keep1:x", "quitter:x", "keep2:x",
			"keep1:y", "keep2:y",
		}
		require.Eventually(t, func() bool {
			return len(shared.snapshot()) == len(expected)
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, expected, shared.snapshot())

		ids, err := bus.Handlers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep1", "keep2"}, ids)

		for _, id := range []string{"keep1", "keep2"} {
			require.NoError(t, bus.RemoveHandler(ctx, id))
		}
	})

	t.Run("With a panicking handler", func(t *testing.T) {
		shared := new(journal)
		require.NoError(t, bus.AddHandler(ctx, "bomb", &panicHandler{}, nil))
		require.NoError(t, bus.AddHandler(ctx, "after", &journalHandler{id: "after", journal: shared}, nil))

		require.NoError(t, bus.Notify(ctx, "z"))

		// the panic is contained: the bus survives and the next handler
		// still runs
		require.Eventually(t, func() bool {
			return len(shared.snapshot()) == 1
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{"after:z"}, shared.snapshot())
		assert.True(t, bus.PID().IsRunning())

		for _, id := range []string{"bomb", "after"} {
			require.NoError(t, bus.RemoveHandler(ctx, id))
		}
	})
}

func TestCall(t *testing.T) {
	ctx := context.TODO()
	_, bus := newBus(t)
	shared := new(journal)

	require.NoError(t, bus.AddHandler(ctx, "a", &journalHandler{id: "a", journal: shared}, nil))
	require.NoError(t, bus.AddHandler(ctx, "b", &journalHandler{id: "b", journal: shared}, nil))
	require.NoError(t, bus.Notify(ctx, "evt"))

	t.Run("With a registered handler", func(t *testing.T) {
		// the call is routed to exactly one handler and sees the state the
		// broadcast left behind
		reply, err := bus.Call(ctx, "a", "how many", time.Second)
		require.NoError(t, err)
		assert.Equal(t, 1, reply)
	})

	t.Run("With an unknown handler", func(t *testing.T) {
		reply, err := bus.Call(ctx, "nope", "how many", time.Second)
		require.ErrorIs(t, err, errors.ErrHandlerNotFound)
		assert.Nil(t, reply)
	})

	t.Run("With a panicking handler", func(t *testing.T) {
		require.NoError(t, bus.AddHandler(ctx, "bomb", &panicHandler{}, nil))

		// the panic is returned to the caller and the bus survives
		reply, err := bus.Call(ctx, "bomb", "how many", time.Second)
		require.Error(t, err)
		assert.True(t, errors.IsPanicError(err))
		assert.Nil(t, reply)
		assert.True(t, bus.PID().IsRunning())

		reply, err = bus.Call(ctx, "a", "how many", time.Second)
		require.NoError(t, err)
		assert.Equal(t, 1, reply)

		require.NoError(t, bus.RemoveHandler(ctx, "bomb"))
	})
}

func TestClose(t *testing.T) {
	ctx := context.TODO()
	system, bus := newBus(t)

	require.NoError(t, bus.Close(ctx))
	assert.False(t, bus.PID().IsRunning())
	assert.Zero(t, system.NumActors())
}
