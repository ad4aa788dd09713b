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
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// test messages
type (
	dequeueMsg struct{}
	enqueueMsg struct{ value any }
	echoMsg    struct{ value any }
	boomMsg    struct{}
	stopMsg    struct{}
	sleepMsg   struct{ duration time.Duration }
	pingMsg    struct{ seq int }
)

// queueActor holds an ordered backlog. dequeueMsg pops and replies with the
// head or nil when empty; enqueueMsg appends.
type queueActor struct {
	seed  []any
	items []any
}

func newQueueActor(seed ...any) func() Actor {
	return func() Actor {
		return &queueActor{seed: seed}
	}
}

func (x *queueActor) PreStart(context.Context) error {
	x.items = append([]any(nil), x.seed...)
	return nil
}

func (x *queueActor) Receive(rc *ReceiveContext) {
	switch msg := rc.Message().(type) {
	case *dequeueMsg:
		if len(x.items) == 0 {
			rc.Response(nil)
			return
		}
		head := x.items[0]
		x.items = x.items[1:]
		rc.Response(head)
	case *enqueueMsg:
		x.items = append(x.items, msg.value)
	default:
		rc.Unhandled()
	}
}

func (x *queueActor) PostStop(context.Context) error {
	return nil
}

// echoActor replies with the payload it receives, panics on boomMsg, sleeps
// on sleepMsg and stops cleanly on stopMsg.
type echoActor struct{}

func newEchoActor() Actor {
	return &echoActor{}
}

func (x *echoActor) PreStart(context.Context) error {
	return nil
}

func (x *echoActor) Receive(rc *ReceiveContext) {
	switch msg := rc.Message().(type) {
	case *echoMsg:
		rc.Response(msg.value)
	case *boomMsg:
		panic("boom")
	case *sleepMsg:
		time.Sleep(msg.duration)
		rc.Response(nil)
	case *stopMsg:
		rc.Stop()
	default:
		rc.Unhandled()
	}
}

func (x *echoActor) PostStop(context.Context) error {
	return nil
}

// recorderActor records the sequence of pingMsg it observes.
type recorderActor struct {
	mu   sync.Mutex
	seen []int
}

func (x *recorderActor) PreStart(context.Context) error {
	return nil
}

func (x *recorderActor) Receive(rc *ReceiveContext) {
	switch msg := rc.Message().(type) {
	case *pingMsg:
		x.mu.Lock()
		x.seen = append(x.seen, msg.seq)
		x.mu.Unlock()
	case *boomMsg:
		panic("boom")
	case *stopMsg:
		rc.Stop()
	default:
		rc.Unhandled()
	}
}

func (x *recorderActor) PostStop(context.Context) error {
	return nil
}

func (x *recorderActor) sequence() []int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]int(nil), x.seen...)
}

// flakyInitActor fails PreStart a configured number of times before succeeding.
type flakyInitActor struct {
	failures *atomic.Int32
}

func (x *flakyInitActor) PreStart(context.Context) error {
	if x.failures.Dec() >= 0 {
		return errAssert
	}
	return nil
}

func (x *flakyInitActor) Receive(rc *ReceiveContext) {
	rc.Unhandled()
}

func (x *flakyInitActor) PostStop(context.Context) error {
	return nil
}

var errAssert = errors.New("init not ready")
