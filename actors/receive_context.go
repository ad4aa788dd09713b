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

	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/internal/future"
)

// ReceiveContext carries a single message through an actor's worker loop.
// It exposes the message payload, the sender and, for synchronous requests,
// the reply surface.
type ReceiveContext struct {
	ctx         context.Context
	message     any
	sender      *PID
	self        *PID
	synchronous bool
	reply       *future.Future[any]

	stopRequested bool
	unhandled     bool
	err           error
}

// Context returns the context attached to the message
func (rc *ReceiveContext) Context() context.Context {
	return rc.ctx
}

// Message returns the message payload
func (rc *ReceiveContext) Message() any {
	return rc.message
}

// Sender returns the sender of the message. It is nil when the message was
// sent from outside the actor system (NoSender).
func (rc *ReceiveContext) Sender() *PID {
	return rc.sender
}

// Self returns the handle of the actor processing the message
func (rc *ReceiveContext) Self() *PID {
	return rc.self
}

// IsSynchronous returns true when the message is a synchronous request
// awaiting a reply.
func (rc *ReceiveContext) IsSynchronous() bool {
	return rc.synchronous
}

// Response sets the reply of a synchronous request. For asynchronous
// messages, or when the caller has already timed out and abandoned the reply,
// the value is silently discarded.
func (rc *ReceiveContext) Response(value any) {
	if rc.synchronous && rc.reply != nil {
		rc.reply.Complete(value, nil)
	}
}

// Err reports a processing failure. For a synchronous request the error is
// returned to the caller. For an asynchronous message the error faults the
// actor: its loop terminates abnormally and its watchers are notified, giving
// a supervisor the chance to apply its restart strategy.
func (rc *ReceiveContext) Err(err error) {
	if rc.synchronous && rc.reply != nil {
		rc.reply.Complete(nil, err)
		return
	}
	rc.err = err
}

// Unhandled marks the message as not handled by the actor. A synchronous
// caller receives ErrUnhandled; an asynchronous message is logged and
// published to the deadletters topic.
func (rc *ReceiveContext) Unhandled() {
	rc.unhandled = true
	if rc.synchronous && rc.reply != nil {
		rc.reply.Complete(nil, errors.ErrUnhandled)
	}
}

// Stop requests a clean termination of the actor once the current message
// has been processed.
func (rc *ReceiveContext) Stop() {
	rc.stopRequested = true
}
