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
)

const (
	// LifecycleTopic is the eventstream topic carrying actor lifecycle events:
	// ActorStarted, ActorStopped, ActorFaulted and ActorRestarted.
	LifecycleTopic = "troupe.actors.lifecycle"
	// DeadlettersTopic is the eventstream topic carrying Deadletter events.
	DeadlettersTopic = "troupe.deadletters"
)

// ActorStarted is published to the lifecycle topic when an actor has been
// successfully spawned.
type ActorStarted struct {
	// Actor is the handle of the started actor
	Actor *PID
	// StartedAt is the time the actor started
	StartedAt time.Time
}

// ActorStopped is published to the lifecycle topic when an actor has
// terminated cleanly.
type ActorStopped struct {
	// Actor is the handle of the stopped actor
	Actor *PID
	// StoppedAt is the time the actor stopped
	StoppedAt time.Time
}

// ActorFaulted is published to the lifecycle topic when an actor has
// terminated abnormally.
type ActorFaulted struct {
	// Actor is the handle of the faulted actor
	Actor *PID
	// Err is the failure that terminated the actor
	Err error
	// FaultedAt is the time the actor terminated
	FaultedAt time.Time
}

// ActorRestarted is published to the lifecycle topic when a supervisor has
// replaced a terminated child with a fresh instance.
type ActorRestarted struct {
	// ChildID is the child spec id of the restarted child
	ChildID string
	// Actor is the fresh handle of the restarted child
	Actor *PID
	// RestartedAt is the time the child was restarted
	RestartedAt time.Time
}

// Deadletter is published to the deadletters topic when an actor drops an
// asynchronous message it cannot handle.
type Deadletter struct {
	// Actor is the handle of the actor that dropped the message
	Actor *PID
	// Message is the dropped payload
	Message any
	// At is the time the message was dropped
	At time.Time
}

// Terminated is the signal delivered to the watchers of an actor that has
// terminated cleanly. It is pushed as an ordinary mailbox message, never as
// an unwinding panic.
type Terminated struct {
	// Actor is the handle of the terminated actor
	Actor *PID
}

// Faulted is the signal delivered to the watchers of an actor that has
// terminated abnormally.
type Faulted struct {
	// Actor is the handle of the faulted actor
	Actor *PID
	// Err is the failure that terminated the actor
	Err error
}
