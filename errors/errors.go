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

package errors

import (
	"errors"
)

var (
	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]), with optional
	// hyphens or underscores that are not leading.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrRequestTimeout indicates that an Ask message timed out while waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrNameTaken is returned when attempting to register a name that already
	// resolves to a live actor.
	ErrNameTaken = errors.New("actor name is already taken")

	// ErrInitFailure is returned when the actor's PreStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrFullMailbox is returned when the actor mailbox is full.
	ErrFullMailbox = errors.New("mailbox is full")

	// ErrClosedMailbox is returned when the actor mailbox has been disposed.
	ErrClosedMailbox = errors.New("mailbox is closed")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted indicates a Start call on a running actor system.
	ErrActorSystemAlreadyStarted = errors.New("actor system is already running")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrChildNotFound indicates that a supervisor has no child registered under the given id.
	ErrChildNotFound = errors.New("child is not found")

	// ErrChildAlreadyRunning indicates an attempt to start a child whose id already
	// maps to a live handle.
	ErrChildAlreadyRunning = errors.New("child is already running")

	// ErrChildStillRunning indicates an attempt to delete a child spec whose
	// instance is still alive.
	ErrChildStillRunning = errors.New("child is still running")

	// ErrDuplicateChild indicates that two child specs of the same tree share an id.
	ErrDuplicateChild = errors.New("duplicate child spec id")

	// ErrTooManyRestarts indicates that a supervisor exceeded its restart intensity
	// and terminated itself instead of restarting the faulty child once more.
	ErrTooManyRestarts = errors.New("restart intensity exceeded")

	// ErrMissingChildSpecs is returned when a supervisor is started without any child spec.
	ErrMissingChildSpecs = errors.New("no child spec provided")

	// ErrSingleChildSpecRequired is returned when a simple-one-for-one supervisor
	// is started with anything other than exactly one template child spec.
	ErrSingleChildSpecRequired = errors.New("simple-one-for-one requires exactly one template child spec")

	// ErrDynamicChildrenNotSupported is returned when StartChild is invoked on a
	// supervisor that is not running the simple-one-for-one strategy.
	ErrDynamicChildrenNotSupported = errors.New("dynamic children require the simple-one-for-one strategy")

	// ErrHandlerNotFound indicates that an event bus has no handler registered under the given id.
	ErrHandlerNotFound = errors.New("handler is not found")

	// ErrHandlerAlreadyRegistered indicates an attempt to register a handler id twice.
	ErrHandlerAlreadyRegistered = errors.New("handler is already registered")

	// ErrStopHandler is the control value an event handler returns from
	// HandleEvent to remove itself from the bus. It is never surfaced to callers.
	ErrStopHandler = errors.New("stop handler")
)
