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
)

// Actor represents the Actor interface
// This will be implemented by any user who wants to create an actor
type Actor interface {
	// PreStart pre-starts the actor. This hook is invoked before the actor
	// starts processing messages and can be used to set up resources or the
	// initial values of the actor fields. When PreStart fails the actor is
	// not started.
	PreStart(ctx context.Context) error
	// Receive processes any message dropped into the actor mailbox.
	// Receive is invoked by the actor's single worker loop, one message at a
	// time, so the actor state is never mutated concurrently.
	Receive(ctx *ReceiveContext)
	// PostStop is executed when the actor is shutting down and can be used to
	// free up resources held by the actor.
	PostStop(ctx context.Context) error
}
