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
)

// Handler is one stateful subscriber of an EventBus. A handler instance owns
// private state; the bus's single worker loop serializes every invocation,
// so the state is never touched concurrently.
type Handler interface {
	// Init initializes the handler state before it joins the bus. When Init
	// fails the handler is not registered.
	Init(ctx context.Context, args any) error
	// HandleEvent processes one broadcast event. Returning ErrStopHandler
	// removes the handler from the bus without disturbing the handlers
	// registered after it; any other error is logged and the handler kept.
	HandleEvent(event any) error
	// HandleCall processes a synchronous request routed to this handler only.
	HandleCall(req any) (any, error)
}
