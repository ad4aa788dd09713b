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

// ReceiveFunc is the message handler of a FuncActor
type ReceiveFunc func(ctx *ReceiveContext)

// FuncActor is an actor backed by a plain receive function. It is handy for
// small, stateless actors and in tests.
type FuncActor struct {
	receive ReceiveFunc
}

// enforce compilation error
var _ Actor = (*FuncActor)(nil)

// NewFuncActor creates an instance of FuncActor from the given receive function.
func NewFuncActor(receive ReceiveFunc) *FuncActor {
	return &FuncActor{receive: receive}
}

// PreStart implements the Actor interface. It is a no-op.
func (x *FuncActor) PreStart(context.Context) error {
	return nil
}

// Receive dispatches the incoming message to the receive function.
func (x *FuncActor) Receive(ctx *ReceiveContext) {
	x.receive(ctx)
}

// PostStop implements the Actor interface. It is a no-op.
func (x *FuncActor) PostStop(context.Context) error {
	return nil
}
