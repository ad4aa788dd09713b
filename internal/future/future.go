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

package future

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"

	"github.com/troupe-io/troupe/internal/types"
)

// ErrTimeout is returned when the future is not completed within the await deadline.
var ErrTimeout = errors.New("future timeout")

// Future is a one-shot cell carrying the reply to a synchronous request.
//
// Exactly one Complete call wins; every subsequent Complete is a no-op. A
// caller that stops awaiting simply abandons the cell: the callee may still
// complete it and the value is silently discarded.
type Future[T any] struct {
	completed *atomic.Bool
	done      chan types.Unit
	value     T
	err       error
}

// New creates an instance of Future.
func New[T any]() *Future[T] {
	return &Future[T]{
		completed: atomic.NewBool(false),
		done:      make(chan types.Unit),
	}
}

// Complete sets the outcome of the future and wakes any awaiting caller.
// It returns false when the future has already been completed, in which case
// the given outcome is discarded.
func (f *Future[T]) Complete(value T, err error) bool {
	if !f.completed.CompareAndSwap(false, true) {
		return false
	}
	f.value = value
	f.err = err
	close(f.done)
	return true
}

// Await blocks until the future is completed, the timeout elapses or the
// context is cancelled. On timeout it returns ErrTimeout.
func (f *Future[T]) Await(ctx context.Context, timeout time.Duration) (T, error) {
	var zero T
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Completed reports whether the future has been completed.
func (f *Future[T]) Completed() bool {
	return f.completed.Load()
}
