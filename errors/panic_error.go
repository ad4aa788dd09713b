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
	"fmt"
)

// PanicError wraps a panic recovered from an actor's message handler so that
// supervisors observe it as an ordinary error value instead of an unwinding
// stack.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from the recovered value.
func NewPanicError(recovered any) *PanicError {
	switch v := recovered.(type) {
	case error:
		return &PanicError{err: v}
	default:
		return &PanicError{err: fmt.Errorf("%v", v)}
	}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("message handler panicked: %v", e.err)
}

// Unwrap returns the underlying error.
func (e *PanicError) Unwrap() error {
	return e.err
}

// IsPanicError reports whether err is or wraps a PanicError.
func IsPanicError(err error) bool {
	var panicErr *PanicError
	return errors.As(err, &panicErr)
}
