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

// Mailbox defines the actor mailbox. It is the policy for how messages are
// enqueued and dequeued. Any implementation must be a thread-safe FIFO for
// multiple producers and exactly one consumer: only the owning actor's worker
// loop dequeues.
type Mailbox interface {
	// Enqueue places the given message in the mailbox. It returns an error
	// when the mailbox cannot accept the message.
	Enqueue(msg *ReceiveContext) error
	// Dequeue takes the next message from the mailbox. It returns nil when
	// the mailbox is empty. Dequeue must only be called from a single
	// consumer goroutine.
	Dequeue() *ReceiveContext
	// Len returns the number of messages currently in the mailbox.
	Len() int64
	// IsEmpty returns true when the mailbox is empty.
	IsEmpty() bool
	// Dispose releases any resource held by the mailbox. Once disposed the
	// mailbox accepts no further messages.
	Dispose()
}
