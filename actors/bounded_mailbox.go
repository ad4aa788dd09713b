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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/troupe-io/troupe/errors"
)

// BoundedMailbox is a bounded MPSC mailbox backed by a ring buffer.
//
// Characteristics
//   - Bounded capacity: the queue has a fixed size.
//   - Reject-on-overflow: Enqueue fails with ErrFullMailbox when the mailbox
//     is at capacity instead of blocking the producer.
//   - Concurrency: safe for multiple producers and a single consumer.
//   - FIFO ordering: messages are dequeued in the order they were enqueued.
//
// Use this mailbox when an actor must shed load explicitly rather than let
// its backlog grow without bound.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a new bounded mailbox with the given capacity.
// Capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue places the given message in the mailbox. It returns ErrFullMailbox
// when the mailbox is at capacity and ErrClosedMailbox when the mailbox has
// been disposed.
func (mailbox *BoundedMailbox) Enqueue(msg *ReceiveContext) error {
	ok, err := mailbox.underlying.Offer(msg)
	switch {
	case err != nil:
		return errors.ErrClosedMailbox
	case !ok:
		return errors.ErrFullMailbox
	default:
		return nil
	}
}

// Dequeue takes the next message from the mailbox. It returns nil when the
// mailbox is empty or has been disposed.
func (mailbox *BoundedMailbox) Dequeue() *ReceiveContext {
	if mailbox.underlying.Len() > 0 {
		item, _ := mailbox.underlying.Get()
		if msg, ok := item.(*ReceiveContext); ok {
			return msg
		}
	}
	return nil
}

// Len returns the current number of messages in the mailbox.
func (mailbox *BoundedMailbox) Len() int64 {
	return int64(mailbox.underlying.Len())
}

// IsEmpty returns true when the mailbox is empty.
func (mailbox *BoundedMailbox) IsEmpty() bool {
	return mailbox.underlying.Len() == 0
}

// Dispose releases the underlying ring buffer and unblocks any pending
// producer or consumer.
func (mailbox *BoundedMailbox) Dispose() {
	mailbox.underlying.Dispose()
}
