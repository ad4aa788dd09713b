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

package eventstream

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Subscriber defines the subscriber interface
type Subscriber interface {
	// ID returns the unique identifier of the subscriber
	ID() string
	// Active returns true when the subscriber has not been shut down
	Active() bool
	// Topics returns the list of topics the subscriber is subscribed to
	Topics() []string
	// Iterator returns a channel draining the messages received so far
	Iterator() chan *Message
	// Shutdown deactivates the subscriber
	Shutdown()

	signal(message *Message)
	subscribe(topic string)
	unsubscribe(topic string)
}

// subscriber is the default Subscriber implementation
type subscriber struct {
	id       string
	sem      sync.Mutex
	messages []*Message
	topics   mapset.Set[string]
	active   *atomic.Bool
}

// enforce compilation error
var _ Subscriber = (*subscriber)(nil)

// newSubscriber creates an instance of a stream subscriber
func newSubscriber() *subscriber {
	return &subscriber{
		id:     uuid.NewString(),
		topics: mapset.NewSet[string](),
		active: atomic.NewBool(true),
	}
}

// ID returns the subscriber id
func (x *subscriber) ID() string {
	return x.id
}

// Active checks whether the subscriber is active
func (x *subscriber) Active() bool {
	return x.active.Load()
}

// Topics returns the list of topics the subscriber has subscribed to
func (x *subscriber) Topics() []string {
	return x.topics.ToSlice()
}

// Shutdown deactivates the subscriber. Messages signaled afterwards are dropped.
func (x *subscriber) Shutdown() {
	x.active.Store(false)
}

// Iterator drains the messages received so far into a buffered channel.
// The channel is closed once emptied so it can be ranged over.
func (x *subscriber) Iterator() chan *Message {
	x.sem.Lock()
	pending := x.messages
	x.messages = nil
	x.sem.Unlock()

	out := make(chan *Message, len(pending))
	if x.active.Load() {
		for _, msg := range pending {
			out <- msg
		}
	}
	close(out)
	return out
}

// signal pushes a message to the subscriber
func (x *subscriber) signal(message *Message) {
	if !x.active.Load() {
		return
	}
	x.sem.Lock()
	x.messages = append(x.messages, message)
	x.sem.Unlock()
}

// subscribe subscribes the subscriber to the given topic
func (x *subscriber) subscribe(topic string) {
	x.topics.Add(topic)
}

// unsubscribe removes the given topic from the subscriber topics
func (x *subscriber) unsubscribe(topic string) {
	x.topics.Remove(topic)
}
