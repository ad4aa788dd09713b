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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker(t *testing.T) {
	t.Run("With Subscription", func(t *testing.T) {
		broker := New()

		// add consumer
		cons := broker.AddSubscriber()
		require.NotNil(t, cons)
		broker.Subscribe(cons, "t1")
		broker.Subscribe(cons, "t2")

		require.EqualValues(t, 1, broker.SubscribersCount("t1"))
		require.EqualValues(t, 1, broker.SubscribersCount("t2"))

		// remove the consumer
		broker.RemoveSubscriber(cons)
		assert.Zero(t, broker.SubscribersCount("t1"))
		assert.Zero(t, broker.SubscribersCount("t2"))

		// an inactive consumer cannot re-subscribe
		broker.Subscribe(cons, "t3")
		assert.Zero(t, broker.SubscribersCount("t3"))

		t.Cleanup(func() {
			broker.Close()
		})
	})
	t.Run("With Unsubscription", func(t *testing.T) {
		broker := New()

		// add consumer
		cons := broker.AddSubscriber()
		require.NotNil(t, cons)
		broker.Subscribe(cons, "t1")
		broker.Subscribe(cons, "t2")

		require.EqualValues(t, 1, broker.SubscribersCount("t1"))
		require.EqualValues(t, 1, broker.SubscribersCount("t2"))

		// unsubscribe the consumer
		broker.Unsubscribe(cons, "t1")
		assert.Zero(t, broker.SubscribersCount("t1"))
		require.EqualValues(t, 1, broker.SubscribersCount("t2"))
		assert.Equal(t, []string{"t2"}, cons.Topics())

		t.Cleanup(func() {
			broker.Close()
		})
	})
	t.Run("With Publication", func(t *testing.T) {
		broker := New()

		// add consumer
		cons := broker.AddSubscriber()
		require.NotNil(t, cons)
		broker.Subscribe(cons, "t1")
		broker.Subscribe(cons, "t2")

		broker.Publish("t1", "hi")
		broker.Publish("t2", "hello")
		// nobody listens on t3
		broker.Publish("t3", "lost")

		var messages []*Message
		for message := range cons.Iterator() {
			messages = append(messages, message)
		}

		require.Len(t, messages, 2)
		assert.Equal(t, "t1", messages[0].Topic())
		assert.Equal(t, "hi", messages[0].Payload())
		assert.Equal(t, "t2", messages[1].Topic())
		assert.Equal(t, "hello", messages[1].Payload())

		t.Cleanup(func() {
			broker.Close()
		})
	})
	t.Run("With Publication order", func(t *testing.T) {
		broker := New()

		cons := broker.AddSubscriber()
		broker.Subscribe(cons, "t1")

		for i := 0; i < 100; i++ {
			broker.Publish("t1", i)
		}

		// delivery is synchronous: a single publisher's messages drain in
		// publication order
		var i int
		for message := range cons.Iterator() {
			require.Equal(t, i, message.Payload(), fmt.Sprintf("message %d out of order", i))
			i++
		}
		assert.Equal(t, 100, i)

		t.Cleanup(func() {
			broker.Close()
		})
	})
	t.Run("With Broadcast", func(t *testing.T) {
		broker := New()

		// add consumer
		cons := broker.AddSubscriber()
		require.NotNil(t, cons)
		broker.Subscribe(cons, "t1")
		broker.Subscribe(cons, "t2")

		broker.Broadcast("hi", []string{"t1", "t2"})

		var messages []*Message
		for message := range cons.Iterator() {
			messages = append(messages, message)
		}

		assert.Len(t, messages, 2)
		assert.Len(t, cons.Topics(), 2)

		t.Cleanup(func() {
			broker.Close()
		})
	})
	t.Run("With Shutdown", func(t *testing.T) {
		broker := New()

		cons := broker.AddSubscriber()
		broker.Subscribe(cons, "t1")
		broker.Publish("t1", "hi")

		broker.Close()
		assert.False(t, cons.Active())
		assert.Zero(t, broker.SubscribersCount("t1"))

		// messages published after the close are dropped
		broker.Publish("t1", "late")
		var messages []*Message
		for message := range cons.Iterator() {
			messages = append(messages, message)
		}
		assert.Empty(t, messages)
	})
}
