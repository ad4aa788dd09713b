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
	stderrors "errors"
	"time"

	"github.com/troupe-io/troupe/actors"
	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/log"
)

// messages of the bus actor
type (
	addHandlerMsg struct {
		id      string
		handler Handler
		args    any
	}
	removeHandlerMsg struct{ id string }
	notifyMsg        struct{ event any }
	handlerCallMsg   struct {
		id  string
		req any
	}
	listHandlersMsg struct{}
)

// handlerEntry keeps one registered handler. The registration order of the
// entries is the notification order.
type handlerEntry struct {
	id      string
	handler Handler
}

// busActor is the event-manager process. Its state is the ordered handler
// list; because it is an actor, notifications submitted to the bus are
// processed in mailbox (FIFO) order, which makes the event log deterministic.
type busActor struct {
	entries []*handlerEntry
	logger  log.Logger
}

// enforce compilation error
var _ actors.Actor = (*busActor)(nil)

func (b *busActor) PreStart(context.Context) error {
	return nil
}

func (b *busActor) PostStop(context.Context) error {
	b.entries = nil
	return nil
}

func (b *busActor) Receive(rc *actors.ReceiveContext) {
	switch msg := rc.Message().(type) {
	case *addHandlerMsg:
		if err := b.addHandler(rc.Context(), msg); err != nil {
			rc.Err(err)
			return
		}
		rc.Response(nil)
	case *removeHandlerMsg:
		if err := b.removeHandler(msg.id); err != nil {
			rc.Err(err)
			return
		}
		rc.Response(nil)
	case *notifyMsg:
		b.broadcast(msg.event)
	case *handlerCallMsg:
		reply, err := b.call(msg)
		if err != nil {
			rc.Err(err)
			return
		}
		rc.Response(reply)
	case *listHandlersMsg:
		rc.Response(b.handlerIDs())
	default:
		rc.Unhandled()
	}
}

func (b *busActor) addHandler(ctx context.Context, msg *addHandlerMsg) error {
	if b.indexOf(msg.id) >= 0 {
		return errors.ErrHandlerAlreadyRegistered
	}
	if err := msg.handler.Init(ctx, msg.args); err != nil {
		return err
	}
	b.entries = append(b.entries, &handlerEntry{id: msg.id, handler: msg.handler})
	return nil
}

func (b *busActor) removeHandler(id string) error {
	index := b.indexOf(id)
	if index < 0 {
		return errors.ErrHandlerNotFound
	}
	b.entries = append(b.entries[:index], b.entries[index+1:]...)
	return nil
}

// broadcast folds over the handler list left-to-right in registration order.
// A handler asking to stop is removed without disturbing the handlers after
// it, and a handler failure never halts the round.
func (b *busActor) broadcast(event any) {
	kept := b.entries[:0]
	for _, entry := range b.entries {
		err := b.invoke(entry, event)
		switch {
		case stderrors.Is(err, errors.ErrStopHandler):
			b.logger.Debugf("eventbus handler=(%s) stopped", entry.id)
		case err != nil:
			b.logger.Warnf("eventbus handler=(%s) failed to handle event: %v", entry.id, err)
			kept = append(kept, entry)
		default:
			kept = append(kept, entry)
		}
	}
	b.entries = kept
}

// invoke runs one handler under recover so that a panicking handler is
// treated as a failed one instead of crashing the bus.
func (b *busActor) invoke(entry *handlerEntry, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPanicError(r)
		}
	}()
	return entry.handler.HandleEvent(event)
}

// call routes a synchronous request to one handler, recovering a panic the
// same way invoke does so the caller gets an error instead of a dead bus.
func (b *busActor) call(msg *handlerCallMsg) (reply any, err error) {
	index := b.indexOf(msg.id)
	if index < 0 {
		return nil, errors.ErrHandlerNotFound
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPanicError(r)
		}
	}()
	return b.entries[index].handler.HandleCall(msg.req)
}

func (b *busActor) handlerIDs() []string {
	ids := make([]string, 0, len(b.entries))
	for _, entry := range b.entries {
		ids = append(ids, entry.id)
	}
	return ids
}

func (b *busActor) indexOf(id string) int {
	for i, entry := range b.entries {
		if entry.id == id {
			return i
		}
	}
	return -1
}

// EventBus is a generic event-manager process: an ordered list of stateful
// handlers hosted by a single actor. Events submitted with Notify are
// broadcast to every handler in registration order.
type EventBus struct {
	pid *actors.PID
}

// New creates an EventBus hosted by the given actor system. The name is
// optional and follows the actor naming rules.
func New(ctx context.Context, system actors.ActorSystem, name string) (*EventBus, error) {
	pid, err := system.Spawn(ctx, name, func() actors.Actor {
		return &busActor{logger: system.Logger()}
	})
	if err != nil {
		return nil, err
	}
	return &EventBus{pid: pid}, nil
}

// PID returns the handle of the bus process
func (x *EventBus) PID() *actors.PID {
	return x.pid
}

// AddHandler initializes the given handler and appends it to the handler
// list. It fails with ErrHandlerAlreadyRegistered when the id is already
// present and with the handler's own error when Init fails.
func (x *EventBus) AddHandler(ctx context.Context, id string, handler Handler, args any) error {
	_, err := x.pid.Ask(ctx, &addHandlerMsg{id: id, handler: handler, args: args}, actors.DefaultAskTimeout)
	return err
}

// RemoveHandler removes the handler registered under the given id. It fails
// with ErrHandlerNotFound when the id is absent.
func (x *EventBus) RemoveHandler(ctx context.Context, id string) error {
	_, err := x.pid.Ask(ctx, &removeHandlerMsg{id: id}, actors.DefaultAskTimeout)
	return err
}

// Notify broadcasts the event asynchronously to every registered handler in
// registration order. Notifications are processed in submission order.
func (x *EventBus) Notify(ctx context.Context, event any) error {
	return x.pid.Tell(ctx, &notifyMsg{event: event})
}

// Call routes a synchronous request to exactly the handler registered under
// the given id and returns its reply.
func (x *EventBus) Call(ctx context.Context, id string, req any, timeout time.Duration) (any, error) {
	return x.pid.Ask(ctx, &handlerCallMsg{id: id, req: req}, timeout)
}

// Handlers returns the ids of the registered handlers in registration order.
func (x *EventBus) Handlers(ctx context.Context) ([]string, error) {
	reply, err := x.pid.Ask(ctx, &listHandlersMsg{}, actors.DefaultAskTimeout)
	if err != nil {
		return nil, err
	}
	ids, _ := reply.([]string)
	return ids, nil
}

// Close stops the bus process gracefully. Pending notifications are
// processed before the bus terminates.
func (x *EventBus) Close(ctx context.Context) error {
	return x.pid.Shutdown(ctx)
}
