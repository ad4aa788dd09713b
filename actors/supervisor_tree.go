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
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/troupe-io/troupe/errors"
	"github.com/troupe-io/troupe/log"
	"github.com/troupe-io/troupe/supervisor"
)

// ChildState represents the lifecycle state of a supervised child.
type ChildState int

const (
	// ChildPlanned indicates a child that has a spec but has not been started yet.
	ChildPlanned ChildState = iota
	// ChildStarting indicates a child whose actor is being initialized.
	ChildStarting
	// ChildRunning indicates a live child.
	ChildRunning
	// ChildRestarting indicates a child being replaced after an exit.
	ChildRestarting
	// ChildTerminated indicates a child that exited cleanly.
	ChildTerminated
	// ChildCrashed indicates a child that exited abnormally.
	ChildCrashed
	// ChildPermanentlyStopped indicates a child the supervisor will never restart.
	ChildPermanentlyStopped
)

// String returns the string representation of the child state
func (s ChildState) String() string {
	switch s {
	case ChildPlanned:
		return "Planned"
	case ChildStarting:
		return "Starting"
	case ChildRunning:
		return "Running"
	case ChildRestarting:
		return "Restarting"
	case ChildTerminated:
		return "Terminated"
	case ChildCrashed:
		return "Crashed"
	case ChildPermanentlyStopped:
		return "PermanentlyStopped"
	default:
		return ""
	}
}

// ChildStatus is a point-in-time snapshot of one supervised child.
type ChildStatus struct {
	// ID is the child id within the tree
	ID string
	// State is the lifecycle state of the child
	State ChildState
	// Actor is the current handle of the child. It is nil when the child is
	// not alive.
	Actor *PID
}

// administrative messages of the supervisor actor
type (
	startChildrenMsg  struct{}
	startChildMsg     struct{}
	terminateChildMsg struct{ id string }
	deleteChildMsg    struct{ id string }
	whichChildrenMsg  struct{}
	stopTreeMsg       struct{}
)

// childHandle tracks one child instance of the tree
type childHandle struct {
	id    string
	spec  *ChildSpec
	pid   *PID
	state ChildState
}

// supervisorActor is the control process of a supervision tree. It owns the
// child mapping exclusively: children are started, watched and restarted only
// from its own worker loop, so no lock is needed.
type supervisorActor struct {
	system *actorSystem
	config *supervisor.Config
	logger log.Logger

	specs    []*ChildSpec
	order    []string
	children map[string]*childHandle
	byPID    map[string]string
	live     mapset.Set[string]

	restarts []time.Time

	self *PID
}

// enforce compilation error
var _ Actor = (*supervisorActor)(nil)

func newSupervisorActor(system *actorSystem, config *supervisor.Config, specs []*ChildSpec) *supervisorActor {
	sup := &supervisorActor{
		system:   system,
		config:   config,
		logger:   system.logger,
		specs:    specs,
		children: make(map[string]*childHandle),
		byPID:    make(map[string]string),
		live:     mapset.NewSet[string](),
	}
	if config.Strategy() != supervisor.SimpleOneForOne {
		for _, spec := range specs {
			sup.order = append(sup.order, spec.ID())
			sup.children[spec.ID()] = &childHandle{
				id:    spec.ID(),
				spec:  spec,
				state: ChildPlanned,
			}
		}
	}
	return sup
}

// PreStart implements the Actor interface. It is a no-op.
func (s *supervisorActor) PreStart(context.Context) error {
	return nil
}

// PostStop tears down any child still alive. This covers a supervisor shut
// down directly through its handle instead of through Stop on the tree.
func (s *supervisorActor) PostStop(ctx context.Context) error {
	s.teardown(ctx)
	return nil
}

// Receive dispatches the administrative requests and the child termination
// signals of the tree.
func (s *supervisorActor) Receive(rc *ReceiveContext) {
	if s.self == nil {
		s.self = rc.Self()
	}

	switch msg := rc.Message().(type) {
	case *startChildrenMsg:
		if err := s.handleStartChildren(rc.Context()); err != nil {
			rc.Err(err)
			return
		}
		rc.Response(nil)
	case *startChildMsg:
		pid, err := s.handleStartChild(rc.Context())
		if err != nil {
			rc.Err(err)
			return
		}
		rc.Response(pid)
	case *terminateChildMsg:
		if err := s.handleTerminateChild(rc.Context(), msg.id); err != nil {
			rc.Err(err)
			return
		}
		rc.Response(nil)
	case *deleteChildMsg:
		if err := s.handleDeleteChild(msg.id); err != nil {
			rc.Err(err)
			return
		}
		rc.Response(nil)
	case *whichChildrenMsg:
		rc.Response(s.snapshot())
	case *stopTreeMsg:
		s.teardown(rc.Context())
		rc.Response(nil)
		rc.Stop()
	case *Terminated:
		s.handleExit(rc, msg.Actor, nil)
	case *Faulted:
		s.handleExit(rc, msg.Actor, msg.Err)
	default:
		rc.Unhandled()
	}
}

// handleStartChildren starts the children in spec order. When a child fails
// to start, the already-started siblings are stopped in reverse order and the
// error is returned.
func (s *supervisorActor) handleStartChildren(ctx context.Context) error {
	if s.config.Strategy() == supervisor.SimpleOneForOne {
		// dynamic children only
		return nil
	}
	for i, spec := range s.specs {
		ch := s.children[spec.ID()]
		if err := s.startChild(ctx, ch); err != nil {
			for j := i - 1; j >= 0; j-- {
				s.stopChild(ctx, s.children[s.specs[j].ID()], ChildPermanentlyStopped)
			}
			return fmt.Errorf("failed to start child=(%s): %w", spec.ID(), err)
		}
	}
	return nil
}

// handleStartChild adds a dynamic child instance from the template spec.
func (s *supervisorActor) handleStartChild(ctx context.Context) (*PID, error) {
	if s.config.Strategy() != supervisor.SimpleOneForOne {
		return nil, errors.ErrDynamicChildrenNotSupported
	}

	template := s.specs[0]
	instanceID := template.ID() + "-" + strings.Split(uuid.NewString(), "-")[0]
	ch := &childHandle{
		id:    instanceID,
		spec:  template,
		state: ChildPlanned,
	}
	s.children[instanceID] = ch
	s.order = append(s.order, instanceID)

	if err := s.startChild(ctx, ch); err != nil {
		delete(s.children, instanceID)
		s.order = s.order[:len(s.order)-1]
		return nil, err
	}
	return ch.pid, nil
}

// handleTerminateChild deliberately stops a child. The child keeps its spec
// but is never restarted; use DeleteChild to drop the spec as well.
func (s *supervisorActor) handleTerminateChild(ctx context.Context, id string) error {
	ch, ok := s.children[id]
	if !ok {
		return errors.ErrChildNotFound
	}
	if s.live.Contains(id) {
		s.stopChild(ctx, ch, ChildPermanentlyStopped)
		return nil
	}
	ch.state = ChildPermanentlyStopped
	return nil
}

// handleDeleteChild removes the spec of a stopped child from the tree.
func (s *supervisorActor) handleDeleteChild(id string) error {
	if _, ok := s.children[id]; !ok {
		return errors.ErrChildNotFound
	}
	if s.live.Contains(id) {
		return errors.ErrChildStillRunning
	}
	delete(s.children, id)
	for i, childID := range s.order {
		if childID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// snapshot returns the current child mapping in start order.
func (s *supervisorActor) snapshot() []ChildStatus {
	statuses := make([]ChildStatus, 0, len(s.order))
	for _, id := range s.order {
		ch := s.children[id]
		status := ChildStatus{ID: ch.id, State: ch.state}
		if s.live.Contains(ch.id) {
			status.Actor = ch.pid
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// handleExit applies the restart strategy to an exited child. A deliberate
// stop never reaches this point because stopChild removes the watch first.
func (s *supervisorActor) handleExit(rc *ReceiveContext, child *PID, reason error) {
	id, ok := s.byPID[child.ID()]
	if !ok {
		// stale signal from a previous incarnation
		return
	}
	ch := s.children[id]
	if ch == nil || ch.pid == nil || ch.pid.ID() != child.ID() {
		return
	}

	delete(s.byPID, child.ID())
	s.live.Remove(id)

	abnormal := reason != nil
	if abnormal {
		ch.state = ChildCrashed
		s.logger.Warnf("supervisor=(%s) child=(%s) crashed: %v", s.self.Name(), id, reason)
	} else {
		ch.state = ChildTerminated
	}

	if !s.shouldRestart(ch, abnormal) {
		if ch.spec.RestartPolicy() == supervisor.Temporary {
			ch.state = ChildPermanentlyStopped
		}
		return
	}

	now := time.Now()
	s.pruneRestarts(now)
	if uint32(len(s.restarts)) >= s.config.MaxRestarts() {
		s.logger.Errorf("supervisor=(%s) exceeded restart intensity (%d within %v), giving up",
			s.self.Name(), s.config.MaxRestarts(), s.config.Period())
		s.teardown(rc.Context())
		rc.Err(errors.ErrTooManyRestarts)
		return
	}
	s.restarts = append(s.restarts, now)

	switch s.config.Strategy() {
	case supervisor.OneForAll:
		s.restartAll(rc.Context())
	case supervisor.RestForOne:
		s.restartFrom(rc.Context(), id)
	default:
		// OneForOne and SimpleOneForOne restart the failed child only
		s.restartChild(rc.Context(), ch)
	}
}

// shouldRestart applies the child restart policy to the exit kind.
func (s *supervisorActor) shouldRestart(ch *childHandle, abnormal bool) bool {
	switch ch.spec.RestartPolicy() {
	case supervisor.Permanent:
		return true
	case supervisor.Transient:
		return abnormal
	default:
		return false
	}
}

// pruneRestarts drops the restart timestamps that fell out of the intensity window.
func (s *supervisorActor) pruneRestarts(now time.Time) {
	cutoff := now.Add(-s.config.Period())
	kept := s.restarts[:0]
	for _, at := range s.restarts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.restarts = kept
}

// restartChild replaces the child with a fresh instance and a fresh handle.
func (s *supervisorActor) restartChild(ctx context.Context, ch *childHandle) {
	ch.state = ChildRestarting
	if err := s.startChild(ctx, ch); err != nil {
		s.logger.Errorf("supervisor=(%s) failed to restart child=(%s): %v", s.self.Name(), ch.id, err)
		ch.state = ChildPermanentlyStopped
		return
	}
	s.system.events.Publish(LifecycleTopic, &ActorRestarted{
		ChildID:     ch.id,
		Actor:       ch.pid,
		RestartedAt: time.Now(),
	})
}

// restartAll stops the still-running children in reverse start order and
// restarts every restartable child in the original start order.
func (s *supervisorActor) restartAll(ctx context.Context) {
	for i := len(s.order) - 1; i >= 0; i-- {
		ch := s.children[s.order[i]]
		if s.live.Contains(ch.id) {
			s.stopChild(ctx, ch, s.restartMark(ch))
		}
	}
	for _, id := range s.order {
		ch := s.children[id]
		if !s.restartable(ch) {
			continue
		}
		s.restartChild(ctx, ch)
	}
}

// restartable reports whether a collective restart may bring the child back.
// Temporary children and permanently stopped children stay down, and a
// non-permanent child that already exited cleanly is not resurrected.
func (s *supervisorActor) restartable(ch *childHandle) bool {
	if ch.spec.RestartPolicy() == supervisor.Temporary {
		return false
	}
	if ch.state == ChildPermanentlyStopped {
		return false
	}
	if ch.state == ChildTerminated && ch.spec.RestartPolicy() != supervisor.Permanent {
		return false
	}
	return true
}

// restartMark is the state a live child takes when stopped ahead of a
// collective restart. A Temporary child will not come back.
func (s *supervisorActor) restartMark(ch *childHandle) ChildState {
	if ch.spec.RestartPolicy() == supervisor.Temporary {
		return ChildPermanentlyStopped
	}
	return ChildRestarting
}

// restartFrom stops and restarts the failed child and every child started
// after it; earlier children keep their handles.
func (s *supervisorActor) restartFrom(ctx context.Context, failedID string) {
	from := 0
	for i, id := range s.order {
		if id == failedID {
			from = i
			break
		}
	}
	for i := len(s.order) - 1; i >= from; i-- {
		ch := s.children[s.order[i]]
		if s.live.Contains(ch.id) {
			s.stopChild(ctx, ch, s.restartMark(ch))
		}
	}
	for _, id := range s.order[from:] {
		ch := s.children[id]
		if !s.restartable(ch) {
			continue
		}
		s.restartChild(ctx, ch)
	}
}

// startChild spawns a fresh instance of the child and watches it.
func (s *supervisorActor) startChild(ctx context.Context, ch *childHandle) error {
	if s.live.Contains(ch.id) {
		return errors.ErrChildAlreadyRunning
	}

	ch.state = ChildStarting
	name := s.childName(ch.id)
	pid, err := s.system.Spawn(ctx, name, ch.spec.factory, ch.spec.spawnOpts...)
	if err != nil {
		ch.state = ChildCrashed
		return err
	}

	ch.pid = pid
	ch.state = ChildRunning
	s.live.Add(ch.id)
	s.byPID[pid.ID()] = ch.id
	pid.Watch(s.self)
	return nil
}

// stopChild deliberately stops a child, removing the watch first so the
// termination signal does not trigger a restart.
func (s *supervisorActor) stopChild(ctx context.Context, ch *childHandle, mark ChildState) {
	if ch.pid != nil {
		ch.pid.UnWatch(s.self)
		delete(s.byPID, ch.pid.ID())
		if err := ch.pid.Shutdown(ctx); err != nil {
			s.logger.Warnf("supervisor=(%s) failed to stop child=(%s): %v", s.self.Name(), ch.id, err)
		}
	}
	s.live.Remove(ch.id)
	ch.state = mark
}

// teardown stops every live child in reverse start order.
func (s *supervisorActor) teardown(ctx context.Context) {
	for i := len(s.order) - 1; i >= 0; i-- {
		ch := s.children[s.order[i]]
		if s.live.Contains(ch.id) {
			s.stopChild(ctx, ch, ChildPermanentlyStopped)
		}
	}
}

// childName builds the registry name of a child from the tree name.
func (s *supervisorActor) childName(id string) string {
	return s.self.Name() + "/" + id
}

// SupervisorRef is the handle of a running supervision tree. All operations
// are serialized through the supervisor's own mailbox.
type SupervisorRef struct {
	pid *PID
}

// PID returns the handle of the supervisor process itself. Watch it to
// observe the supervisor escalating failures upward.
func (x *SupervisorRef) PID() *PID {
	return x.pid
}

// Name returns the name of the supervision tree
func (x *SupervisorRef) Name() string {
	return x.pid.Name()
}

// StartChild adds a dynamic child instance from the template spec of a
// simple-one-for-one tree and returns its handle.
func (x *SupervisorRef) StartChild(ctx context.Context) (*PID, error) {
	reply, err := x.pid.Ask(ctx, &startChildMsg{}, DefaultAskTimeout)
	if err != nil {
		return nil, err
	}
	pid, ok := reply.(*PID)
	if !ok {
		return nil, errors.ErrActorNotFound
	}
	return pid, nil
}

// TerminateChild deliberately stops the given child. The child keeps its
// spec but is never restarted.
func (x *SupervisorRef) TerminateChild(ctx context.Context, id string) error {
	_, err := x.pid.Ask(ctx, &terminateChildMsg{id: id}, DefaultAskTimeout)
	return err
}

// DeleteChild removes the spec of a stopped child from the tree.
func (x *SupervisorRef) DeleteChild(ctx context.Context, id string) error {
	_, err := x.pid.Ask(ctx, &deleteChildMsg{id: id}, DefaultAskTimeout)
	return err
}

// WhichChildren returns a snapshot of the current child mapping in start order.
func (x *SupervisorRef) WhichChildren(ctx context.Context) ([]ChildStatus, error) {
	reply, err := x.pid.Ask(ctx, &whichChildrenMsg{}, DefaultAskTimeout)
	if err != nil {
		return nil, err
	}
	statuses, _ := reply.([]ChildStatus)
	return statuses, nil
}

// Stop tears down the tree: children are stopped in reverse start order and
// the supervisor process terminates cleanly.
func (x *SupervisorRef) Stop(ctx context.Context) error {
	if !x.pid.IsRunning() {
		return nil
	}
	if _, err := x.pid.Ask(ctx, &stopTreeMsg{}, DefaultAskTimeout); err != nil {
		return err
	}
	return x.pid.Shutdown(ctx)
}

// SpawnSupervisor creates a supervision tree from the given config and
// ordered child specs
func (x *actorSystem) SpawnSupervisor(ctx context.Context, name string, config *supervisor.Config, specs ...*ChildSpec) (*SupervisorRef, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	if config == nil {
		config = supervisor.NewConfig()
	}

	switch {
	case config.Strategy() == supervisor.SimpleOneForOne && len(specs) != 1:
		return nil, errors.ErrSingleChildSpecRequired
	case config.Strategy() != supervisor.SimpleOneForOne && len(specs) == 0:
		return nil, errors.ErrMissingChildSpecs
	}

	seen := mapset.NewSet[string]()
	for _, spec := range specs {
		if !seen.Add(spec.ID()) {
			return nil, errors.ErrDuplicateChild
		}
	}

	sup := newSupervisorActor(x, config, specs)
	pid, err := x.Spawn(ctx, name, func() Actor { return sup })
	if err != nil {
		return nil, err
	}

	if _, err := pid.Ask(ctx, &startChildrenMsg{}, DefaultAskTimeout); err != nil {
		_ = pid.Shutdown(ctx)
		return nil, err
	}
	return &SupervisorRef{pid: pid}, nil
}
