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
	"github.com/troupe-io/troupe/supervisor"
)

// ChildSpecOption defines the various options to apply to a given ChildSpec
type ChildSpecOption func(*ChildSpec)

// WithRestartPolicy sets the restart policy of the child. The default is
// supervisor.Permanent.
func WithRestartPolicy(policy supervisor.RestartPolicy) ChildSpecOption {
	return func(spec *ChildSpec) {
		spec.restart = policy
	}
}

// WithSpawnOptions sets the spawn options applied every time an instance of
// the child is started.
func WithSpawnOptions(opts ...SpawnOption) ChildSpecOption {
	return func(spec *ChildSpec) {
		spec.spawnOpts = opts
	}
}

// ChildSpec describes one child of a supervision tree: its unique id within
// the tree, the factory producing a fresh actor instance on every (re)start
// and its restart policy.
type ChildSpec struct {
	id        string
	factory   func() Actor
	restart   supervisor.RestartPolicy
	spawnOpts []SpawnOption
}

// NewChildSpec creates an instance of ChildSpec
func NewChildSpec(id string, factory func() Actor, opts ...ChildSpecOption) *ChildSpec {
	spec := &ChildSpec{
		id:      id,
		factory: factory,
		restart: supervisor.Permanent,
	}
	for _, opt := range opts {
		opt(spec)
	}
	return spec
}

// ID returns the child spec id
func (spec *ChildSpec) ID() string {
	return spec.id
}

// RestartPolicy returns the restart policy of the child
func (spec *ChildSpec) RestartPolicy() supervisor.RestartPolicy {
	return spec.restart
}
