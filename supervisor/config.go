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

package supervisor

import (
	"time"
)

const (
	// DefaultMaxRestarts is the default restart intensity budget.
	DefaultMaxRestarts uint32 = 3
	// DefaultPeriod is the default restart intensity window.
	DefaultPeriod = 5 * time.Second
)

// Option defines the various options to apply to a given Config
type Option func(*Config)

// WithStrategy sets the supervision strategy
func WithStrategy(strategy Strategy) Option {
	return func(c *Config) {
		c.strategy = strategy
	}
}

// WithMaxRestarts sets the maximum number of restarts tolerated within the
// intensity window before the supervisor gives up and terminates itself.
func WithMaxRestarts(maxRestarts uint32) Option {
	return func(c *Config) {
		c.maxRestarts = maxRestarts
	}
}

// WithinPeriod sets the sliding window over which restarts are counted
// against the maximum restart budget.
func WithinPeriod(period time.Duration) Option {
	return func(c *Config) {
		c.period = period
	}
}

// Config captures the restart behavior of a supervisor: the strategy applied
// to a failing child and the restart intensity bounding restart storms.
//
// Defaults:
//   - Strategy: OneForOne.
//   - MaxRestarts: DefaultMaxRestarts within DefaultPeriod.
type Config struct {
	strategy    Strategy
	maxRestarts uint32
	period      time.Duration
}

// NewConfig creates a supervision config with the given options applied on
// top of the defaults.
func NewConfig(opts ...Option) *Config {
	config := &Config{
		strategy:    OneForOne,
		maxRestarts: DefaultMaxRestarts,
		period:      DefaultPeriod,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Strategy returns the configured supervision strategy.
func (c *Config) Strategy() Strategy {
	return c.strategy
}

// MaxRestarts returns the restart intensity budget.
func (c *Config) MaxRestarts() uint32 {
	return c.maxRestarts
}

// Period returns the restart intensity window.
func (c *Config) Period() time.Duration {
	return c.period
}
