// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package trigger drives ingestion and output flushing on periodic ticks.
// A trigger owns one background driver goroutine that notifies its
// observers in registration order; deactivation cancels the pending
// sleep, while a tick already notifying observers runs to completion.
package trigger

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// Observer receives trigger notifications. Which method fires depends on
// the trigger kind.
type Observer interface {
	OnTimeTick()
	OnRequestTick()
}

// ErrBadState is returned when Activate or Deactivate is called outside
// the Created → Active → Stopping → Stopped order.
var ErrBadState = errors.New("trigger is not in a state that allows this transition")

type state int32

const (
	stateCreated state = iota
	stateActive
	stateStopping
	stateStopped
)

// base carries the observer list and the activation latch shared by both
// trigger kinds.
type base struct {
	mu        sync.Mutex
	observers []Observer
	state     atomic.Int32
	cancel    context.CancelFunc
	done      chan struct{}
}

// Register adds an observer. Observers registered after activation are
// picked up on the next tick.
func (b *base) Register(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

func (b *base) snapshot() []Observer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Observer, len(b.observers))
	copy(out, b.observers)
	return out
}

// activate flips Created → Active and starts the driver.
func (b *base) activate(drive func(ctx context.Context)) error {
	if !b.state.CompareAndSwap(int32(stateCreated), int32(stateActive)) {
		return ErrBadState
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		drive(ctx)
	}()
	return nil
}

// deactivate flips Active → Stopping, waits for the driver to observe the
// cancellation, then lands in Stopped.
func (b *base) deactivate() error {
	if !b.state.CompareAndSwap(int32(stateActive), int32(stateStopping)) {
		return ErrBadState
	}
	b.cancel()
	<-b.done
	b.state.Store(int32(stateStopped))
	return nil
}

// Active reports whether the driver is currently running.
func (b *base) Active() bool {
	return state(b.state.Load()) == stateActive
}

// TimerTrigger notifies observers with a time-tick every fixed period.
// The first tick fires immediately on activation.
type TimerTrigger struct {
	base
	period time.Duration
}

// NewTimerTrigger creates an inactive timer trigger.
func NewTimerTrigger(period time.Duration) *TimerTrigger {
	return &TimerTrigger{period: period}
}

// Activate starts the driver. Valid only once, from the created state.
func (t *TimerTrigger) Activate() error {
	return t.activate(func(ctx context.Context) {
		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			for _, o := range t.snapshot() {
				o.OnTimeTick()
			}
			timer.Reset(t.period)
		}
	})
}

// Deactivate cancels the driver's pending sleep and waits for it to exit;
// a tick already in progress finishes first.
func (t *TimerTrigger) Deactivate() error { return t.deactivate() }

// RequestTrigger notifies observers with a request-tick after a uniformly
// random sleep in [min, max] on each iteration.
type RequestTrigger struct {
	base
	min, max time.Duration
}

// NewRequestTrigger creates an inactive request trigger. A max below min
// is clamped to min.
func NewRequestTrigger(min, max time.Duration) *RequestTrigger {
	if max < min {
		max = min
	}
	return &RequestTrigger{min: min, max: max}
}

// Activate starts the driver.
func (t *RequestTrigger) Activate() error {
	return t.activate(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(t.nextInterval()):
			}
			for _, o := range t.snapshot() {
				o.OnRequestTick()
			}
		}
	})
}

// Deactivate signals the driver to stop and waits for it to exit.
func (t *RequestTrigger) Deactivate() error { return t.deactivate() }

func (t *RequestTrigger) nextInterval() time.Duration {
	if t.max == t.min {
		return t.min
	}
	return t.min + rand.N(t.max-t.min+1)
}
