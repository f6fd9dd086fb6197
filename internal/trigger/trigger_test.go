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

package trigger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu        sync.Mutex
	timeTicks []time.Time
	reqTicks  []time.Time
}

func (r *recordingObserver) OnTimeTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeTicks = append(r.timeTicks, time.Now())
}

func (r *recordingObserver) OnRequestTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqTicks = append(r.reqTicks, time.Now())
}

func (r *recordingObserver) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timeTicks), len(r.reqTicks)
}

func TestTimerTriggerCadence(t *testing.T) {
	const period = 25 * time.Millisecond
	obs := &recordingObserver{}
	tr := NewTimerTrigger(period)
	tr.Register(obs)

	require.NoError(t, tr.Activate())
	time.Sleep(6 * period)
	require.NoError(t, tr.Deactivate())

	obs.mu.Lock()
	ticks := append([]time.Time(nil), obs.timeTicks...)
	obs.mu.Unlock()
	require.GreaterOrEqual(t, len(ticks), 3)

	// Inter-fire intervals sit at the period plus scheduling jitter.
	for i := 1; i < len(ticks); i++ {
		gap := ticks[i].Sub(ticks[i-1])
		assert.GreaterOrEqual(t, gap, period-time.Millisecond)
		assert.Less(t, gap, period+100*time.Millisecond)
	}

	timeTicks, reqTicks := obs.counts()
	assert.Positive(t, timeTicks)
	assert.Zero(t, reqTicks)
}

func TestTimerTriggerNoFiresAfterDeactivate(t *testing.T) {
	obs := &recordingObserver{}
	tr := NewTimerTrigger(10 * time.Millisecond)
	tr.Register(obs)
	require.NoError(t, tr.Activate())
	time.Sleep(35 * time.Millisecond)
	require.NoError(t, tr.Deactivate())

	before, _ := obs.counts()
	time.Sleep(50 * time.Millisecond)
	after, _ := obs.counts()
	assert.Equal(t, before, after)
}

func TestRequestTriggerFiresRequestTicks(t *testing.T) {
	obs := &recordingObserver{}
	tr := NewRequestTrigger(5*time.Millisecond, 15*time.Millisecond)
	tr.Register(obs)
	require.NoError(t, tr.Activate())
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, tr.Deactivate())

	timeTicks, reqTicks := obs.counts()
	assert.Zero(t, timeTicks)
	assert.Positive(t, reqTicks)
}

func TestObserversNotifiedInRegistrationOrder(t *testing.T) {
	var mu sync.Mutex
	var order []int
	mk := func(id int) Observer {
		return observerFunc(func() {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		})
	}
	tr := NewTimerTrigger(time.Hour) // only the immediate first tick fires
	tr.Register(mk(1))
	tr.Register(mk(2))
	tr.Register(mk(3))
	require.NoError(t, tr.Activate())
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, tr.Deactivate())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, order)
}

type observerFunc func()

func (f observerFunc) OnTimeTick()    { f() }
func (f observerFunc) OnRequestTick() { f() }

func TestStateMachine(t *testing.T) {
	tr := NewTimerTrigger(time.Hour)
	assert.False(t, tr.Active())
	assert.ErrorIs(t, tr.Deactivate(), ErrBadState)

	require.NoError(t, tr.Activate())
	assert.True(t, tr.Active())
	assert.ErrorIs(t, tr.Activate(), ErrBadState)

	require.NoError(t, tr.Deactivate())
	assert.False(t, tr.Active())
	assert.ErrorIs(t, tr.Activate(), ErrBadState)
	assert.ErrorIs(t, tr.Deactivate(), ErrBadState)
}
