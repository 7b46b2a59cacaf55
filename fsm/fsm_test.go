/*
 * bgpspeak. Copyright (C) 2026-present the bgpspeak contributors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueuePreservesOrder(t *testing.T) {
	q := NewQueue[int](4)
	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, <-q.C())
	}
}

func TestQueueTryPushRespectsCapacity(t *testing.T) {
	q := NewQueue[int](1)
	assert.True(t, q.TryPush(1))
	assert.False(t, q.TryPush(2))
	assert.Equal(t, 1, <-q.C())
}

func TestTimersHoldAndKeepaliveDeadlines(t *testing.T) {
	tm := newTimers(240)
	assert.Equal(t, int64(80), tm.keepaliveTime)

	tm.resetBoth(0)
	assert.False(t, tm.holdExpired(239))
	assert.True(t, tm.holdExpired(240))
	assert.False(t, tm.keepaliveExpired(79))
	assert.True(t, tm.keepaliveExpired(80))

	tm.resetKeepalive(100)
	assert.False(t, tm.keepaliveExpired(179))
	assert.True(t, tm.keepaliveExpired(180))
}

func TestEventConstructors(t *testing.T) {
	ev := NewTimerEvent(42)
	assert.Equal(t, TimerExpired, ev.Kind)
	assert.Equal(t, int64(42), ev.Tick)

	sd := NewShutdownEvent(1)
	assert.Equal(t, Shutdown, sd.Kind)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ACTIVE", Active.String())
	assert.Equal(t, "OPEN_CONFIRM", OpenConfirm.String())
	assert.Equal(t, "ESTABLISHED", Established.String())
	assert.Equal(t, "IDLE", Idle.String())
}
