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

// timers tracks the two deadlines spec.md §4.3.2 defines in terms of
// the tick carried by each Event rather than wall-clock time, so the
// FSM stays driven entirely by its input and is trivial to test
// without a real clock.
//
// hold_time and keepalive_time are fixed at session construction
// (keepalive_time = hold_time / 3, per spec.md §3); what moves is
// holdDeadline and keepaliveDeadline, both reset to "now + interval"
// whenever the corresponding activity is observed.
type timers struct {
	holdTime      int64
	keepaliveTime int64

	holdDeadline      int64
	keepaliveDeadline int64
}

func newTimers(holdTime int64) timers {
	return timers{
		holdTime:      holdTime,
		keepaliveTime: holdTime / 3,
	}
}

func (t *timers) resetHold(now int64) {
	t.holdDeadline = now + t.holdTime
}

func (t *timers) resetKeepalive(now int64) {
	t.keepaliveDeadline = now + t.keepaliveTime
}

func (t *timers) resetBoth(now int64) {
	t.resetHold(now)
	t.resetKeepalive(now)
}

func (t *timers) holdExpired(now int64) bool {
	return t.holdTime > 0 && now >= t.holdDeadline
}

func (t *timers) keepaliveExpired(now int64) bool {
	return t.keepaliveTime > 0 && now >= t.keepaliveDeadline
}
