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

// Package fsm implements the per-peer BGP session state machine
// (spec.md §4.3): the four-state FSM, its timers, UPDATE synthesis and
// ingestion, and the bounded queues that connect it to its
// surrounding reader/writer/ticker/consumer tasks (spec.md §5).
package fsm

import "bgpspeak/wire"

// EventKind tags the three event shapes the FSM accepts (spec.md §6).
type EventKind uint8

const (
	// MessageReceived carries a decoded BGP message from the peer.
	MessageReceived EventKind = iota
	// TimerExpired is emitted by a tick source at regular intervals.
	TimerExpired
	// Shutdown is the sole cancellation channel (spec.md §5).
	Shutdown
)

func (k EventKind) String() string {
	switch k {
	case MessageReceived:
		return "MessageReceived"
	case TimerExpired:
		return "TimerExpired"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Event is the tagged union delivered to the FSM (spec.md §6): one of
// MessageReceived(message), TimerExpired, or Shutdown, each carrying
// the tick at which it was observed.
type Event struct {
	Kind    EventKind
	Message wire.Message
	Tick    int64
}

// NewMessageEvent builds a MessageReceived event.
func NewMessageEvent(m wire.Message, tick int64) Event {
	return Event{Kind: MessageReceived, Message: m, Tick: tick}
}

// NewTimerEvent builds a TimerExpired event.
func NewTimerEvent(tick int64) Event {
	return Event{Kind: TimerExpired, Tick: tick}
}

// NewShutdownEvent builds a Shutdown event.
func NewShutdownEvent(tick int64) Event {
	return Event{Kind: Shutdown, Tick: tick}
}
