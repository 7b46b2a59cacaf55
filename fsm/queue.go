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
	"bgpspeak/route"
	"bgpspeak/wire"
)

// Queue is a bounded, order-preserving channel wrapper (spec.md §5).
// It exists so every producer/consumer pair in the pipeline -
// event queue (reader/ticker/supervisor -> driver), output-message
// queue (FSM -> writer), route-updates queue (FSM -> consumer) -
// shares one small, well-tested type instead of three bespoke ones.
//
// A Queue has exactly the two-party contract spec.md §5 describes:
// one side calls Push, the other ranges over C(). Enqueue order is
// preserved because a Go channel preserves send order per sender. The
// output-message and route-updates queues each have a single producer,
// the FSM (I5); the event queue has several (reader, ticker), and
// order is preserved per producer.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue buffering up to capacity items before Push
// blocks.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push enqueues v, blocking if the queue is at capacity. This is the
// suspension point spec.md §5 calls out for a full output queue.
func (q *Queue[T]) Push(v T) {
	q.ch <- v
}

// TryPush enqueues v without blocking, reporting whether it fit.
func (q *Queue[T]) TryPush(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// C exposes the receive side for range loops and select statements.
func (q *Queue[T]) C() <-chan T {
	return q.ch
}

// Close closes the channel; no further Push calls may be made.
func (q *Queue[T]) Close() {
	close(q.ch)
}

// EventQueue carries Event values from the reader, ticker, and
// supervisor to the driver loop that feeds the FSM one event at a
// time.
type EventQueue = Queue[Event]

// MessageQueue carries fully-formed wire.Message values from the FSM
// to the writer task (spec.md §6's "Output message queue").
type MessageQueue = Queue[wire.Message]

// RouteQueue carries route.Update values from the FSM to the
// application (spec.md §6's "Route updates queue").
type RouteQueue = Queue[route.Update]
