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

// Package driver wires the FSM in package fsm to a real transport: a
// reader goroutine decodes wire frames into MessageReceived events, a
// ticker goroutine emits TimerExpired events, and a writer goroutine
// drains the FSM's output-message queue back onto the wire (spec.md
// §5). It is the concrete stand-in for the "external transport"
// collaborator spec.md §1/§6 deliberately leaves unspecified,
// generalized from the teacher's bgp/connection.go reader()/writer()
// pair away from owning a raw net.Conn: anything satisfying
// io.ReadWriteCloser will do.
package driver

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bgpspeak/fsm"
	"bgpspeak/wire"
)

// DefaultTickInterval matches spec.md §5's "no coarser than one
// second" requirement on the ticker.
const DefaultTickInterval = time.Second

// Driver runs the reader/writer/ticker tasks around one StateMachine.
// The StateMachine, its output-message queue, and its route-updates
// queue are constructed by the caller (they're the FSM's queues, per
// spec.md §5's ownership rules); Driver only feeds and drains them.
type Driver struct {
	sm        *fsm.StateMachine
	conn      io.ReadWriteCloser
	messages  *fsm.MessageQueue
	tickEvery time.Duration
	log       zerolog.Logger

	tick int64
}

// New builds a Driver. tickEvery <= 0 selects DefaultTickInterval.
func New(sm *fsm.StateMachine, conn io.ReadWriteCloser, messages *fsm.MessageQueue, tickEvery time.Duration, log zerolog.Logger) *Driver {
	if tickEvery <= 0 {
		tickEvery = DefaultTickInterval
	}
	return &Driver{sm: sm, conn: conn, messages: messages, tickEvery: tickEvery, log: log}
}

// Run drives the session until ctx is cancelled, the transport
// closes, or the FSM reaches IDLE. It returns the first error any
// task encountered (nil on an orderly shutdown).
//
// errgroup's derived context only cancels when a task returns a
// non-nil error, but readLoop/eventLoop return nil on an orderly
// shutdown (spec.md §5's Shutdown is not an error). So Run wraps ctx
// in its own cancel and fires it explicitly once the event loop
// decides the session is over, which is what actually unblocks the
// ticker (and, via closing the connection, the reader). writeLoop
// instead terminates on the message queue being closed, so it always
// drains whatever eventLoop queued right before finishing.
func (d *Driver) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := fsm.NewQueue[fsm.Event](64)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.readLoop(events) })
	g.Go(func() error { return d.tickLoop(gctx, events) })
	g.Go(func() error { return d.writeLoop() })
	g.Go(func() error {
		err := d.eventLoop(gctx, events)
		cancel() // unblock tickLoop once the session is over
		// eventLoop was the only caller of sm.Event, so no further
		// message can be pushed past this point: closing lets writeLoop
		// drain whatever is already buffered and exit deterministically,
		// instead of racing a close against a still-populated channel.
		d.messages.Close()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		d.conn.Close() // unblock readLoop's pending, context-unaware read
		return nil
	})

	return g.Wait()
}

// readLoop decodes frames and turns them into MessageReceived events.
// A decode error is a framing failure (spec.md §7): it is not the
// FSM's concern, so the driver synthesizes Shutdown itself and exits
// without returning an error.
func (d *Driver) readLoop(events *fsm.EventQueue) error {
	// Push, not TryPush: this is the sole guarantee spec.md §5 makes
	// that a transport close or framing error always reaches the FSM as
	// Shutdown. Dropping it under backpressure would hang the session
	// instead of tearing it down. A deferred blocking send on goroutine
	// exit is safe - eventLoop keeps draining until it sees this event.
	defer events.Push(fsm.NewShutdownEvent(atomic.LoadInt64(&d.tick)))

	for {
		m, err := wire.ReadFrom(d.conn)
		if err != nil {
			d.log.Info().Err(err).Msg("connection closed or framing error, shutting down session")
			return nil
		}
		events.Push(fsm.NewMessageEvent(m, atomic.LoadInt64(&d.tick)))
	}
}

// tickLoop emits one TimerExpired event per tickEvery, in the same
// units as hold_time/keepalive_time (seconds).
func (d *Driver) tickLoop(ctx context.Context, events *fsm.EventQueue) error {
	ticker := time.NewTicker(d.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tick := atomic.AddInt64(&d.tick, 1)
			events.TryPush(fsm.NewTimerEvent(tick))
		}
	}
}

// writeLoop drains the FSM's output-message queue, encodes each
// message, and writes it to the transport (spec.md §2's data flow:
// FSM -> encoder -> bytes to peer). It terminates only when the queue
// is closed (by Run, once eventLoop is done producing), so a final
// message queued right before shutdown - a NOTIFICATION on Shutdown or
// HOLD_TIMER_EXPIRED, say - is always drained and written rather than
// racing a context cancellation that could discard it.
func (d *Driver) writeLoop() error {
	for m := range d.messages.C() {
		if err := wire.WriteTo(d.conn, m); err != nil {
			d.log.Warn().Err(err).Msg("write failed, closing connection")
			d.conn.Close()
			return err
		}
	}
	return nil
}

// eventLoop is the single cooperative consumer spec.md §5 requires:
// it delivers events to the FSM one at a time, in dequeue order.
func (d *Driver) eventLoop(ctx context.Context, events *fsm.EventQueue) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events.C():
			d.sm.Event(ev)
			if ev.Kind == fsm.Shutdown || d.sm.State() == fsm.Idle {
				return nil
			}
		}
	}
}
