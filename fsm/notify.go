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
	"github.com/rs/zerolog"

	"bgpspeak/route"
)

// Notifier observes FSM activity for logging, mirroring the shape of
// the teacher's log.Log marker interface: an interface the embedding
// program supplies, with a nil-safe default (NopNotifier) standing in
// for the teacher's log.Nil{}.
type Notifier interface {
	// StateChange reports a transition, e.g. ACTIVE -> OPEN_CONFIRM.
	StateChange(from, to State)
	// MessageSent reports a message pushed onto the output queue.
	MessageSent(kind uint8)
	// MessageReceived reports an event delivered to the FSM.
	MessageReceived(kind uint8)
	// TimerFired reports which timer (hold or keepalive) expired.
	TimerFired(name string)
	// RouteEvent reports a route addition or removal produced during
	// UPDATE ingestion.
	RouteEvent(u route.Update)
	// Error reports a decode or protocol error the FSM acted on.
	Error(err error)
}

// NopNotifier discards everything; it is the zero value of Notifier
// used when a caller does not supply one, matching log.Nil{}.
type NopNotifier struct{}

func (NopNotifier) StateChange(from, to State) {}
func (NopNotifier) MessageSent(kind uint8)     {}
func (NopNotifier) MessageReceived(kind uint8) {}
func (NopNotifier) TimerFired(name string)     {}
func (NopNotifier) RouteEvent(u route.Update)  {}
func (NopNotifier) Error(err error)            {}

// ZerologNotifier backs Notifier with structured logging via zerolog,
// the default this core ships instead of the teacher's bare
// fmt.Println logging.
type ZerologNotifier struct {
	Log zerolog.Logger
}

func NewZerologNotifier(log zerolog.Logger) ZerologNotifier {
	return ZerologNotifier{Log: log}
}

func (n ZerologNotifier) StateChange(from, to State) {
	n.Log.Info().Stringer("from", from).Stringer("to", to).Msg("fsm state change")
}

func (n ZerologNotifier) MessageSent(kind uint8) {
	n.Log.Debug().Uint8("type", kind).Msg("message sent")
}

func (n ZerologNotifier) MessageReceived(kind uint8) {
	n.Log.Debug().Uint8("type", kind).Msg("message received")
}

func (n ZerologNotifier) TimerFired(name string) {
	n.Log.Debug().Str("timer", name).Msg("timer fired")
}

func (n ZerologNotifier) RouteEvent(u route.Update) {
	n.Log.Info().Str("update", u.String()).Msg("route event")
}

func (n ZerologNotifier) Error(err error) {
	n.Log.Warn().Err(err).Msg("fsm error")
}
