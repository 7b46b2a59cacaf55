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
	"bgpspeak/address"
	"bgpspeak/route"
	"bgpspeak/wire"
)

// Config holds the construction parameters spec.md §6 calls for.
type Config struct {
	LocalAS  uint16
	PeerAS   uint16
	RouterID address.IPv4Address

	LocalAddress address.Address
	Neighbor     address.Address

	// HoldTime defaults to 240 seconds when zero.
	HoldTime uint16

	// RoutesToAdvertise is injected before the first event and
	// synthesized into UPDATEs once the session reaches ESTABLISHED
	// (spec.md §3, §4.3.1). Mutating it after ESTABLISHED is out of
	// scope for this core.
	RoutesToAdvertise []route.Route

	Notifier Notifier
}

const defaultHoldTime = 240

// StateMachine is the per-peer BGP session FSM (spec.md §3, §4.3). It
// is single-threaded and cooperative: Event is the only method that
// mutates it, and it must be called with one event at a time (spec.md
// §5) - no internal locking is needed under that discipline.
type StateMachine struct {
	localAS  uint16
	peerAS   uint16
	routerID address.IPv4Address

	localAddress address.Address
	neighbor     address.Address

	holdTimeConfigured uint16
	timers             timers

	state State

	routesToAdvertise []route.Route

	messages *MessageQueue
	routes   *RouteQueue
	notifier Notifier

	lastError error
}

// NewStateMachine builds a StateMachine in its initial ACTIVE state
// (spec.md §4.3). messages and routes are the two output queues the
// FSM exclusively produces to (spec.md §5); both must be non-nil.
func NewStateMachine(cfg Config, messages *MessageQueue, routes *RouteQueue) *StateMachine {
	holdTime := cfg.HoldTime
	if holdTime == 0 {
		holdTime = defaultHoldTime
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &StateMachine{
		localAS:            cfg.LocalAS,
		peerAS:             cfg.PeerAS,
		routerID:           cfg.RouterID,
		localAddress:       cfg.LocalAddress,
		neighbor:           cfg.Neighbor,
		holdTimeConfigured: holdTime,
		timers:             newTimers(int64(holdTime)),
		state:              Active,
		routesToAdvertise:  cfg.RoutesToAdvertise,
		messages:           messages,
		routes:             routes,
		notifier:           notifier,
	}
}

// State reports the current FSM state.
func (sm *StateMachine) State() State { return sm.state }

// Event delivers one event to the FSM (spec.md §4.3). It is the sole
// mutator of FSM state; the caller (the driver) must serialize calls.
func (sm *StateMachine) Event(ev Event) {
	if sm.state == Idle {
		return // I2: IDLE is terminal
	}

	switch ev.Kind {
	case Shutdown:
		sm.onShutdown(ev.Tick)
	case TimerExpired:
		sm.onTimer(ev.Tick)
	case MessageReceived:
		sm.notifier.MessageReceived(ev.Message.Type())
		sm.onMessage(ev.Message, ev.Tick)
	}
}

func (sm *StateMachine) onMessage(m wire.Message, tick int64) {
	switch sm.state {
	case Active:
		sm.activeMessage(m, tick)
	case OpenConfirm:
		sm.openConfirmMessage(m, tick)
	case Established:
		sm.establishedMessage(m, tick)
	}
}

func (sm *StateMachine) onTimer(tick int64) {
	switch sm.state {
	case OpenConfirm, Established:
		sm.checkTimers(tick)
	}
}

func (sm *StateMachine) onShutdown(tick int64) {
	switch sm.state {
	case OpenConfirm, Established:
		sm.sendNotification(wire.ErrorCodeCease, 0, nil)
	}
	sm.transitionTo(Idle)
}

// activeMessage implements spec.md §4.3's ACTIVE transitions.
func (sm *StateMachine) activeMessage(m wire.Message, tick int64) {
	_, ok := m.(wire.OpenMessage)
	if !ok {
		// Design Note (c): no NOTIFICATION - the session is not yet
		// confirmed.
		sm.transitionTo(Idle)
		return
	}

	reply := wire.NewOpen(sm.localAS, sm.holdTimeConfigured, sm.routerID, sm.localAddress.Family())
	sm.sendMessage(reply)
	sm.sendMessage(wire.KeepaliveMessage{})
	sm.timers.resetBoth(tick)
	sm.transitionTo(OpenConfirm)
}

// openConfirmMessage implements spec.md §4.3's OPEN_CONFIRM transitions.
func (sm *StateMachine) openConfirmMessage(m wire.Message, tick int64) {
	switch m.(type) {
	case wire.KeepaliveMessage:
		for _, u := range synthesizeUpdates(sm.routesToAdvertise) {
			sm.sendMessage(u)
		}
		sm.timers.resetHold(tick)
		sm.transitionTo(Established)

	case wire.NotificationMessage:
		sm.transitionTo(Idle)

	case wire.OpenMessage:
		sm.sendNotification(wire.ErrorCodeCease, 0, nil)
		sm.transitionTo(Idle)

	case wire.UpdateMessage:
		sm.sendNotification(wire.ErrorCodeFiniteStateMachine, 0, nil)
		sm.transitionTo(Idle)
	}
}

// establishedMessage implements spec.md §4.3's ESTABLISHED transitions.
func (sm *StateMachine) establishedMessage(m wire.Message, tick int64) {
	switch msg := m.(type) {
	case wire.UpdateMessage:
		sm.processUpdate(msg)
		// Hold timer is reset on KEEPALIVE, not UPDATE, per the
		// "Correction for implementers" in spec.md §4.3.

	case wire.KeepaliveMessage:
		sm.timers.resetHold(tick)

	case wire.NotificationMessage:
		sm.transitionTo(Idle)

	case wire.OpenMessage:
		sm.sendNotification(wire.ErrorCodeCease, 0, nil)
		sm.transitionTo(Idle)
	}
}

// processUpdate implements spec.md §4.3.3 and §7's MALFORMED_UPDATE
// policy.
func (sm *StateMachine) processUpdate(u wire.UpdateMessage) {
	if err := u.Validate(); err != nil {
		sm.lastError = err
		sm.notifier.Error(err)
		sm.sendNotification(wire.ErrorCodeUpdateMessage, 0, nil)
		sm.transitionTo(Idle)
		return
	}

	for _, ru := range ingestUpdate(u) {
		sm.notifier.RouteEvent(ru)
		sm.routes.Push(ru)
	}
}

// checkTimers implements spec.md §4.3.2. Rule 1 (hold expiry) takes
// precedence over rule 2 (keepalive due).
func (sm *StateMachine) checkTimers(tick int64) {
	if sm.timers.holdExpired(tick) {
		sm.notifier.TimerFired("hold")
		sm.sendNotification(wire.ErrorCodeHoldTimerExpired, 0, nil)
		sm.transitionTo(Idle)
		return
	}
	if sm.timers.keepaliveExpired(tick) {
		sm.notifier.TimerFired("keepalive")
		sm.sendMessage(wire.KeepaliveMessage{})
		sm.timers.resetKeepalive(tick)
	}
}

func (sm *StateMachine) sendMessage(m wire.Message) {
	sm.notifier.MessageSent(m.Type())
	sm.messages.Push(m)
}

func (sm *StateMachine) sendNotification(code, subcode uint8, data []byte) {
	sm.sendMessage(wire.NotificationMessage{Code: code, Subcode: subcode, Data: data})
}

func (sm *StateMachine) transitionTo(to State) {
	from := sm.state
	sm.state = to
	if from != to {
		sm.notifier.StateChange(from, to)
	}
}

// Snapshot is a point-in-time view of the session for an external
// supervisor to introspect, adapted from the teacher's Status type
// (bgp/session.go).
type Snapshot struct {
	State     State
	LocalAS   uint16
	PeerAS    uint16
	HoldTime  uint16
	LastError error
}

func (sm *StateMachine) Snapshot() Snapshot {
	return Snapshot{
		State:     sm.state,
		LocalAS:   sm.localAS,
		PeerAS:    sm.peerAS,
		HoldTime:  sm.holdTimeConfigured,
		LastError: sm.lastError,
	}
}
