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

// State is one of the four session states spec.md §3/§4.3 defines.
type State uint8

const (
	// Active is the initial state: waiting to receive the peer's OPEN.
	Active State = iota
	// OpenConfirm is waiting for the peer's KEEPALIVE.
	OpenConfirm
	// Established is the route-exchange state.
	Established
	// Idle is terminal (I2): no event mutates an Idle machine.
	Idle
)

func (s State) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case OpenConfirm:
		return "OPEN_CONFIRM"
	case Established:
		return "ESTABLISHED"
	case Idle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}
