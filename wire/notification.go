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

package wire

import "fmt"

// NOTIFICATION error codes this core recognizes (spec.md §4.2).
const (
	ErrorCodeMessageHeader       uint8 = 1
	ErrorCodeOpen                uint8 = 2
	ErrorCodeUpdateMessage       uint8 = 3
	ErrorCodeHoldTimerExpired    uint8 = 4
	ErrorCodeFiniteStateMachine  uint8 = 5
	ErrorCodeCease               uint8 = 6
)

// NotificationMessage is the BGP NOTIFICATION (type 3) message
// (spec.md §4.2). Subcode is 0 unless specified.
type NotificationMessage struct {
	Code    uint8
	Subcode uint8
	Data    []byte
}

func (NotificationMessage) isMessage()  {}
func (NotificationMessage) Type() uint8 { return TypeNotification }

func (n NotificationMessage) body() []byte {
	return append([]byte{n.Code, n.Subcode}, n.Data...)
}

// DecodeNotification decodes a NOTIFICATION body.
func DecodeNotification(body []byte) (NotificationMessage, error) {
	if len(body) < 2 {
		return NotificationMessage{}, fmt.Errorf("wire: %w: NOTIFICATION body %d bytes, need >= 2", ErrTruncated, len(body))
	}
	n := NotificationMessage{Code: body[0], Subcode: body[1]}
	if len(body) > 2 {
		n.Data = append([]byte(nil), body[2:]...)
	}
	return n, nil
}

func (n NotificationMessage) String() string {
	name := "<unrecognised>"
	switch n.Code {
	case ErrorCodeMessageHeader:
		name = "Message Header Error"
	case ErrorCodeOpen:
		name = "OPEN Message Error"
	case ErrorCodeUpdateMessage:
		name = "UPDATE Message Error"
	case ErrorCodeHoldTimerExpired:
		name = "Hold Timer Expired"
	case ErrorCodeFiniteStateMachine:
		name = "Finite State Machine Error"
	case ErrorCodeCease:
		name = "Cease"
	}
	if len(n.Data) > 0 {
		return fmt.Sprintf("%s[%d:%d] (%s)", name, n.Code, n.Subcode, n.Data)
	}
	return fmt.Sprintf("%s[%d:%d]", name, n.Code, n.Subcode)
}
