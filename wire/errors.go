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

import "errors"

// Decoder errors (spec.md §7). A driver that sees any of these treats
// the framing as broken and synthesizes a Shutdown event rather than
// asking the FSM to send a NOTIFICATION - the peer may not even be
// able to parse a well-formed one any more.
var (
	ErrTruncated   = errors.New("TRUNCATED")
	ErrBadMarker   = errors.New("BAD_MARKER")
	ErrBadLength   = errors.New("BAD_LENGTH")
	ErrUnknownType = errors.New("UNKNOWN_TYPE")

	// ErrMalformedUpdate is returned by UpdateMessage.Validate when a
	// mandatory attribute is missing from an UPDATE that carries NLRI
	// (spec.md §4.3.3, §7). Unlike the errors above, the FSM handles
	// that case itself: it enqueues NOTIFICATION(UPDATE_MESSAGE_ERROR)
	// and transitions to IDLE. DecodeUpdate also wraps it for an ORIGIN
	// value of the wrong length; that error surfaces from decoding like
	// the ones above.
	ErrMalformedUpdate = errors.New("MALFORMED_UPDATE")
)
