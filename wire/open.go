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

import (
	"encoding/binary"
	"fmt"

	"bgpspeak/address"
)

// Capabilities Optional Parameter (RFC 3392) and Multiprotocol
// Extensions capability (RFC 2858/4760).
const (
	optionalParameterCapabilities uint8 = 2
	capabilityMultiprotocol       uint8 = 1
	safiUnicast                   uint8 = 1
)

// OpenMessage is the BGP OPEN (type 1) message, spec.md §4.2.
type OpenMessage struct {
	Version  uint8
	MyAS     uint16
	HoldTime uint16
	RouterID address.IPv4Address

	// Family drives which single multiprotocol capability this core
	// emits (spec.md §4.2: exactly one capabilities optional
	// parameter, chosen by the local address family). Zero value
	// means "no capability was requested" (used when constructing a
	// value for encode-vs-decode round trip tests where the peer's
	// declared family doesn't matter).
	Family address.Family

	// RawOptionalParameters carries whatever optional parameter bytes
	// were present on a decoded OPEN - the decoder accepts any
	// contents (spec.md §4.2) since capability negotiation beyond
	// presence is not modeled.
	RawOptionalParameters []byte
}

func (OpenMessage) isMessage()   {}
func (OpenMessage) Type() uint8 { return TypeOpen }

// NewOpen builds the OPEN this core always sends: version 4, the
// given AS/hold-time/router-id, and the multiprotocol capability
// matching family (spec.md §4.2).
func NewOpen(myAS, holdTime uint16, routerID address.IPv4Address, family address.Family) OpenMessage {
	return OpenMessage{Version: 4, MyAS: myAS, HoldTime: holdTime, RouterID: routerID, Family: family}
}

func (o OpenMessage) body() []byte {
	body := make([]byte, 10)
	body[0] = o.Version
	binary.BigEndian.PutUint16(body[1:3], o.MyAS)
	binary.BigEndian.PutUint16(body[3:5], o.HoldTime)
	copy(body[5:9], o.RouterID[:])

	params := o.optionalParameters()
	body[9] = uint8(len(params))
	return append(body, params...)
}

func (o OpenMessage) optionalParameters() []byte {
	if o.Family != address.IPv4 && o.Family != address.IPv6 {
		return nil
	}

	// Capability Code(1), Capability Length(1), AFI(2), reserved(1)=0, SAFI(1)
	capability := []byte{capabilityMultiprotocol, 4, 0, 0, 0, safiUnicast}
	binary.BigEndian.PutUint16(capability[2:4], o.Family.AFI())

	// Optional Parameter: Type(1), Length(1), Value(variable)
	param := append([]byte{optionalParameterCapabilities, uint8(len(capability))}, capability...)
	return param
}

// DecodeOpen decodes an OPEN body. Optional parameter contents are
// preserved verbatim and not interpreted (spec.md §4.2); this core
// only emits its own multiprotocol capability and doesn't need to
// parse the peer's.
func DecodeOpen(body []byte) (OpenMessage, error) {
	if len(body) < 10 {
		return OpenMessage{}, fmt.Errorf("wire: %w: OPEN body %d bytes, need >= 10", ErrTruncated, len(body))
	}

	var o OpenMessage
	o.Version = body[0]
	o.MyAS = binary.BigEndian.Uint16(body[1:3])
	o.HoldTime = binary.BigEndian.Uint16(body[3:5])
	copy(o.RouterID[:], body[5:9])

	paramsLen := int(body[9])
	rest := body[10:]
	if len(rest) < paramsLen {
		return OpenMessage{}, fmt.Errorf("wire: %w: OPEN opt-params length %d, have %d", ErrTruncated, paramsLen, len(rest))
	}
	o.RawOptionalParameters = append([]byte(nil), rest[:paramsLen]...)

	return o, nil
}
