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

// UpdateMessage is the BGP UPDATE (type 2) message (spec.md §4.2):
// withdrawn routes, path attributes, and NLRI, plus the MP_REACH_NLRI
// / MP_UNREACH_NLRI extensions RFC 4760 layers on top.
//
// Known attributes are promoted to named fields; anything this core
// doesn't recognize is kept in Unknown, verbatim, so it survives an
// encode/decode round trip untouched (spec.md §4.2).
type UpdateMessage struct {
	WithdrawnRoutes []address.IPv4Prefix
	NLRI            []address.IPv4Prefix

	HasOrigin bool
	Origin    Origin

	HasASPath bool
	ASPath    []ASPathSegment

	HasNextHop bool
	NextHop    address.IPv4Address

	MPReach   *MPReachNLRI
	MPUnreach *MPUnreachNLRI

	Unknown []UnknownAttribute
}

func (UpdateMessage) isMessage()  {}
func (UpdateMessage) Type() uint8 { return TypeUpdate }

// HasReachability reports whether this UPDATE carries any reachability
// information at all, top-level or multiprotocol (spec.md §4.3.3: an
// UPDATE with neither NLRI nor withdrawals produces no route events).
func (u UpdateMessage) HasReachability() bool {
	return len(u.NLRI) > 0 || (u.MPReach != nil && len(u.MPReach.NLRI) > 0)
}

func (u UpdateMessage) HasWithdrawals() bool {
	return len(u.WithdrawnRoutes) > 0 || (u.MPUnreach != nil && len(u.MPUnreach.WithdrawnRoutes) > 0)
}

func (u UpdateMessage) body() []byte {
	var withdrawn []byte
	for _, p := range u.WithdrawnRoutes {
		withdrawn = append(withdrawn, p.Encode()...)
	}

	var attrs []byte
	if u.HasOrigin {
		attrs = append(attrs, encodeAttribute(flagTransitive, attrOrigin, []byte{uint8(u.Origin)})...)
	}
	if u.HasASPath {
		attrs = append(attrs, encodeAttribute(flagTransitive, attrASPath, encodeASPath(u.ASPath))...)
	}
	if u.HasNextHop {
		attrs = append(attrs, encodeAttribute(flagTransitive, attrNextHop, u.NextHop[:])...)
	}
	for _, a := range u.Unknown {
		attrs = append(attrs, a.encode()...)
	}
	if u.MPReach != nil {
		attrs = append(attrs, encodeAttribute(flagOptional, attrMPReachNLRI, u.MPReach.encode())...)
	}
	if u.MPUnreach != nil {
		attrs = append(attrs, encodeAttribute(flagOptional, attrMPUnreachNLRI, u.MPUnreach.encode())...)
	}

	var nlri []byte
	for _, p := range u.NLRI {
		nlri = append(nlri, p.Encode()...)
	}

	body := make([]byte, 0, 4+len(withdrawn)+len(attrs)+len(nlri))
	withdrawnLen := make([]byte, 2)
	binary.BigEndian.PutUint16(withdrawnLen, uint16(len(withdrawn)))
	body = append(body, withdrawnLen...)
	body = append(body, withdrawn...)

	attrsLen := make([]byte, 2)
	binary.BigEndian.PutUint16(attrsLen, uint16(len(attrs)))
	body = append(body, attrsLen...)
	body = append(body, attrs...)
	body = append(body, nlri...)

	return body
}

// DecodeUpdate decodes an UPDATE body per spec.md §4.2.
func DecodeUpdate(body []byte) (UpdateMessage, error) {
	if len(body) < 2 {
		return UpdateMessage{}, fmt.Errorf("wire: %w: UPDATE body %d bytes, need >= 2", ErrTruncated, len(body))
	}

	withdrawnLen := int(binary.BigEndian.Uint16(body[0:2]))
	body = body[2:]
	if len(body) < withdrawnLen {
		return UpdateMessage{}, fmt.Errorf("wire: %w: withdrawn-routes length %d, have %d", ErrTruncated, withdrawnLen, len(body))
	}

	withdrawn, err := decodeIPv4PrefixList(body[:withdrawnLen])
	if err != nil {
		return UpdateMessage{}, err
	}
	body = body[withdrawnLen:]

	if len(body) < 2 {
		return UpdateMessage{}, fmt.Errorf("wire: %w: UPDATE missing path-attributes length", ErrTruncated)
	}
	attrsLen := int(binary.BigEndian.Uint16(body[0:2]))
	body = body[2:]
	if len(body) < attrsLen {
		return UpdateMessage{}, fmt.Errorf("wire: %w: path-attributes length %d, have %d", ErrTruncated, attrsLen, len(body))
	}

	rawAttrs, err := parseAttributes(body[:attrsLen])
	if err != nil {
		return UpdateMessage{}, err
	}
	body = body[attrsLen:]

	nlri, err := decodeIPv4PrefixList(body)
	if err != nil {
		return UpdateMessage{}, err
	}

	u := UpdateMessage{WithdrawnRoutes: withdrawn, NLRI: nlri}

	for _, a := range rawAttrs {
		switch a.Type {
		case attrOrigin:
			if len(a.Value) != 1 {
				return UpdateMessage{}, fmt.Errorf("wire: %w: ORIGIN value %d bytes, want 1", ErrMalformedUpdate, len(a.Value))
			}
			u.HasOrigin = true
			u.Origin = Origin(a.Value[0])

		case attrASPath:
			segs, err := decodeASPath(a.Value)
			if err != nil {
				return UpdateMessage{}, err
			}
			u.HasASPath = true
			u.ASPath = segs

		case attrNextHop:
			nh, err := address.DecodeIPv4(a.Value)
			if err != nil {
				return UpdateMessage{}, err
			}
			u.HasNextHop = true
			u.NextHop = nh

		case attrMPReachNLRI:
			mp, err := decodeMPReachNLRI(a.Value)
			if err != nil {
				return UpdateMessage{}, err
			}
			u.MPReach = &mp

		case attrMPUnreachNLRI:
			mp, err := decodeMPUnreachNLRI(a.Value)
			if err != nil {
				return UpdateMessage{}, err
			}
			u.MPUnreach = &mp

		default:
			u.Unknown = append(u.Unknown, a)
		}
	}

	return u, nil
}

// Validate enforces spec.md §4.3.3: an UPDATE carrying NLRI must have
// its mandatory attributes (ORIGIN, AS_PATH, NEXT_HOP for top-level
// NLRI; ORIGIN/AS_PATH plus MP_REACH_NLRI's own next hop for MP NLRI).
//
// This is deliberately not called from DecodeUpdate: §7 treats a
// missing mandatory attribute as an FSM-level MALFORMED_UPDATE (which
// answers with a NOTIFICATION and an orderly transition to IDLE), not
// a decoder-level framing failure (which has no NOTIFICATION and goes
// straight to Shutdown). The FSM calls Validate while processing the
// UPDATE event.
func (u UpdateMessage) Validate() error {
	if len(u.NLRI) > 0 {
		if !u.HasOrigin || !u.HasASPath || !u.HasNextHop {
			return fmt.Errorf("wire: %w: UPDATE carries NLRI but is missing ORIGIN/AS_PATH/NEXT_HOP", ErrMalformedUpdate)
		}
	}
	if u.MPReach != nil && len(u.MPReach.NLRI) > 0 {
		if !u.HasOrigin || !u.HasASPath {
			return fmt.Errorf("wire: %w: UPDATE carries MP_REACH_NLRI but is missing ORIGIN/AS_PATH", ErrMalformedUpdate)
		}
	}
	return nil
}

// NewUpdate builds an UPDATE carrying the given IPv4 NLRI, all sharing
// one (next-hop, AS path, origin) tuple - the shape produced by
// spec.md §4.3.1's synthesis.
func NewUpdate(nlri []address.IPv4Prefix, nextHop address.IPv4Address, asPath []ASPathSegment, origin Origin) UpdateMessage {
	return UpdateMessage{
		NLRI:       nlri,
		HasOrigin:  true,
		Origin:     origin,
		HasASPath:  true,
		ASPath:     asPath,
		HasNextHop: true,
		NextHop:    nextHop,
	}
}

// NewWithdraw builds an UPDATE that withdraws the given IPv4 prefixes
// and carries no NLRI or mandatory attributes (spec.md §4.3.3: an
// UPDATE with only withdrawals is valid).
func NewWithdraw(prefixes []address.IPv4Prefix) UpdateMessage {
	return UpdateMessage{WithdrawnRoutes: prefixes}
}
