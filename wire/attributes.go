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

// Path attribute flag bits (spec.md §4.2).
const (
	flagOptional       uint8 = 0x80
	flagTransitive     uint8 = 0x40
	flagPartial        uint8 = 0x20
	flagExtendedLength uint8 = 0x10
)

// Well-known and MP-BGP path attribute type codes this core recognizes.
const (
	attrOrigin        uint8 = 1
	attrASPath        uint8 = 2
	attrNextHop       uint8 = 3
	attrMPReachNLRI   uint8 = 14
	attrMPUnreachNLRI uint8 = 15
)

// UnknownAttribute is one decoded-but-uninterpreted path attribute,
// preserved verbatim so encode can round-trip attributes this core
// doesn't understand (spec.md §4.2: "Unknown attributes are preserved
// as opaque ... and tolerated on encode").
type UnknownAttribute struct {
	Flags uint8
	Type  uint8
	Value []byte
}

func (a UnknownAttribute) encode() []byte {
	return encodeAttribute(a.Flags, a.Type, a.Value)
}

// rawAttribute is the internal decode representation shared by known
// and unknown attributes before update.go sorts them into
// UpdateMessage's typed fields.
type rawAttribute = UnknownAttribute

func encodeAttribute(flags, atype uint8, value []byte) []byte {
	if len(value) > 255 {
		flags |= flagExtendedLength
		lenField := make([]byte, 2)
		binary.BigEndian.PutUint16(lenField, uint16(len(value)))
		return append(append([]byte{flags, atype}, lenField...), value...)
	}
	flags &^= flagExtendedLength
	return append([]byte{flags, atype, uint8(len(value))}, value...)
}

// parseAttributes walks the path-attribute TLV list, returning each
// attribute's flags/type/raw value. The whole of body is consumed.
func parseAttributes(body []byte) ([]rawAttribute, error) {
	var attrs []rawAttribute
	for len(body) > 0 {
		if len(body) < 3 {
			return nil, fmt.Errorf("wire: %w: truncated path attribute header", ErrTruncated)
		}
		flags := body[0]
		atype := body[1]

		var length int
		var valueStart int
		if flags&flagExtendedLength != 0 {
			if len(body) < 4 {
				return nil, fmt.Errorf("wire: %w: truncated extended-length attribute header", ErrTruncated)
			}
			length = int(binary.BigEndian.Uint16(body[2:4]))
			valueStart = 4
		} else {
			length = int(body[2])
			valueStart = 3
		}

		if len(body) < valueStart+length {
			return nil, fmt.Errorf("wire: %w: attribute type %d wants %d bytes, have %d", ErrTruncated, atype, length, len(body)-valueStart)
		}

		value := append([]byte(nil), body[valueStart:valueStart+length]...)
		attrs = append(attrs, rawAttribute{Flags: flags, Type: atype, Value: value})
		body = body[valueStart+length:]
	}
	return attrs, nil
}

// Origin is the wire ORIGIN octet (0=IGP, 1=EGP, 2=INCOMPLETE); it
// shares its numbering with route.Origin, so the two convert directly
// (spec.md §4.2).
type Origin uint8

const (
	OriginIGP        Origin = 0
	OriginEGP        Origin = 1
	OriginIncomplete Origin = 2
)

// ASPathSegment mirrors route.ASPathSegment at the wire layer so this
// package need not import route (which would be a needless coupling
// for a codec).
type ASPathSegment struct {
	Type uint8
	ASNs []uint16
}

const (
	ASSet      uint8 = 1
	ASSequence uint8 = 2
)

func encodeASPath(segments []ASPathSegment) []byte {
	var out []byte
	for _, seg := range segments {
		out = append(out, seg.Type, uint8(len(seg.ASNs)))
		for _, asn := range seg.ASNs {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], asn)
			out = append(out, b[:]...)
		}
	}
	return out
}

func decodeASPath(value []byte) ([]ASPathSegment, error) {
	var segs []ASPathSegment
	for len(value) > 0 {
		if len(value) < 2 {
			return nil, fmt.Errorf("wire: %w: truncated AS_PATH segment header", ErrTruncated)
		}
		segType := value[0]
		count := int(value[1])
		need := count * 2
		if len(value) < 2+need {
			return nil, fmt.Errorf("wire: %w: AS_PATH segment wants %d AS numbers, have %d bytes", ErrTruncated, count, len(value)-2)
		}
		asns := make([]uint16, count)
		for i := 0; i < count; i++ {
			asns[i] = binary.BigEndian.Uint16(value[2+i*2 : 4+i*2])
		}
		segs = append(segs, ASPathSegment{Type: segType, ASNs: asns})
		value = value[2+need:]
	}
	return segs, nil
}

// MPReachNLRI is the decoded MP_REACH_NLRI attribute (type 14,
// RFC 4760): a next hop and a list of reachable prefixes in a
// non-IPv4-unicast address family.
type MPReachNLRI struct {
	AFI     uint16
	SAFI    uint8
	NextHop address.Address
	NLRI    []address.Prefix
}

// MPUnreachNLRI is the decoded MP_UNREACH_NLRI attribute (type 15,
// RFC 4760): a list of withdrawn prefixes in a non-IPv4-unicast
// address family.
type MPUnreachNLRI struct {
	AFI             uint16
	SAFI            uint8
	WithdrawnRoutes []address.Prefix
}

func decodeMPReachNLRI(value []byte) (MPReachNLRI, error) {
	if len(value) < 4 {
		return MPReachNLRI{}, fmt.Errorf("wire: %w: MP_REACH_NLRI %d bytes, need >= 4", ErrTruncated, len(value))
	}
	afi := binary.BigEndian.Uint16(value[0:2])
	safi := value[2]
	nhLen := int(value[3])

	rest := value[4:]
	if len(rest) < nhLen {
		return MPReachNLRI{}, fmt.Errorf("wire: %w: MP_REACH_NLRI next-hop length %d, have %d", ErrTruncated, nhLen, len(rest))
	}
	nextHopBytes := rest[:nhLen]
	rest = rest[nhLen:]

	if len(rest) < 1 {
		return MPReachNLRI{}, fmt.Errorf("wire: %w: MP_REACH_NLRI missing SNPA count", ErrTruncated)
	}
	rest = rest[1:] // reserved octet (the old SNPA count); SNPA entries are not parsed

	var nextHop address.Address
	switch nhLen {
	case 4:
		a, err := address.DecodeIPv4(nextHopBytes)
		if err != nil {
			return MPReachNLRI{}, err
		}
		nextHop = a
	case 16:
		a, err := address.DecodeIPv6(nextHopBytes)
		if err != nil {
			return MPReachNLRI{}, err
		}
		nextHop = a
	default:
		return MPReachNLRI{}, fmt.Errorf("wire: MP_REACH_NLRI next-hop length %d not 4 or 16", nhLen)
	}

	prefixes, err := decodePrefixList(rest, afi)
	if err != nil {
		return MPReachNLRI{}, err
	}

	return MPReachNLRI{AFI: afi, SAFI: safi, NextHop: nextHop, NLRI: prefixes}, nil
}

func (m MPReachNLRI) encode() []byte {
	nh := m.NextHop.Bytes()
	out := make([]byte, 0, 4+len(nh)+1)
	afi := make([]byte, 2)
	binary.BigEndian.PutUint16(afi, m.AFI)
	out = append(out, afi...)
	out = append(out, m.SAFI, uint8(len(nh)))
	out = append(out, nh...)
	out = append(out, 0) // no SNPAs
	for _, p := range m.NLRI {
		out = append(out, p.Encode()...)
	}
	return out
}

func decodeMPUnreachNLRI(value []byte) (MPUnreachNLRI, error) {
	if len(value) < 3 {
		return MPUnreachNLRI{}, fmt.Errorf("wire: %w: MP_UNREACH_NLRI %d bytes, need >= 3", ErrTruncated, len(value))
	}
	afi := binary.BigEndian.Uint16(value[0:2])
	safi := value[2]

	prefixes, err := decodePrefixList(value[3:], afi)
	if err != nil {
		return MPUnreachNLRI{}, err
	}
	return MPUnreachNLRI{AFI: afi, SAFI: safi, WithdrawnRoutes: prefixes}, nil
}

func (m MPUnreachNLRI) encode() []byte {
	afi := make([]byte, 2)
	binary.BigEndian.PutUint16(afi, m.AFI)
	out := append(afi, m.SAFI)
	for _, p := range m.WithdrawnRoutes {
		out = append(out, p.Encode()...)
	}
	return out
}

// decodePrefixList decodes a run of compact NLRI entries, choosing the
// IPv4 or IPv6 prefix codec by AFI (1 or 2).
func decodePrefixList(body []byte, afi uint16) ([]address.Prefix, error) {
	var out []address.Prefix
	for len(body) > 0 {
		switch afi {
		case 1:
			p, n, err := address.DecodeIPv4Prefix(body)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			body = body[n:]
		case 2:
			p, n, err := address.DecodeIPv6Prefix(body)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			body = body[n:]
		default:
			return nil, fmt.Errorf("wire: unsupported AFI %d in NLRI", afi)
		}
	}
	return out, nil
}

func decodeIPv4PrefixList(body []byte) ([]address.IPv4Prefix, error) {
	var out []address.IPv4Prefix
	for len(body) > 0 {
		p, n, err := address.DecodeIPv4Prefix(body)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		body = body[n:]
	}
	return out, nil
}
