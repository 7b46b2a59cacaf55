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

// Package route implements the immutable route descriptors exchanged
// between the state machine and the application (spec.md §3, §6).
package route

import (
	"fmt"

	"bgpspeak/address"
)

// Origin is the well-known BGP ORIGIN path attribute value.
type Origin uint8

const (
	IGP Origin = iota
	EGP
	INCOMPLETE
)

func (o Origin) String() string {
	switch o {
	case IGP:
		return "IGP"
	case EGP:
		return "EGP"
	case INCOMPLETE:
		return "INCOMPLETE"
	default:
		return "UNKNOWN"
	}
}

// ASPathSegment is one AS_PATH segment: a type (AS_SET or
// AS_SEQUENCE) and the AS numbers it carries, in order.
type ASPathSegment struct {
	Type uint8
	ASNs []uint16
}

const (
	SegmentSet      uint8 = 1
	SegmentSequence uint8 = 2
)

// ASPath is the ordered sequence of AS_PATH segments a route has
// traversed (spec.md §3).
type ASPath []ASPathSegment

// Sequence builds a single AS_SEQUENCE segment from the given AS
// numbers in order - the common case this core's own UPDATE synthesis
// produces (spec.md §4.3.1).
func Sequence(asns ...uint16) ASPath {
	if len(asns) == 0 {
		return nil
	}
	return ASPath{{Type: SegmentSequence, ASNs: append([]uint16(nil), asns...)}}
}

// Flatten concatenates every segment's AS numbers in order, discarding
// segment boundaries - used for logging (String). The UPDATE
// synthesis grouping key keeps segment types and boundaries (see key).
func (p ASPath) Flatten() []uint16 {
	var out []uint16
	for _, seg := range p {
		out = append(out, seg.ASNs...)
	}
	return out
}

func (p ASPath) String() string {
	return fmt.Sprint(p.Flatten())
}

// Equal reports whether two AS paths have the same segments in the
// same order.
func (p ASPath) Equal(o ASPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Type != o[i].Type || len(p[i].ASNs) != len(o[i].ASNs) {
			return false
		}
		for j := range p[i].ASNs {
			if p[i].ASNs[j] != o[i].ASNs[j] {
				return false
			}
		}
	}
	return true
}

// key renders an ASPath into a comparable string, for use as (part of)
// a map key when grouping routes to advertise (spec.md §4.3.1).
func (p ASPath) key() string {
	s := ""
	for _, seg := range p {
		s += fmt.Sprintf("|%d:%v", seg.Type, seg.ASNs)
	}
	return s
}

// Route is the immutable value described in spec.md §3: a prefix, its
// next hop, the AS path it arrived on, and its origin.
type Route struct {
	Prefix  address.Prefix
	NextHop address.Address
	ASPath  ASPath
	Origin  Origin
}

func (r Route) String() string {
	return fmt.Sprintf("%s via %s (%s) %s", r.Prefix, r.NextHop, r.ASPath, r.Origin)
}

// Equal reports field-by-field equality.
func (r Route) Equal(o Route) bool {
	return r.Prefix == o.Prefix && address.Equal(r.NextHop, o.NextHop) &&
		r.ASPath.Equal(o.ASPath) && r.Origin == o.Origin
}

// Update is the tagged union delivered on the route-updates queue:
// either a RouteAddition or a RouteRemoval (spec.md §3, §6).
type Update interface {
	isRouteUpdate()
	String() string
}

// RouteAddition announces a newly reachable route.
type RouteAddition struct {
	Route
}

// RouteRemoval withdraws a previously announced prefix. Only the
// prefix is meaningful on withdrawal (spec.md §3).
type RouteRemoval struct {
	Prefix address.Prefix
}

func (RouteAddition) isRouteUpdate() {}
func (RouteRemoval) isRouteUpdate()  {}

func (r RouteAddition) String() string {
	return fmt.Sprintf("+%s", r.Route)
}

func (r RouteRemoval) String() string {
	return fmt.Sprintf("-%s", r.Prefix)
}

// GroupKey groups RouteAdditions with the tuple (next_hop, as_path,
// origin) called for by spec.md §4.3.1's UPDATE synthesis grouping.
func GroupKey(nextHop address.Address, asPath ASPath, origin Origin) string {
	var hop string
	if nextHop != nil {
		hop = fmt.Sprintf("%d:%x", nextHop.Family(), nextHop.Bytes())
	}
	return fmt.Sprintf("%s/%s/%d", hop, asPath.key(), origin)
}
