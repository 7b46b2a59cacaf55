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

// synthesizeUpdates groups routesToAdvertise by (next_hop, as_path,
// origin) and builds one UPDATE per group, each carrying the group's
// prefixes as NLRI (spec.md §4.3.1). Outbound IPv6 advertisement via
// MP_REACH_NLRI is a non-goal; every route here is expected to carry
// an IPv4 prefix and next hop.
func synthesizeUpdates(routesToAdvertise []route.Route) []wire.UpdateMessage {
	type group struct {
		nextHop address.IPv4Address
		asPath  []wire.ASPathSegment
		origin  wire.Origin
		nlri    []address.IPv4Prefix
	}

	order := make([]string, 0, len(routesToAdvertise))
	groups := make(map[string]*group, len(routesToAdvertise))

	for _, r := range routesToAdvertise {
		prefix, ok := r.Prefix.(address.IPv4Prefix)
		if !ok {
			continue // non-IPv4 NLRI has no synthesis path in this core
		}
		nextHop, ok := r.NextHop.(address.IPv4Address)
		if !ok {
			continue
		}

		key := route.GroupKey(r.NextHop, r.ASPath, r.Origin)
		g, exists := groups[key]
		if !exists {
			g = &group{nextHop: nextHop, asPath: toWireASPath(r.ASPath), origin: wire.Origin(r.Origin)}
			groups[key] = g
			order = append(order, key)
		}
		g.nlri = append(g.nlri, prefix)
	}

	updates := make([]wire.UpdateMessage, 0, len(order))
	for _, key := range order {
		g := groups[key]
		updates = append(updates, wire.NewUpdate(g.nlri, g.nextHop, g.asPath, g.origin))
	}
	return updates
}

func toWireASPath(p route.ASPath) []wire.ASPathSegment {
	segs := make([]wire.ASPathSegment, len(p))
	for i, seg := range p {
		segs[i] = wire.ASPathSegment{Type: seg.Type, ASNs: append([]uint16(nil), seg.ASNs...)}
	}
	return segs
}
