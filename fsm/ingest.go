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

// ingestUpdate turns a received UPDATE into the route events spec.md
// §4.3.3 calls for, in order: top-level NLRI additions, MP_REACH_NLRI
// additions, top-level withdrawals, MP_UNREACH_NLRI withdrawals.
//
// The caller must have already confirmed u.Validate() == nil.
// MP_REACH_NLRI's next hop is taken from the decoded next-hop address,
// never an AFI field - Design Note (b)'s bug is deliberately not
// reproduced here.
func ingestUpdate(u wire.UpdateMessage) []route.Update {
	var out []route.Update

	if len(u.NLRI) > 0 {
		asPath := toRouteASPath(u.ASPath)
		origin := route.Origin(u.Origin)
		nextHop := u.NextHop
		for _, prefix := range u.NLRI {
			out = append(out, route.RouteAddition{Route: route.Route{
				Prefix:  prefix,
				NextHop: nextHop,
				ASPath:  asPath,
				Origin:  origin,
			}})
		}
	}

	if u.MPReach != nil && len(u.MPReach.NLRI) > 0 {
		asPath := toRouteASPath(u.ASPath)
		origin := route.Origin(u.Origin)
		nextHop := u.MPReach.NextHop
		for _, prefix := range u.MPReach.NLRI {
			out = append(out, route.RouteAddition{Route: route.Route{
				Prefix:  prefix,
				NextHop: nextHop,
				ASPath:  asPath,
				Origin:  origin,
			}})
		}
	}

	for _, prefix := range u.WithdrawnRoutes {
		out = append(out, route.RouteRemoval{Prefix: address.Prefix(prefix)})
	}

	if u.MPUnreach != nil {
		for _, prefix := range u.MPUnreach.WithdrawnRoutes {
			out = append(out, route.RouteRemoval{Prefix: prefix})
		}
	}

	return out
}

func toRouteASPath(segs []wire.ASPathSegment) route.ASPath {
	out := make(route.ASPath, len(segs))
	for i, seg := range segs {
		out[i] = route.ASPathSegment{Type: seg.Type, ASNs: append([]uint16(nil), seg.ASNs...)}
	}
	return out
}
