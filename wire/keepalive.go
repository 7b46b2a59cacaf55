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

// KeepaliveMessage is the BGP KEEPALIVE (type 4) message: header only,
// 19 bytes total (spec.md §4.2).
type KeepaliveMessage struct{}

func (KeepaliveMessage) isMessage()   {}
func (KeepaliveMessage) Type() uint8  { return TypeKeepalive }
func (KeepaliveMessage) body() []byte { return nil }
