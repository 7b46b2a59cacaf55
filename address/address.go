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

// Package address implements the IPv4/IPv6 address and prefix value
// types shared by the wire codec and the state machine.
package address

import (
	"fmt"
	"net/netip"
)

// Family distinguishes the two address families this core speaks.
type Family uint8

const (
	IPv4 Family = 1
	IPv6 Family = 2
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// AFI returns the IANA Address Family Identifier for f (1 for IPv4, 2
// for IPv6), as carried in the multiprotocol capability and MP_REACH /
// MP_UNREACH attributes.
func (f Family) AFI() uint16 {
	return uint16(f)
}

// Address is the sum type `V4(IPv4Address) | V6(IPv6Address)` from
// spec.md §9: a family-tagged, immutable 4- or 16-byte value. Both
// concrete types below implement it, so a function taking an Address
// can never silently mix families.
type Address interface {
	Family() Family
	Bytes() []byte
	String() string
	equalTo(Address) bool
}

// IPv4Address is an immutable 4-byte address.
type IPv4Address [4]byte

// IPv6Address is an immutable 16-byte address.
type IPv6Address [16]byte

func (IPv4Address) Family() Family { return IPv4 }
func (IPv6Address) Family() Family { return IPv6 }

func (a IPv4Address) Bytes() []byte { b := a; return b[:] }
func (a IPv6Address) Bytes() []byte { b := a; return b[:] }

func (a IPv4Address) String() string { return netip.AddrFrom4(a).String() }
func (a IPv6Address) String() string { return netip.AddrFrom16(a).String() }

func (a IPv4Address) equalTo(o Address) bool {
	b, ok := o.(IPv4Address)
	return ok && a == b
}

func (a IPv6Address) equalTo(o Address) bool {
	b, ok := o.(IPv6Address)
	return ok && a == b
}

// Equal reports whether a and b are the same family and byte content.
func Equal(a, b Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equalTo(b)
}

// ParseIPv4 parses the canonical dotted-quad text form of an address.
func ParseIPv4(text string) (IPv4Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return IPv4Address{}, fmt.Errorf("address: parse %q: %w", text, err)
	}
	if !addr.Is4() {
		return IPv4Address{}, fmt.Errorf("address: %q is not an IPv4 address", text)
	}
	return addr.As4(), nil
}

// ParseIPv6 parses the canonical text form of an IPv6 address.
func ParseIPv6(text string) (IPv6Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return IPv6Address{}, fmt.Errorf("address: parse %q: %w", text, err)
	}
	if !addr.Is6() {
		return IPv6Address{}, fmt.Errorf("address: %q is not an IPv6 address", text)
	}
	return addr.As16(), nil
}

// Parse parses text as whichever family it represents.
func Parse(text string) (Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return nil, fmt.Errorf("address: parse %q: %w", text, err)
	}
	if addr.Is4() {
		return IPv4Address(addr.As4()), nil
	}
	return IPv6Address(addr.As16()), nil
}

// DecodeIPv4 decodes a 4-byte big-endian address.
func DecodeIPv4(b []byte) (IPv4Address, error) {
	if len(b) < 4 {
		return IPv4Address{}, fmt.Errorf("address: %w: need 4 bytes, got %d", ErrTruncated, len(b))
	}
	var a IPv4Address
	copy(a[:], b[:4])
	return a, nil
}

// DecodeIPv6 decodes a 16-byte big-endian address.
func DecodeIPv6(b []byte) (IPv6Address, error) {
	if len(b) < 16 {
		return IPv6Address{}, fmt.Errorf("address: %w: need 16 bytes, got %d", ErrTruncated, len(b))
	}
	var a IPv6Address
	copy(a[:], b[:16])
	return a, nil
}
