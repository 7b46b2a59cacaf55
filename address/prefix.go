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

package address

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is an address together with a prefix length, per spec.md §3.
// Canonical text form is "address/length". Host bits beyond Length are
// masked to zero by Mask() but preserved as decoded otherwise (callers
// that need the RFC-clean form call Mask() explicitly); this core
// chooses "preserve on decode, mask on demand" for the dual behaviour
// §4.1 asks implementers to pick one of.
type Prefix interface {
	Address() Address
	Length() int
	String() string
	Encode() []byte
}

// IPv4Prefix is an IPv4 address plus a 0..32 bit prefix length.
type IPv4Prefix struct {
	Addr   IPv4Address
	Len int
}

// IPv6Prefix is an IPv6 address plus a 0..128 bit prefix length.
type IPv6Prefix struct {
	Addr   IPv6Address
	Len int
}

func (p IPv4Prefix) Address() Address { return p.Addr }
func (p IPv6Prefix) Address() Address { return p.Addr }

func (p IPv4Prefix) Length() int { return p.Len }
func (p IPv6Prefix) Length() int { return p.Len }

func (p IPv4Prefix) String() string { return fmt.Sprintf("%s/%d", p.Addr.String(), p.Len) }
func (p IPv6Prefix) String() string { return fmt.Sprintf("%s/%d", p.Addr.String(), p.Len) }

// Mask zeroes host bits beyond Length, returning a new, RFC-clean
// Prefix.
func (p IPv4Prefix) Mask() IPv4Prefix {
	var out IPv4Address
	copy(out[:], maskBits(p.Addr[:], p.Len))
	return IPv4Prefix{Addr: out, Len: p.Len}
}

func (p IPv6Prefix) Mask() IPv6Prefix {
	var out IPv6Address
	copy(out[:], maskBits(p.Addr[:], p.Len))
	return IPv6Prefix{Addr: out, Len: p.Len}
}

func maskBits(b []byte, length int) []byte {
	out := append([]byte(nil), b...)
	fullBytes := length / 8
	remBits := length % 8
	for i := fullBytes; i < len(out); i++ {
		if i == fullBytes && remBits > 0 {
			out[i] &= 0xFF << (8 - remBits)
			continue
		}
		out[i] = 0
	}
	return out
}

// ParseIPv4Prefix parses "address/length" text form.
func ParseIPv4Prefix(text string) (IPv4Prefix, error) {
	addrText, length, err := splitPrefixText(text)
	if err != nil {
		return IPv4Prefix{}, err
	}
	if length < 0 || length > 32 {
		return IPv4Prefix{}, fmt.Errorf("address: prefix length %d out of range for IPv4", length)
	}
	addr, err := ParseIPv4(addrText)
	if err != nil {
		return IPv4Prefix{}, err
	}
	return IPv4Prefix{Addr: addr, Len: length}, nil
}

// ParseIPv6Prefix parses "address/length" text form.
func ParseIPv6Prefix(text string) (IPv6Prefix, error) {
	addrText, length, err := splitPrefixText(text)
	if err != nil {
		return IPv6Prefix{}, err
	}
	if length < 0 || length > 128 {
		return IPv6Prefix{}, fmt.Errorf("address: prefix length %d out of range for IPv6", length)
	}
	addr, err := ParseIPv6(addrText)
	if err != nil {
		return IPv6Prefix{}, err
	}
	return IPv6Prefix{Addr: addr, Len: length}, nil
}

func splitPrefixText(text string) (string, int, error) {
	parts := strings.SplitN(text, "/", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("address: %q is not a prefix (want address/length)", text)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("address: bad prefix length in %q: %w", text, err)
	}
	return parts[0], length, nil
}

// ceilBytes returns ceil(bits/8).
func ceilBytes(bits int) int {
	return (bits + 7) / 8
}

// Encode renders the BGP NLRI compact form: a length byte followed by
// ceil(length/8) address bytes (spec.md §4.1).
func (p IPv4Prefix) Encode() []byte {
	n := ceilBytes(p.Len)
	out := make([]byte, 1+n)
	out[0] = byte(p.Len)
	copy(out[1:], p.Addr[:n])
	return out
}

func (p IPv6Prefix) Encode() []byte {
	n := ceilBytes(p.Len)
	out := make([]byte, 1+n)
	out[0] = byte(p.Len)
	copy(out[1:], p.Addr[:n])
	return out
}

// DecodeIPv4Prefix decodes the compact NLRI form from the front of b,
// returning the prefix and the number of bytes consumed.
func DecodeIPv4Prefix(b []byte) (IPv4Prefix, int, error) {
	if len(b) < 1 {
		return IPv4Prefix{}, 0, fmt.Errorf("address: %w: empty NLRI entry", ErrTruncated)
	}
	length := int(b[0])
	if length > 32 {
		return IPv4Prefix{}, 0, fmt.Errorf("address: %w: length %d > 32", ErrOverlongPrefix, length)
	}
	n := ceilBytes(length)
	if len(b) < 1+n {
		return IPv4Prefix{}, 0, fmt.Errorf("address: %w: need %d address bytes, have %d", ErrTruncated, n, len(b)-1)
	}
	var addr IPv4Address
	copy(addr[:], b[1:1+n])
	return IPv4Prefix{Addr: addr, Len: length}, 1 + n, nil
}

// DecodeIPv6Prefix decodes the compact NLRI form from the front of b,
// returning the prefix and the number of bytes consumed.
func DecodeIPv6Prefix(b []byte) (IPv6Prefix, int, error) {
	if len(b) < 1 {
		return IPv6Prefix{}, 0, fmt.Errorf("address: %w: empty NLRI entry", ErrTruncated)
	}
	length := int(b[0])
	if length > 128 {
		return IPv6Prefix{}, 0, fmt.Errorf("address: %w: length %d > 128", ErrOverlongPrefix, length)
	}
	n := ceilBytes(length)
	if len(b) < 1+n {
		return IPv6Prefix{}, 0, fmt.Errorf("address: %w: need %d address bytes, have %d", ErrTruncated, n, len(b)-1)
	}
	var addr IPv6Address
	copy(addr[:], b[1:1+n])
	return IPv6Prefix{Addr: addr, Len: length}, 1 + n, nil
}
