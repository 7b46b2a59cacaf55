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
	"bytes"
	"reflect"
	"testing"

	"bgpspeak/address"
)

func TestKeepaliveRoundTrip(t *testing.T) {
	frame := Encode(KeepaliveMessage{})
	if len(frame) != 19 {
		t.Fatalf("KEEPALIVE frame length = %d, want 19", len(frame))
	}

	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(KeepaliveMessage); !ok {
		t.Errorf("decoded %T, want KeepaliveMessage", m)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	routerID, _ := address.ParseIPv4("1.1.1.1")
	open := NewOpen(65001, 240, routerID, address.IPv4)

	frame := Encode(open)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded, ok := m.(OpenMessage)
	if !ok {
		t.Fatalf("decoded %T, want OpenMessage", m)
	}

	if decoded.Version != 4 || decoded.MyAS != 65001 || decoded.HoldTime != 240 || decoded.RouterID != routerID {
		t.Errorf("decoded OPEN = %+v, want version=4 as=65001 hold=240 id=%v", decoded, routerID)
	}

	// capability: Optional Parameter Type(2) Len(6) [Code(1) Len(4) AFI(0,1) Reserved(0) SAFI(1)]
	want := []byte{2, 6, 1, 4, 0, 1, 0, 1}
	if !bytes.Equal(decoded.RawOptionalParameters, want) {
		t.Errorf("RawOptionalParameters = %v, want %v", decoded.RawOptionalParameters, want)
	}
}

func TestOpenIPv6Capability(t *testing.T) {
	routerID, _ := address.ParseIPv4("1.1.1.1")
	open := NewOpen(65001, 240, routerID, address.IPv6)
	frame := Encode(open)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(OpenMessage)
	want := []byte{2, 6, 1, 4, 0, 2, 0, 1}
	if !bytes.Equal(decoded.RawOptionalParameters, want) {
		t.Errorf("RawOptionalParameters = %v, want %v (AFI=2)", decoded.RawOptionalParameters, want)
	}
}

func TestOpenDecodeTolerantOfAnyOptParams(t *testing.T) {
	routerID, _ := address.ParseIPv4("2.2.2.2")
	body := []byte{4, 0, 1, 0, 240, routerID[0], routerID[1], routerID[2], routerID[3], 3, 0xAA, 0xBB, 0xCC}

	decoded, err := DecodeOpen(body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded.RawOptionalParameters, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("RawOptionalParameters = %v, want [170 187 204]", decoded.RawOptionalParameters)
	}
}

func TestNotificationRoundTrip(t *testing.T) {
	n := NotificationMessage{Code: ErrorCodeHoldTimerExpired, Subcode: 0}
	frame := Encode(n)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded, ok := m.(NotificationMessage)
	if !ok || decoded.Code != ErrorCodeHoldTimerExpired {
		t.Errorf("decoded = %+v, want Code=%d", decoded, ErrorCodeHoldTimerExpired)
	}
}

func TestNotificationWithData(t *testing.T) {
	n := NotificationMessage{Code: ErrorCodeCease, Subcode: 2, Data: []byte("administrative shutdown")}
	frame := Encode(n)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(NotificationMessage)
	if decoded.Subcode != 2 || string(decoded.Data) != "administrative shutdown" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestUpdateRoundTripIPv4(t *testing.T) {
	p1, _ := address.ParseIPv4Prefix("10.1.0.0/16")
	p2, _ := address.ParseIPv4Prefix("10.2.0.0/16")
	nextHop, _ := address.ParseIPv4("10.0.0.1")

	u := NewUpdate([]address.IPv4Prefix{p1, p2}, nextHop, []ASPathSegment{{Type: ASSequence, ASNs: []uint16{65001}}}, OriginIGP)

	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded, ok := m.(UpdateMessage)
	if !ok {
		t.Fatalf("decoded %T, want UpdateMessage", m)
	}

	if !reflect.DeepEqual(decoded.NLRI, []address.IPv4Prefix{p1, p2}) {
		t.Errorf("NLRI = %v, want [%v %v]", decoded.NLRI, p1, p2)
	}
	if !decoded.HasOrigin || decoded.Origin != OriginIGP {
		t.Errorf("Origin = %+v, want IGP", decoded)
	}
	if !decoded.HasNextHop || decoded.NextHop != nextHop {
		t.Errorf("NextHop = %v, want %v", decoded.NextHop, nextHop)
	}
	if !decoded.HasASPath || len(decoded.ASPath) != 1 || decoded.ASPath[0].ASNs[0] != 65001 {
		t.Errorf("ASPath = %v, want one segment [65001]", decoded.ASPath)
	}
}

func TestUpdateRoundTripWithdrawOnly(t *testing.T) {
	p1, _ := address.ParseIPv4Prefix("10.1.0.0/16")
	u := NewWithdraw([]address.IPv4Prefix{p1})

	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(UpdateMessage)
	if !reflect.DeepEqual(decoded.WithdrawnRoutes, []address.IPv4Prefix{p1}) {
		t.Errorf("WithdrawnRoutes = %v, want [%v]", decoded.WithdrawnRoutes, p1)
	}
	if decoded.HasReachability() {
		t.Error("withdraw-only UPDATE reports HasReachability")
	}
}

func TestUpdateEmptyIsValid(t *testing.T) {
	u := UpdateMessage{}
	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(UpdateMessage)
	if decoded.HasReachability() || decoded.HasWithdrawals() {
		t.Error("empty UPDATE reports reachability or withdrawals")
	}
}

func TestUpdateMPReachRoundTrip(t *testing.T) {
	nextHop, _ := address.ParseIPv6("2001:db8::1")
	p, _ := address.ParseIPv6Prefix("2001:db8:1::/48")

	u := UpdateMessage{
		HasOrigin: true, Origin: OriginIGP,
		HasASPath: true, ASPath: []ASPathSegment{{Type: ASSequence, ASNs: []uint16{65002}}},
		MPReach: &MPReachNLRI{AFI: 2, SAFI: 1, NextHop: nextHop, NLRI: []address.Prefix{p}},
	}

	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(UpdateMessage)
	if decoded.MPReach == nil {
		t.Fatal("MPReach is nil after round trip")
	}
	if decoded.MPReach.AFI != 2 || decoded.MPReach.SAFI != 1 {
		t.Errorf("MPReach AFI/SAFI = %d/%d, want 2/1", decoded.MPReach.AFI, decoded.MPReach.SAFI)
	}
	if !address.Equal(decoded.MPReach.NextHop, nextHop) {
		t.Errorf("MPReach.NextHop = %v, want %v", decoded.MPReach.NextHop, nextHop)
	}
	if len(decoded.MPReach.NLRI) != 1 || decoded.MPReach.NLRI[0] != address.Prefix(p) {
		t.Errorf("MPReach.NLRI = %v, want [%v]", decoded.MPReach.NLRI, p)
	}
}

func TestUpdateMPUnreachRoundTrip(t *testing.T) {
	p, _ := address.ParseIPv6Prefix("2001:db8:1::/48")
	u := UpdateMessage{MPUnreach: &MPUnreachNLRI{AFI: 2, SAFI: 1, WithdrawnRoutes: []address.Prefix{p}}}

	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(UpdateMessage)
	if decoded.MPUnreach == nil || len(decoded.MPUnreach.WithdrawnRoutes) != 1 {
		t.Fatalf("MPUnreach = %+v", decoded.MPUnreach)
	}
	if !decoded.HasWithdrawals() {
		t.Error("MP_UNREACH_NLRI withdrawal not reported by HasWithdrawals")
	}
}

func TestUpdateUnknownAttributePreserved(t *testing.T) {
	nextHop, _ := address.ParseIPv4("10.0.0.1")
	p, _ := address.ParseIPv4Prefix("10.1.0.0/16")
	u := NewUpdate([]address.IPv4Prefix{p}, nextHop, []ASPathSegment{{Type: ASSequence, ASNs: []uint16{65001}}}, OriginIGP)
	u.Unknown = []UnknownAttribute{{Flags: flagOptional | flagTransitive, Type: 8, Value: []byte{0, 0, 1, 44}}} // COMMUNITIES(8), unrecognized by this core

	frame := Encode(u)
	m, err := ReadFrom(bytes.NewReader(frame))
	if err != nil {
		t.Fatal(err)
	}
	decoded := m.(UpdateMessage)
	if len(decoded.Unknown) != 1 || decoded.Unknown[0].Type != 8 || !bytes.Equal(decoded.Unknown[0].Value, []byte{0, 0, 1, 44}) {
		t.Errorf("Unknown = %+v, want COMMUNITIES preserved opaquely", decoded.Unknown)
	}
}

func TestUpdateMalformedMissingMandatoryAttribute(t *testing.T) {
	p, _ := address.ParseIPv4Prefix("10.1.0.0/16")
	u := UpdateMessage{NLRI: []address.IPv4Prefix{p}} // no ORIGIN/AS_PATH/NEXT_HOP

	// DecodeUpdate itself succeeds - this is a semantic, FSM-level
	// defect (spec.md §7), not a framing failure.
	decoded, err := DecodeUpdate(u.body())
	if err != nil {
		t.Fatalf("DecodeUpdate returned %v, want success with an invalid value", err)
	}
	if err := decoded.Validate(); err == nil {
		t.Fatal("expected MALFORMED_UPDATE error for NLRI with no mandatory attributes")
	}
}

func TestBadMarkerRejected(t *testing.T) {
	frame := Encode(KeepaliveMessage{})
	frame[0] = 0x00

	_, err := ReadFrom(bytes.NewReader(frame))
	if err == nil {
		t.Fatal("expected BAD_MARKER error")
	}
}

func TestUnknownTypeRejected(t *testing.T) {
	frame := Encode(KeepaliveMessage{})
	frame[18] = 9

	_, err := ReadFrom(bytes.NewReader(frame))
	if err == nil {
		t.Fatal("expected UNKNOWN_TYPE error")
	}
}

func TestTruncatedFrameRejected(t *testing.T) {
	frame := Encode(KeepaliveMessage{})
	_, err := ReadFrom(bytes.NewReader(frame[:10]))
	if err == nil {
		t.Fatal("expected TRUNCATED error reading a partial header")
	}
}

func TestPrefixEncodeLengthInvariant(t *testing.T) {
	lengths := []int{0, 1, 7, 8, 9, 16, 24, 31, 32}
	for _, l := range lengths {
		p := address.IPv4Prefix{Addr: address.IPv4Address{255, 255, 255, 255}, Len: l}
		enc := p.Encode()
		want := 1 + (l+7)/8
		if len(enc) != want {
			t.Errorf("length=%d: Encode() len = %d, want %d", l, len(enc), want)
		}
	}
}
