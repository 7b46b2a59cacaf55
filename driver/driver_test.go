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

package driver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgpspeak/address"
	"bgpspeak/fsm"
	"bgpspeak/route"
	"bgpspeak/wire"
)

// fakeConn pairs a net.Pipe connection (for the driver) with the
// ability to read/write from the test as the simulated peer.
func fakeConn(t *testing.T) (peerSide net.Conn, driverSide net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	return a, b
}

func TestDriverRunsHandshakeToEstablished(t *testing.T) {
	peer, driverConn := fakeConn(t)
	defer peer.Close()

	localAddr, _ := address.ParseIPv4("10.0.0.1")
	neighbor, _ := address.ParseIPv4("10.0.0.2")
	routerID, _ := address.ParseIPv4("1.1.1.1")

	messages := fsm.NewQueue[wire.Message](8)
	routes := fsm.NewQueue[route.Update](8)
	sm := fsm.NewStateMachine(fsm.Config{
		LocalAS:      65001,
		PeerAS:       65002,
		RouterID:     routerID,
		LocalAddress: localAddr,
		Neighbor:     neighbor,
		HoldTime:     240,
	}, messages, routes)

	d := New(sm, driverConn, messages, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	peerID, _ := address.ParseIPv4("2.2.2.2")
	require.NoError(t, wire.WriteTo(peer, wire.NewOpen(65002, 240, peerID, address.IPv4)))

	open, err := wire.ReadFrom(peer)
	require.NoError(t, err)
	_, ok := open.(wire.OpenMessage)
	assert.True(t, ok)

	ka, err := wire.ReadFrom(peer)
	require.NoError(t, err)
	_, ok = ka.(wire.KeepaliveMessage)
	assert.True(t, ok)

	require.NoError(t, wire.WriteTo(peer, wire.KeepaliveMessage{}))

	require.Eventually(t, func() bool {
		return sm.State() == fsm.Established
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestDriverSynthesizesShutdownOnTransportClose(t *testing.T) {
	peer, driverConn := fakeConn(t)

	localAddr, _ := address.ParseIPv4("10.0.0.1")
	neighbor, _ := address.ParseIPv4("10.0.0.2")
	routerID, _ := address.ParseIPv4("1.1.1.1")

	messages := fsm.NewQueue[wire.Message](8)
	routes := fsm.NewQueue[route.Update](8)
	sm := fsm.NewStateMachine(fsm.Config{
		LocalAS:      65001,
		PeerAS:       65002,
		RouterID:     routerID,
		LocalAddress: localAddr,
		Neighbor:     neighbor,
		HoldTime:     240,
	}, messages, routes)

	d := New(sm, driverConn, messages, 50*time.Millisecond, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	peer.Close() // simulate the peer dropping the connection

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not shut down after transport close")
	}

	require.Eventually(t, func() bool {
		return sm.State() == fsm.Idle
	}, time.Second, 10*time.Millisecond)
}
