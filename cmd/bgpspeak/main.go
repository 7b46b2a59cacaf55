// Command bgpspeak is a thin CLI harness wiring a real TCP connection
// to the address/wire/route/fsm/driver core, adapted from the
// teacher's cmd/bgp.go. It is a demo, not a daemon: no config file
// parsing, no supervisor, no retry loop - those are out of scope per
// spec.md §1/§6.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bgpspeak/address"
	"bgpspeak/driver"
	"bgpspeak/fsm"
	"bgpspeak/route"
	"bgpspeak/wire"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <local-as> <peer-as> <router-id> <local-address> <neighbor>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	holdTime := flag.Uint("hold-time", 240, "hold time in seconds")
	advertise := flag.String("advertise", "", "comma-separated IPv4 prefixes to advertise, e.g. 10.1.0.0/16,10.2.0.0/16")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if flag.NArg() != 5 {
		flag.Usage()
		os.Exit(2)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg, neighborHost, err := parseArgs(flag.Args(), uint16(*holdTime), *advertise)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}
	cfg.Notifier = fsm.NewZerologNotifier(log)

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(neighborHost, "179"), 10*time.Second)
	if err != nil {
		log.Fatal().Err(err).Str("peer", neighborHost).Msg("dial failed")
	}
	defer conn.Close()

	run(log, conn, cfg)
}

// run constructs the FSM and its queues, starts a goroutine logging
// every route event, and drives the session until the process
// receives SIGINT/SIGTERM or the transport closes.
func run(log zerolog.Logger, conn net.Conn, cfg fsm.Config) {
	messages := fsm.NewQueue[wire.Message](16)
	routes := fsm.NewQueue[route.Update](64)

	sm := fsm.NewStateMachine(cfg, messages, routes)

	go func() {
		for update := range routes.C() {
			log.Info().Str("route", update.String()).Msg("route update")
		}
	}()

	d := driver.New(sm, conn, messages, driver.DefaultTickInterval, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		log.Error().Err(err).Msg("session ended with error")
	}
	log.Info().Str("state", sm.State().String()).Msg("session ended")
}

func parseArgs(args []string, holdTime uint16, advertiseCSV string) (fsm.Config, string, error) {
	localAS, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fsm.Config{}, "", fmt.Errorf("local-as: %w", err)
	}
	peerAS, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fsm.Config{}, "", fmt.Errorf("peer-as: %w", err)
	}
	routerID, err := address.ParseIPv4(args[2])
	if err != nil {
		return fsm.Config{}, "", fmt.Errorf("router-id: %w", err)
	}
	localAddr, err := address.Parse(args[3])
	if err != nil {
		return fsm.Config{}, "", fmt.Errorf("local-address: %w", err)
	}
	neighbor, err := address.Parse(args[4])
	if err != nil {
		return fsm.Config{}, "", fmt.Errorf("neighbor: %w", err)
	}

	var routes []route.Route
	if advertiseCSV != "" {
		nextHop, ok := localAddr.(address.IPv4Address)
		if !ok {
			return fsm.Config{}, "", fmt.Errorf("-advertise requires an IPv4 local-address (outbound IPv6 synthesis is out of scope)")
		}
		for _, text := range strings.Split(advertiseCSV, ",") {
			prefix, err := address.ParseIPv4Prefix(strings.TrimSpace(text))
			if err != nil {
				return fsm.Config{}, "", fmt.Errorf("advertise %q: %w", text, err)
			}
			routes = append(routes, route.Route{
				Prefix:  prefix,
				NextHop: nextHop,
				ASPath:  route.Sequence(uint16(localAS)),
				Origin:  route.IGP,
			})
		}
	}

	cfg := fsm.Config{
		LocalAS:           uint16(localAS),
		PeerAS:            uint16(peerAS),
		RouterID:          routerID,
		LocalAddress:      localAddr,
		Neighbor:          neighbor,
		HoldTime:          holdTime,
		RoutesToAdvertise: routes,
	}

	return cfg, args[4], nil
}
