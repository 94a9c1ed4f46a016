// Command quorumkv runs one replica of a Raft-replicated key-value
// store: it reads a cluster configuration file, restores persistent
// state, and serves both the inter-replica gRPC transport and the
// client-facing HTTP API — grounded on the teacher's implied wiring of
// raftserver.StartRaftServer + node.NewNode + NewNodeConfig into one
// process (no retrieved cmd/ entrypoint existed in the pack to copy
// directly).
package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/quorumkv/quorumkv/internal/api"
	"github.com/quorumkv/quorumkv/internal/config"
	"github.com/quorumkv/quorumkv/internal/driver"
	"github.com/quorumkv/quorumkv/internal/persist"
	"github.com/quorumkv/quorumkv/internal/raft"
	"github.com/quorumkv/quorumkv/internal/store"
	"github.com/quorumkv/quorumkv/internal/transport"
)

// tickInterval is how often the driver's ticker checks election
// timeouts and heartbeat intervals; it must be well under the
// configured heartbeat interval to keep leader heartbeats on schedule.
const tickInterval = 10 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "path to the cluster configuration YAML file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *configPath == "" {
		log.Fatal().Msg("missing required -config flag")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}

	self := raft.NodeID(cfg.NodeID)
	var peers []raft.NodeID
	addrs := make(map[raft.NodeID]string, len(cfg.Peers))
	for id, addr := range cfg.Peers {
		nid := raft.NodeID(id)
		peers = append(peers, nid)
		addrs[nid] = addr
	}

	raftCfg := raft.Config{
		MinElectionTimeout:    cfg.Timing.MinElectionTimeout().Seconds(),
		ElectionTimeoutJitter: cfg.Timing.ElectionTimeoutJitter().Seconds(),
		HeartbeatInterval:     cfg.Timing.HeartbeatInterval().Seconds(),
	}

	persister := persist.NewFilePersister(cfg.DataDir)
	st := store.New()
	rnd := raft.NewRandSource(time.Now().UnixNano())

	d, err := driver.New(self, peers, raftCfg, rnd, persister, st, addrs, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct driver")
	}

	dialer := transport.NewDialer(addrs, d)
	d.SetDialer(dialer)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.ListenAddr).Msg("failed to bind raft listener")
	}
	grpcServer := grpc.NewServer()
	transport.RegisterRaftServer(grpcServer, d)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("raft transport listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("raft transport server stopped unexpectedly")
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.ClientAddr,
		Handler: api.New(d).Handler(),
	}
	go func() {
		log.Info().Str("addr", cfg.ClientAddr).Msg("client api listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("client api server stopped unexpectedly")
		}
	}()

	stop := make(chan struct{})
	go runTicker(d, stop)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")
	close(stop)
	dialer.Close()
	grpcServer.GracefulStop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

// runTicker drives the driver's election-timeout and heartbeat checks
// on a fixed schedule, since no inbound message may arrive for a long
// stretch (e.g. an idle cluster or a partitioned leader) — grounded on
// spec §4's clock-tick input being independent of message arrival.
func runTicker(d *driver.Driver, stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.Tick()
		case <-stop:
			return
		}
	}
}
