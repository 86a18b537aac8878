// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arkadia-labs/trackerd/config"
	"github.com/arkadia-labs/trackerd/log"
	"github.com/arkadia-labs/trackerd/metrics"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
	"github.com/arkadia-labs/trackerd/trackerhttp"
	"github.com/arkadia-labs/trackerd/utils/closers"
	"github.com/arkadia-labs/trackerd/utils/shutdown"
	"github.com/arkadia-labs/trackerd/utils/timeutil"
)

var (
	port       int
	configFile string
	cluster    string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "trackerd",
		Short: "trackerd coordinates BitTorrent swarms: it registers torrents and serves announce and scrape.",
		Run: func(rootCmd *cobra.Command, args []string) {
			serve()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(
		&port, "port", "", 0, "port to listen on (overrides config)")
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(
		&cluster, "cluster", "", "", "cluster name for metrics tagging")
	rootCmd.PersistentFlags().BoolVarP(
		&debug, "debug", "", false, "enable debug logging")
	rootCmd.AddCommand(publishCmd)
}

// Execute runs the trackerd command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() Config {
	var cfg Config
	if configFile != "" {
		if err := config.Load(configFile, &cfg); err != nil {
			panic(err)
		}
	}
	cfg.applyDefaults()
	return cfg
}

func serve() {
	cfg := loadConfig()
	if err := log.Configure(debug || cfg.Debug); err != nil {
		panic(err)
	}

	stats, closer, err := metrics.New(cfg.Metrics, cluster)
	if err != nil {
		log.Fatalf("Failed to init metrics: %s", err)
	}
	defer closers.Close(closer)

	go metrics.EmitVersion(stats)

	stats = stats.SubScope("trackerd")

	st, err := store.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Could not create torrent store: %s", err)
	}

	sw, err := swarm.New(cfg.Swarm)
	if err != nil {
		log.Fatalf("Could not create peer store: %s", err)
	}

	h, err := trackerhttp.New(cfg.TrackerHTTP, st, sw, stats)
	if err != nil {
		log.Fatalf("Could not create tracker handler: %s", err)
	}

	sd := shutdown.New(context.Background())
	sd.AddCleanup(func() error {
		sw.Close()
		return nil
	})
	if c, ok := st.(io.Closer); ok {
		sd.AddCleanup(c.Close)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if port != 0 {
		addr = fmt.Sprintf(":%d", port)
	}
	server := &http.Server{Addr: addr, Handler: h}
	go func() {
		log.Infof("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %s", err)
		}
	}()

	// Handle SIGINT and SIGTERM.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch // Blocks until shutdown is signaled.

	log.Info("Shutting down...")
	drain := timeutil.NewTimer(cfg.ShutdownTimeout)
	drain.Start()
	done := make(chan error, 1)
	go func() { done <- server.Shutdown(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			log.Errorf("Error draining connections: %s", err)
		}
	case <-drain.C:
		log.Warn("Drain timed out; closing listeners")
		server.Close()
	}
	sd.Shutdown()

	log.Info("Shutdown complete")
}
