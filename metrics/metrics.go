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

// Package metrics constructs the tally scope the tracker reports through.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/uber-go/tally"

	"github.com/arkadia-labs/trackerd/log"
)

// New builds a tally scope for the configured backend. cluster names the
// reporting environment for backends that require one (m3). An empty
// backend disables metrics.
func New(config Config, cluster string) (tally.Scope, io.Closer, error) {
	switch config.Backend {
	case "", "disabled":
		return newDisabledScope()
	case "statsd":
		return newStatsdScope(config.Statsd)
	case "m3":
		return newM3Scope(config.M3, cluster)
	case "default":
		return newConsoleScope()
	default:
		return nil, nil, fmt.Errorf("unknown metrics backend %q", config.Backend)
	}
}

// EmitVersion periodically emits the current GIT_DESCRIBE as a metric, so
// dashboards can correlate behavior changes with deploys.
func EmitVersion(stats tally.Scope) {
	counter, err := versionCounter(stats)
	if err != nil {
		log.Warnf("Skipping version emitting: %s", err)
		return
	}
	for {
		time.Sleep(time.Minute)
		counter.Inc(1)
	}
}

func versionCounter(stats tally.Scope) (tally.Counter, error) {
	version := os.Getenv("GIT_DESCRIBE")
	if version == "" {
		return nil, errors.New("no GIT_DESCRIBE env variable found")
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %s", err)
	}
	return stats.Tagged(map[string]string{
		"host":    hostname,
		"version": version,
	}).Counter("version"), nil
}
