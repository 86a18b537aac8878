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
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber-go/tally/m3"
)

func newM3Scope(config M3Config, cluster string) (tally.Scope, io.Closer, error) {
	env := config.Env
	if env == "" {
		env = cluster
	}
	// tally/m3 silently accepts an empty HostPort, so validate everything
	// up front instead of emitting into the void.
	if env == "" {
		return nil, nil, errors.New("m3 env (or --cluster) required")
	}
	if config.Service == "" {
		return nil, nil, errors.New("m3 service required")
	}
	if config.HostPort == "" {
		return nil, nil, errors.New("m3 host_port required")
	}

	r, err := m3.Configuration{
		HostPort: config.HostPort,
		Service:  config.Service,
		Env:      env,
	}.NewReporter()
	if err != nil {
		return nil, nil, err
	}
	s, c := tally.NewRootScope(tally.ScopeOptions{
		CachedReporter: r,
	}, time.Second)
	return s, c, nil
}
