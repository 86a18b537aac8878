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
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/arkadia-labs/trackerd/lib/metainfogen"
	"github.com/arkadia-labs/trackerd/metrics"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
	"github.com/arkadia-labs/trackerd/torrent"
	"github.com/arkadia-labs/trackerd/trackerhttp"
)

// Config defines trackerd configuration.
type Config struct {
	Port            int                  `yaml:"port"`
	ShutdownTimeout time.Duration        `yaml:"shutdown_timeout"`
	Debug           bool                 `yaml:"debug"`
	Metrics         metrics.Config       `yaml:"metrics"`
	Storage         store.Config         `yaml:"storage"`
	Swarm           swarm.Config         `yaml:"swarm"`
	TrackerHTTP     trackerhttp.Config   `yaml:"trackerhttp"`
	MetaInfoGen     metainfogen.Config   `yaml:"metainfogen"`
	AnnounceList    torrent.AnnounceList `yaml:"announce_list"`
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 6969
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if len(c.MetaInfoGen.PieceLengths) == 0 {
		c.MetaInfoGen.PieceLengths = map[datasize.ByteSize]datasize.ByteSize{
			0: 4 * datasize.MB,
		}
	}
}
