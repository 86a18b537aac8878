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
package trackerhttp

// Config defines the tracker's HTTP-facing behavior.
type Config struct {
	// AnnounceIntervalSeconds tells clients how often to re-announce. A
	// peer's TTL is pinned to twice this value.
	AnnounceIntervalSeconds int64 `yaml:"announce_interval_seconds"`

	// DefaultIP, when set, is used as the peer's address whenever the
	// request carries no explicit ip parameter, taking precedence over the
	// transport's remote address.
	DefaultIP string `yaml:"default_ip"`

	// CompactDefault controls the peer-list encoding used when the request
	// omits the compact parameter.
	CompactDefault bool `yaml:"compact_default"`

	// MaxPeersPerAnnounce caps the number of peers returned in an announce
	// response when the client does not request fewer via numwant.
	MaxPeersPerAnnounce int `yaml:"max_peers_per_announce"`

	// PriorityPolicy names the package policy ranking used to order and filter
	// peers in announce responses.
	PriorityPolicy string `yaml:"priority_policy"`
}

func (c *Config) applyDefaults() {
	if c.AnnounceIntervalSeconds == 0 {
		c.AnnounceIntervalSeconds = 60
	}
	if c.MaxPeersPerAnnounce == 0 {
		c.MaxPeersPerAnnounce = 50
	}
	if c.PriorityPolicy == "" {
		c.PriorityPolicy = "default"
	}
}
