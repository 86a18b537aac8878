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
package policy

import "github.com/arkadia-labs/trackerd/core"

// rankCompleteness prefers peers that can actually serve data. Organic
// seeders come first so traffic drains away from operator-injected origin
// seeders, which rank next as a reliable fallback. Mid-download leechers
// follow. Peers whose last announce was event=started with no progress
// reported rank last: they just joined and have nothing to share yet.
func rankCompleteness(p *core.PeerInfo) (int, string) {
	switch {
	case p.Complete() && !p.Origin:
		return 0, "seeder"
	case p.Origin:
		return 1, "origin"
	case p.Event == core.EventStarted && p.Downloaded == 0:
		return 3, "newcomer"
	default:
		return 2, "leecher"
	}
}
