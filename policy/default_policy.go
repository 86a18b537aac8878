package policy

import "github.com/arkadia-labs/trackerd/core"

// rankDefault treats every peer the same; combined with the pre-sort
// shuffle this hands out a uniformly random permutation of the swarm.
func rankDefault(p *core.PeerInfo) (int, string) {
	return 0, "peer"
}
