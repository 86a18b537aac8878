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

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/arkadia-labs/trackerd/bencode"
	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/log"
	"github.com/arkadia-labs/trackerd/policy"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
	"github.com/arkadia-labs/trackerd/utils/netutil"
)

// announceResponse is the bencoded body returned from a successful announce.
// Peers holds either a []byte (compact mode) or a []map[string]interface{}
// (dictionary mode); bencode.Marshal dispatches on its dynamic type.
type announceResponse struct {
	Interval   int64       `bencode:"interval"`
	Complete   int64       `bencode:"complete"`
	Incomplete int64       `bencode:"incomplete"`
	Peers      interface{} `bencode:"peers"`
}

// failureResponse is the bencoded body returned from a failed announce or
// scrape, per the BitTorrent tracker protocol.
type failureResponse struct {
	FailureReason string `bencode:"failure reason"`
}

type announceHandler struct {
	config  Config
	storage store.Storage
	swarm   swarm.Store
	policy  *policy.PriorityPolicy
}

func newAnnounceHandler(config Config, st store.Storage, s swarm.Store, p *policy.PriorityPolicy) *announceHandler {
	config.applyDefaults()
	return &announceHandler{config, st, s, p}
}

func (h *announceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseAnnounceRequest(r)
	if err != nil {
		writeFailure(w, err.Error())
		return
	}

	has, err := h.storage.HasTorrent(req.peer.InfoHash.Hex())
	if err != nil {
		log.Warnf("Error checking torrent existence for announce %s: %s", req.peer.InfoHash, err)
		writeFailure(w, "Failed to announce because of internal server error.")
		return
	}
	if !has {
		writeFailure(w, "Unregistered torrent.")
		return
	}

	ttl := announceTTL(req.peer.Event, h.config.AnnounceIntervalSeconds)
	req.peer.Completed = req.peer.Event == core.EventCompleted

	if err := h.swarm.UpdatePeer(req.peer.InfoHash, req.peer, ttl); err != nil {
		log.Warnf("Error updating peer for announce %s: %s", req.peer.InfoHash, err)
		writeFailure(w, "Failed to announce because of internal server error.")
		return
	}

	numWant := req.numWant
	if numWant <= 0 || numWant > h.config.MaxPeersPerAnnounce {
		numWant = h.config.MaxPeersPerAnnounce
	}

	peers, err := h.swarm.GetPeers(req.peer.InfoHash, req.peer.PeerID, numWant+1)
	if err != nil {
		log.Warnf("Error fetching peers for announce %s: %s", req.peer.InfoHash, err)
		writeFailure(w, "Failed to announce because of internal server error.")
		return
	}
	peers = h.policy.SortPeers(req.peer, peers)
	if len(peers) > numWant {
		peers = peers[:numWant]
	}

	complete, incomplete, err := h.swarm.GetPeerStats(req.peer.InfoHash)
	if err != nil {
		log.Warnf("Error fetching peer stats for announce %s: %s", req.peer.InfoHash, err)
		writeFailure(w, "Failed to announce because of internal server error.")
		return
	}

	resp := announceResponse{
		Interval:   h.config.AnnounceIntervalSeconds,
		Complete:   complete,
		Incomplete: incomplete,
		Peers:      encodePeers(peers, req.compact, req.noPeerID),
	}

	b, err := bencode.Marshal(resp)
	if err != nil {
		log.Warnf("Error bencoding announce response: %s", err)
		writeFailure(w, "Failed to announce because of internal server error.")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write(b)
}

// announceTTL computes the peer's liveness window: event=stopped evicts
// immediately, everything else refreshes for twice the announce interval.
func announceTTL(event core.Event, announceIntervalSeconds int64) time.Duration {
	if event == core.EventStopped {
		return 0
	}
	return time.Duration(2*announceIntervalSeconds) * time.Second
}

// encodePeers renders peers per the requested presentation mode. Compact
// mode packs each IPv4 peer into a 6-byte (addr, port) pair and silently
// skips IPv6 peers, which have no representation in the compact wire
// format without a v6 extension this tracker doesn't implement.
func encodePeers(peers []*core.PeerInfo, compact, noPeerID bool) interface{} {
	if compact {
		buf := make([]byte, 0, 6*len(peers))
		for _, p := range peers {
			ip4 := parseIPv4(p.IP)
			if ip4 == nil {
				continue
			}
			buf = append(buf, ip4...)
			buf = append(buf, byte(p.Port>>8), byte(p.Port))
		}
		return buf
	}

	dicts := make([]map[string]interface{}, len(peers))
	for i, p := range peers {
		d := map[string]interface{}{
			"ip":   p.IP,
			"port": int64(p.Port),
		}
		if !noPeerID {
			d["peer id"] = p.PeerID.String()
		}
		dicts[i] = d
	}
	return dicts
}

func writeFailure(w http.ResponseWriter, reason string) {
	b, err := bencode.Marshal(failureResponse{FailureReason: reason})
	if err != nil {
		http.Error(w, reason, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type announceRequest struct {
	peer     *core.PeerInfo
	numWant  int
	compact  bool
	noPeerID bool
}

func (h *announceHandler) parseAnnounceRequest(r *http.Request) (*announceRequest, error) {
	q := r.URL.Query()

	if err := requireKeys(q, "info_hash", "peer_id", "port", "uploaded", "downloaded", "left"); err != nil {
		return nil, err
	}

	infoHash, err := core.NewInfoHashFromRawBytes([]byte(q.Get("info_hash")))
	if err != nil {
		return nil, invalidLength("info_hash")
	}
	peerID, err := core.NewPeerIDFromRawBytes([]byte(q.Get("peer_id")))
	if err != nil {
		return nil, invalidLength("peer_id")
	}
	port, err := parseNonNegativeInt("port", q.Get("port"))
	if err != nil {
		return nil, err
	}
	uploaded, err := parseNonNegativeInt("uploaded", q.Get("uploaded"))
	if err != nil {
		return nil, err
	}
	downloaded, err := parseNonNegativeInt("downloaded", q.Get("downloaded"))
	if err != nil {
		return nil, err
	}
	left, err := parseNonNegativeInt("left", q.Get("left"))
	if err != nil {
		return nil, err
	}

	ip := h.effectiveIP(q, r)
	if err := validateIP(ip); err != nil {
		return nil, err
	}

	numWant := 0
	if q.Has("numwant") {
		n, err := parseNonNegativeInt("numwant", q.Get("numwant"))
		if err != nil {
			return nil, err
		}
		numWant = int(n)
	}

	peer := core.NewPeerInfo(infoHash, peerID, ip, int(port), uploaded, downloaded, left, core.Event(q.Get("event")))

	return &announceRequest{
		peer:     peer,
		numWant:  numWant,
		compact:  boolParam(q, "compact", h.config.CompactDefault),
		noPeerID: boolParam(q, "no_peer_id", false),
	}, nil
}

// effectiveIP resolves the announcing peer's address: the ip query
// parameter takes precedence, then the configured default, then the
// transport's own remote address.
func (h *announceHandler) effectiveIP(q url.Values, r *http.Request) string {
	if ip := q.Get("ip"); ip != "" {
		return ip
	}
	if h.config.DefaultIP != "" {
		return h.config.DefaultIP
	}
	host, _, err := netutil.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func boolParam(q url.Values, name string, def bool) bool {
	if !q.Has(name) {
		return def
	}
	return q.Get(name) == "1"
}

func parseIPv4(s string) []byte {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	return ip.To4()
}
