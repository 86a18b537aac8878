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
package swarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/log"
	"github.com/arkadia-labs/trackerd/utils/randutil"

	"github.com/andres-erbsen/clock"
	"github.com/gomodule/redigo/redis"
)

// _downloadsTTL bounds the lifetime of the per-torrent completed-peer set.
// It only needs to outlive any realistic torrent lifetime; it exists so an
// abandoned torrent's bookkeeping eventually falls out of Redis on its own.
const _downloadsTTL = 365 * 24 * time.Hour

func peerSetKey(h core.InfoHash, window int64) string {
	return fmt.Sprintf("peerset:%s:%d", h.String(), window)
}

func downloadsKey(h core.InfoHash) string {
	return fmt.Sprintf("downloads:%s", h.String())
}

func serializePeer(p *core.PeerInfo) string {
	var originBit, completedBit int
	if p.Origin {
		originBit = 1
	}
	if p.Completed {
		completedBit = 1
	}
	// '/' never occurs in hex hashes, IP literals (v4 or v6), or event
	// names, so it is a safe field separator.
	return fmt.Sprintf("%s/%s/%s/%d/%d/%d/%d/%s/%d/%d",
		p.InfoHash.String(), p.PeerID.String(), p.IP, p.Port,
		p.Uploaded, p.Downloaded, p.Left, p.Event, originBit, completedBit)
}

type peerIdentity struct {
	peerID core.PeerID
	ip     string
	port   int
}

type peerRecord struct {
	infoHash                   core.InfoHash
	uploaded, downloaded, left int64
	event                      core.Event
	origin                     bool
	completed                  bool
}

func deserializePeer(s string) (id peerIdentity, rec peerRecord, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 10 {
		return id, rec, fmt.Errorf(
			"invalid peer encoding: expected 'infohash/pid/ip/port/uploaded/downloaded/left/event/origin/completed'")
	}
	infoHash, err := core.NewInfoHashFromHex(parts[0])
	if err != nil {
		return id, rec, fmt.Errorf("parse info hash: %s", err)
	}
	peerID, err := core.NewPeerID(parts[1])
	if err != nil {
		return id, rec, fmt.Errorf("parse peer id: %s", err)
	}
	ip := parts[2]
	port, err := strconv.Atoi(parts[3])
	if err != nil {
		return id, rec, fmt.Errorf("parse port: %s", err)
	}
	uploaded, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return id, rec, fmt.Errorf("parse uploaded: %s", err)
	}
	downloaded, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return id, rec, fmt.Errorf("parse downloaded: %s", err)
	}
	left, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return id, rec, fmt.Errorf("parse left: %s", err)
	}
	id = peerIdentity{peerID, ip, port}
	rec = peerRecord{
		infoHash:   infoHash,
		uploaded:   uploaded,
		downloaded: downloaded,
		left:       left,
		event:      core.Event(parts[7]),
		origin:     parts[8] == "1",
		completed:  parts[9] == "1",
	}
	return id, rec, nil
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	config RedisConfig
	pool   *redis.Pool
	clk    clock.Clock
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(config RedisConfig, clk clock.Clock) (*RedisStore, error) {
	config.applyDefaults()

	if config.Addr == "" {
		return nil, errors.New("invalid config: missing addr")
	}

	s := &RedisStore{
		config: config,
		pool: &redis.Pool{
			Dial: func() (redis.Conn, error) {
				// TODO Add options
				return redis.Dial(
					"tcp",
					config.Addr,
					redis.DialConnectTimeout(config.DialTimeout),
					redis.DialReadTimeout(config.ReadTimeout),
					redis.DialWriteTimeout(config.WriteTimeout))
			},
			MaxIdle:     config.MaxIdleConns,
			MaxActive:   config.MaxActiveConns,
			IdleTimeout: config.IdleConnTimeout,
			Wait:        true,
		},
		clk: clk,
	}

	// Ensure we can connect to Redis.
	c, err := s.pool.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial redis: %s", err)
	}
	c.Close()

	return s, nil
}

// Close implements Store.
func (s *RedisStore) Close() {}

func (s *RedisStore) curPeerSetWindow() int64 {
	t := s.clk.Now().Unix()
	return t - (t % int64(s.config.PeerSetWindowSize.Seconds()))
}

func (s *RedisStore) peerSetWindows() []int64 {
	cur := s.curPeerSetWindow()
	ws := make([]int64, s.config.MaxPeerSetWindows)
	for i := range ws {
		ws[i] = cur - int64(i)*int64(s.config.PeerSetWindowSize.Seconds())
	}
	return ws
}

// UpdatePeer writes p to Redis. A positive ttl keeps p live for roughly ttl
// by placing it in the current window (windows are themselves bounded by
// PeerSetWindowSize × MaxPeerSetWindows, so callers should not rely on ttl
// being honored to the second). ttl <= 0 evicts p immediately: its prior
// serialized form is purged from every live window instead of being
// refreshed.
func (s *RedisStore) UpdatePeer(h core.InfoHash, p *core.PeerInfo, ttl time.Duration) error {
	c := s.pool.Get()
	defer c.Close()

	if p.Completed {
		if _, err := c.Do("SADD", downloadsKey(h), p.PeerID.String()); err != nil {
			return fmt.Errorf("SADD downloads: %s", err)
		}
		if _, err := c.Do("EXPIRE", downloadsKey(h), int64(_downloadsTTL.Seconds())); err != nil {
			return fmt.Errorf("EXPIRE downloads: %s", err)
		}
	}

	if ttl <= 0 {
		return s.evictPeer(c, h, p.PeerID)
	}

	w := s.curPeerSetWindow()
	expireAt := w + int64(s.config.PeerSetWindowSize.Seconds())*int64(s.config.MaxPeerSetWindows)

	k := peerSetKey(h, w)

	if err := c.Send("SADD", k, serializePeer(p)); err != nil {
		return fmt.Errorf("send SADD: %s", err)
	}
	if err := c.Send("EXPIREAT", k, expireAt); err != nil {
		return fmt.Errorf("send EXPIREAT: %s", err)
	}
	if err := c.Flush(); err != nil {
		return fmt.Errorf("flush: %s", err)
	}
	if _, err := c.Receive(); err != nil {
		return fmt.Errorf("SADD: %s", err)
	}
	if _, err := c.Receive(); err != nil {
		return fmt.Errorf("EXPIREAT: %s", err)
	}
	return nil
}

// evictPeer removes every serialized member matching id from every window
// Sets, regardless of what progress values it was last seen with.
func (s *RedisStore) evictPeer(c redis.Conn, h core.InfoHash, id core.PeerID) error {
	for _, w := range s.peerSetWindows() {
		k := peerSetKey(h, w)
		members, err := redis.Strings(c.Do("SMEMBERS", k))
		if err == redis.ErrNil {
			continue
		} else if err != nil {
			return fmt.Errorf("SMEMBERS %s: %s", k, err)
		}
		for _, m := range members {
			pid, _, err := deserializePeer(m)
			if err != nil {
				continue
			}
			if pid.peerID == id {
				if _, err := c.Do("SREM", k, m); err != nil {
					return fmt.Errorf("SREM %s: %s", k, err)
				}
			}
		}
	}
	return nil
}

// scanWindows returns the deduplicated, live set of peer records across
// every tracked window. A record replaces the one already selected for its
// peer when it reports fewer bytes remaining or is marked completed.
func (s *RedisStore) scanWindows(c redis.Conn, h core.InfoHash) (map[peerIdentity]peerRecord, error) {
	selected := make(map[peerIdentity]peerRecord)
	for _, w := range s.peerSetWindows() {
		k := peerSetKey(h, w)
		result, err := redis.Strings(c.Do("SMEMBERS", k))
		if err == redis.ErrNil {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("SMEMBERS %s: %s", k, err)
		}
		for _, m := range result {
			id, rec, err := deserializePeer(m)
			if err != nil {
				log.Errorf("Error deserializing peer %q: %s", m, err)
				continue
			}
			if cur, ok := selected[id]; !ok || rec.left < cur.left || rec.completed {
				selected[id] = rec
			}
		}
	}
	return selected, nil
}

// GetPeers returns at most n PeerInfos associated with h, excluding
// excluded.
func (s *RedisStore) GetPeers(h core.InfoHash, excluded core.PeerID, n int) ([]*core.PeerInfo, error) {
	c := s.pool.Get()
	defer c.Close()

	// Sample windows in randomized order so repeated calls don't always
	// favor the same subset of peers once we exceed n distinct IDs.
	windows := s.peerSetWindows()
	randutil.ShuffleInt64s(windows)

	selected := make(map[peerIdentity]peerRecord)
	for i := 0; len(selected) < n && i < len(windows); i++ {
		k := peerSetKey(h, windows[i])
		result, err := redis.Strings(c.Do("SRANDMEMBER", k, n-len(selected)))
		if err == redis.ErrNil {
			continue
		} else if err != nil {
			return nil, err
		}
		for _, m := range result {
			id, rec, err := deserializePeer(m)
			if err != nil {
				log.Errorf("Error deserializing peer %q: %s", m, err)
				continue
			}
			if id.peerID == excluded {
				continue
			}
			if cur, ok := selected[id]; !ok || rec.left < cur.left {
				selected[id] = rec
			}
		}
	}

	var peers []*core.PeerInfo
	for id, rec := range selected {
		p := core.NewPeerInfo(rec.infoHash, id.peerID, id.ip, id.port, rec.uploaded, rec.downloaded, rec.left, rec.event)
		p.Origin = rec.origin
		p.Completed = rec.completed
		peers = append(peers, p)
	}
	return peers, nil
}

// GetPeerStats implements Store.
func (s *RedisStore) GetPeerStats(h core.InfoHash) (complete, incomplete int64, err error) {
	c := s.pool.Get()
	defer c.Close()

	selected, err := s.scanWindows(c, h)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range selected {
		if rec.left == 0 || rec.completed {
			complete++
		} else {
			incomplete++
		}
	}
	return complete, incomplete, nil
}

// GetDownloads implements Store.
func (s *RedisStore) GetDownloads(h core.InfoHash) (int64, error) {
	c := s.pool.Get()
	defer c.Close()

	count, err := redis.Int64(c.Do("SCARD", downloadsKey(h)))
	if err == redis.ErrNil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("SCARD downloads: %s", err)
	}
	return count, nil
}
