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
package store

import (
	"database/sql"
	"fmt"

	// Registers the mysql driver with database/sql.
	_ "github.com/go-sql-driver/mysql"
)

// MySQLDataStore is a Storage implementation backed by MySQL.
type MySQLDataStore struct {
	dsn string
	db  *sql.DB
}

// NewMySQLDataStore opens a MySQLDataStore against the given DSN.
func NewMySQLDataStore(dsn string) (*MySQLDataStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %s", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %s", err)
	}
	return &MySQLDataStore{dsn: dsn, db: db}, nil
}

// Close closes the underlying database connection.
func (s *MySQLDataStore) Close() error {
	return s.db.Close()
}

// ResetAfterFork drops and re-establishes the connection pool. Implements
// ForkResetter.
func (s *MySQLDataStore) ResetAfterFork() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close mysql: %s", err)
	}
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return fmt.Errorf("reopen mysql: %s", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping mysql: %s", err)
	}
	s.db = db
	return nil
}

// SaveTorrent implements Storage.
func (s *MySQLDataStore) SaveTorrent(t *TorrentInfo) error {
	announceList, err := marshalBlob(t.AnnounceList)
	if err != nil {
		return fmt.Errorf("marshal announce_list: %s", err)
	}
	nodes, err := marshalBlob(t.Nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %s", err)
	}
	urlList, err := marshalBlob(t.URLList)
	if err != nil {
		return fmt.Errorf("marshal url_list: %s", err)
	}
	status := t.Status
	if status == "" {
		status = StatusActive
	}

	_, err = s.withRetry(func() (sql.Result, error) {
		return s.db.Exec(
			`insert into torrents
				(info_hash, length, pieces_length, pieces, name, path, private,
				 announce_list, nodes, url_list, created_by, status)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			on duplicate key update
				length = ?, pieces_length = ?, pieces = ?, name = ?, path = ?, private = ?,
				announce_list = ?, nodes = ?, url_list = ?, created_by = ?, status = ?`,
			t.InfoHash, t.Length, t.PieceLength, t.Pieces, t.Name, t.Path, t.Private,
			announceList, nodes, urlList, t.CreatedBy, status,
			t.Length, t.PieceLength, t.Pieces, t.Name, t.Path, t.Private,
			announceList, nodes, urlList, t.CreatedBy, status)
	})
	if err != nil {
		return fmt.Errorf("save torrent: %s", err)
	}
	return nil
}

// GetTorrent implements Storage.
func (s *MySQLDataStore) GetTorrent(infoHash string) (*TorrentInfo, error) {
	var (
		t                            TorrentInfo
		announceList, nodes, urlList []byte
	)
	row, err := s.withRetryRow(func() *sql.Row {
		return s.db.QueryRow(
			`select info_hash, length, pieces_length, pieces, name, path, private,
				announce_list, nodes, url_list, created_by, status
			from torrents where info_hash = ?`, infoHash)
	})
	if err != nil {
		return nil, fmt.Errorf("get torrent: %s", err)
	}
	err = row.Scan(
		&t.InfoHash, &t.Length, &t.PieceLength, &t.Pieces, &t.Name, &t.Path, &t.Private,
		&announceList, &nodes, &urlList, &t.CreatedBy, &t.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get torrent: %s", err)
	}
	if err := unmarshalBlob(announceList, &t.AnnounceList); err != nil {
		return nil, fmt.Errorf("unmarshal announce_list: %s", err)
	}
	if err := unmarshalBlob(nodes, &t.Nodes); err != nil {
		return nil, fmt.Errorf("unmarshal nodes: %s", err)
	}
	if err := unmarshalBlob(urlList, &t.URLList); err != nil {
		return nil, fmt.Errorf("unmarshal url_list: %s", err)
	}
	return &t, nil
}

// HasTorrent implements Storage.
func (s *MySQLDataStore) HasTorrent(infoHash string) (bool, error) {
	var count int
	row, err := s.withRetryRow(func() *sql.Row {
		return s.db.QueryRow(
			`select count(*) from torrents where info_hash = ? and status = ?`,
			infoHash, StatusActive)
	})
	if err != nil {
		return false, fmt.Errorf("has torrent: %s", err)
	}
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("has torrent: %s", err)
	}
	return count > 0, nil
}

// ListTorrents implements Storage.
func (s *MySQLDataStore) ListTorrents() ([]TorrentSummary, error) {
	const q = `select info_hash, length from torrents where status = ?`
	rows, err := s.db.Query(q, StatusActive)
	if isConnLost(err) && s.ResetAfterFork() == nil {
		rows, err = s.db.Query(q, StatusActive)
	}
	if err != nil {
		return nil, fmt.Errorf("list torrents: %s", err)
	}
	defer rows.Close()

	var summaries []TorrentSummary
	for rows.Next() {
		var sm TorrentSummary
		if err := rows.Scan(&sm.InfoHash, &sm.Length); err != nil {
			return nil, fmt.Errorf("scan torrent: %s", err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// withRetry recovers from a single transient "connection lost" failure by
// reconnecting and retrying the query once; a second failure propagates.
func (s *MySQLDataStore) withRetry(f func() (sql.Result, error)) (sql.Result, error) {
	res, err := f()
	if err == nil || !isConnLost(err) {
		return res, err
	}
	if rerr := s.ResetAfterFork(); rerr != nil {
		return nil, err
	}
	return f()
}

func (s *MySQLDataStore) withRetryRow(f func() *sql.Row) (*sql.Row, error) {
	row := f()
	// sql.Row defers error surfacing to Scan, so the query error cannot be
	// inspected here. Instead the connection is pinged after the query; if
	// the ping fails, the pool is re-established and the query re-issued
	// once. No retry happens at Scan time.
	if s.db.Ping() != nil {
		if err := s.ResetAfterFork(); err != nil {
			return row, nil
		}
		row = f()
	}
	return row, nil
}

func isConnLost(err error) bool {
	if err == nil {
		return false
	}
	return err == sql.ErrConnDone || err.Error() == "driver: bad connection"
}
