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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMySQLConfigDSNDefaults(t *testing.T) {
	require.Equal(t, "root@tcp(localhost:3306)/trackerd", MySQLConfig{}.DSN())
}

func TestMySQLConfigDSNWithCredentials(t *testing.T) {
	c := MySQLConfig{
		User:     "tracker",
		Password: "hunter2",
		Addr:     "db.internal:3306",
		Database: "torrents",
	}
	require.Equal(t, "tracker:hunter2@tcp(db.internal:3306)/torrents", c.DSN())
}

func TestNewDefaultsToLocalStorage(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	require.IsType(t, &LocalStorage{}, s)
}
