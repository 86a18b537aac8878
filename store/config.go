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
	"fmt"

	"github.com/arkadia-labs/trackerd/log"
)

// Config defines Storage configuration.
//
// NOTE: By default, the LocalStorage implementation is used. MySQL
// configuration is ignored unless MySQLConfig.Enabled is true.
type Config struct {
	MySQL MySQLConfig `yaml:"mysql"`
}

// MySQLConfig defines MySQLDataStore configuration.
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
}

func (c *MySQLConfig) applyDefaults() {
	if c.User == "" {
		c.User = "root"
	}
	if c.Addr == "" {
		c.Addr = "localhost:3306"
	}
	if c.Database == "" {
		c.Database = "trackerd"
	}
}

// DSN renders c in go-sql-driver connection string form.
func (c MySQLConfig) DSN() string {
	c.applyDefaults()
	cred := c.User
	if c.Password != "" {
		cred += ":" + c.Password
	}
	return fmt.Sprintf("%s@tcp(%s)/%s", cred, c.Addr, c.Database)
}

// New creates a new Storage implementation based on config.
func New(config Config) (Storage, error) {
	if config.MySQL.Enabled {
		log.Info("MySQL torrent store enabled")
		s, err := NewMySQLDataStore(config.MySQL.DSN())
		if err != nil {
			return nil, fmt.Errorf("new mysql store: %s", err)
		}
		return s, nil
	}
	log.Info("Defaulting to local torrent store")
	return NewLocalStorage(), nil
}
