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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkadia-labs/trackerd/lib/metainfogen"
	"github.com/arkadia-labs/trackerd/log"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/torrent"
	"github.com/arkadia-labs/trackerd/utils/errutil"
)

var publishCmd = &cobra.Command{
	Use:   "publish FILE [FILE...]",
	Short: "Register files with the tracker and write their .torrent blobs alongside them.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publish(args)
	},
}

func publish(paths []string) {
	cfg := loadConfig()
	if err := log.Configure(debug || cfg.Debug); err != nil {
		panic(err)
	}

	st, err := store.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Could not create torrent store: %s", err)
	}

	announce := cfg.AnnounceList
	if len(announce) == 0 {
		announce = torrent.NewFlatAnnounceList(
			fmt.Sprintf("http://localhost:%d/announce", cfg.Port))
	}

	g, err := metainfogen.New(cfg.MetaInfoGen, announce, st)
	if err != nil {
		log.Fatalf("Could not create metainfo generator: %s", err)
	}

	var errs []error
	for _, path := range paths {
		mi, err := g.Generate(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s", path, err))
			continue
		}
		blob, err := mi.Serialize()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: serialize: %s", path, err))
			continue
		}
		out := path + ".torrent"
		if err := os.WriteFile(out, blob, 0644); err != nil {
			errs = append(errs, fmt.Errorf("%s: write torrent: %s", path, err))
			continue
		}
		log.Infof("Registered %s as %s", path, mi.InfoHash.Hex())
	}
	if err := errutil.Join(errs); err != nil {
		log.Fatalf("Publish failed: %s", err)
	}
}
