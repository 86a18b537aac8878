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
package metainfogen

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/torrent"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	require := require.New(t)

	f, err := ioutil.TempFile("", "generator_test")
	require.NoError(err)
	defer os.Remove(f.Name())
	_, err = f.Write(make([]byte, 100))
	require.NoError(err)
	require.NoError(f.Close())

	pieceLength := 10

	st := store.NewTestStorage()
	announce := torrent.NewFlatAnnounceList("http://tracker.example/announce")

	generator, err := New(Config{
		PieceLengths: map[datasize.ByteSize]datasize.ByteSize{
			0: datasize.ByteSize(pieceLength),
		},
	}, announce, st)
	require.NoError(err)

	mi, err := generator.Generate(f.Name())
	require.NoError(err)
	require.EqualValues(100, mi.Info.Length)
	require.EqualValues(pieceLength, mi.Info.PieceLength)
	require.Len(mi.Info.Pieces, 20*10)

	has, err := st.HasTorrent(mi.InfoHash.Hex())
	require.NoError(err)
	require.True(has)
}

func TestGeneratorFixture(t *testing.T) {
	require := require.New(t)

	f, err := ioutil.TempFile("", "generator_test")
	require.NoError(err)
	defer os.Remove(f.Name())
	_, err = f.Write(make([]byte, 25))
	require.NoError(err)
	require.NoError(f.Close())

	st := store.NewTestStorage()
	g := Fixture(torrent.NewFlatAnnounceList("http://tracker.example/announce"), st, 10)

	_, err = g.Generate(f.Name())
	require.NoError(err)
}
