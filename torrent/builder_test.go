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
package torrent

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, content []byte, pieceSize int64, opts ...BuilderOption) *Builder {
	t.Helper()
	path := writeTempFile(t, content)
	t.Cleanup(func() { os.Remove(path) })

	slicer, err := NewFileSlicer(path)
	require.NoError(t, err)

	b, err := NewBuilder(slicer, pieceSize, opts...)
	require.NoError(t, err)
	return b
}

func TestNewBuilderRejectsNonPositivePieceSize(t *testing.T) {
	path := writeTempFile(t, []byte("x"))
	defer os.Remove(path)
	slicer, err := NewFileSlicer(path)
	require.NoError(t, err)

	_, err = NewBuilder(slicer, 0)
	require.Equal(t, ErrInvalidPieceSize, err)

	_, err = NewBuilder(slicer, -1)
	require.Equal(t, ErrInvalidPieceSize, err)
}

func TestBuilderInfoHashIsDeterministic(t *testing.T) {
	content := []byte("the quick brown fox jumps over the lazy dog")

	b1 := newTestBuilder(t, content, 8)
	h1, err := b1.InfoHash()
	require.NoError(t, err)

	b2 := newTestBuilder(t, content, 8, WithName(b1.Name()))
	h2, err := b2.InfoHash()
	require.NoError(t, err)

	require.Equal(t, h1, h2)
}

func TestBuilderInfoHashIgnoresPrivateWhenUnset(t *testing.T) {
	content := []byte("payload")

	plain := newTestBuilder(t, content, 4)
	plainHash, err := plain.InfoHash()
	require.NoError(t, err)

	private := newTestBuilder(t, content, 4, WithName(plain.Name()), WithPrivate(false))
	privateHash, err := private.InfoHash()
	require.NoError(t, err)

	require.Equal(t, plainHash, privateHash)
}

func TestBuilderBuildMergesAnnounceLists(t *testing.T) {
	content := []byte("torrent payload data")
	b := newTestBuilder(t, content, 8, WithAnnounceList(AnnounceList{
		{"http://internal.example/announce"},
	}))

	trackers := NewFlatAnnounceList(
		"http://internal.example/announce", // duplicate, dropped
		"http://caller.example/announce",
	)

	mi, err := b.Build(trackers)
	require.NoError(t, err)
	require.Equal(t, "http://internal.example/announce", mi.Announce)
	require.Equal(t, AnnounceList{
		{"http://internal.example/announce"},
		{"http://caller.example/announce"},
	}, mi.AnnounceList)
}

func TestBuilderBuildFailsWithNoAnnounceURL(t *testing.T) {
	b := newTestBuilder(t, []byte("data"), 4)
	_, err := b.Build(nil)
	require.Error(t, err)
}

func TestBuilderReadBlock(t *testing.T) {
	content := []byte("0123456789abcdef") // 16 bytes, piece size 4 -> 4 pieces
	b := newTestBuilder(t, content, 4)

	block, err := b.ReadBlock(2, 1, 2)
	require.NoError(t, err)
	require.Equal(t, []byte("9a"), block)
}

func TestBuilderReadBlockRejectsOversizedBlock(t *testing.T) {
	b := newTestBuilder(t, []byte("0123456789abcdef"), 4)

	_, err := b.ReadBlock(0, 0, 5)
	require.Error(t, err)
}

func TestBuilderReadBlockRejectsPieceIndexOutOfRange(t *testing.T) {
	b := newTestBuilder(t, []byte("0123456789abcdef"), 4)

	_, err := b.ReadBlock(4, 0, 4)
	require.Error(t, err)
}
