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
package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkadia-labs/trackerd/utils/randutil"
)

func TestNewPeerIDErrors(t *testing.T) {
	tests := []struct {
		desc  string
		input string
	}{
		{"empty", ""},
		{"invalid hex", "invalid"},
		{"too short", "beef"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := NewPeerID(test.input)
			require.Error(t, err)
		})
	}
}

func TestNewPeerIDFromRawBytes(t *testing.T) {
	require := require.New(t)

	raw := randutil.Text(20)
	p, err := NewPeerIDFromRawBytes(raw)
	require.NoError(err)

	// The hex form must round-trip back to the same id.
	parsed, err := NewPeerID(p.String())
	require.NoError(err)
	require.Equal(p, parsed)
}

func TestNewPeerIDFromRawBytesRejectsWrongLength(t *testing.T) {
	for _, n := range []uint64{0, 19, 21} {
		_, err := NewPeerIDFromRawBytes(randutil.Text(n))
		require.Equal(t, ErrInvalidPeerIDLength, err)
	}
}

func TestPeerIDCompare(t *testing.T) {
	require := require.New(t)

	peer1 := PeerIDFixture()
	peer2 := PeerIDFixture()
	if peer1.String() < peer2.String() {
		require.True(peer1.LessThan(peer2))
	} else if peer1.String() > peer2.String() {
		require.True(peer2.LessThan(peer1))
	}
}
