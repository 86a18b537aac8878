package metainfogen

import (
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/torrent"

	"github.com/c2h5oh/datasize"
)

// Fixture returns a Generator which creates all metainfo with pieceLength,
// for testing purposes.
func Fixture(announce torrent.AnnounceList, storage store.Storage, pieceLength int) *Generator {
	g, err := New(Config{
		PieceLengths: map[datasize.ByteSize]datasize.ByteSize{0: datasize.ByteSize(pieceLength)},
	}, announce, storage)
	if err != nil {
		panic(err)
	}
	return g
}
